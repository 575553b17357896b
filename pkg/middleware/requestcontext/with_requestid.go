package requestcontext

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/ictalent/talent-network/pkg/logger"
)

type requestIDKey struct{}

// GetRequestID returns the request id of ctx, or "" outside of a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithRequestID reuses the id set by the requestid middleware, or the request header,
// generating one when neither is present.
func WithRequestID() Option {
	header, key := requestid.ConfigDefault.Header, requestid.ConfigDefault.ContextKey
	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		id, _ := c.Locals(key).(string)
		if id == "" {
			id = c.Get(header)
			if id == "" {
				id = fiberutils.UUIDv4()
			}
			c.Set(header, id)
			c.Locals(key, id)
		}
		ctx = context.WithValue(ctx, requestIDKey{}, id)
		return logger.WithContext(ctx, "requestId", id), nil
	}
}
