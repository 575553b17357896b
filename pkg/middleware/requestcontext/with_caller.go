package requestcontext

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/ictalent/talent-network/common"
	"github.com/ictalent/talent-network/pkg/logger"
)

// CallerHeader carries the base58 identity of the authenticated caller.
// It is set by the gateway in front of the service after it verified the caller.
const CallerHeader = "X-Caller-Identity"

type callerKey struct{}

// WithCaller resolves the caller identity from CallerHeader.
// A request without the header is served as the anonymous identity, a malformed header is rejected with 400.
func WithCaller() Option {
	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		raw := c.Get(CallerHeader)
		if raw == "" {
			return WithCallerContext(ctx, common.AnonymousIdentity), nil
		}

		caller, err := common.ParseIdentity(raw)
		if err != nil {
			logger.WarnContext(ctx, "Malformed caller identity",
				slog.String("event", "requestcontext/malformed_caller"),
				slog.String("module", "requestcontext/with_caller"),
				slog.String("caller", raw),
			)
			return nil, &Error{
				Status:  fiber.StatusBadRequest,
				Message: "malformed caller identity",
				Err:     err,
			}
		}

		ctx = WithCallerContext(ctx, caller)
		ctx = logger.WithContext(ctx, "caller", caller.String())
		return ctx, nil
	}
}

// WithCallerContext stores caller in ctx.
func WithCallerContext(ctx context.Context, caller common.Identity) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// GetCaller get caller identity from context. If not found, return the anonymous identity.
//
// Warning: Request context should be setup before using this function
func GetCaller(ctx context.Context) common.Identity {
	if caller, ok := ctx.Value(callerKey{}).(common.Identity); ok {
		return caller
	}
	return common.AnonymousIdentity
}
