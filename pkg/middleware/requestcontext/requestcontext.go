// Package requestcontext copies per request values (request id, caller identity) from the fiber
// context into the request's context.Context and its logger.
package requestcontext

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/ictalent/talent-network/pkg/logger"
)

// Option derives the request context from c. An [*Error] rejects the request with its status.
type Option func(ctx context.Context, c *fiber.Ctx) (context.Context, error)

// Error rejects a request while building its context.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New applies opts in order before the next handler.
func New(opts ...Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		for i, opt := range opts {
			next, err := opt(ctx, c)
			if err == nil {
				ctx = next
				continue
			}
			if rejected := new(Error); errors.As(err, &rejected) {
				return errors.WithStack(c.Status(rejected.Status).JSON(fiber.Map{"error": rejected.Message}))
			}
			logger.ErrorContext(ctx, "Can't build request context", err,
				slog.String("event", "requestcontext/error"),
				slog.Int("option", i),
			)
			return errors.WithStack(c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"}))
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}
