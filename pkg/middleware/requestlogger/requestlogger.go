// Package requestlogger logs one record per served request.
package requestlogger

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/ictalent/talent-network/pkg/errorhandler"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/middleware/requestcontext"
)

type Config struct {
	// Disable drops records of successful requests, failed requests are still logged.
	Disable bool `mapstructure:"disable"`

	WithRequestHeader bool `mapstructure:"request_header"`

	// HiddenRequestHeaders are never logged, e.g. Authorization.
	HiddenRequestHeaders []string `mapstructure:"hidden_request_headers"`
}

// New returns the request logger. It must run inside requestcontext so the record carries the
// request id and the caller. Errors returned by next handlers are passed through unchanged.
func New(config Config) fiber.Handler {
	hidden := make(map[string]struct{}, len(config.HiddenRequestHeaders))
	for _, header := range config.HiddenRequestHeaders {
		hidden[strings.ToLower(strings.TrimSpace(header))] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			status = errorhandler.StatusOf(err)
			if e := new(fiber.Error); errors.As(err, &e) {
				status = e.Code
			}
		}

		level := levelOf(status)
		if config.Disable && level == slog.LevelInfo {
			return err //nolint:wrapcheck
		}

		request := []slog.Attr{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("route", c.Route().Path),
			slog.String("ip", c.IP()),
			slog.String("caller", requestcontext.GetCaller(c.UserContext()).String()),
			slog.String("user_agent", string(c.Context().UserAgent())),
			slog.Int("length", len(c.Body())),
		}
		if q := c.Request().URI().QueryString(); len(q) > 0 {
			request = append(request, slog.String("query", string(q)))
		}
		if config.WithRequestHeader {
			headers := make([]any, 0)
			for k, v := range c.GetReqHeaders() {
				if _, ok := hidden[strings.ToLower(k)]; !ok {
					headers = append(headers, slog.Any(k, v))
				}
			}
			request = append(request, slog.Group("header", headers...))
		}

		attrs := []slog.Attr{
			slog.String("event", "api_request"),
			slog.Duration("latency", latency),
			{Key: "request", Value: slog.GroupValue(request...)},
			{Key: "response", Value: slog.GroupValue(
				slog.Int("status", status),
				slog.Int("length", len(c.Response().Body())),
			)},
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
		}
		logger.LogAttrs(c.UserContext(), level, "Request completed", attrs...)
		return err //nolint:wrapcheck
	}
}

func levelOf(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
