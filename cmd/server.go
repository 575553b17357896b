package cmd

import (
	"log/slog"
	"net/http"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/ictalent/talent-network/internal/config"
	"github.com/ictalent/talent-network/pkg/errorhandler"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/middleware/requestcontext"
	"github.com/ictalent/talent-network/pkg/middleware/requestlogger"
)

// maxBodySize bounds uploaded resource binaries.
const maxBodySize = 64 << 20

// newHTTPServer returns the fiber app with the shared middleware stack. Modules mount their routes on it.
func newHTTPServer(conf config.HTTPServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Talent Network",
		ErrorHandler:          errorhandler.NewHTTPErrorHandler(),
		BodyLimit:             maxBodySize,
		ProxyHeader:           conf.ProxyHeader,
		DisableStartupMessage: true,
	})
	app.Use(
		favicon.New(),
		cors.New(),
		requestid.New(),
		requestcontext.New(
			requestcontext.WithRequestID(),
			requestcontext.WithCaller(),
		),
		requestlogger.New(conf.Logger),
		fiberrecover.New(fiberrecover.Config{
			EnableStackTrace:  true,
			StackTraceHandler: logPanic,
		}),
		compress.New(compress.Config{Level: compress.LevelDefault}),
	)

	app.Get("/", func(c *fiber.Ctx) error {
		return errors.WithStack(c.SendStatus(http.StatusOK))
	})
	return app
}

func logPanic(c *fiber.Ctx, e any) {
	buf := make([]byte, 4096)
	buf = buf[:runtime.Stack(buf, false)]
	logger.ErrorContext(c.UserContext(), "Recovered panic in http handler", errors.Newf("panic: %v", e),
		slog.String("stacktrace", string(buf)),
	)
}
