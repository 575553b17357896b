package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/ictalent/talent-network/internal/config"
	"github.com/ictalent/talent-network/modules/tokenfactory"
	"github.com/ictalent/talent-network/pkg/automaxprocs"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/logger/slogx"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func NewRunCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the talent-network HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			undo, err := automaxprocs.Init()
			if err != nil {
				logger.Warn("Can't set GOMAXPROCS", slogx.Error(err))
			}
			defer undo()
			return runHandler(cmd.Context(), config.Load())
		},
	}

	flags := runCmd.Flags()
	flags.Int("port", 8080, "HTTP server port")
	config.BindPFlag("http_server.port", flags.Lookup("port"))

	return runCmd
}

func runHandler(parent context.Context, conf config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	injector := do.New()
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)
	do.ProvideValue(injector, newHTTPServer(conf.HTTPServer))
	do.Provide(injector, tokenfactory.New)

	if _, err := do.Invoke[*tokenfactory.TokenFactory](injector); err != nil {
		_ = injector.Shutdown()
		return errors.Wrap(err, "can't init tokenfactory module")
	}
	app := do.MustInvoke[*fiber.App](injector)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", conf.HTTPServer.Port))
		return errors.Wrap(app.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port)), "http server stopped")
	})
	group.Go(func() error {
		<-gctx.Done()
		logger.InfoContext(ctx, "Shutting down")
		go forceExitOnSecondSignal()
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.ErrorContext(ctx, "Can't shut down HTTP server gracefully", err)
		}
		if report := injector.Shutdown(); report != nil {
			logger.ErrorContext(ctx, "Can't shut down services gracefully", report)
		}
		return nil
	})

	err := group.Wait()
	if ctx.Err() != nil {
		// interrupted, Listen returned because of the shutdown
		return nil
	}
	return err //nolint:wrapcheck
}

func forceExitOnSecondSignal() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		logger.FatalContext(ctx, "Received exit signal again, force shutdown")
	case <-time.After(shutdownTimeout + 15*time.Second):
		logger.FatalContext(ctx, "Shutdown timeout exceeded, force shutdown")
	}
}
