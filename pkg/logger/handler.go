package logger

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors/errbase"
	"github.com/ictalent/talent-network/common/errs"
	"github.com/ictalent/talent-network/pkg/logger/slogx"
)

// Keys of attributes added to logged errors.
const (
	ErrorKey           = slogx.ErrorKey
	ErrorKindKey       = "error_kind"
	ErrorVerboseKey    = "error_verbose"
	ErrorStackTraceKey = "error_stacktrace"
)

type (
	handleFunc func(context.Context, slog.Record) error
	middleware func(handleFunc) handleFunc
)

// chainHandler runs every record through middlewares before the wrapped handler.
type chainHandler struct {
	slog.Handler
	middlewares []middleware
}

func newChainHandler(handler slog.Handler, middlewares ...middleware) *chainHandler {
	return &chainHandler{Handler: handler, middlewares: middlewares}
}

func (c *chainHandler) Handle(ctx context.Context, rec slog.Record) error {
	h := c.Handler.Handle
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		h = c.middlewares[i](h)
	}
	return h(ctx, rec)
}

func (c *chainHandler) WithGroup(group string) slog.Handler {
	return &chainHandler{Handler: c.Handler.WithGroup(group), middlewares: c.middlewares}
}

func (c *chainHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &chainHandler{Handler: c.Handler.WithAttrs(attrs), middlewares: c.middlewares}
}

// recordError returns the first error attribute of rec.
func recordError(rec slog.Record) (err error) {
	rec.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrorKey && attr.Key != "err" {
			return true
		}
		if e, ok := attr.Value.Any().(error); ok && e != nil {
			err = e
			return false
		}
		return true
	})
	return err
}

// middlewareErrorKind adds the kind of logged errors.
func middlewareErrorKind() middleware {
	return func(next handleFunc) handleFunc {
		return func(ctx context.Context, rec slog.Record) error {
			if err := recordError(rec); err != nil {
				rec.AddAttrs(slog.String(ErrorKindKey, errs.KindOf(err).Error()))
			}
			return next(ctx, rec)
		}
	}
}

// middlewareErrorVerbose adds the verbose form and the stack trace of logged errors.
func middlewareErrorVerbose() middleware {
	return func(next handleFunc) handleFunc {
		return func(ctx context.Context, rec slog.Record) error {
			if err := recordError(rec); err != nil {
				rec.AddAttrs(slog.String(ErrorVerboseKey, fmt.Sprintf("%+v", err)))
				if x, ok := err.(errbase.StackTraceProvider); ok {
					rec.AddAttrs(slog.Any(ErrorStackTraceKey, traceLines(x.StackTrace())))
				}
			}
			return next(ctx, rec)
		}
	}
}

// traceLines formats frames from the outermost call, dropping leading runtime frames.
func traceLines(frames errbase.StackTrace) []string {
	lines := make([]string, 0, len(frames))
	skipping := true
	for i := len(frames) - 1; i >= 0; i-- {
		pc := uintptr(frames[i]) - 1
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			lines = append(lines, "unknown")
			skipping = false
			continue
		}
		name := fn.Name()
		if skipping && strings.HasPrefix(name, "runtime.") {
			continue
		}
		skipping = false
		file, line := fn.FileLine(pc)
		lines = append(lines, fmt.Sprintf("%s %s:%d", name, file, line))
	}
	return lines
}
