// Package logger is the process wide structured logger. It wraps log/slog with a context carried
// logger and adds the kind, verbose form and stack trace of logged errors in debug mode.
//
// nolint: sloglint
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Levels above slog.LevelError.
const (
	LevelCritical = slog.Level(12)
	LevelPanic    = slog.Level(14)
	LevelFatal    = slog.Level(16)
)

var (
	// minimum reporting level for the logger
	lvl = new(slog.LevelVar)

	// top-level logger
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: replaceLevel,
	}))
)

func init() {
	lvl.Set(slog.LevelDebug)
	slog.SetDefault(logger)
}

// Config is the logger configuration.
type Config struct {
	// Output is the logger output format, "text" (default) or "json".
	Output string `mapstructure:"output"`

	// Level is the minimum reporting level: debug, info (default), warn or error.
	Level string `mapstructure:"level"`

	// Debug forces level debug, adds the log call site and expands logged errors. (default: false)
	Debug bool `mapstructure:"debug"`
}

// ParseLevel parses a level name such as "info" or "warn+2".
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, errors.Wrapf(err, "invalid log level %q", s)
	}
	return level, nil
}

// Init replaces the global logger and the slog default logger.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return errors.WithStack(err)
	}

	options := &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: replaceLevel,
	}
	middlewares := []middleware{middlewareErrorKind()}
	if cfg.Debug {
		level = slog.LevelDebug
		options.AddSource = true
		middlewares = append(middlewares, middlewareErrorVerbose())
	}
	lvl.Set(level)

	var handler slog.Handler
	switch strings.ToLower(cfg.Output) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, options)
	case "", "text":
		handler = slog.NewTextHandler(os.Stdout, options)
	default:
		return errors.Newf("unsupported log output %q", cfg.Output)
	}

	logger = slog.New(newChainHandler(handler, middlewares...))
	slog.SetDefault(logger)
	return nil
}

// SetLevel sets the minimum reporting level and returns the previous one.
func SetLevel(level slog.Level) (old slog.Level) {
	old = lvl.Level()
	lvl.Set(level)
	return old
}

// With returns a Logger that includes the given attributes in each output operation.
func With(args ...any) *slog.Logger {
	return logger.With(args...)
}

func Debug(msg string, args ...any) {
	log(context.Background(), logger, slog.LevelDebug, msg, args...)
}

func Info(msg string, args ...any) {
	log(context.Background(), logger, slog.LevelInfo, msg, args...)
}

func Warn(msg string, args ...any) {
	log(context.Background(), logger, slog.LevelWarn, msg, args...)
}

func Error(msg string, args ...any) {
	log(context.Background(), logger, slog.LevelError, msg, args...)
}

// Panic logs at [LevelPanic] and then panics.
func Panic(msg string, args ...any) {
	log(context.Background(), logger, LevelPanic, msg, args...)
	panic(msg)
}

// LogAttrs logs attrs with the logger of ctx.
func LogAttrs(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	l := FromContext(ctx)
	if !l.Enabled(ctx, level) {
		return
	}
	r := slog.NewRecord(time.Now(), level, msg, callerPC())
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}

// log must be called directly by an exported logging function, callerPC depends on the call depth.
func log(ctx context.Context, l *slog.Logger, level slog.Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.Enabled(ctx, level) {
		return
	}
	r := slog.NewRecord(time.Now(), level, msg, callerPC())
	r.Add(args...)
	_ = l.Handler().Handle(ctx, r)
}

// callerPC returns the pc of the caller of the exported logging function.
func callerPC() uintptr {
	var pcs [1]uintptr
	// skip [runtime.Callers, callerPC, log, exported function]
	runtime.Callers(4, pcs[:])
	return pcs[0]
}

func replaceLevel(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 || attr.Key != slog.LevelKey {
		return attr
	}
	l, ok := attr.Value.Any().(slog.Level)
	if !ok || l < LevelCritical {
		return attr
	}

	name, base := "FATAL", LevelFatal
	switch {
	case l < LevelPanic:
		name, base = "CRITICAL", LevelCritical
	case l < LevelFatal:
		name, base = "PANIC", LevelPanic
	}
	if l != base {
		name = fmt.Sprintf("%s%+d", name, l-base)
	}
	return slog.String(attr.Key, name)
}
