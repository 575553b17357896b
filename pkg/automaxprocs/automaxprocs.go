// Package automaxprocs sets GOMAXPROCS from the container CPU quota and logs the change.
package automaxprocs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/logger/slogx"
	"go.uber.org/automaxprocs/maxprocs"
)

// initialMaxProcs is GOMAXPROCS at process start.
var initialMaxProcs = Current()

// Init sets GOMAXPROCS to the CPU quota of the Linux container, if any.
// A GOMAXPROCS environment variable takes precedence. It returns a function restoring the previous value.
func Init() (undo func(), err error) {
	log := logger.With(
		slogx.String("package", "automaxprocs"),
		slogx.String("event", "set_gomaxprocs"),
		slogx.Int("prev_maxprocs", initialMaxProcs),
	)

	printf := func(format string, v ...any) {
		attrs := make([]slog.Attr, 0, 1)
		// maxprocs passes the new value as the only argument, except when undoing.
		if val, ok := utils.Optional(v); ok {
			if _, exists := os.LookupEnv("GOMAXPROCS"); exists {
				val = Current()
			}
			if n, ok := val.(int); ok {
				attrs = append(attrs, slogx.Int("set_maxprocs", n))
			}
		}
		log.LogAttrs(context.Background(), slog.LevelInfo, fmt.Sprintf(format, v...), attrs...)
	}

	undo, err = maxprocs.Set(maxprocs.Logger(printf), maxprocs.Min(1))
	if err != nil {
		return func() {}, errors.WithStack(err)
	}
	return undo, nil
}

// Current returns the current value of GOMAXPROCS.
func Current() int {
	return runtime.GOMAXPROCS(0)
}
