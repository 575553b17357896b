// Package slogx holds attribute constructors so call sites need not import log/slog next to the logger.
package slogx

import (
	"fmt"
	"log/slog"
)

// ErrorKey is the attribute key of logged errors.
const ErrorKey = "error"

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Uint64(key string, value uint64) slog.Attr { return slog.Uint64(key, value) }

// Error returns the error attribute, or an empty attribute that handlers drop if err is nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(ErrorKey, err)
}

// Stringer formats value lazily, only when the record is handled.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.Any(key, stringerValue{value})
}

type stringerValue struct{ fmt.Stringer }

func (s stringerValue) LogValue() slog.Value { return slog.StringValue(s.String()) }
