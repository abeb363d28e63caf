// Package logger wraps zerolog with the constructors and context helpers
// used across the service.
package logger

import (
	"context"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Logger embeds zerolog.Logger so the full zerolog API is available.
type Logger struct {
	zerolog.Logger
}

// NewLogger builds the process logger. level is a zerolog level name;
// unknown names fall back to info. pretty switches to console output.
func NewLogger(role, level string, pretty bool) *Logger {
	return newLogger(os.Stdout, role, level, pretty)
}

func newLogger(w io.Writer, role, level string, pretty bool) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	out := w
	if pretty {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	l := zerolog.New(out).Level(lvl).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{l}
}

// Nop discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// Component returns a child logger tagged with the component name,
// e.g. "password-reset" or "sms".
func (l *Logger) Component(name string) *Logger {
	return &Logger{l.With().Str("component", name).Logger()}
}

// FromContext returns the logger attached to ctx by the request middleware.
// When nothing is attached, fallback is returned (or a no-op logger when
// fallback is nil).
func FromContext(ctx context.Context, fallback *Logger) *Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return &Logger{*l}
	}
	if fallback != nil {
		return fallback
	}
	return Nop()
}

// Scoped is FromContext for services: the request logger gets the
// component field, the fallback is expected to carry it already.
func Scoped(ctx context.Context, fallback *Logger, component string) *Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return (&Logger{*l}).Component(component)
	}
	if fallback != nil {
		return fallback
	}
	return Nop()
}
