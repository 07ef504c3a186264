// Package logging provides structured logging for ltexctl.
//
// All components log through a zerolog.Logger carried on the
// context.Context. Commands install a logger at startup via
// WithContext; everything below retrieves it with FromContext, so the
// log level and output configured on the command line apply uniformly
// without plumbing a logger through every constructor.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type contextKey struct{}

// loggerKey is the context key under which the logger is stored.
var loggerKey = contextKey{} //nolint:gochecknoglobals // Context key must be package-global.

// New creates a logger writing human-readable output to w at the given
// level. An unparsable level string falls back to info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(console).Level(lvl).With().Timestamp().Logger()
}

// NewDefault creates a logger writing to stderr at info level.
func NewDefault() zerolog.Logger {
	return New(os.Stderr, zerolog.InfoLevel.String())
}

// WithContext returns a context carrying the given logger.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored on the context, or a disabled
// logger when none was installed. Returning a disabled logger rather
// than nil keeps call sites free of nil checks.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}
