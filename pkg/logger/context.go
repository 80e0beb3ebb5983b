package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

var loggerContextKey contextKey

// WithFields stores a child logger carrying the given fields in the context.
// Downstream callers retrieve it with FromContext and inherit the fields.
func WithFields(ctx context.Context, fields ...any) context.Context {
	child := FromContext(ctx).With(fields...)
	return context.WithValue(ctx, loggerContextKey, child)
}

// FromContext returns the request-scoped logger, falling back to the
// process-wide one when the context carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
