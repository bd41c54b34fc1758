// Package logger wraps log/slog with request-scoped fields.
package logger

import (
	"context"
	"log/slog"
	"os"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
)

var base = slog.Default()

// Init installs the process logger. Development uses a text handler at debug level,
// everything else emits JSON at info level.
func Init(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	base = slog.New(handler)
	slog.SetDefault(base)
	return base
}

// L returns the process logger.
func L() *slog.Logger {
	return base
}

// With returns a logger carrying extra fields.
func With(args ...any) *slog.Logger {
	return base.With(args...)
}

// WithRequestID stores a request ID in ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithUserID stores the authenticated user ID in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequestID extracts the request ID from ctx.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// FromContext returns the process logger annotated with request_id and user_id when present.
func FromContext(ctx context.Context) *slog.Logger {
	l := base
	if ctx == nil {
		return l
	}
	var fields []any
	if v := RequestID(ctx); v != "" {
		fields = append(fields, "request_id", v)
	}
	if v, ok := ctx.Value(userIDKey).(string); ok && v != "" {
		fields = append(fields, "user_id", v)
	}
	if len(fields) > 0 {
		l = l.With(fields...)
	}
	return l
}
