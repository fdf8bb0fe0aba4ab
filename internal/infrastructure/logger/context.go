package logger

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

func ContextWithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return L()
	}
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return L()
}

// WithOperation tags every record logged from ctx with the operation name
// and a short id that is unique per call.
func WithOperation(ctx context.Context, operation string) context.Context {
	logger := FromContext(ctx).With(
		"operation", operation,
		"op_id", shortID(),
	)
	return ContextWithLogger(ctx, logger)
}

func WithExecutionID(ctx context.Context, executionID string) context.Context {
	return ContextWithLogger(ctx, FromContext(ctx).With("execution_id", executionID))
}

func WithStage(ctx context.Context, stage, environment string) context.Context {
	return ContextWithLogger(ctx, FromContext(ctx).With("stage", stage, "environment", environment))
}

func shortID() string {
	return uuid.NewString()[:8]
}
