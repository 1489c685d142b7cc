package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

// Keys shared between context.Context values and gin context keys
const (
	LoggerKey    contextKey = "logger"
	RequestIDKey contextKey = "request_id"
	RunIDKey     contextKey = "run_id"
)

func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext returns the logger stored by WithContext, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores requestID on ctx and returns a logger tagged with it.
// An empty requestID leaves the logger untagged.
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return tag(ctx, logger, RequestIDKey, requestID)
}

// WithRunID does the same for the ID of a sync run, so every line a run
// logs, SQL included, can be correlated.
func WithRunID(ctx context.Context, logger *zap.Logger, runID string) (context.Context, *zap.Logger) {
	return tag(ctx, logger, RunIDKey, runID)
}

func tag(ctx context.Context, logger *zap.Logger, key contextKey, value string) (context.Context, *zap.Logger) {
	if value == "" {
		return WithContext(ctx, logger), logger
	}
	ctx = context.WithValue(ctx, key, value)
	logger = logger.With(zap.String(string(key), value))
	return WithContext(ctx, logger), logger
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func GetRunID(ctx context.Context) string {
	id, _ := ctx.Value(RunIDKey).(string)
	return id
}

// correlationFields returns the request_id and run_id found on ctx
func correlationFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	var fields []zap.Field
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String(string(RequestIDKey), id))
	}
	if id := GetRunID(ctx); id != "" {
		fields = append(fields, zap.String(string(RunIDKey), id))
	}
	return fields
}

// WithTraceContext tags logger with the trace and span IDs of the span on
// ctx. Without a valid span the logger is returned unchanged.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
