package infrastructure

import "context"

type contextKey string

// traceIDKey stores the request trace ID in the context.
const traceIDKey contextKey = "trace_id"

// WithTraceID returns a context carrying the trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// GetTraceID returns the trace ID from the context, or "".
func GetTraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey).(string); ok {
		return id
	}
	return ""
}
