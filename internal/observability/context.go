package observability

import "context"

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID tags a context with the request correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the correlation id for the request, or "" when untagged.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
