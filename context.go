package goAuthClient

import "context"

type requestIDContextKey struct{}

// WithRequestID attaches a correlation identifier to ctx. The gateway sends
// it as the X-Request-ID header on every attempt of the call instead of
// generating one, which lets a caller correlate SDK traffic with its own
// request logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
