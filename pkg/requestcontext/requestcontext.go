// Package requestcontext carries per-request correlation data through context.
package requestcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	requestTimeKey
)

// WithRequestID returns a copy of ctx carrying requestID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// EnsureRequestID returns ctx unchanged when it already carries a request ID,
// otherwise a copy carrying a freshly generated one.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id := RequestID(ctx); id != "" {
		return ctx, id
	}
	id := uuid.New().String()
	return WithRequestID(ctx, id), id
}

// WithTime pins the request's notion of "now" for everything downstream, audit timestamps included.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}

// Now returns the pinned request time, or time.Now().
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey).(time.Time); ok {
		return t
	}
	return time.Now()
}
