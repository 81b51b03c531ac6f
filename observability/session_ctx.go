package observability

import "context"

type contextKey int

const keySessionID contextKey = iota

// WithSessionID returns a context carrying the conversation session ID.
// The registry reads it back when emitting invocation events, so
// attribution flows explicitly through the call chain.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, keySessionID, sessionID)
}

// SessionID retrieves the session ID from the context, or empty string.
func SessionID(ctx context.Context) string {
	if v, ok := ctx.Value(keySessionID).(string); ok {
		return v
	}
	return ""
}
