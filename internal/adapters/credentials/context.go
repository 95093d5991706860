package credentials

import "context"

type contextKey struct{}

// WithSessionID returns a context carrying the request's session key.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, contextKey{}, sessionID)
}

// SessionIDFromContext extracts the session key placed by the session
// middleware. The second value is false for requests outside a session.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}
