package accounts

import "context"

type userIDKey struct{}

// WithUserID returns a context carrying the authenticated user's identifier.
// Every service operation requires it; transport middleware is expected to set
// it after session validation.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext retrieves the authenticated user's identifier.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}
