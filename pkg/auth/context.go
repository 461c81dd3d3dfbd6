package auth

import (
	"context"

	"snapgram-backend/domain/social"
)

type contextKey int

const userContextKey contextKey = iota

// SetUserInContext attaches the resolved user to the request context.
func SetUserInContext(ctx context.Context, user *social.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext returns the user attached by the session middleware,
// or false when the request is anonymous.
func GetUserFromContext(ctx context.Context) (*social.User, bool) {
	user, ok := ctx.Value(userContextKey).(*social.User)
	return user, ok && user != nil
}
