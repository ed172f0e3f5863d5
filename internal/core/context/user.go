// Package context carries request-scoped values: the trace ids and the signed-in admin.
package context

import (
	"context"
)

// UserContext is the authenticated caller, taken from the bearer token.
type UserContext struct {
	UserID   string
	Email    string
	Username string
	IsAdmin  bool
}

// DisplayName prefers the username.
func (u *UserContext) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// IsAdmin reports whether the caller carries the admin claim.
func IsAdmin(ctx context.Context) bool {
	u := GetUser(ctx)
	return u != nil && u.IsAdmin
}
