// Package auth derives the caller's identity from the gateway-supplied header.
// Credentials are verified upstream; this package only trusts and parses.
package auth

import (
	"context"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// userIDContextKey is the context key for the caller's user ID.
	userIDContextKey contextKey = "user_id"
)

// ContextWithUserID adds the caller's user ID to the context.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext retrieves the caller's user ID from the context.
// The second result is false if identity middleware has not run.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}

// MustUserIDFromContext retrieves the caller's user ID from the context.
// Panics if not present (use only when identity middleware has run).
func MustUserIDFromContext(ctx context.Context) int64 {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		panic("user id not found in context - ensure identity middleware is applied")
	}
	return userID
}
