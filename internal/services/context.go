package services

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "auth_user"

// WithUserContext stores the authenticated user id on the context.
func WithUserContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userContextKey).(uuid.UUID)
	return id, ok
}
