package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a token is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore maps opaque tokens to user IDs. Operations resolve the
// current user exactly once at the request boundary; nothing downstream
// touches ambient session state.
type SessionStore interface {
	Create(ctx context.Context, userID int, ttl time.Duration) (string, error)
	Resolve(ctx context.Context, token string) (int, error)
	Revoke(ctx context.Context, token string) error
}

func newToken() string {
	return uuid.New().String()
}
