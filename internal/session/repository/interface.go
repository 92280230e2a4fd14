package repository

import (
	"context"
	"time"

	"goodwish-chatbot/internal/model"
)

// Repository persists a session's chat history blob between requests.
// Load of an unknown or expired session returns an empty history. Delete or Touch of one is a no-op.
type Repository interface {
	Load(ctx context.Context, sessionID string) ([]model.Turn, error)
	Save(ctx context.Context, sessionID string, turns []model.Turn, ttl time.Duration) error
	// Touch moves the expiry of a stored session to now+ttl without rewriting it.
	Touch(ctx context.Context, sessionID string, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}
