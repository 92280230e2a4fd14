package conversation

import (
	"context"
	"time"

	"goodwish-chatbot/internal/model"
)

// Transport is the external session store that mirrors history between requests.
// Load returns an empty slice for unknown sessions. Delete and Touch of an unknown session are not errors.
type Transport interface {
	Load(ctx context.Context, sessionID string) ([]model.Turn, error)
	Save(ctx context.Context, sessionID string, turns []model.Turn, ttl time.Duration) error
	Touch(ctx context.Context, sessionID string, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// Appender is what the background updater needs from the history store.
type Appender interface {
	AppendPair(ctx context.Context, sessionID string, user, assistant model.Turn) error
}
