package chat

import (
	"context"

	"goodwish-chatbot/internal/model"
)

// UseCase answers chat requests for one session.
type UseCase interface {
	Query(ctx context.Context, sc model.Scope, input QueryInput) (QueryOutput, error)
	QueryAudio(ctx context.Context, sc model.Scope, input AudioInput) (AudioOutput, error)
	ClearHistory(ctx context.Context, sc model.Scope) error
}
