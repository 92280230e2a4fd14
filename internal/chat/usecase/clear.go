package usecase

import (
	"context"
	"fmt"

	"goodwish-chatbot/internal/chat"
	"goodwish-chatbot/internal/model"
)

// ClearHistory drops the session's history. Cached answers are kept; their
// keys already encode the history they were produced under.
func (uc *implUseCase) ClearHistory(ctx context.Context, sc model.Scope) error {
	if sc.SessionID == "" {
		return chat.ErrMissingSession
	}
	if err := uc.conv.History.Clear(ctx, sc.SessionID); err != nil {
		uc.l.Errorf(ctx, "chat.usecase.ClearHistory: %v", err)
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
