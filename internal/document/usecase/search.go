package usecase

import (
	"context"
	"fmt"
	"strings"

	"goodwish-chatbot/internal/document"
	"goodwish-chatbot/internal/document/repository"
)

// Search returns up to k passages for query.
func (uc *implUseCase) Search(ctx context.Context, query string, k int) ([]document.Passage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, document.ErrEmptyQuery
	}
	if k <= 0 {
		k = document.DefaultSearchK
	}

	passages, err := uc.repo.Search(ctx, repository.SearchOptions{Query: query, Limit: k})
	if err != nil {
		uc.l.Errorf(ctx, "document.usecase.Search: %v", err)
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}
	return passages, nil
}
