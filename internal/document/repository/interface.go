package repository

import (
	"context"

	"goodwish-chatbot/internal/document"
)

// VectorRepository stores document chunks with their embeddings.
type VectorRepository interface {
	// EnsureCollection creates the collection when missing. With recreate it is dropped first.
	EnsureCollection(ctx context.Context, recreate bool) error
	UpsertChunks(ctx context.Context, chunks []document.Chunk) error
	DeleteBySource(ctx context.Context, source string) error
	Search(ctx context.Context, opt SearchOptions) ([]document.Passage, error)
}

// SearchOptions defines search parameters.
type SearchOptions struct {
	Query string
	Limit int
}
