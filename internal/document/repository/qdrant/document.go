package qdrant

import (
	"context"
	"fmt"

	"goodwish-chatbot/internal/document"
	"goodwish-chatbot/internal/document/repository"
	pkgQdrant "goodwish-chatbot/pkg/qdrant"
	"goodwish-chatbot/pkg/voyage"
)

// EnsureCollection creates the collection when missing, dropping it first when recreate is set.
func (r *implRepository) EnsureCollection(ctx context.Context, recreate bool) error {
	exists, err := r.client.CollectionExists(ctx, r.collection)
	if err != nil {
		r.l.Errorf(ctx, "document.repository.qdrant.EnsureCollection: %v", err)
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists && recreate {
		r.l.Infof(ctx, "document.repository.qdrant.EnsureCollection: dropping existing collection %s", r.collection)
		if err := r.client.DeleteCollection(ctx, r.collection); err != nil {
			return fmt.Errorf("failed to drop collection: %w", err)
		}
		exists = false
	}

	if exists {
		return nil
	}

	if err := r.client.CreateCollection(ctx, pkgQdrant.CreateCollectionRequest{
		Name:    r.collection,
		Vectors: pkgQdrant.VectorConfig{Size: r.vectorSize, Distance: defaultDistance},
	}); err != nil {
		r.l.Errorf(ctx, "document.repository.qdrant.EnsureCollection: create: %v", err)
		return fmt.Errorf("failed to create collection: %w", err)
	}
	r.l.Infof(ctx, "document.repository.qdrant.EnsureCollection: created collection %s (size=%d)", r.collection, r.vectorSize)
	return nil
}

// UpsertChunks embeds chunks in batches and stores them.
func (r *implRepository) UpsertChunks(ctx context.Context, chunks []document.Chunk) error {
	for start := 0; start < len(chunks); start += voyage.MaxBatchSize {
		end := min(start+voyage.MaxBatchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		vectors, err := r.embedder.Embed(ctx, texts, voyage.InputTypeDocument)
		if err != nil {
			r.l.Errorf(ctx, "document.repository.qdrant.UpsertChunks: embed: %v", err)
			return fmt.Errorf("failed to generate embeddings: %w", err)
		}

		points := make([]pkgQdrant.Point, len(batch))
		for i, c := range batch {
			points[i] = pkgQdrant.Point{
				ID:     c.ID,
				Vector: vectors[i],
				Payload: map[string]interface{}{
					payloadContent: c.Content,
					payloadSource:  c.Source,
					payloadIndex:   c.Index,
				},
			}
		}

		if err := r.client.UpsertPoints(ctx, r.collection, pkgQdrant.UpsertPointsRequest{Points: points}); err != nil {
			r.l.Errorf(ctx, "document.repository.qdrant.UpsertChunks: upsert: %v", err)
			return fmt.Errorf("failed to upsert points: %w", err)
		}
	}
	return nil
}

// DeleteBySource removes every chunk that came from source.
func (r *implRepository) DeleteBySource(ctx context.Context, source string) error {
	if err := r.client.DeletePoints(ctx, r.collection, pkgQdrant.MatchField(payloadSource, source)); err != nil {
		r.l.Errorf(ctx, "document.repository.qdrant.DeleteBySource: %v", err)
		return fmt.Errorf("failed to delete points: %w", err)
	}
	return nil
}

// Search performs semantic search over the chunk collection.
func (r *implRepository) Search(ctx context.Context, opt repository.SearchOptions) ([]document.Passage, error) {
	vectors, err := r.embedder.Embed(ctx, []string{opt.Query}, voyage.InputTypeQuery)
	if err != nil || len(vectors) == 0 {
		r.l.Errorf(ctx, "document.repository.qdrant.Search: failed to generate query embedding: %v", err)
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	resp, err := r.client.SearchPoints(ctx, r.collection, pkgQdrant.SearchRequest{
		Vector:      vectors[0],
		Limit:       opt.Limit,
		WithPayload: true,
	})
	if err != nil {
		r.l.Errorf(ctx, "document.repository.qdrant.Search: %v", err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	passages := make([]document.Passage, 0, len(resp.Result))
	for _, scored := range resp.Result {
		content, ok := scored.Payload[payloadContent].(string)
		if !ok || content == "" {
			r.l.Warnf(ctx, "document.repository.qdrant.Search: point %v has no content payload", scored.ID)
			continue
		}
		source, _ := scored.Payload[payloadSource].(string)
		passages = append(passages, document.Passage{
			Content: content,
			Source:  source,
			Score:   scored.Score,
		})
	}

	r.l.Debugf(ctx, "document.repository.qdrant.Search: %d passages for query %q", len(passages), opt.Query)
	return passages, nil
}
