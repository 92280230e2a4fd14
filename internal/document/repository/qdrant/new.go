package qdrant

import (
	"goodwish-chatbot/internal/document/repository"
	pkgLog "goodwish-chatbot/pkg/log"
	pkgQdrant "goodwish-chatbot/pkg/qdrant"
	"goodwish-chatbot/pkg/voyage"
)

const (
	payloadContent = "content"
	payloadSource  = "source"
	payloadIndex   = "chunk_index"

	defaultVectorSize = 1024
	defaultDistance   = "Cosine"
)

// Config configures the Qdrant-backed document repository.
type Config struct {
	Collection string
	VectorSize int
}

type implRepository struct {
	client     *pkgQdrant.Client
	embedder   voyage.IVoyage
	collection string
	vectorSize int
	l          pkgLog.Logger
}

// New creates a new Qdrant repository.
func New(client *pkgQdrant.Client, embedder voyage.IVoyage, cfg Config, l pkgLog.Logger) repository.VectorRepository {
	if cfg.VectorSize <= 0 {
		cfg.VectorSize = defaultVectorSize
	}
	return &implRepository{
		client:     client,
		embedder:   embedder,
		collection: cfg.Collection,
		vectorSize: cfg.VectorSize,
		l:          l,
	}
}
