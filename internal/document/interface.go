package document

import "context"

// Retriever returns up to k passages relevant to query. An empty result is valid.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]Passage, error)
}

// UseCase is the document domain: retrieval for chat and ingestion of source files.
type UseCase interface {
	Retriever
	Ingest(ctx context.Context, input IngestInput) (IngestOutput, error)
}
