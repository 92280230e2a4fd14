package usecase

import (
	"os"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"

	"goodwish-chatbot/internal/document"
	"goodwish-chatbot/internal/document/repository"
	pkgLog "goodwish-chatbot/pkg/log"
)

// chunkNamespace seeds deterministic chunk ids so re-ingesting a file
// overwrites the same points.
var chunkNamespace = uuid.MustParse("1b671a64-40d5-491e-99b0-da01ff1f3341")

// Config configures chunking.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
}

type implUseCase struct {
	l        pkgLog.Logger
	repo     repository.VectorRepository
	splitter textsplitter.TextSplitter
	readFile func(name string) ([]byte, error)
}

// New creates a new document UseCase instance.
func New(l pkgLog.Logger, repo repository.VectorRepository, cfg Config) document.UseCase {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = document.DefaultChunkSize
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = min(document.DefaultChunkOverlap, cfg.ChunkSize/2)
	}
	return &implUseCase{
		l:    l,
		repo: repo,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(cfg.ChunkSize),
			textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
		),
		readFile: os.ReadFile,
	}
}
