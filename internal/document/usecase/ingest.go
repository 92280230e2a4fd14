package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"goodwish-chatbot/internal/document"
)

// Ingest chunks, embeds and stores the given files. Missing files are
// skipped with a warning; it fails only when nothing could be loaded.
func (uc *implUseCase) Ingest(ctx context.Context, input document.IngestInput) (document.IngestOutput, error) {
	if len(input.Paths) == 0 {
		return document.IngestOutput{}, document.ErrNoPathsGiven
	}

	type loaded struct {
		source string
		chunks []document.Chunk
	}

	var (
		out   document.IngestOutput
		files []loaded
	)
	for _, path := range input.Paths {
		raw, err := uc.readFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				uc.l.Warnf(ctx, "document.usecase.Ingest: %s not found", path)
				out.Skipped = append(out.Skipped, path)
				continue
			}
			return out, fmt.Errorf("failed to read %s: %w", path, err)
		}

		source := filepath.Base(path)
		chunks, err := uc.chunk(source, raw)
		if err != nil {
			return out, fmt.Errorf("failed to split %s: %w", path, err)
		}
		if len(chunks) == 0 {
			uc.l.Warnf(ctx, "document.usecase.Ingest: %s has no text", path)
			out.Skipped = append(out.Skipped, path)
			continue
		}
		files = append(files, loaded{source: source, chunks: chunks})
	}

	if len(files) == 0 {
		return out, document.ErrNoDocuments
	}

	if err := uc.repo.EnsureCollection(ctx, input.Recreate); err != nil {
		return out, err
	}

	for _, f := range files {
		// A fresh collection has nothing to replace.
		if !input.Recreate {
			if err := uc.repo.DeleteBySource(ctx, f.source); err != nil {
				return out, err
			}
		}
		if err := uc.repo.UpsertChunks(ctx, f.chunks); err != nil {
			return out, err
		}
		out.Files++
		out.Chunks += len(f.chunks)
	}

	uc.l.Infof(ctx, "document.usecase.Ingest: embedded %d chunks from %d files", out.Chunks, out.Files)
	return out, nil
}

func (uc *implUseCase) chunk(source string, raw []byte) ([]document.Chunk, error) {
	// Invalid byte sequences would otherwise be rejected by the embedding API.
	text := strings.ToValidUTF8(string(raw), "")
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	parts, err := uc.splitter.SplitText(text)
	if err != nil {
		return nil, err
	}

	chunks := make([]document.Chunk, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		idx := len(chunks)
		chunks = append(chunks, document.Chunk{
			ID:      uuid.NewSHA1(chunkNamespace, []byte(source+"#"+strconv.Itoa(idx))).String(),
			Source:  source,
			Index:   idx,
			Content: p,
		})
	}
	return chunks, nil
}
