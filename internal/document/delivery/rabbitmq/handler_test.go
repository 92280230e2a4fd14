package rabbitmq

import (
	"context"
	"errors"
	"testing"

	"goodwish-chatbot/internal/document"
	"goodwish-chatbot/pkg/log"
	pkgRabbit "goodwish-chatbot/pkg/rabbitmq"
)

type mockUseCase struct {
	got document.IngestInput
	err error
}

func (m *mockUseCase) Search(ctx context.Context, query string, k int) ([]document.Passage, error) {
	return nil, nil
}

func (m *mockUseCase) Ingest(ctx context.Context, input document.IngestInput) (document.IngestOutput, error) {
	m.got = input
	if m.err != nil {
		return document.IngestOutput{}, m.err
	}
	return document.IngestOutput{Files: len(input.Paths), Chunks: 3}, nil
}

func TestHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("passes the job to ingest", func(t *testing.T) {
		uc := &mockUseCase{}
		c := NewConsumer(log.NewNop(), uc)
		if err := c.Handle(ctx, []byte(`{"paths":["docs/a.txt"],"recreate":true}`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(uc.got.Paths) != 1 || uc.got.Paths[0] != "docs/a.txt" || !uc.got.Recreate {
			t.Errorf("unexpected input: %+v", uc.got)
		}
	})

	t.Run("malformed body is permanent", func(t *testing.T) {
		c := NewConsumer(log.NewNop(), &mockUseCase{})
		if err := c.Handle(ctx, []byte(`{not json`)); !pkgRabbit.IsPermanent(err) {
			t.Fatalf("expected permanent error, got %v", err)
		}
	})

	t.Run("missing documents is permanent", func(t *testing.T) {
		c := NewConsumer(log.NewNop(), &mockUseCase{err: document.ErrNoDocuments})
		if err := c.Handle(ctx, []byte(`{"paths":["x"]}`)); !pkgRabbit.IsPermanent(err) {
			t.Fatalf("expected permanent error, got %v", err)
		}
	})

	t.Run("upstream failure is retried", func(t *testing.T) {
		c := NewConsumer(log.NewNop(), &mockUseCase{err: errors.New("voyage down")})
		err := c.Handle(ctx, []byte(`{"paths":["x"]}`))
		if err == nil || pkgRabbit.IsPermanent(err) {
			t.Fatalf("expected retryable error, got %v", err)
		}
	})
}

func TestProducer_RejectsEmptyJob(t *testing.T) {
	p := NewProducer(nil)
	if err := p.Publish(context.Background(), IngestMessage{}); !errors.Is(err, document.ErrNoPathsGiven) {
		t.Fatalf("expected ErrNoPathsGiven, got %v", err)
	}
}
