package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"goodwish-chatbot/internal/document"
	pkgRabbit "goodwish-chatbot/pkg/rabbitmq"
)

// Handle processes one ingest job. Malformed jobs and jobs whose files are
// all missing are not retried.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var msg IngestMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return pkgRabbit.Permanent(fmt.Errorf("invalid ingest message: %w", err))
	}

	out, err := c.uc.Ingest(ctx, document.IngestInput{Paths: msg.Paths, Recreate: msg.Recreate})
	if err != nil {
		if errors.Is(err, document.ErrNoPathsGiven) || errors.Is(err, document.ErrNoDocuments) {
			return pkgRabbit.Permanent(err)
		}
		return err
	}

	c.l.Infof(ctx, "document.delivery.rabbitmq.Handle: ingested files=%d chunks=%d skipped=%d",
		out.Files, out.Chunks, len(out.Skipped))
	return nil
}

// Publish enqueues an ingest job.
func (p *Producer) Publish(ctx context.Context, msg IngestMessage) error {
	if len(msg.Paths) == 0 {
		return document.ErrNoPathsGiven
	}
	return p.pub.Publish(ctx, msg)
}
