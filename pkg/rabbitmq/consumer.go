package rabbitmq

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"goodwish-chatbot/pkg/log"
)

const retryCountHeader = "x-retry-count"

// ConsumerConfig configures a Consumer.
type ConsumerConfig struct {
	Queue       string
	Concurrency int
	MaxRetries  int
	RetryDelay  time.Duration
}

// Consumer dispatches deliveries to a bounded pool of workers.
// Failed messages are republished to the retry queue until MaxRetries is
// reached, then rejected into the DLQ.
type Consumer struct {
	ch      Channel
	cfg     ConsumerConfig
	handler Handler
	l       log.Logger
}

func NewConsumer(ch Channel, cfg ConsumerConfig, handler Handler, l log.Logger) *Consumer {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 10 * time.Second
	}
	return &Consumer{ch: ch, cfg: cfg, handler: handler, l: l}
}

// Run consumes until ctx is cancelled or the broker closes the delivery
// channel. In-flight messages finish before Run returns.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ch.Qos(c.cfg.Concurrency, 0, false); err != nil {
		return fmt.Errorf("rabbitmq: qos: %w", err)
	}

	msgs, err := c.ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume %s: %w", c.cfg.Queue, err)
	}

	c.l.Infof(ctx, "rabbitmq.Consumer.Run: started queue=%s concurrency=%d", c.cfg.Queue, c.cfg.Concurrency)

	jobs := make(chan amqp.Delivery, c.cfg.Concurrency*2)
	var wg sync.WaitGroup
	wg.Add(c.cfg.Concurrency)
	for i := 0; i < c.cfg.Concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				c.handle(ctx, workerID, d)
			}
		}(i)
	}

	defer func() {
		close(jobs)
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			c.l.Infof(ctx, "rabbitmq.Consumer.Run: shutting down queue=%s", c.cfg.Queue)
			return nil
		case d, ok := <-msgs:
			if !ok {
				return ErrClosed
			}
			jobs <- d
		}
	}
}

func (c *Consumer) handle(ctx context.Context, workerID int, d amqp.Delivery) {
	start := time.Now()
	err := c.safeHandle(ctx, d.Body)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			c.l.Errorf(ctx, "rabbitmq.Consumer.handle: worker=%d ack failed: %v", workerID, ackErr)
		}
		return
	}

	attempt := retryCount(d.Headers)
	if IsPermanent(err) || attempt >= c.cfg.MaxRetries {
		c.l.Errorf(ctx, "rabbitmq.Consumer.handle: worker=%d giving up after %d retries cost=%s: %v",
			workerID, attempt, time.Since(start), err)
		_ = d.Nack(false, false)
		return
	}

	c.l.Warnf(ctx, "rabbitmq.Consumer.handle: worker=%d attempt=%d failed, retrying in %s: %v",
		workerID, attempt+1, c.cfg.RetryDelay, err)
	if pubErr := c.retry(ctx, d, attempt+1); pubErr != nil {
		c.l.Errorf(ctx, "rabbitmq.Consumer.handle: worker=%d retry publish failed: %v", workerID, pubErr)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (c *Consumer) safeHandle(ctx context.Context, body []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Permanent(fmt.Errorf("handler panic: %v", r))
		}
	}()
	return c.handler(ctx, body)
}

func (c *Consumer) retry(ctx context.Context, d amqp.Delivery, attempt int) error {
	headers := amqp.Table{}
	for k, v := range d.Headers {
		headers[k] = v
	}
	headers[retryCountHeader] = int32(attempt)

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	return c.ch.PublishWithContext(cctx, "", RetryQueue(c.cfg.Queue), false, false, amqp.Publishing{
		ContentType:  d.ContentType,
		DeliveryMode: amqp.Persistent,
		Headers:      headers,
		Expiration:   strconv.FormatInt(c.cfg.RetryDelay.Milliseconds(), 10),
		Body:         d.Body,
		Timestamp:    time.Now(),
	})
}

func retryCount(headers amqp.Table) int {
	switch v := headers[retryCountHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
