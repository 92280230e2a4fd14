package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Connection owns an AMQP connection and one channel on it.
type Connection struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to the broker and opens a channel.
func Dial(url string) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: channel: %w", err)
	}
	return &Connection{conn: conn, ch: ch}, nil
}

// Channel returns the opened channel.
func (c *Connection) Channel() Channel {
	return c.ch
}

func (c *Connection) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// RetryQueue and DeadLetterQueue name the queues paired with a main queue.
func RetryQueue(queue string) string      { return queue + ".retry" }
func DeadLetterQueue(queue string) string { return queue + ".dlq" }

// DeclareTopology declares the main queue, its retry queue and its DLQ.
// Messages in the retry queue dead-letter back into the main queue when their
// per-message TTL expires; rejected main-queue messages land in the DLQ.
func DeclareTopology(ch Channel, queue string) error {
	mainQ, retryQ, dlqQ := queue, RetryQueue(queue), DeadLetterQueue(queue)

	if _, err := ch.QueueDeclare(dlqQ, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declare %s: %w", dlqQ, err)
	}

	if _, err := ch.QueueDeclare(retryQ, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": mainQ,
	}); err != nil {
		return fmt.Errorf("rabbitmq: declare %s: %w", retryQ, err)
	}

	if _, err := ch.QueueDeclare(mainQ, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": dlqQ,
	}); err != nil {
		return fmt.Errorf("rabbitmq: declare %s: %w", mainQ, err)
	}

	return nil
}
