// Package broker publishes booking events to RabbitMQ.
package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Queue names, one per event kind. Routing key equals the queue name on the
// default exchange.
const (
	QueueReservationConfirmed = "reservation.confirmed"
	QueueGuestListJoined      = "guestlist.joined"
)

// ErrEmptyQueue is returned when publishing without a routing key.
var ErrEmptyQueue = errors.New("queue name is required")

// Publisher sends one JSON message to a named queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// AMQPPublisher publishes persistent messages over a lazily dialled
// connection. A failed publish drops the connection so the next call redials.
type AMQPPublisher struct {
	url string

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool
}

var _ Publisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher creates a publisher for url. No connection is made until
// the first Publish.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url, declared: map[string]bool{}}
}

// Publish declares queue (durable, idempotent) and publishes body to it.
// PRE: queue is non-empty; body is JSON
// POST: the broker has accepted the message, or an error is returned and the
// connection is reset
func (p *AMQPPublisher) Publish(ctx context.Context, queue string, body []byte) error {
	if queue == "" {
		return ErrEmptyQueue
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		return err
	}
	if !p.declared[queue] {
		if _, err := p.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			p.resetLocked()
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}
		p.declared[queue] = true
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		p.resetLocked()
		return fmt.Errorf("publish to %s: %w", queue, err)
	}
	slog.Debug("broker_published", "queue", queue, "bytes", len(body))
	return nil
}

// Close closes the channel and connection if open.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	return nil
}

func (p *AMQPPublisher) ensureChannel() error {
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.resetLocked()
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *AMQPPublisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
	p.declared = map[string]bool{}
}

// LogPublisher logs messages instead of publishing them. Used when no broker
// URL is configured.
type LogPublisher struct{}

// Publish logs the message.
func (LogPublisher) Publish(_ context.Context, queue string, body []byte) error {
	if queue == "" {
		return ErrEmptyQueue
	}
	slog.Info("broker_publish_skipped", "queue", queue, "body", string(body))
	return nil
}
