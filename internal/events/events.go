// Package events publishes domain events to a RabbitMQ topic exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"truckrecruit/internal/logger"
)

// Routing keys.
const (
	ContactUnlocked     = "contact.unlocked"
	SubscriptionChanged = "subscription.changed"
	ProfileRegistered   = "profile.registered"
)

// Event is the envelope written to the exchange.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Publisher sends events. Publishing is best-effort: callers log failures and move on.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
	Close() error
}

// NewPublisher dials url and declares the exchange. An empty url yields a publisher that
// drops every event.
func NewPublisher(url, exchange string) (Publisher, error) {
	if url == "" {
		return NopPublisher{}, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	logger.L().Info("connected to rabbitmq", "exchange", exchange)
	return &amqpPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

type amqpPublisher struct {
	mu       sync.Mutex // amqp channels are not safe for concurrent publishing
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func (p *amqpPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	body, err := Encode(routingKey, payload, time.Now().UTC())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// Encode builds the JSON envelope for an event.
func Encode(routingKey string, payload interface{}, at time.Time) ([]byte, error) {
	body, err := json.Marshal(Event{
		ID:         uuid.NewString(),
		Type:       routingKey,
		OccurredAt: at,
		Payload:    payload,
	})
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", routingKey, err)
	}
	return body, nil
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
