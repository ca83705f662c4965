// Package rabbitmq carries ledger events out to, and approval events in from,
// the marketplace message broker.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"creator-payout-ledger/internal/core/domain"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const dialTimeout = 10 * time.Second

// EventProducer publishes ledger events to a durable topic exchange,
// routed by event type.
type EventProducer struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	log      zerolog.Logger
}

// NewEventProducer dials the broker and declares the exchange.
func NewEventProducer(amqpURL, exchange string, log zerolog.Logger) (*EventProducer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareExchange(ch, exchange); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &EventProducer{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		log:      log.With().Str("component", "rabbitmq_producer").Logger(),
	}, nil
}

// Publish implements ports.EventPublisher. A failed publish reopens the
// channel once and retries.
func (p *EventProducer) Publish(ctx context.Context, event domain.LedgerEvent) error {
	msg, err := encodeEvent(event, time.Now().UTC())
	if err != nil {
		return err
	}
	routingKey := string(event.Type)

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	if err == nil {
		return nil
	}

	p.log.Warn().Err(err).Str("routing_key", routingKey).Msg("publish failed, reopening channel")
	ch, chErr := p.conn.Channel()
	if chErr != nil {
		return fmt.Errorf("publish %s: %w", routingKey, errors.Join(err, chErr))
	}
	p.channel = ch
	if err := declareExchange(ch, p.exchange); err != nil {
		return err
	}
	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// Close gracefully closes the channel and connection.
func (p *EventProducer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// NoopPublisher stands in for the producer when the broker is unreachable
// at startup. Events are logged and dropped.
type NoopPublisher struct {
	log zerolog.Logger
}

// NewNoopPublisher creates a fallback publisher.
func NewNoopPublisher(log zerolog.Logger) *NoopPublisher {
	return &NoopPublisher{log: log.With().Str("component", "rabbitmq_producer").Str("mode", "fallback").Logger()}
}

func (p *NoopPublisher) Publish(_ context.Context, event domain.LedgerEvent) error {
	p.log.Warn().Str("routing_key", string(event.Type)).Str("event_id", event.ID.String()).Msg("publish skipped")
	return nil
}

func encodeEvent(event domain.LedgerEvent, now time.Time) (amqp091.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal %s event: %w", event.Type, err)
	}
	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    event.ID.String(),
		Type:         string(event.Type),
		Timestamp:    now,
		Body:         body,
	}, nil
}

func declareExchange(ch *amqp091.Channel, exchange string) error {
	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,      // args
	); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return nil
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}
