package rabbitmq

import (
	"context"
	"errors"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Handler processes one delivery body. Returning false requeues the message.
type Handler func(ctx context.Context, body []byte) bool

// Consumer reads from a durable queue bound to a topic exchange.
type Consumer struct {
	conn *amqp091.Connection
	ch   *amqp091.Channel
	log  zerolog.Logger
}

// NewConsumer dials the broker and opens a channel.
func NewConsumer(amqpURL string, log zerolog.Logger) (*Consumer, error) {
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
	// one settlement at a time per consumer
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	return &Consumer{conn: conn, ch: ch, log: log.With().Str("component", "rabbitmq_consumer").Logger()}, nil
}

// ConsumeWithBindings binds queueName to exchange for every routing key and
// dispatches deliveries until ctx is cancelled or the channel closes.
// Deliveries with no handler are acked and dropped.
func (c *Consumer) ConsumeWithBindings(ctx context.Context, exchange, queueName string, bindings map[string]Handler) error {
	if len(bindings) == 0 {
		return errors.New("no bindings provided")
	}

	if err := declareExchange(c.ch, exchange); err != nil {
		return err
	}

	q, err := c.ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", queueName, err)
	}

	handlers := make(map[string]Handler, len(bindings))
	for routingKey, handler := range bindings {
		if handler == nil {
			continue
		}
		handlers[routingKey] = handler
		if err := c.ch.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
			return fmt.Errorf("bind %s to %s: %w", routingKey, exchange, err)
		}
	}

	msgs, err := c.ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queueName, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					c.log.Warn().Str("queue", queueName).Msg("delivery channel closed")
					return
				}
				c.dispatch(ctx, handlers, d)
			}
		}
	}()

	return nil
}

func (c *Consumer) dispatch(ctx context.Context, handlers map[string]Handler, d amqp091.Delivery) {
	handler, ok := handlers[d.RoutingKey]
	if !ok {
		c.log.Warn().Str("routing_key", d.RoutingKey).Msg("no handler for routing key, dropping")
		_ = d.Ack(false)
		return
	}
	if handler(ctx, d.Body) {
		_ = d.Ack(false)
		return
	}
	c.log.Warn().Str("routing_key", d.RoutingKey).Msg("handler failed, requeueing")
	_ = d.Nack(false, true)
}

// Close gracefully closes the channel and connection.
func (c *Consumer) Close() {
	if c.ch != nil {
		c.ch.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}
