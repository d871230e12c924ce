// Package messaging delivers expense events to external sinks.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/99minutos/expense-system/internal/core/domain"
)

const publishTimeout = 5 * time.Second

// routingKeys are bound from the exchange to the queue; events are published
// with their type as routing key.
var routingKeys = []domain.EventType{
	domain.EventExpenseSubmitted,
	domain.EventExpenseUpdated,
	domain.EventExpenseApproved,
	domain.EventExpenseRejected,
}

// AMQPConfig holds the RabbitMQ connection settings.
type AMQPConfig struct {
	URL      string
	Exchange string
	Queue    string
}

// AMQPPublisher publishes expense events as persistent JSON messages on a
// durable direct exchange.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	mu       sync.Mutex // guards channel
	channel  *amqp091.Channel
	exchange string
	log      zerolog.Logger
}

// NewAMQPPublisher dials RabbitMQ and declares the exchange, queue, and bindings.
func NewAMQPPublisher(cfg AMQPConfig, log zerolog.Logger) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p := &AMQPPublisher{
		conn:     conn,
		channel:  channel,
		exchange: cfg.Exchange,
		log:      log,
	}
	if err := p.setup(cfg.Queue); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	log.Info().Str("exchange", cfg.Exchange).Str("queue", cfg.Queue).Msg("connected to RabbitMQ")
	return p, nil
}

func (p *AMQPPublisher) setup(queue string) error {
	err := p.channel.ExchangeDeclare(
		p.exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = p.channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	for _, key := range routingKeys {
		if err := p.channel.QueueBind(queue, string(key), p.exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", key, err)
		}
	}
	return nil
}

// Publish sends event with its type as routing key.
func (p *AMQPPublisher) Publish(ctx context.Context, event domain.ExpenseEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,         // exchange
		string(event.Type), // routing key
		false,              // mandatory
		false,              // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    event.ID,
			Timestamp:    event.OccurredAt,
			Type:         string(event.Type),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	p.log.Debug().
		Str("event_type", string(event.Type)).
		Str("expense_id", event.ExpenseID).
		Str("exchange", p.exchange).
		Msg("event published")
	return nil
}

// Ping reports whether the connection is still open.
func (p *AMQPPublisher) Ping(context.Context) error {
	if p.conn.IsClosed() {
		return amqp091.ErrClosed
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
