package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"henalis/pkg/events"
)

const publishTimeout = 5 * time.Second

// Publisher implements events.Publisher on a topic exchange with publisher confirms.
type Publisher struct {
	conn    *amqp.Connection
	service string

	mu        sync.Mutex
	exchanges map[string]bool
}

var _ events.Publisher = (*Publisher)(nil)

func NewPublisher(url, service string) (*Publisher, error) {
	conn, err := dial(url)
	if err != nil {
		return nil, err
	}

	zap.L().Info("RabbitMQ publisher connected successfully")

	return &Publisher{
		conn:      conn,
		service:   service,
		exchanges: map[string]bool{},
	}, nil
}

func (p *Publisher) ensureExchange(ch *amqp.Channel, exchange string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.exchanges[exchange] {
		return nil
	}
	if err := declareTopicExchange(ch, exchange); err != nil {
		return err
	}
	p.exchanges[exchange] = true
	return nil
}

// Publish sends the event persistently and waits for the broker to confirm it.
func (p *Publisher) Publish(ctx context.Context, exchange string, event *events.Event, headers events.Headers) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	// One channel per publish keeps confirmations of concurrent publishers apart.
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to create publish channel: %w", err)
	}
	defer ch.Close()

	if err := p.ensureExchange(ch, exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("failed to enable confirms: %w", err)
	}
	confirms := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	routingKey := event.GetRoutingKey()
	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.Timestamp,
		Headers: amqp.Table{
			"x-trace-id":       headers.TraceID,
			"x-correlation-id": headers.CorrelationID,
			"x-service":        p.service,
		},
	}

	if err := ch.PublishWithContext(publishCtx, exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	select {
	case confirm := <-confirms:
		if !confirm.Ack {
			return errors.New("message was not acknowledged by broker")
		}
	case <-publishCtx.Done():
		return errors.New("publish confirmation timeout")
	}

	zap.L().Info("Event published successfully",
		zap.String("exchange", exchange),
		zap.String("routingKey", routingKey),
		zap.String("event", event.Event),
		zap.String("traceId", headers.TraceID),
	)

	return nil
}

func (p *Publisher) IsHealthy() bool {
	return p != nil && p.conn != nil && !p.conn.IsClosed()
}

func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	if err := p.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		zap.L().Error("Failed to close connection", zap.Error(err))
		return err
	}
	zap.L().Info("RabbitMQ publisher closed")
	return nil
}
