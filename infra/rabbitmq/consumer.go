package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"henalis/pkg/events"
)

// EventHandler processes one consumed event. A returned error dead-letters the message.
type EventHandler func(ctx context.Context, event *events.Event) error

type ConsumerConfig struct {
	Exchange       string   // e.g., "henalis.shop"
	QueueName      string   // e.g., "henalis.storage.cleanup.v1"
	RoutingKeys    []string // e.g., ["item.deleted.v1"]
	ServiceName    string   // consumer tag
	PrefetchCount  int      // defaults to 10
	WorkerPoolSize int      // messages handled concurrently, defaults to 1
	ProcessTimeout time.Duration
}

func (c ConsumerConfig) withDefaults() ConsumerConfig {
	if c.PrefetchCount <= 0 {
		c.PrefetchCount = 10
	}
	if c.WorkerPoolSize <= 0 {
		c.WorkerPoolSize = 1
	}
	if c.ProcessTimeout <= 0 {
		c.ProcessTimeout = 30 * time.Second
	}
	return c
}

// PoolStats is a snapshot of the consumer's worker pool.
type PoolStats struct {
	Size      int
	InFlight  int64
	Processed int64
	Failed    int64
}

type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  ConsumerConfig

	workers   chan struct{}
	wg        sync.WaitGroup
	inFlight  atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

func newConsumer(config ConsumerConfig) *Consumer {
	config = config.withDefaults()
	return &Consumer{
		config:  config,
		workers: make(chan struct{}, config.WorkerPoolSize),
	}
}

// NewConsumer connects and declares the exchange, the queue with its dead letter queue and
// the bindings for every routing key.
func NewConsumer(url string, config ConsumerConfig) (*Consumer, error) {
	c := newConsumer(config)

	conn, err := dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(channel, c.config); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	c.conn = conn
	c.channel = channel

	zap.L().Info("RabbitMQ consumer created successfully",
		zap.String("queue", c.config.QueueName),
		zap.String("exchange", c.config.Exchange),
		zap.Strings("routingKeys", c.config.RoutingKeys),
		zap.Int("workerPoolSize", c.config.WorkerPoolSize),
	)

	return c, nil
}

func declareTopology(ch *amqp.Channel, config ConsumerConfig) error {
	if err := ch.Qos(config.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	if err := declareTopicExchange(ch, config.Exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	dlxName := config.Exchange + ".dlx"
	if err := declareTopicExchange(ch, dlxName); err != nil {
		return fmt.Errorf("failed to declare DLX: %w", err)
	}

	queue, err := ch.QueueDeclare(
		config.QueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-dead-letter-exchange": dlxName},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	dlqName := config.QueueName + ".dlq"
	if _, err := ch.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	for _, routingKey := range config.RoutingKeys {
		if err := ch.QueueBind(dlqName, routingKey, dlxName, false, nil); err != nil {
			return fmt.Errorf("failed to bind DLQ: %w", err)
		}
		if err := ch.QueueBind(queue.Name, routingKey, config.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue: %w", err)
		}
	}

	return nil
}

// Consume blocks until ctx is cancelled or the delivery channel closes. In-flight messages
// are allowed to finish before it returns.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	msgs, err := c.channel.Consume(
		c.config.QueueName,
		c.config.ServiceName, // consumer tag
		false,                // auto-ack
		false,                // exclusive
		false,                // no-local
		false,                // no-wait
		nil,                  // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	zap.L().Info("Started consuming messages", zap.String("queue", c.config.QueueName))

	return c.dispatch(ctx, msgs, handler)
}

func (c *Consumer) dispatch(ctx context.Context, msgs <-chan amqp.Delivery, handler EventHandler) error {
	defer c.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Consumer context cancelled, stopping...")
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				zap.L().Warn("Message channel closed")
				return errors.New("message channel closed")
			}

			select {
			case c.workers <- struct{}{}:
			case <-ctx.Done():
				// Unacked deliveries go back to the queue when the channel closes.
				return ctx.Err()
			}

			c.wg.Add(1)
			c.inFlight.Add(1)
			go func() {
				defer func() {
					c.inFlight.Add(-1)
					<-c.workers
					c.wg.Done()
				}()
				c.handleMessage(ctx, msg, handler)
			}()
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery, handler EventHandler) {
	traceID, _ := msg.Headers["x-trace-id"].(string)
	correlationID, _ := msg.Headers["x-correlation-id"].(string)
	service, _ := msg.Headers["x-service"].(string)

	zap.L().Info("Received message",
		zap.String("queue", c.config.QueueName),
		zap.String("routingKey", msg.RoutingKey),
		zap.String("traceId", traceID),
		zap.String("correlationId", correlationID),
		zap.String("sourceService", service),
	)

	var event events.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		zap.L().Error("Failed to unmarshal event",
			zap.Error(err),
			zap.String("traceId", traceID),
		)
		c.reject(msg, traceID)
		return
	}

	// A shutdown must not abort a message that is already being processed.
	processCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.ProcessTimeout)
	defer cancel()

	if err := handler(processCtx, &event); err != nil {
		zap.L().Error("Failed to process event",
			zap.Error(err),
			zap.String("event", event.Event),
			zap.String("traceId", traceID),
		)
		c.reject(msg, traceID)
		return
	}

	c.processed.Add(1)
	if err := msg.Ack(false); err != nil {
		zap.L().Error("Failed to acknowledge message",
			zap.Error(err),
			zap.String("traceId", traceID),
		)
		return
	}

	zap.L().Info("Successfully processed event",
		zap.String("event", event.Event),
		zap.String("traceId", traceID),
	)
}

// reject sends the message to the dead letter queue.
func (c *Consumer) reject(msg amqp.Delivery, traceID string) {
	c.failed.Add(1)
	if err := msg.Nack(false, false); err != nil {
		zap.L().Error("Failed to reject message",
			zap.Error(err),
			zap.String("traceId", traceID),
		)
	}
}

func (c *Consumer) Stats() PoolStats {
	return PoolStats{
		Size:      c.config.WorkerPoolSize,
		InFlight:  c.inFlight.Load(),
		Processed: c.processed.Load(),
		Failed:    c.failed.Load(),
	}
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			zap.L().Error("Failed to close channel", zap.Error(err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			zap.L().Error("Failed to close connection", zap.Error(err))
			return err
		}
	}
	zap.L().Info("RabbitMQ consumer closed")
	return nil
}
