package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const headerRetryCount = "x-retry-count"

type RabbitMQBroker struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     Config
	logger  *zap.SugaredLogger
	mu      sync.RWMutex
}

type Config struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

func NewRabbitMQBroker(cfg Config, logger *zap.SugaredLogger) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	broker := &RabbitMQBroker{
		conn:    conn,
		channel: channel,
		cfg:     cfg,
		logger:  logger,
	}

	for _, queueName := range Queues {
		if err := broker.declareQueue(queueName); err != nil {
			broker.Close()
			return nil, err
		}
	}

	return broker, nil
}

func (b *RabbitMQBroker) declareQueue(queueName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return nil
}

func (b *RabbitMQBroker) Publish(ctx context.Context, queueName string, message []byte) error {
	return b.publish(ctx, queueName, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         message,
		Timestamp:    time.Now(),
	})
}

func (b *RabbitMQBroker) publish(ctx context.Context, queueName string, msg amqp.Publishing) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	err := b.channel.PublishWithContext(
		ctx,
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (b *RabbitMQBroker) Subscribe(ctx context.Context, queueName string, handler MessageHandler) error {
	b.mu.RLock()
	msgs, err := b.channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	b.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				b.handleMessage(ctx, msg, handler, queueName)
			}
		}
	}()

	return nil
}

// handleMessage acks every delivery. A failed message is republished with
// an incremented retry header after RetryDelay*2^retry, and parked on the
// queue's DLQ once MaxRetries is reached.
func (b *RabbitMQBroker) handleMessage(ctx context.Context, msg amqp.Delivery, handler MessageHandler, queueName string) {
	defer msg.Ack(false)

	err := handler(ctx, msg.Body)
	if err == nil {
		return
	}

	retryCount := 0
	if msg.Headers != nil {
		if count, ok := msg.Headers[headerRetryCount].(int32); ok {
			retryCount = int(count)
		}
	}

	if retryCount < b.cfg.MaxRetries {
		delay := b.cfg.RetryDelay * time.Duration(1<<retryCount)
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		if perr := b.publish(ctx, queueName, amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  msg.ContentType,
			Body:         msg.Body,
			Headers:      amqp.Table{headerRetryCount: int32(retryCount + 1)},
			Timestamp:    time.Now(),
		}); perr != nil {
			b.logger.Errorw("failed to requeue message", "queue", queueName, "error", perr)
		}
		return
	}

	b.logger.Warnw("message moved to dead letter queue", "queue", queueName, "retries", retryCount, "error", err)

	if perr := b.publish(ctx, dlqName(queueName), amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  msg.ContentType,
		Body:         msg.Body,
		Headers: amqp.Table{
			"x-original-queue": queueName,
			headerRetryCount:   int32(retryCount),
			"x-error":          err.Error(),
		},
		Timestamp: time.Now(),
	}); perr != nil {
		b.logger.Errorw("failed to dead-letter message", "queue", queueName, "error", perr)
	}
}

func (b *RabbitMQBroker) Ping() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.conn == nil || b.conn.IsClosed() {
		return fmt.Errorf("rabbitmq connection closed")
	}
	return nil
}

func (b *RabbitMQBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
