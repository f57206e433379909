package queue

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var ErrBrokerClosed = errors.New("broker closed")

// MemoryBroker delivers messages to in-process subscribers. It is used when
// no RabbitMQ URL is configured and in tests. Failed messages are retried up
// to maxRetries times, then kept in the queue's DLQ slice. Close stops every
// subscriber and waits for in-flight deliveries.
type MemoryBroker struct {
	mu         sync.RWMutex
	queues     map[string]chan []byte
	dead       map[string][][]byte
	maxRetries int
	logger     *zap.SugaredLogger
	closed     bool
	done       chan struct{}
	wg         sync.WaitGroup
}

func NewMemoryBroker(maxRetries int, logger *zap.SugaredLogger) *MemoryBroker {
	b := &MemoryBroker{
		queues:     make(map[string]chan []byte),
		dead:       make(map[string][][]byte),
		maxRetries: maxRetries,
		logger:     logger,
		done:       make(chan struct{}),
	}
	for _, q := range Queues {
		b.queues[q] = make(chan []byte, 256)
	}
	return b
}

func (b *MemoryBroker) queue(name string) chan []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	q, ok := b.queues[name]
	if !ok {
		q = make(chan []byte, 256)
		b.queues[name] = q
	}
	return q
}

func (b *MemoryBroker) Publish(ctx context.Context, queueName string, message []byte) error {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return ErrBrokerClosed
	}

	msg := make([]byte, len(message))
	copy(msg, message)

	select {
	case b.queue(queueName) <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *MemoryBroker) Subscribe(ctx context.Context, queueName string, handler MessageHandler) error {
	q := b.queue(queueName)

	// Add under the lock so Close cannot start waiting between the check and Add.
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBrokerClosed
	}
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-b.done:
				return
			case msg := <-q:
				b.deliver(ctx, queueName, msg, handler)
			}
		}
	}()

	return nil
}

func (b *MemoryBroker) deliver(ctx context.Context, queueName string, msg []byte, handler MessageHandler) {
	var err error
	for attempt := 0; attempt <= b.maxRetries; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return
		}
	}

	b.logger.Warnw("message moved to dead letter queue", "queue", queueName, "error", err)

	b.mu.Lock()
	b.dead[dlqName(queueName)] = append(b.dead[dlqName(queueName)], msg)
	b.mu.Unlock()
}

// DeadLetters returns the messages parked on the DLQ of queueName.
func (b *MemoryBroker) DeadLetters(queueName string) [][]byte {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return append([][]byte(nil), b.dead[dlqName(queueName)]...)
}

func (b *MemoryBroker) Ping() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBrokerClosed
	}
	return nil
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}
