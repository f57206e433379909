package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/queue"
)

type recordingProcessor struct {
	mu     sync.Mutex
	events []domain.OrderStatusEvent
	tasks  []string
	err    error
}

func (p *recordingProcessor) ProcessOrderStatusEvent(_ context.Context, event domain.OrderStatusEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingProcessor) ProcessImportTask(_ context.Context, taskID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, taskID)
	return p.err
}

func (p *recordingProcessor) counts() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events), len(p.tasks)
}

func TestOrderStatusWorker(t *testing.T) {
	logger := zap.NewNop().Sugar()
	broker := queue.NewMemoryBroker(0, logger)
	proc := &recordingProcessor{}

	w := NewOrderStatusWorker(proc, broker, logger)
	require.NoError(t, w.Start())
	defer w.Stop()

	msg, err := json.Marshal(domain.OrderStatusEvent{EventType: domain.EventOrderPaid, OrderID: "o1", NewStatus: domain.OrderStatusCompleted})
	require.NoError(t, err)
	require.NoError(t, broker.Publish(context.Background(), queue.QueueOrderStatus, msg))

	require.Eventually(t, func() bool {
		n, _ := proc.counts()
		return n == 1
	}, time.Second, 5*time.Millisecond)

	proc.mu.Lock()
	defer proc.mu.Unlock()
	assert.Equal(t, "o1", proc.events[0].OrderID)
	assert.False(t, proc.events[0].Timestamp.IsZero(), "missing timestamp is filled in")
}

func TestOrderStatusWorker_BadPayloadDeadLetters(t *testing.T) {
	logger := zap.NewNop().Sugar()
	broker := queue.NewMemoryBroker(1, logger)
	proc := &recordingProcessor{}

	w := NewOrderStatusWorker(proc, broker, logger)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, broker.Publish(context.Background(), queue.QueueOrderStatus, []byte("{oops")))

	require.Eventually(t, func() bool {
		return len(broker.DeadLetters(queue.QueueOrderStatus)) == 1
	}, time.Second, 5*time.Millisecond)

	n, _ := proc.counts()
	assert.Zero(t, n)
}

func TestCatalogImportWorker(t *testing.T) {
	logger := zap.NewNop().Sugar()
	broker := queue.NewMemoryBroker(2, logger)
	proc := &recordingProcessor{err: errors.New("sheet unavailable")}

	w := NewCatalogImportWorker(proc, broker, logger)
	require.NoError(t, w.Start())
	defer w.Stop()

	msg, err := json.Marshal(domain.CatalogImportMessage{TaskID: "t1", SpreadsheetID: "sheet"})
	require.NoError(t, err)
	require.NoError(t, broker.Publish(context.Background(), queue.QueueCatalogImport, msg))

	require.Eventually(t, func() bool {
		return len(broker.DeadLetters(queue.QueueCatalogImport)) == 1
	}, time.Second, 5*time.Millisecond)

	_, tasks := proc.counts()
	assert.Equal(t, 3, tasks, "one attempt plus two retries")
}
