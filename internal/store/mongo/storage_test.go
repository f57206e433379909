package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/store"
)

// Requires a running MongoDB; set TEST_MONGO_URI to enable.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if testing.Short() || uri == "" {
		t.Skip("skipping mongo integration test: TEST_MONGO_URI not set")
	}

	s, err := New(Config{URI: uri, Database: "food_ordering_test", Timeout: 10 * time.Second})
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx := context.Background()
		_ = s.Database().Drop(ctx)
		_ = s.Close(ctx)
	})

	require.NoError(t, s.CreateIndexes(context.Background()))
	return s
}

func TestKV_Integration(t *testing.T) {
	s := newTestStorage(t)
	kv := NewKV(s)
	ctx := context.Background()

	_, err := kv.Get(ctx, "orders")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "orders", []byte(`[]`)))
	require.NoError(t, kv.Set(ctx, "orders", []byte(`[{"id":"o1"}]`)))

	got, err := kv.Get(ctx, "orders")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"o1"}]`, string(got))

	require.NoError(t, kv.Delete(ctx, "orders"))
	_, err = kv.Get(ctx, "orders")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
}

func TestOrderStatusAuditRepository_Integration(t *testing.T) {
	s := newTestStorage(t)
	r := NewOrderStatusAuditRepository(s.Database())
	ctx := context.Background()

	base := time.Now().Truncate(time.Millisecond)
	require.NoError(t, r.Create(ctx, &domain.OrderStatusAudit{
		OrderID: "o1", OldStatus: domain.OrderStatusPending, NewStatus: domain.OrderStatusProcessing, Timestamp: base,
	}))
	require.NoError(t, r.Create(ctx, &domain.OrderStatusAudit{
		OrderID: "o1", OldStatus: domain.OrderStatusProcessing, NewStatus: domain.OrderStatusCompleted, Timestamp: base.Add(time.Minute),
	}))
	require.NoError(t, r.Create(ctx, &domain.OrderStatusAudit{OrderID: "o2", Timestamp: base}))

	audits, err := r.GetByOrderID(ctx, "o1", 10)
	require.NoError(t, err)
	require.Len(t, audits, 2)
	assert.Equal(t, domain.OrderStatusCompleted, audits[0].NewStatus, "newest first")
}
