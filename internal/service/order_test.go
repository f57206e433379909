package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/queue"
)

func sampleOrders() []domain.Order {
	base := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	return []domain.Order{
		{ID: "o1", Total: 50_000, Status: domain.OrderStatusPending, UserName: "Nguyễn Văn An", UserEmail: "an@example.com", UserPhone: "0912345678", CreatedAt: base},
		{ID: "o2", Total: 120_000, Status: domain.OrderStatusCompleted, UserName: "Trần Thị Bình", UserEmail: "binh@example.com", UserPhone: "0987654321", CreatedAt: base.Add(time.Hour)},
		{ID: "o3", Total: 50_000, Status: domain.OrderStatusCancelled, UserName: "Lê Văn Cường", UserEmail: "cuong@example.com", UserPhone: "0909000111", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "o4", Total: 75_000, Status: domain.OrderStatusCompleted, UserName: "Nguyễn Thị Dung", UserEmail: "dung@example.com", UserPhone: "0933444555", CreatedAt: base.Add(3 * time.Hour)},
		{ID: "o5", Total: 50_000, Status: domain.OrderStatusProcessing, UserName: "Phạm Minh", UserEmail: "minh@example.com", UserPhone: "0911222333", CreatedAt: base.Add(4 * time.Hour)},
	}
}

func orderIDs(orders []domain.Order) []string {
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}

func TestOrderTotal(t *testing.T) {
	items := []domain.OrderItem{
		{Name: "Phở", Price: 10_000, Quantity: 2},
		{Name: "Trà", Price: 5_000, Quantity: 1},
	}
	assert.Equal(t, int64(25_000), domain.OrderTotal(items))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to domain.OrderStatus
		want     bool
	}{
		{domain.OrderStatusPending, domain.OrderStatusProcessing, true},
		{domain.OrderStatusPending, domain.OrderStatusCompleted, true},
		{domain.OrderStatusPending, domain.OrderStatusCancelled, true},
		{domain.OrderStatusProcessing, domain.OrderStatusCompleted, true},
		{domain.OrderStatusProcessing, domain.OrderStatusCancelled, true},
		{domain.OrderStatusPending, domain.OrderStatusPending, false},
		{domain.OrderStatusProcessing, domain.OrderStatusPending, false},
		{domain.OrderStatusCompleted, domain.OrderStatusProcessing, false},
		{domain.OrderStatusCompleted, domain.OrderStatusCancelled, false},
		{domain.OrderStatusCancelled, domain.OrderStatusPending, false},
		{domain.OrderStatusPending, "shipped", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, domain.CanTransition(tt.from, tt.to))
		})
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedOrders(t, sampleOrders()...)

	updated, err := env.orders.UpdateStatus(ctx, "o1", domain.OrderStatusProcessing, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, updated.Status)

	got, err := env.orders.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, got.Status)
}

func TestOrderService_UpdateStatusRejectsInvalidEdges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedOrders(t, sampleOrders()...)

	before, err := env.orders.Load(ctx)
	require.NoError(t, err)

	_, err = env.orders.UpdateStatus(ctx, "o1", domain.OrderStatusPending, "admin")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = env.orders.UpdateStatus(ctx, "o2", domain.OrderStatusProcessing, "admin")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = env.orders.UpdateStatus(ctx, "missing", domain.OrderStatusCompleted, "admin")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	after, err := env.orders.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestOrderService_UpdateStatusPublishesEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env.seedOrders(t, sampleOrders()...)

	events := make(chan domain.OrderStatusEvent, 1)
	require.NoError(t, env.broker.Subscribe(ctx, queue.QueueOrderStatus, func(_ context.Context, msg []byte) error {
		var ev domain.OrderStatusEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			return err
		}
		events <- ev
		return nil
	}))

	_, err := env.orders.UpdateStatus(ctx, "o5", domain.OrderStatusCancelled, "admin")
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, domain.EventOrderStatusChanged, ev.EventType)
		assert.Equal(t, domain.OrderStatusProcessing, ev.OldStatus)
		assert.Equal(t, domain.OrderStatusCancelled, ev.NewStatus)
		assert.Equal(t, "admin", ev.UserID)
	case <-time.After(time.Second):
		t.Fatal("no status event published")
	}
}

func TestOrderService_BrokerFailureDoesNotRollBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedOrders(t, sampleOrders()...)
	require.NoError(t, env.broker.Close())

	_, err := env.orders.UpdateStatus(ctx, "o1", domain.OrderStatusCompleted, "admin")
	require.NoError(t, err)

	got, err := env.orders.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, got.Status)
}

func TestFilterAndSortOrders(t *testing.T) {
	orders := sampleOrders()

	t.Run("text matches id name email phone", func(t *testing.T) {
		assert.Equal(t, []string{"o1", "o4"}, orderIDs(FilterAndSortOrders(orders, domain.OrderFilter{Query: "nguyễn"}, "", "")))
		assert.Equal(t, []string{"o2"}, orderIDs(FilterAndSortOrders(orders, domain.OrderFilter{Query: "BINH@"}, "", "")))
		assert.Equal(t, []string{"o3"}, orderIDs(FilterAndSortOrders(orders, domain.OrderFilter{Query: "0909"}, "", "")))
		assert.Equal(t, []string{"o5"}, orderIDs(FilterAndSortOrders(orders, domain.OrderFilter{Query: "o5"}, "", "")))
	})

	t.Run("status then text", func(t *testing.T) {
		got := FilterAndSortOrders(orders, domain.OrderFilter{Query: "nguyễn", Status: domain.OrderStatusCompleted}, "", "")
		assert.Equal(t, []string{"o4"}, orderIDs(got))
	})

	t.Run("stable sort by total", func(t *testing.T) {
		asc := FilterAndSortOrders(orders, domain.OrderFilter{}, domain.SortByTotal, domain.SortAsc)
		assert.Equal(t, []string{"o1", "o3", "o5", "o4", "o2"}, orderIDs(asc))

		desc := FilterAndSortOrders(orders, domain.OrderFilter{}, domain.SortByTotal, domain.SortDesc)
		assert.Equal(t, []string{"o2", "o4", "o1", "o3", "o5"}, orderIDs(desc), "ties keep input order")
	})

	t.Run("sort by created at", func(t *testing.T) {
		desc := FilterAndSortOrders(orders, domain.OrderFilter{}, domain.SortByCreatedAt, domain.SortDesc)
		assert.Equal(t, []string{"o5", "o4", "o3", "o2", "o1"}, orderIDs(desc))
	})

	t.Run("sort by status follows lifecycle", func(t *testing.T) {
		asc := FilterAndSortOrders(orders, domain.OrderFilter{}, domain.SortByStatus, domain.SortAsc)
		assert.Equal(t, []string{"o1", "o5", "o2", "o4", "o3"}, orderIDs(asc))
	})

	t.Run("input untouched", func(t *testing.T) {
		_ = FilterAndSortOrders(orders, domain.OrderFilter{}, domain.SortByTotal, domain.SortDesc)
		assert.Equal(t, orderIDs(sampleOrders()), orderIDs(orders))
	})
}

func TestComputeOrderStats(t *testing.T) {
	orders := sampleOrders()
	stats := ComputeOrderStats(orders)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[domain.OrderStatusPending])
	assert.Equal(t, 2, stats.ByStatus[domain.OrderStatusCompleted])
	assert.Equal(t, int64(345_000), stats.TotalRevenue)
	assert.Equal(t, int64(195_000), stats.CompletedRevenue)

	sum := 0
	for _, n := range stats.ByStatus {
		sum += n
	}
	assert.Equal(t, stats.Total, sum)
	assert.LessOrEqual(t, stats.CompletedRevenue, stats.TotalRevenue)

	empty := ComputeOrderStats(nil)
	assert.Zero(t, empty.Total)
	assert.Len(t, empty.ByStatus, len(domain.OrderStatuses))
}

func TestFilterStatConsistency(t *testing.T) {
	orders := sampleOrders()

	for _, st := range domain.OrderStatuses {
		var direct int64
		for _, o := range orders {
			if o.Status == st {
				direct += o.Total
			}
		}

		var filtered int64
		for _, o := range FilterAndSortOrders(orders, domain.OrderFilter{Status: st}, domain.SortByTotal, domain.SortDesc) {
			filtered += o.Total
		}
		assert.Equal(t, direct, filtered, st)
	}

	completed := FilterAndSortOrders(orders, domain.OrderFilter{Status: domain.OrderStatusCompleted}, "", "")
	assert.Equal(t, ComputeOrderStats(orders).CompletedRevenue, ComputeOrderStats(completed).TotalRevenue)
}

func TestOrderService_Checkout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.orders.Checkout(ctx, CheckoutInput{UserID: "user-1"})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	_, err = env.carts.AddItem(ctx, "user-1", "std-pho-bo", 2)
	require.NoError(t, err)
	_, err = env.carts.AddItem(ctx, "user-1", "std-ca-phe", 1)
	require.NoError(t, err)

	order, err := env.orders.Checkout(ctx, CheckoutInput{UserID: "user-1", UserName: "Nguyễn Văn An", TableNumber: " 7 "})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, int64(2*65_000+29_000), order.Total)
	assert.Equal(t, "7", order.TableNumber)
	assert.Equal(t, fixedNow(), order.CreatedAt)

	current, err := env.orders.Current(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, current.ID)

	last, err := env.orders.Last(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, last.ID)
}

func TestOrderService_SnapshotSurvivesCatalogDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.carts.AddItem(ctx, "", "std-bun-cha", 1)
	require.NoError(t, err)

	order, err := env.orders.Checkout(ctx, CheckoutInput{UserName: "Khách"})
	require.NoError(t, err)

	require.NoError(t, env.catalog.Delete(ctx, "std-bun-cha"))
	_, err = env.catalog.Update(ctx, "std-pho-bo", domain.MenuItem{Name: "Phở bò đặc biệt", Description: "Phở bò tái nạm gầu gân", Price: 95_000, Category: domain.CategoryMain, Image: "/images/menu/pho-bo-tai-lan.jpg"})
	require.NoError(t, err)

	stored, err := env.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, domain.OrderItem{Name: "Bún chả Hà Nội", Price: 60_000, Quantity: 1}, stored.Items[0])
}

func TestOrderService_AuditTrail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ts := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, env.orders.ProcessOrderStatusEvent(ctx, domain.OrderStatusEvent{
		EventType: domain.EventOrderCreated, OrderID: "o1", NewStatus: domain.OrderStatusPending, Timestamp: ts,
	}))
	require.NoError(t, env.orders.ProcessOrderStatusEvent(ctx, domain.OrderStatusEvent{
		EventType: domain.EventOrderStatusChanged, OrderID: "o1", OldStatus: domain.OrderStatusPending, NewStatus: domain.OrderStatusCompleted, UserID: "admin", Timestamp: ts.Add(time.Minute),
	}))

	trail, err := env.orders.GetOrderAudit(ctx, "o1", 10)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, domain.OrderStatusCompleted, trail[0].NewStatus)
	assert.Equal(t, domain.EventOrderCreated, trail[1].EventType)
}

func TestOrderService_Stats(t *testing.T) {
	env := newTestEnv(t)
	env.seedOrders(t, sampleOrders()...)

	stats, err := env.orders.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ComputeOrderStats(sampleOrders()), stats)
}

func TestOrderService_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
