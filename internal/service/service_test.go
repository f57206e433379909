package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/queue"
	"github.com/Beka01247/food-ordering/internal/store/kvstore"
	"github.com/Beka01247/food-ordering/internal/store/memory"
)

type testEnv struct {
	kv       *memory.KV
	broker   *queue.MemoryBroker
	catalog  *CatalogService
	orders   *OrderService
	users    *UserService
	carts    *CartService
	payments *PaymentService
	gateway  *fakeGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop().Sugar()
	kv := memory.New()
	broker := queue.NewMemoryBroker(0, logger)
	gateway := &fakeGateway{}

	catalog := NewCatalogService(kvstore.NewCatalogRepository(kv, logger), logger)
	orders := NewOrderService(
		kvstore.NewOrderRepository(kv, logger),
		kvstore.NewCartRepository(kv, logger),
		kvstore.NewOrderStatusAuditRepository(kv, logger),
		broker,
		logger,
	)
	carts := NewCartService(kvstore.NewCartRepository(kv, logger), catalog, logger)
	payments := NewPaymentService(orders, carts, gateway, 0, logger)
	orders.now = fixedNow
	payments.now = fixedNow

	var seq int
	orders.newID = func() string {
		seq++
		return fmt.Sprintf("ord-%d", seq)
	}

	return &testEnv{
		kv:       kv,
		broker:   broker,
		catalog:  catalog,
		orders:   orders,
		users:    NewUserService(kvstore.NewUserRepository(kv, logger), logger),
		carts:    carts,
		payments: payments,
		gateway:  gateway,
	}
}

func fixedNow() time.Time {
	return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
}

// seedOrders stores orders directly, bypassing checkout.
func (e *testEnv) seedOrders(t *testing.T, orders ...domain.Order) {
	t.Helper()
	require.NoError(t, e.orders.orderRepo.Save(context.Background(), orders))
}

type fakeGateway struct {
	err      error
	requests []domain.PaymentIntentRequest
	canceled []string
}

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, req domain.PaymentIntentRequest) (*domain.PaymentIntent, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &domain.PaymentIntent{ID: "pi_" + req.OrderID, ClientSecret: "pi_" + req.OrderID + "_secret", Status: "requires_payment_method"}, nil
}

func (g *fakeGateway) CancelPaymentIntent(_ context.Context, id string) (*domain.PaymentIntent, error) {
	g.canceled = append(g.canceled, id)
	if g.err != nil {
		return nil, g.err
	}
	return &domain.PaymentIntent{ID: id, Status: "canceled"}, nil
}
