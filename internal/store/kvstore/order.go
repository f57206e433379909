package kvstore

import (
	"context"

	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/store"
)

type OrderRepository struct {
	kv     store.KV
	logger *zap.SugaredLogger
}

func NewOrderRepository(kv store.KV, logger *zap.SugaredLogger) *OrderRepository {
	return &OrderRepository{kv: kv, logger: logger}
}

func (r *OrderRepository) Load(ctx context.Context) ([]domain.Order, error) {
	orders := []domain.Order{}
	ok, err := readJSON(ctx, r.kv, r.logger, KeyOrders, &orders)
	if err != nil {
		return nil, err
	}
	if !ok || orders == nil {
		return []domain.Order{}, nil
	}
	return orders, nil
}

func (r *OrderRepository) Save(ctx context.Context, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}
	return writeJSON(ctx, r.kv, KeyOrders, orders)
}

func (r *OrderRepository) GetLast(ctx context.Context, owner string) (*domain.Order, error) {
	return r.getSnapshot(ctx, LastOrderKey(owner))
}

func (r *OrderRepository) SetLast(ctx context.Context, owner string, order *domain.Order) error {
	return writeJSON(ctx, r.kv, LastOrderKey(owner), order)
}

func (r *OrderRepository) GetCurrent(ctx context.Context, owner string) (*domain.Order, error) {
	return r.getSnapshot(ctx, CurrentOrderKey(owner))
}

func (r *OrderRepository) SetCurrent(ctx context.Context, owner string, order *domain.Order) error {
	return writeJSON(ctx, r.kv, CurrentOrderKey(owner), order)
}

func (r *OrderRepository) ClearCurrent(ctx context.Context, owner string) error {
	return r.kv.Delete(ctx, CurrentOrderKey(owner))
}

func (r *OrderRepository) getSnapshot(ctx context.Context, key string) (*domain.Order, error) {
	var order domain.Order
	ok, err := readJSON(ctx, r.kv, r.logger, key, &order)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &order, nil
}
