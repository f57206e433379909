package kvstore

import (
	"context"

	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/store"
)

type CartRepository struct {
	kv     store.KV
	logger *zap.SugaredLogger
}

func NewCartRepository(kv store.KV, logger *zap.SugaredLogger) *CartRepository {
	return &CartRepository{kv: kv, logger: logger}
}

// Get never fails with not-found: a missing cart is an empty one.
func (r *CartRepository) Get(ctx context.Context, owner string) (*domain.Cart, error) {
	items := []domain.CartItem{}
	ok, err := readJSON(ctx, r.kv, r.logger, CartKey(owner), &items)
	if err != nil {
		return nil, err
	}
	if !ok || items == nil {
		items = []domain.CartItem{}
	}
	return &domain.Cart{Owner: owner, Items: items}, nil
}

func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return writeJSON(ctx, r.kv, CartKey(cart.Owner), items)
}

func (r *CartRepository) Delete(ctx context.Context, owner string) error {
	return r.kv.Delete(ctx, CartKey(owner))
}
