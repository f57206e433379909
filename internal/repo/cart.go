package repo

import (
	"context"

	"github.com/Beka01247/food-ordering/internal/domain"
)

type CartRepository interface {
	Get(ctx context.Context, owner string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, owner string) error
}
