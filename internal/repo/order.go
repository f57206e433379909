package repo

import (
	"context"

	"github.com/Beka01247/food-ordering/internal/domain"
)

type OrderRepository interface {
	Load(ctx context.Context) ([]domain.Order, error)
	Save(ctx context.Context, orders []domain.Order) error
	// The last/current markers are kept per owner (user id or guest owner).
	GetLast(ctx context.Context, owner string) (*domain.Order, error)
	SetLast(ctx context.Context, owner string, order *domain.Order) error
	GetCurrent(ctx context.Context, owner string) (*domain.Order, error)
	SetCurrent(ctx context.Context, owner string, order *domain.Order) error
	ClearCurrent(ctx context.Context, owner string) error
}
