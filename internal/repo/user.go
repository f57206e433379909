package repo

import (
	"context"

	"github.com/Beka01247/food-ordering/internal/domain"
)

type UserRepository interface {
	Load(ctx context.Context) ([]domain.User, error)
	Save(ctx context.Context, users []domain.User) error
}
