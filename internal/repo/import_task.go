package repo

import (
	"context"

	"github.com/Beka01247/food-ordering/internal/domain"
)

type ImportTaskRepository interface {
	Create(ctx context.Context, task *domain.ImportTask) error
	GetByID(ctx context.Context, id string) (*domain.ImportTask, error)
	Update(ctx context.Context, task *domain.ImportTask) error
}
