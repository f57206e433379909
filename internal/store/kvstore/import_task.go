package kvstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/store"
)

type ImportTaskRepository struct {
	kv     store.KV
	logger *zap.SugaredLogger
}

func NewImportTaskRepository(kv store.KV, logger *zap.SugaredLogger) *ImportTaskRepository {
	return &ImportTaskRepository{kv: kv, logger: logger}
}

func (r *ImportTaskRepository) Create(ctx context.Context, task *domain.ImportTask) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt

	return writeJSON(ctx, r.kv, importTaskKeyPrefix+task.ID, task)
}

func (r *ImportTaskRepository) GetByID(ctx context.Context, id string) (*domain.ImportTask, error) {
	var task domain.ImportTask
	ok, err := readJSON(ctx, r.kv, r.logger, importTaskKeyPrefix+id, &task)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &task, nil
}

func (r *ImportTaskRepository) Update(ctx context.Context, task *domain.ImportTask) error {
	task.UpdatedAt = time.Now()
	return writeJSON(ctx, r.kv, importTaskKeyPrefix+task.ID, task)
}
