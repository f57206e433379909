package kvstore

import (
	"context"

	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/store"
)

type CatalogRepository struct {
	kv     store.KV
	logger *zap.SugaredLogger
}

func NewCatalogRepository(kv store.KV, logger *zap.SugaredLogger) *CatalogRepository {
	return &CatalogRepository{kv: kv, logger: logger}
}

func (r *CatalogRepository) Load(ctx context.Context) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	ok, err := readJSON(ctx, r.kv, r.logger, KeyMenuItems, &items)
	if err != nil || !ok {
		return nil, err
	}
	return items, nil
}

func (r *CatalogRepository) Save(ctx context.Context, items []domain.MenuItem) error {
	if items == nil {
		items = []domain.MenuItem{}
	}
	return writeJSON(ctx, r.kv, KeyMenuItems, items)
}

func (r *CatalogRepository) MigrationVersion(ctx context.Context) (int, error) {
	var version int
	if _, err := readJSON(ctx, r.kv, r.logger, KeyMenuMigrationVersion, &version); err != nil {
		return 0, err
	}
	return version, nil
}

func (r *CatalogRepository) SetMigrationVersion(ctx context.Context, version int) error {
	return writeJSON(ctx, r.kv, KeyMenuMigrationVersion, version)
}
