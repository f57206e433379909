package repo

import (
	"context"

	"github.com/Beka01247/food-ordering/internal/domain"
)

// CatalogRepository persists the menu as one ordered sequence. A nil slice
// with a nil error means nothing has been stored yet.
type CatalogRepository interface {
	Load(ctx context.Context) ([]domain.MenuItem, error)
	Save(ctx context.Context, items []domain.MenuItem) error
	// MigrationVersion is 0 for a store that was never migrated.
	MigrationVersion(ctx context.Context) (int, error)
	SetMigrationVersion(ctx context.Context, version int) error
}
