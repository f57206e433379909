package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/domain"
	"github.com/Beka01247/food-ordering/internal/repo"
)

type CatalogService struct {
	catalogRepo repo.CatalogRepository
	validate    *validator.Validate
	logger      *zap.SugaredLogger
	newID       func() string
}

func NewCatalogService(catalogRepo repo.CatalogRepository, logger *zap.SugaredLogger) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		validate:    newValidator(time.Now),
		logger:      logger,
		newID:       uuid.NewString,
	}
}

// catalogMigrationVersion is bumped whenever migrateCatalog learns a new
// rule, so stores migrated by an older release are migrated again.
const catalogMigrationVersion = 1

// Load returns the menu in stored order. An empty store is seeded with the
// default menu. Stores not yet at catalogMigrationVersion are migrated once;
// later admin edits (such as deleting a standard dish) are left alone.
func (s *CatalogService) Load(ctx context.Context) ([]domain.MenuItem, error) {
	items, err := s.catalogRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}

	version, err := s.catalogRepo.MigrationVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu migration version: %w", err)
	}
	if items != nil && version >= catalogMigrationVersion {
		return items, nil
	}

	seeded := items == nil
	if seeded {
		items = DefaultMenu()
	}

	migrated, changed := migrateCatalog(items, s.newID)
	if changed || seeded {
		if err := s.catalogRepo.Save(ctx, migrated); err != nil {
			return nil, fmt.Errorf("failed to save migrated menu: %w", err)
		}
	}
	if err := s.catalogRepo.SetMigrationVersion(ctx, catalogMigrationVersion); err != nil {
		return nil, fmt.Errorf("failed to save menu migration version: %w", err)
	}

	s.logger.Infow("menu migrated", "items", len(migrated), "seeded", seeded, "changed", changed)

	return migrated, nil
}

func (s *CatalogService) Save(ctx context.Context, items []domain.MenuItem) error {
	if err := s.catalogRepo.Save(ctx, items); err != nil {
		return fmt.Errorf("failed to save menu: %w", err)
	}
	return nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.MenuItem, error) {
	items, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}

	return nil, fmt.Errorf("menu item %s: %w", id, domain.ErrNotFound)
}

// Validate checks a menu item against the catalog rules and returns a
// *domain.ValidationError describing the first violation.
func (s *CatalogService) Validate(item domain.MenuItem) error {
	return firstValidationError(s.validate.Struct(normalizeMenuItem(item)), menuItemMessages)
}

func (s *CatalogService) Create(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	item = normalizeMenuItem(item)
	if err := s.Validate(item); err != nil {
		return nil, err
	}

	items, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	item.ID = s.uniqueID(items)
	items = append(items, item)

	if err := s.Save(ctx, items); err != nil {
		return nil, err
	}

	s.logger.Infow("menu item created", "item_id", item.ID, "name", item.Name)

	return &item, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, item domain.MenuItem) (*domain.MenuItem, error) {
	item = normalizeMenuItem(item)
	if err := s.Validate(item); err != nil {
		return nil, err
	}

	items, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOfItem(items, id)
	if idx < 0 {
		return nil, fmt.Errorf("menu item %s: %w", id, domain.ErrNotFound)
	}

	item.ID = id
	items[idx] = item

	if err := s.Save(ctx, items); err != nil {
		return nil, err
	}

	s.logger.Infow("menu item updated", "item_id", id)

	return &item, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	items, err := s.Load(ctx)
	if err != nil {
		return err
	}

	idx := indexOfItem(items, id)
	if idx < 0 {
		return fmt.Errorf("menu item %s: %w", id, domain.ErrNotFound)
	}

	items = append(items[:idx], items[idx+1:]...)

	if err := s.Save(ctx, items); err != nil {
		return err
	}

	s.logger.Infow("menu item deleted", "item_id", id)

	return nil
}

// Upsert merges items into the menu by name. The returned slice holds one
// entry per input: nil when the item was stored, the validation error
// otherwise. The menu is written once.
func (s *CatalogService) Upsert(ctx context.Context, incoming []domain.MenuItem) ([]error, error) {
	items, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]error, len(incoming))
	changed := false
	for i, item := range incoming {
		item = normalizeMenuItem(item)
		if err := s.Validate(item); err != nil {
			results[i] = err
			continue
		}

		if idx := indexOfName(items, item.Name); idx >= 0 {
			item.ID = items[idx].ID
			items[idx] = item
		} else {
			item.ID = s.uniqueID(items)
			items = append(items, item)
		}
		changed = true
	}

	if changed {
		if err := s.Save(ctx, items); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// FilterMenu narrows the menu by category and a case-insensitive text match.
func FilterMenu(items []domain.MenuItem, category domain.Category, query string) []domain.MenuItem {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]domain.MenuItem, 0, len(items))
	for _, it := range items {
		if category != "" && it.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(it.Name), query) &&
			!strings.Contains(strings.ToLower(it.Description), query) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (s *CatalogService) uniqueID(items []domain.MenuItem) string {
	for {
		id := s.newID()
		if indexOfItem(items, id) < 0 {
			return id
		}
	}
}

func normalizeMenuItem(item domain.MenuItem) domain.MenuItem {
	item.Name = strings.TrimSpace(item.Name)
	item.Description = strings.TrimSpace(item.Description)
	item.Image = strings.TrimSpace(item.Image)
	return item
}

func indexOfItem(items []domain.MenuItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfName(items []domain.MenuItem, name string) int {
	key := nameKey(name)
	for i := range items {
		if nameKey(items[i].Name) == key {
			return i
		}
	}
	return -1
}
