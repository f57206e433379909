package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beka01247/food-ordering/internal/domain"
)

func counterID() func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

func legacyMenu() []domain.MenuItem {
	return []domain.MenuItem{
		{ID: "1", Name: "pho bo", Description: "Phở bò truyền thống", Price: 50_000, Category: domain.CategoryMain, Image: ""},
		{ID: "2", Name: "Bánh mì pate", Description: "Bánh mì kẹp pate", Price: 20_000, Category: domain.CategoryMain, Image: "/img/banh-mi.jpg"},
		{ID: "3", Name: "Chè ba màu", Description: "Chè ba màu mát lạnh", Price: 25_000, Category: domain.CategoryDessert, Image: "https://placeholder.com/300"},
		{ID: "3", Name: "Cơm gà", Description: "Cơm gà Hội An", Price: 45_000, Category: domain.CategoryMain, Image: "/img/com-ga.jpg"},
		{ID: "", Name: "Bún bò Huế", Description: "Bún bò Huế cay", Price: 55_000, Category: domain.CategoryMain, Image: "/img/bun-bo.jpg"},
	}
}

func TestMigrateCatalog_Idempotent(t *testing.T) {
	once, changed := migrateCatalog(legacyMenu(), counterID())
	require.True(t, changed)

	twice, changed := migrateCatalog(once, counterID())
	assert.False(t, changed)
	assert.Equal(t, once, twice)
}

func TestMigrateCatalog_Rules(t *testing.T) {
	out, _ := migrateCatalog(legacyMenu(), counterID())

	names := make(map[string]domain.MenuItem, len(out))
	ids := make(map[string]bool, len(out))
	for _, it := range out {
		names[it.Name] = it
		assert.False(t, ids[it.ID], "duplicate id %s", it.ID)
		assert.NotEmpty(t, it.ID)
		ids[it.ID] = true
	}

	assert.NotContains(t, names, "Bánh mì pate", "discontinued dish is dropped")
	assert.NotContains(t, names, "pho bo")
	require.Contains(t, names, "Phở bò tái lăn", "legacy name is restyled")
	assert.Equal(t, "1", names["Phở bò tái lăn"].ID)
	assert.Equal(t, "/images/menu/pho-bo-tai-lan.jpg", names["Phở bò tái lăn"].Image)
	assert.Equal(t, "/images/menu/che-ba-mau.jpg", names["Chè ba màu"].Image, "placeholder image is backfilled")
	assert.Equal(t, "/img/com-ga.jpg", names["Cơm gà"].Image)

	for _, std := range newStandardDishes {
		assert.Contains(t, names, std.Name)
	}
}

func TestMigrateCatalog_LegacyAlongsideCanonical(t *testing.T) {
	items := []domain.MenuItem{
		{ID: "a", Name: "Bún chả Hà Nội", Description: "Bún chả Hà Nội", Price: 60_000, Category: domain.CategoryMain, Image: "/x.jpg"},
		{ID: "b", Name: "bun cha", Description: "Bún chả cũ", Price: 40_000, Category: domain.CategoryMain, Image: "/y.jpg"},
	}

	out, _ := migrateCatalog(items, counterID())

	count := 0
	for _, it := range out {
		if nameKey(it.Name) == nameKey("Bún chả Hà Nội") {
			count++
			assert.Equal(t, "a", it.ID)
		}
	}
	assert.Equal(t, 1, count)
}

func TestCatalogService_LoadSeedsDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	items, err := env.catalog.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, len(defaultMenu)+len(newStandardDishes))

	again, err := env.catalog.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, items, again)
}

func TestCatalogService_DeletedStandardDishStaysDeleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, env.catalog.Delete(ctx, "std-tra-dao"))

	items, err := env.catalog.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, -1, indexOfItem(items, "std-tra-dao"))
}

func TestCatalogService_MalformedStoreFallsBackToDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.kv.Set(ctx, "menuItems", []byte(`{{{`)))

	items, err := env.catalog.Load(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, items)
}

func TestCatalogService_UniqueIDs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ids := []string{"std-pho-bo", "std-pho-bo", "fresh-1", "fresh-2"}
	env.catalog.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	item := domain.MenuItem{Name: "Bánh xèo", Description: "Bánh xèo miền Tây giòn rụm", Price: 45_000, Category: domain.CategoryMain, Image: "/images/menu/banh-xeo.jpg"}

	created, err := env.catalog.Create(ctx, item)
	require.NoError(t, err)
	assert.Equal(t, "fresh-1", created.ID, "ids colliding with existing items are skipped")

	_, err = env.catalog.Update(ctx, created.ID, domain.MenuItem{Name: "Bánh xèo tôm", Description: "Bánh xèo tôm thịt giòn rụm", Price: 50_000, Category: domain.CategoryMain, Image: "/images/menu/banh-xeo.jpg"})
	require.NoError(t, err)

	require.NoError(t, env.catalog.Delete(ctx, "std-com-tam"))

	second, err := env.catalog.Create(ctx, item)
	require.NoError(t, err)

	items, err := env.catalog.Load(ctx)
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, it := range items {
		assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
	}
	assert.True(t, seen[second.ID])
}

func TestCatalogService_Validate(t *testing.T) {
	env := newTestEnv(t)

	valid := domain.MenuItem{Name: "Bánh xèo", Description: "Bánh xèo miền Tây", Price: 45_000, Category: domain.CategoryMain, Image: "https://cdn.example.com/banh-xeo.png"}
	require.NoError(t, env.catalog.Validate(valid))

	tests := []struct {
		name   string
		mutate func(*domain.MenuItem)
		field  string
	}{
		{"short name", func(it *domain.MenuItem) { it.Name = "B" }, "Name"},
		{"short description", func(it *domain.MenuItem) { it.Description = "ngon" }, "Description"},
		{"price too low", func(it *domain.MenuItem) { it.Price = 999 }, "Price"},
		{"price too high", func(it *domain.MenuItem) { it.Price = 10_000_001 }, "Price"},
		{"unknown category", func(it *domain.MenuItem) { it.Category = "soup" }, "Category"},
		{"bad image", func(it *domain.MenuItem) { it.Image = "not an image" }, "Image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid
			tt.mutate(&item)

			err := env.catalog.Validate(item)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, menuItemMessages[tt.field], verr.Message)
		})
	}
}

func TestCatalogService_CreateInvalidDoesNotPersist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	before, err := env.catalog.Load(ctx)
	require.NoError(t, err)

	_, err = env.catalog.Create(ctx, domain.MenuItem{Name: "X"})
	require.Error(t, err)

	after, err := env.catalog.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCatalogService_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, env.catalog.Delete(ctx, "missing"), domain.ErrNotFound)
}

func TestCatalogService_Upsert(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	results, err := env.catalog.Upsert(ctx, []domain.MenuItem{
		{Name: "Phở bò tái lăn", Description: "Phở bò giá mới từ bảng tính", Price: 70_000, Category: domain.CategoryMain, Image: "/images/menu/pho-bo-tai-lan.jpg"},
		{Name: "Bánh cuốn", Description: "Bánh cuốn Thanh Trì nóng hổi", Price: 40_000, Category: domain.CategoryMain, Image: "/images/menu/banh-cuon.jpg"},
		{Name: "?", Description: "short", Price: 1},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.NoError(t, results[0])
	assert.NoError(t, results[1])
	assert.Error(t, results[2])

	pho, err := env.catalog.Get(ctx, "std-pho-bo")
	require.NoError(t, err)
	assert.Equal(t, int64(70_000), pho.Price, "existing dish keeps its id")

	items, err := env.catalog.Load(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, indexOfName(items, "Bánh cuốn"), 0)
}

func TestFilterMenu(t *testing.T) {
	items := DefaultMenu()

	drinks := FilterMenu(items, domain.CategoryDrink, "")
	require.Len(t, drinks, 1)
	assert.Equal(t, "std-ca-phe", drinks[0].ID)

	assert.Len(t, FilterMenu(items, "", "BÚN"), 1)
	assert.Empty(t, FilterMenu(items, domain.CategoryDrink, "phở"))
}
