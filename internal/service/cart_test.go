package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beka01247/food-ordering/internal/domain"
)

func TestCartService_AddAndSetQuantity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cart, err := env.carts.AddItem(ctx, "user-1", "std-goi-cuon", 2)
	require.NoError(t, err)
	cart, err = env.carts.AddItem(ctx, "user-1", "std-goi-cuon", 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, int64(105_000), cart.Total())

	cart, err = env.carts.SetQuantity(ctx, "user-1", "std-goi-cuon", 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	guest, err := env.carts.Get(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, domain.GuestCartOwner, guest.Owner)
	assert.Empty(t, guest.Items)
}

func TestCartService_Rejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.carts.AddItem(ctx, "user-1", "std-goi-cuon", 0)
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = env.carts.AddItem(ctx, "user-1", "missing", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.carts.SetQuantity(ctx, "user-1", "std-cha-gio", 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartService_Clear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.carts.AddItem(ctx, "user-2", "std-che-ba-mau", 1)
	require.NoError(t, err)
	require.NoError(t, env.carts.Clear(ctx, "user-2"))

	cart, err := env.carts.Get(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
