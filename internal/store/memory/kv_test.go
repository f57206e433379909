package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beka01247/food-ordering/internal/store"
)

func TestKV(t *testing.T) {
	ctx := context.Background()
	kv := New()

	_, err := kv.Get(ctx, "orders")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)

	buf := []byte(`[]`)
	require.NoError(t, kv.Set(ctx, "orders", buf))
	buf[0] = 'x'

	got, err := kv.Get(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got), "stored value must not alias the caller's slice")

	require.NoError(t, kv.Delete(ctx, "orders"))
	_, err = kv.Get(ctx, "orders")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
}
