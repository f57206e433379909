package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beka01247/food-ordering/internal/store"
)

// Requires a running Redis; set TEST_REDIS_ADDR to enable.
func TestKV_Integration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if testing.Short() || addr == "" {
		t.Skip("skipping redis integration test: TEST_REDIS_ADDR not set")
	}

	kv, err := New(Config{Addr: addr, KeyPrefix: "test:" + time.Now().Format("150405.000") + ":", Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer kv.Close(context.Background())

	ctx := context.Background()

	_, err = kv.Get(ctx, "menuItems")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "menuItems", []byte(`[{"id":"1"}]`)))
	got, err := kv.Get(ctx, "menuItems")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(got))

	require.NoError(t, kv.Delete(ctx, "menuItems"))
	_, err = kv.Get(ctx, "menuItems")
	assert.ErrorIs(t, err, store.ErrKeyNotFound)
}
