// Package kvstore implements the entity repositories on top of a store.KV.
// Each entity lives under one key as a JSON document, so every write is a
// full read-modify-write of that key (last write wins).
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/store"
)

const (
	KeyMenuItems            = "menuItems"
	KeyMenuMigrationVersion = "menuMigrationVersion"
	KeyOrders               = "orders"
	KeyUsers                = "users"
	cartKeyPrefix         = "cart_"
	lastOrderKeyPrefix    = "lastOrder_"
	currentOrderKeyPrefix = "currentOrder_"
	importTaskKeyPrefix   = "importTask_"
	auditKeyPrefix        = "orderAudit_"
)

func CartKey(owner string) string {
	return cartKeyPrefix + owner
}

func LastOrderKey(owner string) string {
	return lastOrderKeyPrefix + owner
}

func CurrentOrderKey(owner string) string {
	return currentOrderKeyPrefix + owner
}

// readJSON decodes key into dst. It reports false when the key is absent or
// holds malformed JSON; the latter is logged and treated as no data.
func readJSON(ctx context.Context, kv store.KV, logger *zap.SugaredLogger, key string, dst any) (bool, error) {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		logger.Warnw("discarding malformed stored value", "key", key, "error", err)
		return false, nil
	}

	return true, nil
}

func writeJSON(ctx context.Context, kv store.KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}
