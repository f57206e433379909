// Package store defines the key-value contract every persistence backend
// implements. Entities are kept as JSON documents under well-known keys.
package store

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

type KV interface {
	// Get returns ErrKeyNotFound when key has never been set or was deleted.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
