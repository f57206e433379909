// Package driver opens the configured key-value backend.
package driver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/repo"
	"github.com/Beka01247/food-ordering/internal/store"
	"github.com/Beka01247/food-ordering/internal/store/kvstore"
	"github.com/Beka01247/food-ordering/internal/store/memory"
	"github.com/Beka01247/food-ordering/internal/store/mongo"
	"github.com/Beka01247/food-ordering/internal/store/redis"
)

const (
	Mongo  = "mongo"
	Redis  = "redis"
	Memory = "memory"
)

type Config struct {
	Driver string
	Mongo  mongo.Config
	Redis  redis.Config
}

// Backend bundles the entity repositories over one store.
type Backend struct {
	KV        store.KV
	Catalog   repo.CatalogRepository
	Orders    repo.OrderRepository
	Users     repo.UserRepository
	Carts     repo.CartRepository
	Imports   repo.ImportTaskRepository
	OrderLogs repo.OrderStatusAuditRepository
}

func Open(ctx context.Context, cfg Config, logger *zap.SugaredLogger) (*Backend, error) {
	switch cfg.Driver {
	case Mongo, "":
		storage, err := mongo.New(cfg.Mongo)
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := storage.CreateIndexes(ctx); err != nil {
			logger.Warnw("failed to create indexes", "error", err)
		} else {
			logger.Info("MongoDB indexes created successfully")
		}

		b := FromKV(mongo.NewKV(storage), logger)
		b.OrderLogs = mongo.NewOrderStatusAuditRepository(storage.Database())
		return b, nil

	case Redis:
		kv, err := redis.New(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return FromKV(kv, logger), nil

	case Memory:
		return FromKV(memory.New(), logger), nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// FromKV builds every repository on top of kv.
func FromKV(kv store.KV, logger *zap.SugaredLogger) *Backend {
	return &Backend{
		KV:        kv,
		Catalog:   kvstore.NewCatalogRepository(kv, logger),
		Orders:    kvstore.NewOrderRepository(kv, logger),
		Users:     kvstore.NewUserRepository(kv, logger),
		Carts:     kvstore.NewCartRepository(kv, logger),
		Imports:   kvstore.NewImportTaskRepository(kv, logger),
		OrderLogs: kvstore.NewOrderStatusAuditRepository(kv, logger),
	}
}
