package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/env"
	"github.com/Beka01247/food-ordering/internal/service"
	"github.com/Beka01247/food-ordering/internal/store/driver"
	"github.com/Beka01247/food-ordering/internal/store/mongo"
	"github.com/Beka01247/food-ordering/internal/store/redis"
)

// RootOptions holds the flags shared by every command.
type RootOptions struct {
	Driver  string
	Verbose bool

	logger  *zap.SugaredLogger
	backend *driver.Backend
}

// NewRootCommand builds the foodctl command tree. The store is opened
// before any subcommand runs and closed after it returns.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "foodctl",
		Short:         "Maintenance commands for the food ordering store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.close()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", env.GetString("STORE_DRIVER", driver.Mongo), "store driver (mongo|redis|memory)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log to stderr")

	cmd.AddCommand(NewMigrateCatalogCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))
	cmd.AddCommand(NewUsersCommand(opts))

	return cmd
}

func (o *RootOptions) open(cmd *cobra.Command) error {
	o.logger = zap.NewNop().Sugar()
	if o.Verbose {
		o.logger = zap.Must(zap.NewDevelopment()).Sugar()
	}

	backend, err := driver.Open(cmd.Context(), driver.Config{
		Driver: o.Driver,
		Mongo: mongo.Config{
			URI:      env.GetString("MONGO_URI", "mongodb://localhost:27017"),
			Database: env.GetString("MONGO_DATABASE", "food_ordering"),
			Timeout:  time.Second * 10,
		},
		Redis: redis.Config{
			Addr:     env.GetString("REDIS_ADDR", "localhost:6379"),
			Password: env.GetString("REDIS_PASSWORD", ""),
			DB:       env.GetInt("REDIS_DB", 0),
			Timeout:  time.Second * 5,
		},
	}, o.logger)
	if err != nil {
		return err
	}

	o.backend = backend
	return nil
}

func (o *RootOptions) close() error {
	_ = o.logger.Sync()
	if o.backend == nil {
		return nil
	}
	return o.backend.KV.Close(context.Background())
}

func (o *RootOptions) catalog() *service.CatalogService {
	return service.NewCatalogService(o.backend.Catalog, o.logger)
}

// orders runs without a broker; status changes made here are not published.
func (o *RootOptions) orders() *service.OrderService {
	return service.NewOrderService(o.backend.Orders, o.backend.Carts, o.backend.OrderLogs, nil, o.logger)
}

func (o *RootOptions) users() *service.UserService {
	return service.NewUserService(o.backend.Users, o.logger)
}
