package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/docs"
	"github.com/Beka01247/food-ordering/internal/auth"
	"github.com/Beka01247/food-ordering/internal/queue"
	"github.com/Beka01247/food-ordering/internal/ratelimiter"
	"github.com/Beka01247/food-ordering/internal/service"
	"github.com/Beka01247/food-ordering/internal/store"
	"github.com/Beka01247/food-ordering/internal/worker"
)

type application struct {
	config        config
	logger        *zap.SugaredLogger
	rateLimiter   ratelimiter.Limiter
	authenticator *auth.JWTAuthenticator
	kv            store.KV
	broker        queue.Broker
	catalog       *service.CatalogService
	orders        *service.OrderService
	users         *service.UserService
	carts         *service.CartService
	payments      *service.PaymentService
	imports       *service.ImportService
	orderWorker   *worker.OrderStatusWorker
	importWorker  *worker.CatalogImportWorker
}

type config struct {
	addr        string
	env         string
	apiURL      string
	storeDriver string
	rateLimiter ratelimiter.Config
	auth        authConfig
	payment     paymentConfig
	mongo       mongoConfig
	redis       redisConfig
	rabbitMQ    rabbitMQConfig
	googleCreds string
}

type authConfig struct {
	secret string
	issuer string
	ttl    time.Duration
}

type paymentConfig struct {
	stripeKey string
	currency  string
	delay     time.Duration
}

type mongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type redisConfig struct {
	Addr     string
	Password string
	DB       int
}

type rabbitMQConfig struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.Post("/sessions", app.createSessionHandler)

		r.Group(func(r chi.Router) {
			r.Use(app.authenticate)

			r.Route("/menu", func(r chi.Router) {
				r.Get("/", app.listMenuHandler)
				r.Get("/{item_id}", app.getMenuItemHandler)

				r.Group(func(r chi.Router) {
					r.Use(app.requireAdmin)

					r.Post("/", app.createMenuItemHandler)
					r.Put("/{item_id}", app.updateMenuItemHandler)
					r.Delete("/{item_id}", app.deleteMenuItemHandler)

					r.Post("/import", app.createImportTaskHandler)
					r.Get("/import/{task_id}", app.getImportTaskHandler)
				})
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", app.getCartHandler)
				r.Delete("/", app.clearCartHandler)
				r.Post("/items", app.addCartItemHandler)
				r.Patch("/items/{item_id}", app.updateCartItemHandler)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", app.checkoutHandler)
				r.Get("/last", app.lastOrderHandler)

				r.Group(func(r chi.Router) {
					r.Use(app.requireAdmin)

					r.Get("/", app.listOrdersHandler)
					r.Get("/stats", app.orderStatsHandler)
					r.Patch("/{order_id}/status", app.updateOrderStatusHandler)
					r.Get("/{order_id}/audit", app.getOrderAuditHandler)
				})

				r.Get("/{order_id}", app.getOrderHandler)
				r.Post("/{order_id}/payment-intent", app.createPaymentIntentHandler)
				r.Post("/{order_id}/pay", app.payOrderHandler)
			})

			r.Delete("/payment-intents/{intent_id}", app.cancelPaymentIntentHandler)

			r.Route("/users", func(r chi.Router) {
				r.Use(app.requireAdmin)

				r.Get("/", app.listUsersHandler)
				r.Delete("/{user_id}", app.deleteUserHandler)
			})
		})
	})

	return r
}

func (app *application) startWorkers() error {
	if app.orderWorker != nil {
		if err := app.orderWorker.Start(); err != nil {
			return fmt.Errorf("failed to start order status worker: %w", err)
		}
	}
	if app.importWorker != nil {
		if err := app.importWorker.Start(); err != nil {
			return fmt.Errorf("failed to start catalog import worker: %w", err)
		}
	}
	return nil
}

func (app *application) stopWorkers() {
	if app.orderWorker != nil {
		app.orderWorker.Stop()
	}
	if app.importWorker != nil {
		app.importWorker.Stop()
	}
}

func (app *application) run(mux http.Handler) error {
	// docs
	docs.SwaggerInfo.Title = "Food Ordering API"
	docs.SwaggerInfo.Description = "Restaurant menu, cart, orders and payments"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/api/v1"

	if err := app.startWorkers(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		app.stopWorkers()

		if app.kv != nil {
			if err := app.kv.Close(ctx); err != nil {
				app.logger.Errorw("error closing storage", "driver", app.config.storeDriver, "error", err)
			} else {
				app.logger.Infow("storage closed gracefully", "driver", app.config.storeDriver)
			}
		}

		if app.broker != nil {
			if err := app.broker.Close(); err != nil {
				app.logger.Errorw("error closing broker", "error", err)
			} else {
				app.logger.Info("broker closed gracefully")
			}
		}

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server have started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
