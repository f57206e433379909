package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Beka01247/food-ordering/internal/auth"
	"github.com/Beka01247/food-ordering/internal/env"
	"github.com/Beka01247/food-ordering/internal/gateway"
	"github.com/Beka01247/food-ordering/internal/parser"
	"github.com/Beka01247/food-ordering/internal/queue"
	"github.com/Beka01247/food-ordering/internal/ratelimiter"
	"github.com/Beka01247/food-ordering/internal/service"
	"github.com/Beka01247/food-ordering/internal/store/driver"
	"github.com/Beka01247/food-ordering/internal/store/mongo"
	"github.com/Beka01247/food-ordering/internal/store/redis"
	"github.com/Beka01247/food-ordering/internal/worker"
)

const version = "1.0.0"

//	@title			Food Ordering API
//	@description	Restaurant menu, cart, orders and payments
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	http://www.swagger.io/support
//	@contact.email	support@swagger.io

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath					/api/v1
//
// @securityDefinitions.apiKey	ApiKeyAuth
// @in							header
// @name						Authorization
// @description
func main() {
	_ = godotenv.Load()

	cfg := config{
		addr:        ":" + env.GetString("PORT", "8080"),
		apiURL:      env.GetString("EXTERNAL_URL", "localhost:8080"),
		env:         env.GetString("ENV", "development"),
		storeDriver: env.GetString("STORE_DRIVER", driver.Mongo),
		rateLimiter: ratelimiter.Config{
			RequestsPerTimeFrame: env.GetInt("RATELIMITER_REQUESTS_COUNT", 20),
			TimeFrame:            time.Second * 5,
			Enabled:              env.GetBool("RATE_LIMITER_ENABLED", true),
		},
		auth: authConfig{
			secret: env.GetString("JWT_SECRET", "example"),
			issuer: "food-ordering",
			ttl:    env.GetDuration("JWT_TTL", time.Hour*24*3),
		},
		payment: paymentConfig{
			stripeKey: env.GetString("STRIPE_SECRET_KEY", ""),
			currency:  env.GetString("PAYMENT_CURRENCY", "vnd"),
			delay:     env.GetDuration("PAYMENT_DELAY", 1500*time.Millisecond),
		},
		mongo: mongoConfig{
			URI:      env.GetString("MONGO_URI", "mongodb://localhost:27017"),
			Database: env.GetString("MONGO_DATABASE", "food_ordering"),
			Timeout:  time.Second * 10,
		},
		redis: redisConfig{
			Addr:     env.GetString("REDIS_ADDR", "localhost:6379"),
			Password: env.GetString("REDIS_PASSWORD", ""),
			DB:       env.GetInt("REDIS_DB", 0),
		},
		rabbitMQ: rabbitMQConfig{
			URL:           env.GetString("RABBITMQ_URL", ""),
			MaxRetries:    env.GetInt("RABBITMQ_MAX_RETRIES", 3),
			RetryDelay:    time.Second * 2,
			PrefetchCount: env.GetInt("RABBITMQ_PREFETCH_COUNT", 10),
		},
		googleCreds: env.GetString("GOOGLE_CREDENTIALS_PATH", ""),
	}

	// logger
	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	if cfg.payment.stripeKey == "" {
		logger.Warn("STRIPE_SECRET_KEY is empty, payment intents will fail")
	}

	// storage
	backend, err := driver.Open(context.Background(), driver.Config{
		Driver: cfg.storeDriver,
		Mongo: mongo.Config{
			URI:      cfg.mongo.URI,
			Database: cfg.mongo.Database,
			Timeout:  cfg.mongo.Timeout,
		},
		Redis: redis.Config{
			Addr:     cfg.redis.Addr,
			Password: cfg.redis.Password,
			DB:       cfg.redis.DB,
			Timeout:  time.Second * 5,
		},
	}, logger)
	if err != nil {
		logger.Fatalw("failed to open storage", "driver", cfg.storeDriver, "error", err)
	}

	logger.Infow("storage opened", "driver", cfg.storeDriver)

	// broker
	var broker queue.Broker
	if cfg.rabbitMQ.URL != "" {
		broker, err = queue.NewRabbitMQBroker(queue.Config{
			URL:           cfg.rabbitMQ.URL,
			MaxRetries:    cfg.rabbitMQ.MaxRetries,
			RetryDelay:    cfg.rabbitMQ.RetryDelay,
			PrefetchCount: cfg.rabbitMQ.PrefetchCount,
		}, logger)
		if err != nil {
			logger.Fatalw("failed to connect to RabbitMQ", "error", err)
		}
		logger.Info("connected to RabbitMQ")
	} else {
		broker = queue.NewMemoryBroker(cfg.rabbitMQ.MaxRetries, logger)
		logger.Warn("RABBITMQ_URL not set, using in-process broker")
	}

	var sheetReader service.MenuSheetReader
	if cfg.googleCreds != "" {
		credsJSON, err := os.ReadFile(cfg.googleCreds)
		if err != nil {
			logger.Fatalw("failed to read Google credentials", "error", err)
		}

		googleParser, err := parser.New(context.Background(), parser.Config{
			CredentialsJSON: credsJSON,
		})
		if err != nil {
			logger.Fatalw("failed to create Google Sheets parser", "error", err)
		}
		sheetReader = googleParser
		logger.Info("Google Sheets parser initialized")
	} else {
		logger.Warn("Google credentials not provided, menu import is disabled")
	}

	stripeGateway := gateway.NewStripeGateway(gateway.Config{
		SecretKey: cfg.payment.stripeKey,
		Currency:  cfg.payment.currency,
	}, logger)

	app := newApplication(cfg, backend, broker, sheetReader, stripeGateway, logger)

	mux := app.mount()

	logger.Fatal(app.run(mux))
}

func newApplication(
	cfg config,
	backend *driver.Backend,
	broker queue.Broker,
	sheetReader service.MenuSheetReader,
	paymentGateway service.PaymentGateway,
	logger *zap.SugaredLogger,
) *application {
	catalog := service.NewCatalogService(backend.Catalog, logger)
	orders := service.NewOrderService(backend.Orders, backend.Carts, backend.OrderLogs, broker, logger)
	carts := service.NewCartService(backend.Carts, catalog, logger)
	imports := service.NewImportService(backend.Imports, catalog, sheetReader, broker, logger)

	return &application{
		config: cfg,
		logger: logger,
		rateLimiter: ratelimiter.NewFixedWindowLimiter(
			cfg.rateLimiter.RequestsPerTimeFrame,
			cfg.rateLimiter.TimeFrame,
		),
		authenticator: auth.NewJWTAuthenticator(cfg.auth.secret, cfg.auth.issuer, cfg.auth.ttl),
		kv:            backend.KV,
		broker:        broker,
		catalog:       catalog,
		orders:        orders,
		users:         service.NewUserService(backend.Users, logger),
		carts:         carts,
		payments:      service.NewPaymentService(orders, carts, paymentGateway, cfg.payment.delay, logger),
		imports:       imports,
		orderWorker:   worker.NewOrderStatusWorker(orders, broker, logger),
		importWorker:  worker.NewCatalogImportWorker(imports, broker, logger),
	}
}
