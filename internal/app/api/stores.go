package api

import (
	"context"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	rzp "github.com/Apurer/poster-parlor-api/internal/clients/http/razorpay"
	catalogmemory "github.com/Apurer/poster-parlor-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/poster-parlor-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/poster-parlor-api/internal/domains/catalog/ports"
	ordercatalog "github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/catalog"
	ordercustomers "github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/customers"
	razorpaygateway "github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/external/razorpay"
	ordermemory "github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/messaging/rabbitmq"
	orderpostgres "github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/poster-parlor-api/internal/domains/orders/application"
	orderports "github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
	reviewmemory "github.com/Apurer/poster-parlor-api/internal/domains/reviews/adapters/memory"
	reviewpostgres "github.com/Apurer/poster-parlor-api/internal/domains/reviews/adapters/persistence/postgres"
	reviewports "github.com/Apurer/poster-parlor-api/internal/domains/reviews/ports"
	usermemory "github.com/Apurer/poster-parlor-api/internal/domains/users/adapters/memory"
	userpostgres "github.com/Apurer/poster-parlor-api/internal/domains/users/adapters/persistence/postgres"
	userports "github.com/Apurer/poster-parlor-api/internal/domains/users/ports"
	"github.com/Apurer/poster-parlor-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/poster-parlor-api/internal/platform/postgres"
)

// Stores holds every repository the process needs, backed either by
// PostgreSQL or by in-memory maps.
type Stores struct {
	Catalog     catalogports.Repository
	Orders      orderports.Repository
	Idempotency orderports.IdempotencyStore
	Reviews     reviewports.Repository
	Users       userports.Repository
	Sessions    userports.SessionStore
	Health      *platformpostgres.HealthChecker
	Persistent  bool
}

// OpenStores connects to PostgreSQL when a DSN is configured and runs the
// schema migrations. Any failure falls back to memory stores.
func OpenStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, func()) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return memoryStores(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN, platformpostgres.WithLogger(logger))
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return memoryStores(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return memoryStores(), func() {}
	}
	cleanup := func() { _ = sqlDB.Close() }
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		logger.Warn("failed to migrate postgres schema, falling back to memory", slog.String("error", err.Error()))
		cleanup()
		return memoryStores(), func() {}
	}
	logger.Info("repositories configured with postgres")
	return postgresStores(db), cleanup
}

func memoryStores() *Stores {
	return &Stores{
		Catalog:     catalogmemory.NewRepository(),
		Orders:      ordermemory.NewRepository(),
		Idempotency: ordermemory.NewIdempotencyStore(),
		Reviews:     reviewmemory.NewRepository(),
		Users:       usermemory.NewRepository(),
		Sessions:    usermemory.NewSessionStore(),
		Health:      platformpostgres.NewHealthChecker(nil),
	}
}

func postgresStores(db *gorm.DB) *Stores {
	return &Stores{
		Catalog:     catalogpostgres.NewRepository(db),
		Orders:      orderpostgres.NewRepository(db),
		Idempotency: orderpostgres.NewIdempotencyStore(db),
		Reviews:     reviewpostgres.NewRepository(db),
		Users:       userpostgres.NewRepository(db),
		Sessions:    userpostgres.NewSessionStore(db),
		Health:      platformpostgres.NewHealthChecker(db),
		Persistent:  true,
	}
}

// NewOrderCore builds the undecorated order placement service. The Razorpay
// gateway is attached only when both keys are configured.
func NewOrderCore(cfg Config, stores *Stores, logger *slog.Logger) *ordersapp.Service {
	opts := []ordersapp.Option{
		ordersapp.WithIdempotencyStore(stores.Idempotency),
		ordersapp.WithPaymentReconciler(ordersapp.NewPaymentReconciler(cfg.Razorpay.KeySecret)),
	}
	if cfg.Razorpay.Enabled() {
		client, err := rzp.NewRazorpayClient(cfg.Razorpay.BaseURL, cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, nil)
		if err != nil {
			logger.Warn("razorpay gateway unavailable", slog.String("error", err.Error()))
		} else {
			opts = append(opts, ordersapp.WithPaymentGateway(razorpaygateway.NewGateway(client)))
		}
	}
	return ordersapp.NewService(
		stores.Orders,
		ordercatalog.New(stores.Catalog),
		ordercustomers.New(stores.Users),
		opts...,
	)
}

// OpenPublisher dials RabbitMQ when a URL is configured. Without one, events
// are dropped.
func OpenPublisher(cfg Config, logger *slog.Logger) (orderports.EventPublisher, func()) {
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		logger.Warn("RABBITMQ_URL not set, order events will not be published")
		return orderports.NoopPublisher{}, func() {}
	}
	publisher, err := rabbitmq.Dial(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	if err != nil {
		logger.Warn("failed to connect to rabbitmq, order events will not be published", slog.String("error", err.Error()))
		return orderports.NoopPublisher{}, func() {}
	}
	logger.Info("order events published to rabbitmq", slog.String("exchange", cfg.RabbitMQExchange))
	return publisher, func() { _ = publisher.Close() }
}
