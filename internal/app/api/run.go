package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	posterparlorserver "github.com/Apurer/poster-parlor-api/go"
	catalogobs "github.com/Apurer/poster-parlor-api/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/poster-parlor-api/internal/domains/catalog/application"
	ordercatalog "github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/catalog"
	ordersobs "github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/observability"
	orderworkflows "github.com/Apurer/poster-parlor-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/poster-parlor-api/internal/domains/orders/application"
	orderports "github.com/Apurer/poster-parlor-api/internal/domains/orders/ports"
	reviewcatalog "github.com/Apurer/poster-parlor-api/internal/domains/reviews/adapters/catalog"
	reviewsobs "github.com/Apurer/poster-parlor-api/internal/domains/reviews/adapters/observability"
	reviewsapp "github.com/Apurer/poster-parlor-api/internal/domains/reviews/application"
	usersobs "github.com/Apurer/poster-parlor-api/internal/domains/users/adapters/observability"
	"github.com/Apurer/poster-parlor-api/internal/domains/users/adapters/tokens"
	usersapp "github.com/Apurer/poster-parlor-api/internal/domains/users/application"
	platformobservability "github.com/Apurer/poster-parlor-api/internal/platform/observability"
)

const serviceName = "poster-parlor-api"

// Run boots the poster shop HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, cleanupStores := OpenStores(ctx, cfg, logger)
	defer cleanupStores()
	publisher, closePublisher := OpenPublisher(cfg, logger)
	defer closePublisher()

	issuer, err := tokens.NewJWTIssuer(tokens.Config{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		Issuer:        cfg.JWT.Issuer,
	})
	if err != nil {
		return fmt.Errorf("failed to configure token issuer: %w", err)
	}
	coreUserService := usersapp.NewService(stores.Users, stores.Sessions, issuer)
	if cfg.Admin.Email != "" {
		if _, err := coreUserService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Name, cfg.Admin.Password); err != nil {
			return fmt.Errorf("failed to bootstrap admin account: %w", err)
		}
		logger.Info("admin account ensured", slog.String("email", cfg.Admin.Email))
	}
	userService := usersobs.New(
		coreUserService,
		usersobs.WithLogger(logger),
		usersobs.WithTracer(instruments.Tracer("internal.users.application")),
		usersobs.WithMeter(instruments.Meter("internal.users.application")),
	)

	catalogService := catalogobs.New(
		catalogapp.NewService(stores.Catalog),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)

	ordersOpts := []ordersobs.Option{
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	}
	orderService := ordersobs.New(NewOrderCore(cfg, stores, logger), ordersOpts...)
	adminService := ordersobs.NewAdmin(
		ordersapp.NewAdminService(
			stores.Orders,
			ordercatalog.New(stores.Catalog),
			ordersapp.WithEventPublisher(publisher),
			ordersapp.WithAdminLogger(logger),
		),
		ordersOpts...,
	)

	var orderWorkflows orderports.WorkflowOrchestrator = orderworkflows.NewInlineOrderWorkflows(
		orderService,
		orderworkflows.WithPublisher(publisher),
		orderworkflows.WithLogger(logger),
	)
	if temporalClient, err := connectTemporalClient(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = orderworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	reviewService := reviewsobs.New(
		reviewsapp.NewService(stores.Reviews, reviewcatalog.New(stores.Catalog)),
		reviewsobs.WithLogger(logger),
		reviewsobs.WithTracer(instruments.Tracer("internal.reviews.application")),
		reviewsobs.WithMeter(instruments.Meter("internal.reviews.application")),
	)

	handlers := posterparlorserver.ApiHandleFunctions{
		AuthAPI:      posterparlorserver.NewAuthAPI(userService, posterparlorserver.CookieOptions{Domain: cfg.Cookie.Domain, Secure: cfg.Cookie.Secure}),
		InventoryAPI: posterparlorserver.NewInventoryAPI(catalogService),
		OrderAPI:     posterparlorserver.NewOrderAPI(orderService, orderWorkflows),
		ReviewAPI:    posterparlorserver.NewReviewAPI(reviewService),
		AdminAPI:     posterparlorserver.NewAdminAPI(adminService),
		HealthAPI:    posterparlorserver.NewHealthAPI(stores.Health),
	}
	router := posterparlorserver.NewRouter(
		handlers,
		posterparlorserver.NewAuthenticator(userService),
		otelgin.Middleware(serviceName),
		posterparlorserver.PrometheusMiddleware(),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("poster parlor API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("poster parlor API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		logger.Info("shutting down poster parlor API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// DialTemporal connects a Temporal client with OpenTelemetry tracing. The
// tracer name distinguishes the API client from the worker.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments, tracer string) (client.Client, error) {
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracer)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments, tracer string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED")
	}
	return DialTemporal(cfg, instruments, tracer)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
