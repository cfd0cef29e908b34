package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	warehouseclient "github.com/Apurer/product-catalog-gateway/internal/clients/http/warehouse"
	productswarehouse "github.com/Apurer/product-catalog-gateway/internal/domains/products/adapters/external/warehouse"
	productsmemory "github.com/Apurer/product-catalog-gateway/internal/domains/products/adapters/memory"
	productsobs "github.com/Apurer/product-catalog-gateway/internal/domains/products/adapters/observability"
	productspostgres "github.com/Apurer/product-catalog-gateway/internal/domains/products/adapters/persistence/postgres"
	productsapp "github.com/Apurer/product-catalog-gateway/internal/domains/products/application"
	productports "github.com/Apurer/product-catalog-gateway/internal/domains/products/ports"
	"github.com/Apurer/product-catalog-gateway/internal/gateway"
	"github.com/Apurer/product-catalog-gateway/internal/platform/migrations"
	platformobservability "github.com/Apurer/product-catalog-gateway/internal/platform/observability"
	platformpostgres "github.com/Apurer/product-catalog-gateway/internal/platform/postgres"
)

// ServiceName identifies the process in traces and logs.
const ServiceName = "product-catalog-gateway"

// Run boots the gateway and blocks until ctx is cancelled or the server fails. On cancellation
// in-flight requests get cfg.ShutdownTimeout to finish.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Config{
		ServiceName: ServiceName,
		LogLevel:    cfg.LogLevel,
	})
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

	repo, cleanupRepo := buildProductRepository(ctx, cfg, logger)
	defer cleanupRepo()
	products := productsobs.New(
		productsapp.NewService(repo),
		productsobs.WithLogger(logger),
		productsobs.WithTracer(instruments.Tracer("internal.products.application")),
		productsobs.WithMeter(instruments.Meter("internal.products.application")),
	)

	fetcher, err := buildWarehouseFetcher(cfg, instruments)
	if err != nil {
		return err
	}

	gw, err := gateway.New(products, fetcher,
		gateway.WithLogger(logger),
		gateway.WithServiceName(ServiceName),
		gateway.WithTracerProvider(instruments.TracerProvider),
		gateway.WithMetrics(instruments.Registry),
		gateway.WithPlayground(cfg.GraphQLPlayground),
		gateway.WithSupplementConcurrency(cfg.SupplementConcurrency),
	)
	if err != nil {
		return fmt.Errorf("failed to build gateway: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           gw.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("product catalog gateway listening", slog.String("addr", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("product catalog gateway exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// Migrate applies the catalog schema to cfg.PostgresDSN.
func Migrate(ctx context.Context, cfg Config) error {
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}
	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func buildProductRepository(ctx context.Context, cfg Config, logger *slog.Logger) (productports.Repository, func()) {
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return productsmemory.NewRepository(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres, falling back to memory", slog.String("error", err.Error()))
		cleanup()
		return productsmemory.NewRepository(), func() {}
	}
	logger.Info("product repository configured with postgres")
	return productspostgres.NewRepository(db), cleanup
}

// buildWarehouseFetcher returns a fetcher that reports every supplement as unavailable when no
// warehouse base URL is configured.
func buildWarehouseFetcher(cfg Config, instruments *platformobservability.Instruments) (productports.WarehouseInfoFetcher, error) {
	if cfg.WarehouseBaseURL == "" {
		instruments.Logger.Warn("WAREHOUSE_BASE_URL not set, warehouse supplements disabled")
		return productswarehouse.NewFetcher(nil, cfg.WarehouseTimeout), nil
	}
	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithTracerProvider(instruments.TracerProvider),
		),
	}
	client, err := warehouseclient.NewClient(cfg.WarehouseBaseURL, httpClient,
		warehouseclient.WithMetrics(warehouseclient.NewMetrics(instruments.Registry)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build warehouse client: %w", err)
	}
	instruments.Logger.Info("warehouse client configured", slog.String("base_url", cfg.WarehouseBaseURL))
	return productswarehouse.NewFetcher(client, cfg.WarehouseTimeout), nil
}
