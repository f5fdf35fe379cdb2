// Package main is the entry point for the service. It wires all dependencies
// using samber/do v2, starts the HTTP server, and handles graceful shutdown
// on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/record-registry/internal/adapters/http"
	"github.com/jsamuelsen11/record-registry/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/record-registry/internal/adapters/http/middleware"

	"github.com/jsamuelsen11/record-registry/internal/adapters/storage/breaker"
	"github.com/jsamuelsen11/record-registry/internal/adapters/storage/memory"
	"github.com/jsamuelsen11/record-registry/internal/adapters/storage/postgres"
	"github.com/jsamuelsen11/record-registry/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen11/record-registry/internal/app"
	"github.com/jsamuelsen11/record-registry/internal/domain/record"
	"github.com/jsamuelsen11/record-registry/internal/platform/config"
	"github.com/jsamuelsen11/record-registry/internal/platform/health"
	"github.com/jsamuelsen11/record-registry/internal/platform/logging"
	"github.com/jsamuelsen11/record-registry/internal/platform/telemetry"
	"github.com/jsamuelsen11/record-registry/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

// Named container keys for the two record kinds. Both services share the
// ports.RecordService type, so the container distinguishes them by name.
const (
	svcEntity = "entity-service"
	svcTask   = "task-service"

	handlerEntity = "entity-handler"
	handlerTask   = "task-handler"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	registerDependencies(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Register health checkers after the graph is wired. Every storage
	// backend implements ports.HealthChecker; the breaker wrapper folds
	// circuit state into the inner store's check.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	store := do.MustInvoke[ports.SlotStore](injector)
	if checker, ok := store.(ports.HealthChecker); ok {
		registry.Register(checker)
	}

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Close the storage backend after in-flight requests have drained.
	if closer, ok := store.(interface{ Shutdown() error }); ok {
		if err := closer.Shutdown(); err != nil {
			logger.Error("storage shutdown error", slog.Any("error", err))
		}
	}

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

// newSlotStore builds the configured storage backend, optionally wrapped in a
// circuit breaker for the database-backed stores.
func newSlotStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.SlotStore, error) {
	var (
		store ports.SlotStore
		err   error
	)

	switch cfg.Storage.Backend {
	case "memory":
		store = memory.New(cfg.Storage.Rent)
	case "sqlite":
		store, err = sqlite.Open(cfg.Storage.SQLite.Path, cfg.Storage.Rent)
	case "postgres":
		store, err = postgres.Open(ctx, cfg.Storage.Postgres.DSN, cfg.Storage.Rent)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Storage.Backend, err)
	}

	if cfg.Storage.Breaker.Enabled && cfg.Storage.Backend != "memory" {
		store = breaker.New(store, cfg.Storage.Backend+"-store", cfg.Storage.Breaker, logger)
	}

	return store, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (ports.SlotStore, error) {
		return newSlotStore(context.Background(), cfg, logger)
	})

	do.Provide(injector, func(_ do.Injector) (*record.Deriver, error) {
		return record.NewDeriver(cfg.Service.ID)
	})

	provideRecordService := func(kind record.Kind) func(do.Injector) (ports.RecordService, error) {
		return func(i do.Injector) (ports.RecordService, error) {
			deriver := do.MustInvoke[*record.Deriver](i)
			store := do.MustInvoke[ports.SlotStore](i)
			metrics := do.MustInvoke[*telemetry.Metrics](i)
			return app.NewRecordService(kind, deriver, store, logger, metrics), nil
		}
	}
	do.ProvideNamed(injector, svcEntity, provideRecordService(record.KindEntity))
	do.ProvideNamed(injector, svcTask, provideRecordService(record.KindTask))

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.ProvideNamed(injector, handlerEntity, func(i do.Injector) (*handlers.RecordHandler, error) {
		svc := do.MustInvokeNamed[ports.RecordService](i, svcEntity)
		return handlers.NewRecordHandler(svc), nil
	})

	do.ProvideNamed(injector, handlerTask, func(i do.Injector) (*handlers.RecordHandler, error) {
		svc := do.MustInvokeNamed[ports.RecordService](i, svcTask)
		return handlers.NewRecordHandler(svc), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		entityH := do.MustInvokeNamed[*handlers.RecordHandler](i, handlerEntity)
		taskH := do.MustInvokeNamed[*handlers.RecordHandler](i, handlerTask)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		mws := []func(nethttp.Handler) nethttp.Handler{
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		}
		if cfg.Server.RateLimit.Enabled {
			mws = append(mws, middleware.RateLimit(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst))
		}

		auth := middleware.Auth([]byte(cfg.Auth.Secret))

		return adapthttp.NewRouter(entityH, taskH, healthH, auth, mws...), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
