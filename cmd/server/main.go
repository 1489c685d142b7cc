package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	integrationapp "github.com/erp/storesync/internal/application/integration"
	"github.com/erp/storesync/internal/infrastructure/config"
	"github.com/erp/storesync/internal/infrastructure/ecommerce"
	"github.com/erp/storesync/internal/infrastructure/logger"
	"github.com/erp/storesync/internal/infrastructure/migration"
	"github.com/erp/storesync/internal/infrastructure/persistence"
	"github.com/erp/storesync/internal/infrastructure/scheduler"
	"github.com/erp/storesync/internal/infrastructure/telemetry"
	"github.com/erp/storesync/internal/interfaces/http/handler"
	"github.com/erp/storesync/internal/interfaces/http/router"
	"github.com/erp/storesync/migrations"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storesync",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry first so the database plugin and HTTP middleware pick up
	// the global providers
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	// Everything created below logs to the configured output and to OTLP
	log = loggerProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)

	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if stats, err := db.Stats(); err == nil {
		log.Info("Database connected",
			zap.String("driver", cfg.Database.Driver),
			zap.Int("max_open_conns", stats.MaxOpenConnections),
		)
	}

	dbSystem := "postgresql"
	if db.IsSQLite() {
		dbSystem = "sqlite"
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if err := migrateSchema(db, log); err != nil {
		log.Fatal("Failed to migrate schema", zap.Error(err))
	}

	// Remote store
	wooConfig := ecommerce.NewWooCommerceConfig(
		cfg.WooCommerce.URL,
		cfg.WooCommerce.ConsumerKey,
		cfg.WooCommerce.ConsumerSecret,
	)
	wooConfig.PerPage = cfg.Sync.PerPage
	wooConfig.Timeout = cfg.WooCommerce.Timeout
	wooClient, err := ecommerce.NewWooCommerceClient(wooConfig, log)
	if err != nil {
		log.Fatal("Invalid WooCommerce configuration", zap.Error(err))
	}

	// Sync engine
	checkpointStore := integrationapp.NewCheckpointStore(persistence.NewGormSyncCheckpointRepository(db.DB), log)
	if _, err := checkpointStore.RecoverInterrupted(ctx); err != nil {
		log.Fatal("Failed to recover interrupted sync runs", zap.Error(err))
	}

	uow := persistence.NewGormUnitOfWork(db.DB)
	syncController := integrationapp.NewSyncRunController(checkpointStore, wooClient, uow, cfg.Sync.RateLimit, log)

	syncMetrics, err := telemetry.NewSyncMetrics(telemetry.SyncMetricsConfig{
		Meter:  meterProvider.Meter(telemetry.SyncMeterName),
		Logger: log,
	})
	if err != nil {
		log.Warn("Sync metrics disabled", zap.Error(err))
	} else {
		syncController.SetSyncMetrics(syncMetrics)
	}

	curationService := integrationapp.NewVariationCurationService(uow, log)

	var cronTrigger *scheduler.SyncCronTrigger
	if cfg.Sync.Enabled {
		cronTrigger = scheduler.NewSyncCronTrigger(scheduler.SyncCronTriggerConfig{Spec: cfg.Sync.Cron}, syncController, log)
		if err := cronTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start sync cron trigger", zap.Error(err))
		}
	} else {
		log.Info("Scheduled sync disabled; runs are started through the API only")
	}

	// HTTP
	engine := router.NewEngine(router.EngineConfig{
		Production:     cfg.App.Env == "production",
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: cfg.Telemetry.Enabled,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}, log)
	router.Mount(engine, router.Handlers{
		Sync:      handler.NewSyncHandler(syncController, checkpointStore),
		Variation: handler.NewVariationHandler(curationService),
		System:    handler.NewSystemHandler(cfg.App.Name, version, db),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if cronTrigger != nil {
		if err := cronTrigger.Stop(shutdownCtx); err != nil {
			log.Error("Sync cron trigger did not stop cleanly", zap.Error(err))
		}
	}
	// Interrupted runs leave their checkpoint FAILED with the page kept
	if err := syncController.Shutdown(shutdownCtx); err != nil {
		log.Error("Triggered sync runs did not stop cleanly", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// migrateSchema applies the embedded migrations on PostgreSQL. SQLite has no
// golang-migrate source files and is created with AutoMigrate instead.
func migrateSchema(db *persistence.Database, log *zap.Logger) error {
	if db.IsSQLite() {
		return db.AutoMigrate()
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	migrator, err := migration.New(sqlDB, migration.Source{FS: migrations.FS}, log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared *sql.DB
	return migrator.Up()
}
