package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpadapter "taskapp/internal/adapter/http"
	"taskapp/internal/adapter/telemetry"
	"taskapp/pkg/config"
	"taskapp/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	appLogger, err := logger.New(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal("Server stopped with error", zap.Error(err))
	}

	appLogger.Info("Shut down gracefully")
}

func run(ctx context.Context, cfg *config.AppConfig, appLogger *logger.Logger) error {
	gin.SetMode(cfg.GinMode)

	tel, err := telemetry.NewContainer(ctx, telemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		MetricsPort:    cfg.Telemetry.MetricsPort,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
	}, appLogger)
	if err != nil {
		return err
	}
	defer shutdown(appLogger, cfg.ShutdownTimeout, "telemetry", tel.Shutdown)

	tel.AppMetrics.StartSystemMetrics(ctx, 15*time.Second)

	storage, err := openStorage(ctx, cfg, tel, appLogger)
	if err != nil {
		return err
	}
	defer shutdown(appLogger, cfg.ShutdownTimeout, "storage", storage.close)

	appLogger.Info("Storage ready",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("cache", cfg.Cache.Driver))

	container, err := httpadapter.NewContainer(storage.repo, cfg.Storage.Driver, storage.pinger, tel.NewTelemetryProbe(), appLogger)
	if err != nil {
		return err
	}

	router := httpadapter.SetupRouter(httpadapter.RouterConfig{
		TaskHandler:    container.TaskHandler,
		HealthHandler:  container.HealthHandler,
		Metrics:        tel.AppMetrics,
		MetricsHandler: tel.MetricsHandler(),
		Logger:         appLogger,
		Config:         cfg,
	})

	return httpadapter.NewServer(cfg.Port, router, appLogger).Run(ctx, cfg.ShutdownTimeout)
}

func shutdown(appLogger *logger.Logger, timeout time.Duration, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		appLogger.Error("Shutdown failed", zap.String("component", name), zap.Error(err))
	}
}
