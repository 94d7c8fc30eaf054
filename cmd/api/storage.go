package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"taskapp/internal/adapter/cache"
	"taskapp/internal/adapter/database/memory"
	"taskapp/internal/adapter/database/mongodb"
	"taskapp/internal/adapter/database/postgres"
	"taskapp/internal/adapter/database/sqlite"
	"taskapp/internal/adapter/http/handler"
	"taskapp/internal/adapter/telemetry"
	"taskapp/internal/core/port"
	"taskapp/pkg/config"
	"taskapp/pkg/logger"
)

type storage struct {
	repo    port.TaskRepository
	pinger  handler.StoragePinger
	closers []func(context.Context) error
}

func (s *storage) close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}

	return errors.Join(errs...)
}

// openStorage builds the configured repository and, when enabled, wraps it with the read cache.
func openStorage(ctx context.Context, cfg *config.AppConfig, tel *telemetry.Container, appLogger *logger.Logger) (*storage, error) {
	s := &storage{}

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		s.repo = memory.NewTaskRepository()

	case config.StorageSQLite:
		var queryLog io.Writer
		if cfg.Storage.SQLLog {
			queryLog = os.Stdout
		}

		db, err := sqlite.New(sqlite.Options{Path: cfg.Storage.Path, QueryLog: queryLog})
		if err != nil {
			return nil, err
		}

		s.repo = sqlite.NewTaskRepository(db, tel.NewTelemetryProbe())
		s.pinger = handler.PingFunc(db.PingContext)
		s.closers = append(s.closers, func(context.Context) error { return db.Close() })

	case config.StoragePostgres:
		db, err := postgres.NewDB(ctx, cfg.Storage.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}

		s.repo = postgres.NewTaskRepository(db, tel.NewTelemetryProbe())
		s.pinger = handler.PingFunc(db.Ping)
		s.closers = append(s.closers, func(context.Context) error { db.Close(); return nil })

	case config.StorageMongoDB:
		db, err := mongodb.NewDB(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}

		s.repo = mongodb.NewTaskRepository(db, tel.NewTelemetryProbe())
		s.pinger = handler.PingFunc(db.Ping)
		s.closers = append(s.closers, db.Close)

	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", config.ErrConfigInvalid, cfg.Storage.Driver)
	}

	if !cfg.CacheEnabled() {
		return s, nil
	}

	store, err := openCache(ctx, cfg)
	if err != nil {
		_ = s.close(ctx)
		return nil, err
	}
	s.closers = append(s.closers, func(context.Context) error { return store.Close() })

	s.repo = cache.NewTaskRepository(s.repo, store, cfg.Cache.TTL,
		cache.WithMetrics(tel.AppMetrics),
		cache.WithLogger(appLogger))

	return s, nil
}

func openCache(ctx context.Context, cfg *config.AppConfig) (port.CacheRepository, error) {
	switch cfg.Cache.Driver {
	case config.CacheMemory:
		return cache.NewMemoryStore(cfg.Cache.TTL, 2*cfg.Cache.TTL+time.Minute), nil
	case config.CacheRedis:
		store, err := cache.DialRedis(ctx, cfg.Cache.RedisAddr, cfg.Cache.KeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown cache driver %q", config.ErrConfigInvalid, cfg.Cache.Driver)
	}
}
