package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/readrace/internal/adapter/badgerkv"
	"github.com/heartmarshall/readrace/internal/adapter/postgres"
	"github.com/heartmarshall/readrace/internal/adapter/postgres/kv"
	"github.com/heartmarshall/readrace/internal/config"
)

// stateStore is the persisted local state backend.
type stateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// openStore opens the configured state store. The returned close function
// releases it.
func openStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (stateStore, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if cfg.Postgres.AutoMigrate {
			if err := postgres.Migrate(ctx, cfg.Postgres.DSN, logger); err != nil {
				return nil, nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		logger.Info("state store opened",
			slog.String("driver", cfg.Driver),
			slog.String("namespace", cfg.Namespace),
		)
		return kv.New(pool, cfg.Namespace), pool.Close, nil

	case config.DriverBadger, "":
		store, err := badgerkv.Open(cfg.Path, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger store: %w", err)
		}
		logger.Info("state store opened",
			slog.String("driver", config.DriverBadger),
			slog.String("path", cfg.Path),
		)
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Error("close badger store", slog.String("error", err.Error()))
			}
		}, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
