package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/chemlink/analytics-etl/internal/config"
	"github.com/chemlink/analytics-etl/internal/platform/envutil"
	"github.com/chemlink/analytics-etl/internal/platform/logger"
)

// Connect opens a pgx pool for one logical store after validating its
// configuration. The caller owns the pool and must Close it when the step
// that acquired it exits.
func Connect(ctx context.Context, store config.Store, cfg config.PostgresConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	if err := cfg.Validate(store); err != nil {
		return nil, err
	}

	log.Info("Connecting to store...", "store", string(store), "host", cfg.Host, "database", cfg.Name)
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", store, err)
	}

	timeout := time.Duration(envutil.Int("DB_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s: %w", store, err)
	}
	log.Info("Store connected", "store", string(store))
	return pool, nil
}

// OpenMeta opens a gorm handle on the analytics warehouse for the meta
// schema models (run history). Kept separate from the pipeline pools so a
// best-effort meta write can never hold pipeline connections.
func OpenMeta(cfg config.PostgresConfig, log *logger.Logger) (*gorm.DB, error) {
	if err := cfg.Validate(config.StoreAnalytics); err != nil {
		return nil, err
	}
	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to analytics meta schema", "error", err)
		return nil, fmt.Errorf("open meta: %w", err)
	}
	return gdb, nil
}
