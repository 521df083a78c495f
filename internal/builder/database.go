package builder

import (
	"context"
	"fmt"

	"github.com/futig/ticket-classifier/internal/config"
	"github.com/futig/ticket-classifier/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
	"go.uber.org/zap"
)

// vectorPoolConfig derives the pool settings from the service config. Every
// new connection learns the pgvector types, which exist only once the
// migrations have created the extension.
func vectorPoolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MinConns = int32(cfg.DBMinConns)
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.DBHealthCheckPeriod
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if err := pgxvec.RegisterTypes(ctx, conn); err != nil {
			return fmt.Errorf("register vector types: %w", err)
		}
		return nil
	}

	return poolConfig, nil
}

// openVectorDatabase migrates the schema and opens a verified pool
func openVectorDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	version, err := repository.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Vector schema is up to date", zap.Uint("schema_version", version))

	poolConfig, err := vectorPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	stat := pool.Stat()
	logger.Info("Vector database connected",
		zap.Int32("max_conns", stat.MaxConns()),
		zap.Int32("open_conns", stat.TotalConns()),
		zap.Duration("max_conn_lifetime", poolConfig.MaxConnLifetime),
	)

	return pool, nil
}
