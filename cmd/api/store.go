package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/ourtrip/internal/config"
	"github.com/pkordes/ourtrip/internal/repo"
	"github.com/pkordes/ourtrip/migrations"
)

// openStore builds the KV backend selected by cfg.StoreBackend. The returned
// close function releases whatever the backend holds open.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (repo.KV, func(), error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case config.BackendMemory:
		logger.Warn("using in-memory store; trips are lost on restart")
		return repo.NewMemoryKV(), noop, nil

	case config.BackendFile:
		kv, err := repo.NewFileKV(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using file store", "dir", cfg.StorePath)
		return kv, noop, nil

	case config.BackendSQLite:
		db, err := repo.OpenSQLite(ctx, cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using sqlite store", "path", cfg.StorePath)
		return repo.NewSQLiteKV(db), func() { db.Close() }, nil

	case config.BackendPostgres:
		// pgxpool manages a pool of Postgres connections.
		// New() does not open connections immediately; the first query does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create database pool: %w", err)
		}
		// Verify the DB is reachable before accepting traffic.
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}

		// goose speaks database/sql; borrow a *sql.DB view of the same pool.
		sqlDB := stdlib.OpenDBFromPool(pool)
		err = migrations.Up(ctx, goose.DialectPostgres, sqlDB)
		sqlDB.Close()
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("database connection established")
		return repo.NewPostgresKV(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
