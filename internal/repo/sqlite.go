package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/pkordes/ourtrip/internal/domain"
	"github.com/pkordes/ourtrip/migrations"
)

// sqliteKV is the SQLite implementation of KV over the kv_slots table.
type sqliteKV struct {
	db *sql.DB
}

// NewSQLiteKV constructs a KV over an already migrated SQLite database.
func NewSQLiteKV(db *sql.DB) KV {
	return &sqliteKV{db: db}
}

// OpenSQLite opens (creating if needed) the database file at path and applies
// pending migrations. The caller closes the returned *sql.DB.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: open: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: ping: %w", err)
	}
	if err := migrations.Up(ctx, goose.DialectSQLite3, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: %w", err)
	}
	return db, nil
}

func (r *sqliteKV) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT value FROM kv_slots WHERE key = ?`

	var value string
	err := r.db.QueryRowContext(ctx, q, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("repo.sqliteKV.Get %q: %w", key, domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.sqliteKV.Get %q: %w", key, err)
	}
	return value, nil
}

func (r *sqliteKV) Put(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO kv_slots (key, value)
		VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE
		SET value      = excluded.value,
		    updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`

	if _, err := r.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("repo.sqliteKV.Put %q: %w", key, err)
	}
	return nil
}
