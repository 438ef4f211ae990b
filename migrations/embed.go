// Package migrations embeds the SQL migration files for the slot table and
// applies them with the goose programmatic API. Postgres and SQLite each have
// their own directory because their column types and defaults differ.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Up applies every pending migration for dialect to db.
// Supported dialects are goose.DialectPostgres and goose.DialectSQLite3.
func Up(ctx context.Context, dialect goose.Dialect, db *sql.DB) error {
	provider, err := NewProvider(dialect, db)
	if err != nil {
		return err
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrations.Up: %w", err)
	}
	return nil
}

// NewProvider returns a goose provider over the migration directory for dialect.
// Tests use it directly to run DownTo and Up round-trips.
func NewProvider(dialect goose.Dialect, db *sql.DB) (*goose.Provider, error) {
	dir, err := dirFor(dialect)
	if err != nil {
		return nil, err
	}
	sub, err := fs.Sub(FS, dir)
	if err != nil {
		return nil, fmt.Errorf("migrations.NewProvider: %w", err)
	}
	provider, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return nil, fmt.Errorf("migrations.NewProvider: %w", err)
	}
	return provider, nil
}

func dirFor(dialect goose.Dialect) (string, error) {
	switch dialect {
	case goose.DialectPostgres:
		return "postgres", nil
	case goose.DialectSQLite3:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
}
