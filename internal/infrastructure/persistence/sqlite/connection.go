// Package sqlite stores visit history in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver" // database/sql driver
	_ "github.com/ncruces/go-sqlite3/embed"  // bundled SQLite build

	"github.com/bnema/spaced/internal/logging"
)

const dirPerm = 0o750

// errEmptyPath is returned when no database location is configured.
var errEmptyPath = errors.New("database path cannot be empty")

// pragmas run on every new connection, in order.
var pragmas = [...]struct{ name, value string }{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"temp_store", "MEMORY"},
	{"cache_size", "-8000"},
	{"busy_timeout", "5000"},
}

// NewConnection opens the history database at path and brings its schema
// to the current version. The parent directory is created when missing.
func NewConnection(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, errEmptyPath
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := prepare(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logging.FromContext(ctx).Info().Str("path", path).Msg("history database opened")
	return db, nil
}

func prepare(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	for _, p := range pragmas {
		stmt := fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("set pragma %s: %w", p.name, err)
		}
	}
	if err := applySchema(ctx, db); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes db. A nil db is ignored.
func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}
