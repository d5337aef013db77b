package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/bnema/spaced/internal/logging"
)

// schemaVersion is stored in PRAGMA user_version once schema.sql applied.
const schemaVersion = 1

//go:embed schema.sql
var schemaSQL string

// applySchema creates the tables of a fresh database. The statements are
// idempotent, so an existing database at the current version is untouched.
func applySchema(ctx context.Context, db *sql.DB) error {
	log := logging.FromContext(ctx)

	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, schemaVersion)
	}
	if version == schemaVersion {
		log.Debug().Int("version", version).Msg("database schema up to date")
		return nil
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}

	log.Info().Int("from_version", version).Int("to_version", schemaVersion).Msg("database schema applied")
	return nil
}

// SchemaVersion returns the version recorded in the database.
func SchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	return version, err
}
