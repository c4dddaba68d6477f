package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
// Note: WAL mode is configured in db.go's New function.
func InitSchema(db *sql.DB) error {
	return createMappingsTable(db)
}

func createMappingsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS mappings (
		raw_key TEXT PRIMARY KEY,
		raw_name TEXT NOT NULL,
		standard_name TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_mappings_standard_name ON mappings(standard_name);
	CREATE INDEX IF NOT EXISTS idx_mappings_updated_at ON mappings(updated_at);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create mappings table: %w", err)
	}

	return nil
}
