package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domerrors "github.com/alumnibase/college-resolver-go/internal/errors"
)

// SaveMapping inserts or updates a mapping keyed by its raw key
func (db *DB) SaveMapping(ctx context.Context, m *Mapping) error {
	query := `
		INSERT INTO mappings (raw_key, raw_name, standard_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(raw_key) DO UPDATE SET
			raw_name = excluded.raw_name,
			standard_name = excluded.standard_name,
			updated_at = excluded.updated_at
	`
	now := time.Now().Unix()
	_, err := db.conn.ExecContext(ctx, query, m.RawKey, m.RawName, m.StandardName, now, now)
	if err != nil {
		return fmt.Errorf("failed to save mapping %q: %w", m.RawKey, err)
	}
	return nil
}

// GetMapping retrieves a mapping by its raw key.
// Returns domerrors.ErrNotFound when no mapping exists for the key.
func (db *DB) GetMapping(ctx context.Context, rawKey string) (*Mapping, error) {
	query := `SELECT raw_key, raw_name, standard_name, created_at, updated_at FROM mappings WHERE raw_key = ?`

	var m Mapping
	err := db.conn.QueryRowContext(ctx, query, rawKey).Scan(
		&m.RawKey,
		&m.RawName,
		&m.StandardName,
		&m.CreatedAt,
		&m.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: mapping %q", domerrors.ErrNotFound, rawKey)
	}
	if err != nil {
		return nil, fmt.Errorf("query mapping %q: %w", rawKey, err)
	}
	return &m, nil
}

// DeleteMapping removes a mapping by its raw key.
// Returns domerrors.ErrNotFound when no mapping exists for the key.
func (db *DB) DeleteMapping(ctx context.Context, rawKey string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM mappings WHERE raw_key = ?`, rawKey)
	if err != nil {
		return fmt.Errorf("delete mapping %q: %w", rawKey, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete mapping %q: rows affected: %w", rawKey, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: mapping %q", domerrors.ErrNotFound, rawKey)
	}
	return nil
}

// ListMappings returns mappings ordered by raw key, newest updates last.
// A non-positive limit returns all mappings.
func (db *DB) ListMappings(ctx context.Context, limit int) ([]Mapping, error) {
	query := `SELECT raw_key, raw_name, standard_name, created_at, updated_at FROM mappings ORDER BY raw_key`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Mapping
	for rows.Next() {
		var m Mapping
		if err := rows.Scan(&m.RawKey, &m.RawName, &m.StandardName, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	return out, nil
}

// CountMappings returns the number of stored mappings
func (db *DB) CountMappings(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM mappings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count mappings: %w", err)
	}
	return count, nil
}
