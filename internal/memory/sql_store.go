package memory

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLStore is a database-backed preference store.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates a new SQLStore over an existing connection.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Fetch returns all values stored for a key in insertion order.
func (s *SQLStore) Fetch(ctx context.Context, key string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT value FROM preferences WHERE key = ? ORDER BY id`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preferences for %q: %w", key, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan preference row: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate preference rows: %w", err)
	}
	return values, nil
}

// Store appends a value under a key. Duplicate values are left untouched.
func (s *SQLStore) Store(ctx context.Context, key, value string) (StoreStatus, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM preferences WHERE key = ? AND value = ?`, key, value).Scan(&exists)
	if err != nil {
		return StatusError, fmt.Errorf("failed to check existing preference: %w", err)
	}
	if exists > 0 {
		return StatusAlreadyExists, nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value, created_at) VALUES (?, ?, ?)`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return StatusError, fmt.Errorf("failed to store preference: %w", err)
	}
	return StatusStored, nil
}
