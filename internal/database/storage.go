package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetStorage returns the value stored under key. The second return value
// is false when the key is absent.
func (db *DB) GetStorage(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRowContext(ctx, "SELECT value FROM storage WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read storage key %q: %w", key, err)
	}
	return value, true, nil
}

// PutStorage stores value under key, replacing any previous value.
func (db *DB) PutStorage(ctx context.Context, key, value string) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO storage (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write storage key %q: %w", key, err)
	}
	return nil
}
