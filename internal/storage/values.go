package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

func (s *SQLiteStore) GetValue(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM session_values WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrValueNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLiteStore) SetValue(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_values (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UnixMilli())
	return err
}

func (s *SQLiteStore) DeleteValue(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session_values WHERE key = ?", key)
	return err
}
