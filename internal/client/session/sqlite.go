package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riceguard/riceguard/internal/dbx"
)

// SQLiteStorage is the fallback key-value persistence for session data,
// backed by the client's local database.
type SQLiteStorage struct {
	db dbx.DBTX
}

func NewSQLiteStorage(db dbx.DBTX) *SQLiteStorage {
	return &SQLiteStorage{db: db}
}

func (r *SQLiteStorage) Read(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM session_store WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session_store[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteStorage) Write(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session_store (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write session_store[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteStorage) Remove(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_store WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to remove session_store[%s]: %w", key, err)
	}
	return nil
}
