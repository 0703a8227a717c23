package feedbackstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"ai-daily/internal/domain"
)

// SQLiteStorage хранит документ во встроенной базе SQLite.
type SQLiteStorage struct {
	db  *sql.DB
	key string
}

var _ domain.FeedbackStorage = (*SQLiteStorage)(nil)

// OpenSQLite открывает файл базы и создаёт таблицу.
func OpenSQLite(ctx context.Context, path, key string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS kv_documents (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv_documents: %w", err)
	}
	return &SQLiteStorage{db: db, key: key}, nil
}

// Get читает документ по ключу.
func (s *SQLiteStorage) Get(ctx context.Context) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_documents WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return value, err
}

// Set перезаписывает документ.
func (s *SQLiteStorage) Set(ctx context.Context, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO kv_documents (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`, s.key, value)
	return err
}

// Close закрывает базу.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
