package feedbackstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ai-daily/internal/domain"
	"ai-daily/internal/infra/metrics"
)

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS kv_documents (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStorage хранит документ строкой таблицы kv_documents.
type PostgresStorage struct {
	pool *pgxpool.Pool
	key  string
}

var _ domain.FeedbackStorage = (*PostgresStorage)(nil)

// NewPostgres создаёт хранилище и при необходимости таблицу.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool, key string) (*PostgresStorage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := pool.Exec(ctx, createDocumentsTable); err != nil {
		return nil, fmt.Errorf("create kv_documents: %w", err)
	}
	return &PostgresStorage{pool: pool, key: key}, nil
}

// Get читает документ по ключу.
func (p *PostgresStorage) Get(ctx context.Context) ([]byte, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var value []byte
	start := time.Now()
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv_documents WHERE key = $1`, p.key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.ObserveNetworkRequest("postgres", "kv_get", "kv_documents", start, nil)
		return nil, nil
	}
	metrics.ObserveNetworkRequest("postgres", "kv_get", "kv_documents", start, err)
	return value, err
}

// Set перезаписывает документ.
func (p *PostgresStorage) Set(ctx context.Context, value []byte) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
INSERT INTO kv_documents (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`, p.key, value)
	metrics.ObserveNetworkRequest("postgres", "kv_set", "kv_documents", start, err)
	return err
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}
