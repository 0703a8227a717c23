package feedbackstore

import (
	"context"
	"errors"
	"fmt"

	"ai-daily/internal/domain"
	"ai-daily/internal/infra/cache"
	"ai-daily/internal/infra/db"
)

// Backend называет реализацию хранилища оценок.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// ErrUnknownBackend возвращается для неизвестного имени бэкенда.
var ErrUnknownBackend = errors.New("неизвестный бэкенд хранилища оценок")

// Options описывает выбранный бэкенд и его параметры.
type Options struct {
	Backend    string
	File       string
	Key        string
	SQLitePath string
	PGDSN      string
	RedisAddr  string
}

// Open подключает хранилище. Возвращаемая функция освобождает соединения.
func Open(ctx context.Context, opts Options) (domain.FeedbackStorage, func(), error) {
	noop := func() {}
	switch opts.Backend {
	case BackendFile, "":
		return NewFile(opts.File), noop, nil
	case BackendMemory:
		return NewMemory(), noop, nil
	case BackendRedis:
		client, err := cache.Connect(ctx, opts.RedisAddr)
		if err != nil {
			return nil, noop, fmt.Errorf("redis: %w", err)
		}
		return NewCache(cache.NewRedis(client), opts.Key), func() { _ = client.Close() }, nil
	case BackendPostgres:
		pool, err := db.Connect(ctx, opts.PGDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("postgres: %w", err)
		}
		storage, err := NewPostgres(ctx, pool, opts.Key)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		return storage, pool.Close, nil
	case BackendSQLite:
		storage, err := OpenSQLite(ctx, opts.SQLitePath, opts.Key)
		if err != nil {
			return nil, noop, err
		}
		return storage, func() { _ = storage.Close() }, nil
	}
	return nil, noop, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}
