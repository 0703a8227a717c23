package feedbackstore

import (
	"context"

	"ai-daily/internal/domain"
)

// CacheStorage хранит документ под одним ключом domain.Cache (Redis в проде).
type CacheStorage struct {
	cache domain.Cache
	key   string
}

var _ domain.FeedbackStorage = (*CacheStorage)(nil)

// NewCache создаёт хранилище поверх кэша.
func NewCache(cache domain.Cache, key string) *CacheStorage {
	return &CacheStorage{cache: cache, key: key}
}

// Get читает значение ключа.
func (c *CacheStorage) Get(ctx context.Context) ([]byte, error) {
	return c.cache.Get(ctx, c.key)
}

// Set записывает значение без срока жизни.
func (c *CacheStorage) Set(ctx context.Context, value []byte) error {
	return c.cache.Set(ctx, c.key, value, 0)
}
