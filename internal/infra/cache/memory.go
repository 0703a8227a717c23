package cache

import (
	"context"
	"sync"
	"time"

	"ai-daily/internal/domain"
)

// MemoryCache реализует domain.Cache в памяти процесса для запуска без Redis.
type MemoryCache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

var _ domain.Cache = (*MemoryCache)(nil)

// NewMemory создаёт кэш в памяти.
func NewMemory() *MemoryCache {
	return &MemoryCache{now: time.Now, entries: make(map[string]memoryEntry)}
}

// Once выполняет функцию, если ключ ещё не задан или истёк.
func (c *MemoryCache) Once(ctx context.Context, key string, ttl time.Duration, fn func() error) error {
	c.mu.Lock()
	if _, ok := c.lookup(key); ok {
		c.mu.Unlock()
		return nil
	}
	c.store(key, []byte("1"), ttl)
	c.mu.Unlock()

	if err := fn(); err != nil {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return err
	}
	return nil
}

// Set задаёт значение.
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(key, append([]byte(nil), value...), ttl)
	return nil
}

// Get возвращает значение или nil.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.lookup(key)
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), e.value...), nil
}

func (c *MemoryCache) lookup(key string) (memoryEntry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

// store записывает значение и заодно удаляет истёкшие записи:
// суточные ключи повторно не читаются.
func (c *MemoryCache) store(key string, value []byte, ttl time.Duration) {
	now := c.now()
	for k, e := range c.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	var expires time.Time
	if ttl > 0 {
		expires = now.Add(ttl)
	}
	c.entries[key] = memoryEntry{value: value, expires: expires}
}
