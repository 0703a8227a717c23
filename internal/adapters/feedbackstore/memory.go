// Package feedbackstore содержит реализации порта domain.FeedbackStorage.
package feedbackstore

import (
	"context"
	"sync"

	"ai-daily/internal/domain"
)

// MemoryStorage держит документ в памяти процесса.
type MemoryStorage struct {
	mu    sync.Mutex
	value []byte
}

var _ domain.FeedbackStorage = (*MemoryStorage)(nil)

// NewMemory создаёт пустое хранилище.
func NewMemory() *MemoryStorage {
	return &MemoryStorage{}
}

// Get возвращает копию документа.
func (m *MemoryStorage) Get(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.value == nil {
		return nil, nil
	}
	return append([]byte(nil), m.value...), nil
}

// Set заменяет документ.
func (m *MemoryStorage) Set(ctx context.Context, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = append([]byte(nil), value...)
	return nil
}
