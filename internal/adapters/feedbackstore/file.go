package feedbackstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"ai-daily/internal/domain"
)

// FileStorage хранит документ в одном файле и заменяет его атомарно.
type FileStorage struct {
	path string
}

var _ domain.FeedbackStorage = (*FileStorage)(nil)

// NewFile создаёт хранилище по пути к файлу.
func NewFile(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Get читает файл. Отсутствующий файл считается пустым хранилищем.
func (f *FileStorage) Get(ctx context.Context) ([]byte, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return raw, err
}

// Set пишет во временный файл рядом и переименовывает его поверх старого.
func (f *FileStorage) Set(ctx context.Context, value []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}
