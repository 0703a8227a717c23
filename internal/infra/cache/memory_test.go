package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryOnceRunsOncePerKey(t *testing.T) {
	c := NewMemory()
	calls := 0
	fn := func() error { calls++; return nil }
	for i := 0; i < 3; i++ {
		if err := c.Once(context.Background(), "notify:2026-10-15", time.Hour, fn); err != nil {
			t.Fatalf("не ожидали ошибку: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("ожидали один вызов, получили %d", calls)
	}
}

func TestMemoryOnceReleasesKeyOnError(t *testing.T) {
	c := NewMemory()
	boom := errors.New("boom")
	if err := c.Once(context.Background(), "k", time.Hour, func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("ожидали ошибку функции, получили %v", err)
	}
	calls := 0
	_ = c.Once(context.Background(), "k", time.Hour, func() error { calls++; return nil })
	if calls != 1 {
		t.Fatalf("ожидали повторный запуск после ошибки")
	}
}

func TestMemoryExpiry(t *testing.T) {
	c := NewMemory()
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	_ = c.Set(context.Background(), "k", []byte("v"), time.Minute)

	got, _ := c.Get(context.Background(), "k")
	if string(got) != "v" {
		t.Fatalf("ожидали значение v, получили %q", got)
	}
	now = now.Add(2 * time.Minute)
	if got, _ := c.Get(context.Background(), "k"); got != nil {
		t.Fatalf("ожидали истечение ключа")
	}
}

func TestMemoryOnceDropsExpiredDays(t *testing.T) {
	c := NewMemory()
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	for day := 1; day <= 10; day++ {
		key := "notify:42:" + now.Format("2006-01-02")
		if err := c.Once(context.Background(), key, 36*time.Hour, func() error { return nil }); err != nil {
			t.Fatalf("не ожидали ошибку: %v", err)
		}
		now = now.Add(24 * time.Hour)
	}
	if len(c.entries) > 2 {
		t.Fatalf("ожидали не больше двух живых ключей, получили %d", len(c.entries))
	}
}
