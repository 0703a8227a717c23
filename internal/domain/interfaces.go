package domain

import (
	"context"
	"errors"
	"time"
)

// ErrArtifactNotFound возвращается, если документ за день отсутствует.
var ErrArtifactNotFound = errors.New("документ сводки не найден")

// ErrMalformedPayload возвращается, если документ не разбирается как сводка.
var ErrMalformedPayload = errors.New("некорректный документ сводки")

// DigestSource читает сводки по имени документа: YYYY-MM-DD или LatestArtifact.
type DigestSource interface {
	Fetch(ctx context.Context, artifact string) (DailyDigest, error)
}

// DigestLoader загружает сводку за день с откатом на последний архив.
type DigestLoader interface {
	Load(ctx context.Context, day time.Time) (LoadResult, error)
	State() LoadResult
}

// FeedbackStorage описывает долговременное хранилище документа с оценками.
// Get возвращает nil без ошибки, если документ ещё не записан.
type FeedbackStorage interface {
	Get(ctx context.Context) ([]byte, error)
	Set(ctx context.Context, value []byte) error
}

// FeedbackJournal хранит оценки пользователя.
type FeedbackJournal interface {
	Record(ctx context.Context, itemID string, judgment Judgment, authorHandle string) error
	Lookup(ctx context.Context, itemID string) (Judgment, bool)
	Judgments(ctx context.Context) map[string]Judgment
	Records(ctx context.Context) []FeedbackRecord
}

// FeedbackPublisher доставляет события об оценках во внешние системы.
type FeedbackPublisher interface {
	Publish(ctx context.Context, event FeedbackEvent) error
}

// Cache используется для простых TTL-хранилищ.
type Cache interface {
	Once(ctx context.Context, key string, ttl time.Duration, fn func() error) error
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
}
