package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ai-daily/internal/domain"
	"ai-daily/internal/infra/metrics"
)

// Service хранит оценки пользователя одним документом в FeedbackStorage.
// Каждая запись перечитывает весь набор, убирает прежнюю оценку элемента,
// добавляет новую и перезаписывает документ целиком.
type Service struct {
	storage   domain.FeedbackStorage
	publisher domain.FeedbackPublisher
	log       zerolog.Logger
	now       func() time.Time

	mu sync.Mutex
}

var _ domain.FeedbackJournal = (*Service)(nil)

// NewService создаёт журнал оценок. publisher может быть nil.
func NewService(storage domain.FeedbackStorage, publisher domain.FeedbackPublisher, logger zerolog.Logger) *Service {
	return &Service{storage: storage, publisher: publisher, log: logger, now: time.Now}
}

// Record сохраняет оценку, заменяя прежнюю для того же элемента.
func (s *Service) Record(ctx context.Context, itemID string, judgment domain.Judgment, authorHandle string) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return domain.ErrEmptyItemID
	}
	if _, err := domain.ParseJudgment(string(judgment)); err != nil {
		return err
	}

	record := domain.FeedbackRecord{
		ItemID:       itemID,
		Judgment:     judgment,
		Timestamp:    s.now().UnixMilli(),
		AuthorHandle: authorHandle,
	}

	s.mu.Lock()
	records := s.read(ctx)
	filtered := records[:0]
	for _, r := range records {
		if r.ItemID != itemID {
			filtered = append(filtered, r)
		}
	}
	filtered = append(filtered, record)
	err := s.write(ctx, filtered)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	metrics.IncFeedback(string(judgment))
	s.publish(ctx, record)
	return nil
}

// Lookup возвращает текущую оценку элемента.
func (s *Service) Lookup(ctx context.Context, itemID string) (domain.Judgment, bool) {
	s.mu.Lock()
	records := s.read(ctx)
	s.mu.Unlock()
	for _, r := range records {
		if r.ItemID == itemID {
			return r.Judgment, true
		}
	}
	return "", false
}

// Judgments возвращает все оценки за одно чтение хранилища.
func (s *Service) Judgments(ctx context.Context) map[string]domain.Judgment {
	s.mu.Lock()
	records := s.read(ctx)
	s.mu.Unlock()
	out := make(map[string]domain.Judgment, len(records))
	for _, r := range records {
		out[r.ItemID] = r.Judgment
	}
	return out
}

// Records возвращает сохранённый набор как есть.
func (s *Service) Records(ctx context.Context) []domain.FeedbackRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx)
}

// read считает недоступное или повреждённое хранилище пустым набором.
func (s *Service) read(ctx context.Context) []domain.FeedbackRecord {
	raw, err := s.storage.Get(ctx)
	if err != nil {
		metrics.IncFeedbackStorageError("get")
		s.log.Warn().Err(err).Msg("feedback: хранилище недоступно, считаем набор пустым")
		return []domain.FeedbackRecord{}
	}
	if len(raw) == 0 {
		return []domain.FeedbackRecord{}
	}
	var records []domain.FeedbackRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		metrics.IncFeedbackStorageError("decode")
		s.log.Warn().Err(err).Msg("feedback: повреждённый документ, считаем набор пустым")
		return []domain.FeedbackRecord{}
	}
	if records == nil {
		return []domain.FeedbackRecord{}
	}
	return records
}

func (s *Service) write(ctx context.Context, records []domain.FeedbackRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	if err := s.storage.Set(ctx, raw); err != nil {
		metrics.IncFeedbackStorageError("set")
		return fmt.Errorf("сохранение оценок: %w", err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, record domain.FeedbackRecord) {
	if s.publisher == nil {
		return
	}
	event := domain.FeedbackEvent{ID: uuid.NewString(), Record: record, Source: "ai-daily"}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("item_id", record.ItemID).Msg("feedback: не удалось опубликовать событие")
	}
}
