package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ai-daily/internal/domain"
	"ai-daily/internal/infra/metrics"
	"ai-daily/internal/usecase/calendar"
)

// ErrSuperseded возвращается загрузке, которую обогнал более новый запрос.
// Её результат не попадает в State.
var ErrSuperseded = errors.New("загрузка вытеснена более новым запросом")

// NoDataReason показывается пользователю, когда нет ни дня, ни архива.
const NoDataReason = "no data available"

// Service загружает сводку за день с откатом на последний архив.
// Каждый вызов Load получает номер поколения; результат фиксируется,
// только если за время загрузки не было нового вызова.
type Service struct {
	source domain.DigestSource
	log    zerolog.Logger
	newID  func() string

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	state      domain.LoadResult
}

var _ domain.DigestLoader = (*Service)(nil)

// NewService создаёт загрузчик.
func NewService(source domain.DigestSource, logger zerolog.Logger) *Service {
	return &Service{
		source: source,
		log:    logger,
		newID:  uuid.NewString,
		state:  domain.LoadResult{State: domain.LoadStateLoading},
	}
}

// State возвращает последнее зафиксированное состояние.
func (s *Service) State() domain.LoadResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Load загружает сводку за day. Неудача обеих попыток возвращается как
// результат Failed, а не как ошибка; ошибка бывает только ErrSuperseded.
func (s *Service) Load(ctx context.Context, day time.Time) (domain.LoadResult, error) {
	requested := calendar.Format(day)
	start := time.Now()

	loadCtx, generation, requestID := s.begin(ctx, requested)
	result := s.fetch(loadCtx, requestID, requested)

	if !s.commit(generation, result) {
		metrics.ObserveDigestLoad("superseded", start)
		s.log.Debug().Str("request_id", requestID).Str("requested", requested).Msg("loader: результат устарел")
		return result, ErrSuperseded
	}

	metrics.ObserveDigestLoad(outcome(result), start)
	event := s.log.Info()
	if result.Failed() {
		event = s.log.Warn()
	}
	event.Str("request_id", requestID).
		Str("requested", requested).
		Str("displayed", result.DisplayedDate()).
		Bool("degraded", result.Degraded).
		Str("state", string(result.State)).
		Msg("loader: загрузка завершена")
	return result, nil
}

func (s *Service) begin(ctx context.Context, requested string) (context.Context, uint64, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	s.generation++
	s.cancel = cancel
	id := s.newID()
	s.state = domain.LoadResult{State: domain.LoadStateLoading, RequestID: id, RequestedDate: requested}
	return loadCtx, s.generation, id
}

func (s *Service) commit(generation uint64, result domain.LoadResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return false
	}
	s.state = result
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}

func (s *Service) fetch(ctx context.Context, requestID, requested string) domain.LoadResult {
	result := domain.LoadResult{RequestID: requestID, RequestedDate: requested}

	digest, err := s.source.Fetch(ctx, requested)
	if err == nil {
		result.State = domain.LoadStateSucceeded
		result.Digest = &digest
		return result
	}
	s.log.Debug().Err(err).Str("request_id", requestID).Str("requested", requested).Msg("loader: нет документа за день, пробуем latest")

	if ctx.Err() != nil {
		result.State = domain.LoadStateFailed
		result.Reason = NoDataReason
		return result
	}

	fallback, err := s.source.Fetch(ctx, domain.LatestArtifact)
	if err != nil {
		s.log.Debug().Err(err).Str("request_id", requestID).Msg("loader: latest недоступен")
		result.State = domain.LoadStateFailed
		result.Reason = NoDataReason
		return result
	}

	note := DegradedNote(requested, fallback.Date)
	fallback.Meta.Degraded = true
	fallback.Meta.Message = note
	result.State = domain.LoadStateSucceeded
	result.Digest = &fallback
	result.Degraded = true
	result.Note = note
	return result
}

// DegradedNote формирует пояснение о показе архива вместо запрошенного дня.
func DegradedNote(requested, shown string) string {
	return fmt.Sprintf("%s has no data; showing most recent archive (%s)", requested, shown)
}

func outcome(result domain.LoadResult) string {
	switch {
	case result.Failed():
		return "failed"
	case result.Degraded:
		return "degraded"
	default:
		return "fresh"
	}
}
