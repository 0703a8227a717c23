package notifier

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"ai-daily/internal/adapters/telegram"
	"ai-daily/internal/domain"
	"ai-daily/internal/infra/metrics"
	"ai-daily/internal/usecase/calendar"
	"ai-daily/internal/usecase/digest"
)

// Sender покрывает часть tgbotapi.BotAPI, нужная для отправки сообщений.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier раз в день отправляет сводку в чат Telegram.
type Notifier struct {
	sender   Sender
	loader   domain.DigestLoader
	journal  domain.FeedbackJournal
	cache    domain.Cache
	chatID   int64
	hour     int
	minute   int
	loc      *time.Location
	log      zerolog.Logger
	interval time.Duration
}

// New создаёт рассыльщика. notifyAt задаётся как HH:MM в часовом поясе loc.
// journal может быть nil, тогда оценки в сообщении не отмечаются.
func New(sender Sender, loader domain.DigestLoader, journal domain.FeedbackJournal, cache domain.Cache, chatID int64, notifyAt string, loc *time.Location, logger zerolog.Logger) (*Notifier, error) {
	at, err := time.Parse("15:04", notifyAt)
	if err != nil {
		return nil, fmt.Errorf("время рассылки %q: %w", notifyAt, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{
		sender:   sender,
		loader:   loader,
		journal:  journal,
		cache:    cache,
		chatID:   chatID,
		hour:     at.Hour(),
		minute:   at.Minute(),
		loc:      loc,
		log:      logger.With().Str("component", "notifier").Logger(),
		interval: time.Minute,
	}, nil
}

// Run проверяет расписание раз в минуту до отмены ctx.
func (n *Notifier) Run(ctx context.Context) error {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()
	for {
		if err := n.Tick(ctx, time.Now()); err != nil {
			n.log.Error().Err(err).Msg("не удалось отправить сводку")
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Tick отправляет сводку за сегодня, если время рассылки наступило
// и сегодня она ещё не уходила.
func (n *Notifier) Tick(ctx context.Context, now time.Time) error {
	local := now.In(n.loc)
	due := time.Date(local.Year(), local.Month(), local.Day(), n.hour, n.minute, 0, 0, n.loc)
	if local.Before(due) {
		return nil
	}
	today := calendar.Today(now, n.loc)
	key := "notify:" + strconv.FormatInt(n.chatID, 10) + ":" + calendar.Format(today)
	return n.cache.Once(ctx, key, 36*time.Hour, func() error {
		return n.SendDigest(ctx, today)
	})
}

// SendDigest загружает сводку за day и отправляет её частями.
// Неудачная загрузка только логируется.
func (n *Notifier) SendDigest(ctx context.Context, day time.Time) error {
	result, err := n.loader.Load(ctx, day)
	if err != nil {
		return err
	}
	if !result.Succeeded() {
		n.log.Warn().Str("requested", result.RequestedDate).Str("reason", result.Reason).Msg("сводка недоступна, рассылка пропущена")
		return nil
	}

	var judgments map[string]domain.Judgment
	if n.journal != nil {
		judgments = n.journal.Judgments(ctx)
	}
	parts := telegram.SplitMessage(digest.FormatDigest(*result.Digest, judgments), telegram.MessageLimit)
	for i, part := range parts {
		msg := tgbotapi.NewMessage(n.chatID, part)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		start := time.Now()
		_, err := n.sender.Send(msg)
		metrics.ObserveNetworkRequest("telegram_bot", "send_message", strconv.FormatInt(n.chatID, 10), start, err)
		if err != nil {
			metrics.NotifierSendErrors.Inc()
			return fmt.Errorf("отправка части %d/%d: %w", i+1, len(parts), err)
		}
	}
	n.log.Info().
		Str("requested", result.RequestedDate).
		Str("displayed", result.DisplayedDate()).
		Bool("degraded", result.Degraded).
		Int("parts", len(parts)).
		Msg("сводка отправлена")
	return nil
}
