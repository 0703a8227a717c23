package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"ai-daily/internal/adapters/telegram"
	"ai-daily/internal/domain"
	"ai-daily/internal/infra/metrics"
	"ai-daily/internal/usecase/calendar"
	"ai-daily/internal/usecase/digest"
)

const (
	postsWithButtons = 5
	callbackLimit    = 64
	feedbackPrefix   = "fb:"
	dayPrefix        = "day:"
)

// API покрывает часть tgbotapi.BotAPI, которой пользуется обработчик.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Handler обслуживает вебхук бота: показ сводки и оценки постов.
type Handler struct {
	bot       API
	log       zerolog.Logger
	newLoader func() domain.DigestLoader
	journal   domain.FeedbackJournal
	loc       *time.Location
	now       func() time.Time
}

// NewHandler создаёт обработчик.
func NewHandler(bot API, log zerolog.Logger, newLoader func() domain.DigestLoader, journal domain.FeedbackJournal, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		bot:       bot,
		log:       log,
		newLoader: newLoader,
		journal:   journal,
		loc:       loc,
		now:       time.Now,
	}
}

// HandleUpdate обрабатывает входящий апдейт.
func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		h.handleMessage(ctx, upd.Message)
	} else if upd.CallbackQuery != nil {
		h.handleCallback(ctx, upd.CallbackQuery)
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	command, args := splitCommand(msg.Text)
	switch command {
	case "/start", "/help":
		h.reply(msg.Chat.ID, helpMessage, nil)
	case "/digest":
		h.sendDigest(ctx, msg.Chat.ID, args)
	case "/feedback":
		h.handleLookup(ctx, msg.Chat.ID, args)
	default:
		h.reply(msg.Chat.ID, "Неизвестная команда. Используйте /help", nil)
	}
}

// splitCommand отделяет команду от аргументов. Суффикс @имя_бота,
// который Telegram добавляет в группах, отбрасывается.
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	command, args, _ := strings.Cut(text, " ")
	command, _, _ = strings.Cut(command, "@")
	return strings.ToLower(command), strings.TrimSpace(args)
}

const helpMessage = "📰 <b>AI Daily</b>\n" +
	"/digest — сводка за сегодня\n" +
	"/digest YYYY-MM-DD — сводка за выбранный день\n" +
	"/feedback ID — ваша оценка поста\n\n" +
	"Кнопки под сводкой сохраняют оценки 👍 👎 🚫 для горячих постов."

func (h *Handler) sendDigest(ctx context.Context, chatID int64, rawDate string) {
	now := h.now()
	day, err := calendar.Resolve(rawDate, now, h.loc)
	switch {
	case errors.Is(err, calendar.ErrFutureDate):
		h.reply(chatID, "Сводка за будущий день ещё не готова", nil)
		return
	case err != nil:
		h.reply(chatID, "Дата должна быть в формате YYYY-MM-DD", nil)
		return
	}

	result, err := h.newLoader().Load(ctx, day)
	if err != nil {
		h.log.Warn().Err(err).Int64("chat", chatID).Msg("загрузка сводки прервана")
		h.reply(chatID, "Не удалось загрузить сводку, попробуйте ещё раз", nil)
		return
	}
	if !result.Succeeded() {
		h.reply(chatID, fmt.Sprintf("За %s данных нет: %s", result.RequestedDate, result.Reason), navKeyboard(day, now))
		return
	}

	text := digest.FormatDigest(*result.Digest, h.journal.Judgments(ctx))
	h.reply(chatID, text, digestKeyboard(*result.Digest, day, now))
}

func (h *Handler) handleLookup(ctx context.Context, chatID int64, itemID string) {
	if itemID == "" {
		h.reply(chatID, "Укажите идентификатор поста: /feedback ID", nil)
		return
	}
	judgment, ok := h.journal.Lookup(ctx, itemID)
	if !ok {
		h.reply(chatID, "Оценки для этого поста нет", nil)
		return
	}
	h.reply(chatID, fmt.Sprintf("Ваша оценка: %s %s", judgmentIcons[judgment], judgment), nil)
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	answer := ""
	switch {
	case strings.HasPrefix(data, feedbackPrefix):
		answer = h.handleJudgment(ctx, cb, strings.TrimPrefix(data, feedbackPrefix))
	case strings.HasPrefix(data, dayPrefix) && cb.Message != nil:
		h.sendDigest(ctx, cb.Message.Chat.ID, strings.TrimPrefix(data, dayPrefix))
	}
	start := time.Now()
	_, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, answer))
	metrics.ObserveNetworkRequest("telegram_bot", "answer_callback", "callback", start, err)
	if err != nil {
		h.log.Error().Err(err).Msg("не удалось ответить на callback")
	}
}

func (h *Handler) handleJudgment(ctx context.Context, cb *tgbotapi.CallbackQuery, payload string) string {
	rawJudgment, itemID, ok := strings.Cut(payload, ":")
	if !ok {
		return "Некорректная кнопка"
	}
	judgment, err := domain.ParseJudgment(rawJudgment)
	if err != nil {
		return "Некорректная оценка"
	}
	author := ""
	if cb.From != nil {
		author = cb.From.UserName
	}
	if err := h.journal.Record(ctx, itemID, judgment, author); err != nil {
		h.log.Error().Err(err).Str("item_id", itemID).Msg("не удалось сохранить оценку")
		return "Не удалось сохранить оценку"
	}
	return "Сохранено " + judgmentIcons[judgment]
}

var judgmentIcons = map[domain.Judgment]string{
	domain.JudgmentUp:   "👍",
	domain.JudgmentDown: "👎",
	domain.JudgmentSpam: "🚫",
}

func digestKeyboard(d domain.DailyDigest, day, now time.Time) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, p := range d.TopTweets {
		if len(rows) == postsWithButtons {
			break
		}
		row := make([]tgbotapi.InlineKeyboardButton, 0, 3)
		for _, j := range []domain.Judgment{domain.JudgmentUp, domain.JudgmentDown, domain.JudgmentSpam} {
			data := feedbackPrefix + string(j) + ":" + p.ID
			if p.ID == "" || len(data) > callbackLimit {
				break
			}
			label := fmt.Sprintf("%d %s", i+1, judgmentIcons[j])
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, data))
		}
		if len(row) == 3 {
			rows = append(rows, row)
		}
	}
	rows = append(rows, navRow(day, now))
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func navKeyboard(day, now time.Time) *tgbotapi.InlineKeyboardMarkup {
	markup := tgbotapi.NewInlineKeyboardMarkup(navRow(day, now))
	return &markup
}

func navRow(day, now time.Time) []tgbotapi.InlineKeyboardButton {
	row := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("← "+calendar.Format(calendar.Prev(day)), dayPrefix+calendar.Format(calendar.Prev(day))),
	}
	if next := calendar.Next(day, now); !next.Equal(day) {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(calendar.Format(next)+" →", dayPrefix+calendar.Format(next)))
	}
	return row
}

// reply отправляет текст частями; клавиатура прикрепляется к последней части.
func (h *Handler) reply(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	parts := telegram.SplitMessage(text, telegram.MessageLimit)
	for i, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true
		if i == len(parts)-1 && keyboard != nil {
			msg.ReplyMarkup = keyboard
		}
		start := time.Now()
		_, err := h.bot.Send(msg)
		metrics.ObserveNetworkRequest("telegram_bot", "send_message", "chat", start, err)
		if err != nil {
			h.log.Error().Err(err).Msg("не удалось отправить сообщение")
			return
		}
	}
}
