package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"ai-daily/internal/adapters/feedbackstore"
	"ai-daily/internal/domain"
	"ai-daily/internal/usecase/feedback"
	"ai-daily/internal/usecase/loader"
)

type fakeAPI struct {
	sent      []tgbotapi.MessageConfig
	callbacks []tgbotapi.CallbackConfig
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.callbacks = append(f.callbacks, c.(tgbotapi.CallbackConfig))
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type docs map[string]domain.DailyDigest

func (d docs) Fetch(ctx context.Context, artifact string) (domain.DailyDigest, error) {
	doc, ok := d[artifact]
	if !ok {
		return domain.DailyDigest{}, domain.ErrArtifactNotFound
	}
	return doc, nil
}

func newHandler(t *testing.T, src domain.DigestSource) (*Handler, *fakeAPI, *feedback.Service) {
	t.Helper()
	api := &fakeAPI{}
	journal := feedback.NewService(feedbackstore.NewMemory(), nil, zerolog.Nop())
	h := NewHandler(api, zerolog.Nop(), func() domain.DigestLoader {
		return loader.NewService(src, zerolog.Nop())
	}, journal, time.UTC)
	h.now = func() time.Time { return time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC) }
	return h, api, journal
}

func message(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: 7}}}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		Data:    data,
		From:    &tgbotapi.User{ID: 99, UserName: "reader"},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}},
	}}
}

func sample() docs {
	return docs{"2026-10-14": {
		Date:      "2026-10-14",
		TopTweets: []domain.SocialPost{{ID: "t-1", AuthorHandle: "dev", Text: "agents"}, {ID: strings.Repeat("x", 70), AuthorHandle: "long", Text: "too long id"}},
	}}
}

func TestDigestCommandSendsDigestWithButtons(t *testing.T) {
	h, api, _ := newHandler(t, sample())

	h.HandleUpdate(context.Background(), message("/digest 2026-10-14"))

	if len(api.sent) != 1 {
		t.Fatalf("ожидали одно сообщение, получили %d", len(api.sent))
	}
	msg := api.sent[0]
	if msg.ParseMode != tgbotapi.ModeHTML || !strings.Contains(msg.Text, "AI Daily · 2026-10-14") {
		t.Fatalf("неожиданное сообщение: %+v", msg)
	}
	markup, ok := msg.ReplyMarkup.(*tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("ожидали клавиатуру, получили %T", msg.ReplyMarkup)
	}
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("ожидали строку оценок и навигацию, получили %d строк", len(markup.InlineKeyboard))
	}
	if data := *markup.InlineKeyboard[0][0].CallbackData; data != "fb:up:t-1" {
		t.Fatalf("неожиданные данные кнопки %q", data)
	}
	nav := markup.InlineKeyboard[1]
	if len(nav) != 2 || *nav[0].CallbackData != "day:2026-10-13" || *nav[1].CallbackData != "day:2026-10-15" {
		t.Fatalf("неожиданная навигация: %+v", nav)
	}
}

func TestDigestCommandFallsBackAndRejectsBadDates(t *testing.T) {
	src := sample()
	src[domain.LatestArtifact] = src["2026-10-14"]
	h, api, _ := newHandler(t, src)

	h.HandleUpdate(context.Background(), message("/digest"))
	if len(api.sent) != 1 || !strings.Contains(api.sent[0].Text, "2026-10-15 has no data; showing most recent archive (2026-10-14)") {
		t.Fatalf("ожидали баннер деградации: %+v", api.sent)
	}

	h.HandleUpdate(context.Background(), message("/digest 2026-10-20"))
	h.HandleUpdate(context.Background(), message("/digest tomorrow"))
	if len(api.sent) != 3 || !strings.Contains(api.sent[1].Text, "будущий") || !strings.Contains(api.sent[2].Text, "YYYY-MM-DD") {
		t.Fatalf("ожидали отказ для некорректных дат: %+v", api.sent[1:])
	}
}

func TestFeedbackCallbackRecordsJudgment(t *testing.T) {
	h, api, journal := newHandler(t, sample())

	h.HandleUpdate(context.Background(), callback("fb:down:t-1"))

	got, ok := journal.Lookup(context.Background(), "t-1")
	if !ok || got != domain.JudgmentDown {
		t.Fatalf("ожидали сохранённую оценку down, получили %q", got)
	}
	if len(api.callbacks) != 1 || api.callbacks[0].Text != "Сохранено 👎" {
		t.Fatalf("ожидали ответ на callback: %+v", api.callbacks)
	}

	h.HandleUpdate(context.Background(), message("/feedback t-1"))
	if len(api.sent) != 1 || !strings.Contains(api.sent[0].Text, "👎 down") {
		t.Fatalf("неожиданный ответ: %+v", api.sent)
	}
}

func TestFeedbackCallbackRejectsBadJudgment(t *testing.T) {
	h, api, journal := newHandler(t, sample())

	h.HandleUpdate(context.Background(), callback("fb:love:t-1"))

	if _, ok := journal.Lookup(context.Background(), "t-1"); ok {
		t.Fatalf("оценка не должна сохраниться")
	}
	if len(api.callbacks) != 1 || api.callbacks[0].Text != "Некорректная оценка" {
		t.Fatalf("неожиданный ответ: %+v", api.callbacks)
	}
}

func TestDayCallbackOpensDigest(t *testing.T) {
	h, api, _ := newHandler(t, sample())

	h.HandleUpdate(context.Background(), callback("day:2026-10-14"))

	if len(api.sent) != 1 || !strings.Contains(api.sent[0].Text, "2026-10-14") {
		t.Fatalf("ожидали сводку за выбранный день: %+v", api.sent)
	}
}

func TestUnknownCommand(t *testing.T) {
	h, api, _ := newHandler(t, sample())
	h.HandleUpdate(context.Background(), message("/subscribe"))
	if len(api.sent) != 1 || !strings.Contains(api.sent[0].Text, "/help") {
		t.Fatalf("неожиданный ответ: %+v", api.sent)
	}
}

func TestGroupCommandWithBotSuffix(t *testing.T) {
	h, api, _ := newHandler(t, sample())

	h.HandleUpdate(context.Background(), message("/digest@AIDailyBot 2026-10-14"))
	if len(api.sent) != 1 || !strings.Contains(api.sent[0].Text, "AI Daily · 2026-10-14") {
		t.Fatalf("ожидали сводку за 2026-10-14: %+v", api.sent)
	}

	h.HandleUpdate(context.Background(), message("/help@AIDailyBot"))
	if len(api.sent) != 2 || !strings.Contains(api.sent[1].Text, "/digest YYYY-MM-DD") {
		t.Fatalf("ожидали справку: %+v", api.sent[1:])
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		text, command, args string
	}{
		{text: "/digest", command: "/digest"},
		{text: "  /digest   2026-10-14 ", command: "/digest", args: "2026-10-14"},
		{text: "/feedback@AIDailyBot t-1", command: "/feedback", args: "t-1"},
		{text: "/Digest@Bot", command: "/digest"},
	}
	for _, tt := range tests {
		command, args := splitCommand(tt.text)
		if command != tt.command || args != tt.args {
			t.Fatalf("splitCommand(%q) = %q, %q; want %q, %q", tt.text, command, args, tt.command, tt.args)
		}
	}
}
