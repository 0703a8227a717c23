package main

import (
	"context"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"

	"ai-daily/internal/adapters/feedbackstore"
	"ai-daily/internal/adapters/notifier"
	"ai-daily/internal/adapters/source"
	"ai-daily/internal/domain"
	"ai-daily/internal/infra/cache"
	"ai-daily/internal/infra/config"
	"ai-daily/internal/infra/log"
	"ai-daily/internal/infra/metrics"
	"ai-daily/internal/usecase/calendar"
	"ai-daily/internal/usecase/feedback"
	"ai-daily/internal/usecase/loader"
)

func main() {
	cfg := config.Load()
	logger := log.NewLogger(cfg.AppEnv, nil)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		logger.Fatal().Msg("notifier: нужны TG_BOT_TOKEN и TG_CHAT_ID")
	}
	loc, err := calendar.Location(cfg.TZ)
	if err != nil {
		logger.Fatal().Err(err).Str("tz", cfg.TZ).Msg("notifier: некорректный часовой пояс")
	}

	var dedupe domain.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatal().Err(err).Msg("notifier: нет подключения к Redis")
		}
		defer client.Close()
		dedupe = cache.NewRedis(client)
	}

	storage, closeStorage, err := feedbackstore.Open(ctx, feedbackstore.Options{
		Backend:    cfg.Feedback.Backend,
		File:       cfg.Feedback.File,
		Key:        cfg.Feedback.Key,
		SQLitePath: cfg.Feedback.SQLitePath,
		PGDSN:      cfg.PGDSN,
		RedisAddr:  cfg.RedisAddr,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("notifier: нет хранилища оценок")
	}
	defer closeStorage()

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("notifier: не удалось создать бота")
	}

	src := source.New(cfg.Source.BaseURL, cfg.Source.Timeout)
	n, err := notifier.New(
		botAPI,
		loader.NewService(src, log.Component(logger, "loader")),
		feedback.NewService(storage, nil, log.Component(logger, "feedback")),
		dedupe,
		cfg.Telegram.ChatID,
		cfg.Telegram.NotifyAt,
		loc,
		logger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("notifier: некорректная конфигурация")
	}

	if cfg.MetricsAddr != "" {
		metrics.StartServer(ctx, log.Component(logger, "metrics"), cfg.MetricsAddr)
	}
	logger.Info().Str("notify_at", cfg.Telegram.NotifyAt).Str("tz", loc.String()).Msg("notifier: старт")
	if err := n.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("notifier: остановлен с ошибкой")
	}
}
