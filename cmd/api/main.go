package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"ai-daily/internal/adapters/feedbackstore"
	"ai-daily/internal/adapters/source"
	"ai-daily/internal/adapters/web"
	"ai-daily/internal/domain"
	"ai-daily/internal/infra/config"
	httpinfra "ai-daily/internal/infra/http"
	"ai-daily/internal/infra/log"
	"ai-daily/internal/infra/metrics"
	"ai-daily/internal/infra/queue"
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

	loc, err := calendar.Location(cfg.TZ)
	if err != nil {
		logger.Fatal().Err(err).Str("tz", cfg.TZ).Msg("api: некорректный часовой пояс")
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
		logger.Fatal().Err(err).Msg("api: нет хранилища оценок")
	}
	defer closeStorage()

	publisher, closePublisher, err := queue.Open(ctx, queue.Options{
		Backend:   cfg.Events.Backend,
		AMQPURL:   cfg.Events.AMQPURL,
		Exchange:  cfg.Events.Exchange,
		RedisAddr: cfg.RedisAddr,
		QueueKey:  cfg.Events.QueueKey,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("api: нет подключения к брокеру событий")
	}
	defer closePublisher()

	src := source.New(cfg.Source.BaseURL, cfg.Source.Timeout)
	journal := feedback.NewService(storage, publisher, log.Component(logger, "feedback"))
	loaderLog := log.Component(logger, "loader")
	handler, err := web.NewHandler(func() domain.DigestLoader {
		return loader.NewService(src, loaderLog)
	}, journal, loc, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: не удалось подготовить шаблоны")
	}

	srv := httpinfra.NewServer(logger)
	handler.Register(srv.Router)

	if cfg.MetricsAddr != "" {
		metrics.StartServer(ctx, log.Component(logger, "metrics"), cfg.MetricsAddr)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(cfg.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("api: остановка")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("api: сервер остановлен с ошибкой")
	}
}
