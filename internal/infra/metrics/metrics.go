package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	DigestLoadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "digest_load_total",
		Help: "Загрузки сводки по исходу: fresh, degraded, failed, superseded",
	}, []string{"outcome"})
	DigestLoadSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "digest_load_seconds",
		Help:    "Время загрузки сводки вместе с откатом на latest",
		Buckets: prometheus.DefBuckets,
	})

	FeedbackRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_records_total",
		Help: "Сохранённые оценки по типу",
	}, []string{"judgment"})
	FeedbackStorageErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_storage_errors_total",
		Help: "Ошибки хранилища оценок",
	}, []string{"operation"})

	NotifierSendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifier_send_errors_total",
		Help: "Ошибки отправки сводки в Telegram",
	})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 30, 60},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		DigestLoadTotal,
		DigestLoadSeconds,
		FeedbackRecordsTotal,
		FeedbackStorageErrors,
		NotifierSendErrors,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	shutdownCtx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-ctx.Done():
		case <-shutdownCtx.Done():
		}
		shutdownTimeout, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
		cancel()
	}()
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveDigestLoad учитывает исход загрузки сводки.
func ObserveDigestLoad(outcome string, start time.Time) {
	DigestLoadTotal.WithLabelValues(outcome).Inc()
	DigestLoadSeconds.Observe(time.Since(start).Seconds())
}

// IncFeedback увеличивает счётчик сохранённых оценок.
func IncFeedback(judgment string) {
	FeedbackRecordsTotal.WithLabelValues(judgment).Inc()
}

// IncFeedbackStorageError учитывает ошибку хранилища оценок.
func IncFeedbackStorageError(operation string) {
	FeedbackStorageErrors.WithLabelValues(operation).Inc()
}
