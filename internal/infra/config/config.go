package config

import (
	"fmt"
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервисов.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	TZ          string `envconfig:"TZ" default:"UTC"`
	Port        int    `envconfig:"PORT" default:"8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	Source struct {
		BaseURL string        `envconfig:"DATA_BASE_URL" default:"./data"`
		Timeout time.Duration `envconfig:"DATA_FETCH_TIMEOUT" default:"15s"`
	} `envconfig:""`

	Feedback struct {
		Backend    string `envconfig:"FEEDBACK_BACKEND" default:"file"`
		File       string `envconfig:"FEEDBACK_FILE" default:"feedback.json"`
		Key        string `envconfig:"FEEDBACK_KEY" default:"ai-dashboard-feedback"`
		SQLitePath string `envconfig:"FEEDBACK_SQLITE_PATH" default:"feedback.db"`
	} `envconfig:""`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	Events struct {
		Backend  string `envconfig:"EVENTS_BACKEND" default:"none"`
		AMQPURL  string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"EVENTS_EXCHANGE" default:"ai-daily.feedback"`
		QueueKey string `envconfig:"EVENTS_QUEUE_KEY" default:"feedback_events"`
	} `envconfig:""`

	Telegram struct {
		Token         string `envconfig:"TG_BOT_TOKEN"`
		ChatID        int64  `envconfig:"TG_CHAT_ID"`
		NotifyAt      string `envconfig:"NOTIFY_AT" default:"09:00"`
		WebhookSecret string `envconfig:"TG_WEBHOOK_SECRET"`
	} `envconfig:""`
}

// Addr возвращает адрес HTTP сервера.
func (c AppConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}

// Parse читает конфиг из окружения и возвращает ошибку вместо завершения процесса.
func Parse() (AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}
