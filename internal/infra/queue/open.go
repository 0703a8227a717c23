package queue

import (
	"context"
	"errors"
	"fmt"

	"ai-daily/internal/domain"
	"ai-daily/internal/infra/cache"
)

// ErrUnknownBackend возвращается для неизвестного имени брокера событий.
var ErrUnknownBackend = errors.New("неизвестный бэкенд событий")

// Options описывает брокер для событий об оценках.
type Options struct {
	Backend   string
	AMQPURL   string
	Exchange  string
	RedisAddr string
	QueueKey  string
}

// Open подключает публикатора событий. Для бэкенда none возвращает nil.
func Open(ctx context.Context, opts Options) (domain.FeedbackPublisher, func(), error) {
	noop := func() {}
	switch opts.Backend {
	case "none", "":
		return nil, noop, nil
	case "rabbitmq":
		p, err := NewRabbitPublisher(opts.AMQPURL, opts.Exchange)
		if err != nil {
			return nil, noop, err
		}
		return p, func() { _ = p.Close() }, nil
	case "redis":
		client, err := cache.Connect(ctx, opts.RedisAddr)
		if err != nil {
			return nil, noop, fmt.Errorf("redis: %w", err)
		}
		return NewRedisEventQueue(client, opts.QueueKey), func() { _ = client.Close() }, nil
	}
	return nil, noop, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}
