package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"dish-recommendations/internal/domain"
	"dish-recommendations/internal/infra/config"
	applog "dish-recommendations/internal/infra/log"
	"dish-recommendations/internal/infra/metrics"
	"dish-recommendations/internal/infra/queue"
)

const popTimeout = 5 * time.Second

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv).With().Str("component", "event_worker").Logger()

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), cfg.MetricsAddr)

	if cfg.RedisAddr == "" {
		logger.Fatal().Msg("event-worker: не указан адрес Redis (REDIS_ADDR)")
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer client.Close()

	w := &eventWorker{
		log:   logger,
		queue: queue.NewRedisEventQueue(client, cfg.Events.RedisKey),
	}
	logger.Info().Str("key", cfg.Events.RedisKey).Msg("event-worker: запуск обработки очереди")
	w.Run(ctx)
	logger.Info().Msg("event-worker: остановлен")
}

type eventSource interface {
	Pop(ctx context.Context, timeout time.Duration) (domain.RecommendationEvent, error)
}

type eventWorker struct {
	log   zerolog.Logger
	queue eventSource
}

// Run читает события из очереди до отмены контекста.
func (w *eventWorker) Run(ctx context.Context) {
	for {
		event, err := w.queue.Pop(ctx, popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			w.log.Error().Err(err).Msg("event-worker: ошибка чтения очереди")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		w.handle(event)
	}
}

func (w *eventWorker) handle(event domain.RecommendationEvent) {
	if event.ID == "" {
		w.log.Warn().Msg("event-worker: событие без идентификатора, пропускаем")
		return
	}
	w.log.Info().
		Str("event_id", event.ID).
		Str("type", event.Type).
		Int64("user_id", event.UserID).
		Int64("menu_id", event.MenuID).
		Int64("dish_id", event.DishID).
		Str("date", event.Date).
		Msg("event-worker: рекомендация зафиксирована")
}
