package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"dish-recommendations/internal/adapters/menuclient"
	"dish-recommendations/internal/adapters/ranker"
	"dish-recommendations/internal/adapters/repo"
	"dish-recommendations/internal/adapters/userclient"
	"dish-recommendations/internal/domain"
	"dish-recommendations/internal/infra/cache"
	"dish-recommendations/internal/infra/config"
	"dish-recommendations/internal/infra/db"
	httpinfra "dish-recommendations/internal/infra/http"
	applog "dish-recommendations/internal/infra/log"
	"dish-recommendations/internal/infra/metrics"
	"dish-recommendations/internal/infra/queue"
	"dish-recommendations/internal/usecase/recommend"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), cfg.MetricsAddr)

	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("api: не указан секрет токенов (JWT_SECRET)")
	}

	pool, err := db.Connect(cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: нет подключения к БД")
	}
	defer pool.Close()

	schemaCtx, schemaCancel := context.WithTimeout(ctx, 10*time.Second)
	err = db.EnsureSchema(schemaCtx, pool)
	schemaCancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("api: не удалось подготовить схему")
	}

	users, err := userclient.New(cfg.Upstreams.UsersURL, userclient.WithTimeout(cfg.Upstreams.Timeout))
	if err != nil {
		logger.Fatal().Err(err).Msg("api: неверный адрес сервиса пользователей")
	}
	menus, err := menuclient.New(cfg.Upstreams.MenuURL, menuclient.WithTimeout(cfg.Upstreams.Timeout))
	if err != nil {
		logger.Fatal().Err(err).Msg("api: неверный адрес сервиса меню")
	}

	opts := []recommend.Option{recommend.WithLocation(cfg.Location())}
	events, closeEvents := setupEvents(cfg, logger)
	defer closeEvents()
	if events != nil {
		opts = append(opts, events)
	}

	service := recommend.NewService(
		users,
		menus,
		ranker.NewSimple(),
		repo.NewPostgres(pool),
		logger.With().Str("component", "recommend").Logger(),
		opts...,
	)

	server := httpinfra.NewServer(logger.With().Str("component", "http").Logger(), cfg.CORSAllowedOrigins)
	httpinfra.NewHandler(service, logger.With().Str("component", "http").Logger()).Mount(server.Router, []byte(cfg.JWTSecret))

	go func() {
		if err := server.Start(":" + strconv.Itoa(cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("api: сервер остановлен")
			stop()
		}
	}()
	<-ctx.Done()
	logger.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api: ошибка остановки сервера")
	}
}

// setupEvents выбирает брокер событий по EVENTS_BACKEND. Дедупликация работает через Redis, если он настроен.
func setupEvents(cfg config.AppConfig, logger zerolog.Logger) (recommend.Option, func()) {
	var (
		client  *redis.Client
		closers []io.Closer
	)
	if cfg.RedisAddr != "" {
		client = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		closers = append(closers, client)
	}
	closeAll := func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Warn().Err(err).Msg("api: ошибка закрытия клиента событий")
			}
		}
	}

	var dedup domain.Cache = cache.NopCache{}
	if client != nil {
		dedup = cache.NewRedis(client)
	}

	var publisher domain.EventPublisher
	switch cfg.Events.Backend {
	case "", "none":
		return nil, closeAll
	case "redis":
		if client == nil {
			logger.Fatal().Msg("api: для EVENTS_BACKEND=redis нужен REDIS_ADDR")
		}
		publisher = queue.NewRedisEventQueue(client, cfg.Events.RedisKey)
	case "rabbitmq":
		if cfg.RabbitURL == "" {
			logger.Fatal().Msg("api: не указан адрес RabbitMQ (RABBITMQ_URL)")
		}
		rabbit, err := queue.NewRabbitPublisher(cfg.RabbitURL, cfg.Events.RabbitQueue)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: не удалось инициализировать очередь RabbitMQ")
		}
		closers = append(closers, rabbit)
		publisher = rabbit
	case "kafka":
		if len(cfg.KafkaBrokers) == 0 {
			logger.Fatal().Msg("api: не указаны брокеры Kafka (KAFKA_BROKERS)")
		}
		kafkaPub := queue.NewKafkaPublisher(queue.NewKafkaWriter(cfg.KafkaBrokers, cfg.Events.KafkaTopic), cfg.Events.KafkaTopic)
		closers = append(closers, kafkaPub)
		publisher = kafkaPub
	default:
		logger.Fatal().Str("backend", cfg.Events.Backend).Msg("api: неизвестный EVENTS_BACKEND")
	}
	logger.Info().Str("backend", cfg.Events.Backend).Msg("api: публикация событий включена")
	return recommend.WithEvents(cfg.Events.Backend, publisher, dedup, cfg.Events.DedupTTL), closeAll
}
