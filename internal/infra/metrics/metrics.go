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
	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2, 3, 5, 10},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})

	RecommendationRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_requests_total",
		Help: "Запросы рекомендаций по результату",
	}, []string{"outcome"})

	RecommendationBuildSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommendation_build_seconds",
		Help:    "Время подбора и сохранения рекомендации",
		Buckets: prometheus.DefBuckets,
	})

	EventPublishErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_event_publish_errors_total",
		Help: "Ошибки публикации событий о рекомендациях",
	}, []string{"backend"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		NetworkRequestDuration,
		NetworkRequestTotal,
		RecommendationRequestsTotal,
		RecommendationBuildSeconds,
		EventPublishErrors,
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

// ObserveRecommendation фиксирует результат запроса рекомендации.
func ObserveRecommendation(outcome string, start time.Time) {
	RecommendationRequestsTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		RecommendationBuildSeconds.Observe(time.Since(start).Seconds())
	}
}

// IncEventPublishError увеличивает счётчик ошибок публикации.
func IncEventPublishError(backend string) {
	EventPublishErrors.WithLabelValues(backend).Inc()
}
