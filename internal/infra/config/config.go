package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервиса рекомендаций.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	TZ          string `envconfig:"TZ" default:"Europe/Paris"`
	Port        int    `envconfig:"PORT" default:"8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	PGDSN      string `envconfig:"PG_DSN"`
	PGMaxConns int32  `envconfig:"PG_MAX_CONNS" default:"5"`

	JWTSecret string `envconfig:"JWT_SECRET"`

	Upstreams struct {
		UsersURL string        `envconfig:"USER_SERVICE_URL" default:"http://users-service:5000"`
		MenuURL  string        `envconfig:"MENU_SERVICE_URL" default:"http://menu-service:5002/graphql"`
		Timeout  time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"3s"`
	} `envconfig:""`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	Events struct {
		Backend     string        `envconfig:"EVENTS_BACKEND" default:"none"`
		DedupTTL    time.Duration `envconfig:"EVENT_DEDUP_TTL" default:"24h"`
		RedisKey    string        `envconfig:"EVENTS_REDIS_KEY" default:"recommendation_events"`
		RabbitQueue string        `envconfig:"EVENTS_RABBIT_QUEUE" default:"recommendation_events"`
		KafkaTopic  string        `envconfig:"EVENTS_KAFKA_TOPIC" default:"recommendations"`
	} `envconfig:""`

	RedisAddr    string   `envconfig:"REDIS_ADDR"`
	RabbitURL    string   `envconfig:"RABBITMQ_URL"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
}

// Location возвращает часовой пояс сервиса, по умолчанию UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TZ)
	if err != nil {
		return time.UTC
	}
	return loc
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
