package config

import (
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("ожидали порт 8080, получили %d", cfg.Port)
	}
	if cfg.Upstreams.Timeout != 3*time.Second {
		t.Fatalf("ожидали таймаут 3s, получили %s", cfg.Upstreams.Timeout)
	}
	if cfg.Events.Backend != "none" {
		t.Fatalf("ожидали backend none, получили %s", cfg.Events.Backend)
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("секрет не прочитан")
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("UPSTREAM_TIMEOUT", "500ms")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("EVENTS_BACKEND", "kafka")
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if cfg.Upstreams.Timeout != 500*time.Millisecond {
		t.Fatalf("ожидали 500ms, получили %s", cfg.Upstreams.Timeout)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("неверный список брокеров: %v", cfg.KafkaBrokers)
	}
}

func TestLocationFallback(t *testing.T) {
	cfg := AppConfig{TZ: "Nowhere/Invalid"}
	if cfg.Location() != time.UTC {
		t.Fatalf("ожидали UTC для неизвестной зоны")
	}
}
