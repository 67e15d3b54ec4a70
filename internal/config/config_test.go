package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("REDIS_ADDR", "")
	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("ttl = %v", cfg.Auth.TokenTTL)
	}
	if cfg.Redis.Enabled() || cfg.Kafka.Enabled() {
		t.Error("redis and kafka are disabled without addresses")
	}
	if cfg.Gemini.Timeout != 30*time.Second {
		t.Errorf("gemini timeout = %v", cfg.Gemini.Timeout)
	}
	want := "host=localhost port=5432 user=elite password=elite123 dbname=elite_talents sslmode=disable"
	if got := cfg.Database.ConnString(); got != want {
		t.Errorf("ConnString() = %q", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_TTL", "3600")
	t.Setenv("GEMINI_TIMEOUT", "5s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, ,k2:9092")
	t.Setenv("MIGRATIONS", "TRUE")
	t.Setenv("DATABASE_DSN", "postgres://u:p@db:5432/x?sslmode=disable")
	t.Setenv("APP_URL", "https://api.example.com/")
	cfg := Load()

	if cfg.Server.Port != "9000" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("ttl = %v", cfg.Auth.TokenTTL)
	}
	if cfg.Gemini.Timeout != 5*time.Second {
		t.Errorf("gemini timeout = %v", cfg.Gemini.Timeout)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
	if !cfg.App.Migrations {
		t.Error("migrations should be enabled")
	}
	if cfg.Database.URL() != "postgres://u:p@db:5432/x?sslmode=disable" {
		t.Errorf("URL() = %q", cfg.Database.URL())
	}
	if cfg.App.BaseURL != "https://api.example.com" {
		t.Errorf("base url = %q", cfg.App.BaseURL)
	}
}

func TestGetEnvInvalidFallsBack(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "abc")
	t.Setenv("AUTH_CACHE_TTL", "soon")
	cfg := Load()
	if cfg.Server.ReadTimeout != 15 {
		t.Errorf("read timeout = %d", cfg.Server.ReadTimeout)
	}
	if cfg.Auth.PrincipalTTL != 30*time.Second {
		t.Errorf("principal ttl = %v", cfg.Auth.PrincipalTTL)
	}
}
