package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/agriops/farmledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.PrimaryCurrency != "PKR" || cfg.SecondaryCurrency != "USD" {
		t.Fatalf("expected default currency pair PKR/USD, got %s/%s", cfg.PrimaryCurrency, cfg.SecondaryCurrency)
	}

	if cfg.DefaultExchangeRate == "" {
		t.Fatalf("expected a default exchange rate")
	}

	if cfg.BalanceCacheTTL != 5*time.Minute {
		t.Fatalf("expected default balance cache TTL 5m, got %s", cfg.BalanceCacheTTL)
	}

	if cfg.OutboxBatchSize != 100 {
		t.Fatalf("expected default outbox batch size 100, got %d", cfg.OutboxBatchSize)
	}

	if cfg.RateLimitRPS != 50 || cfg.RateLimitBurst != 100 {
		t.Fatalf("expected default rate limit 50/100, got %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("DEFAULT_EXCHANGE_RATE", "285.25")
	t.Setenv("OUTBOX_PUBLISH_INTERVAL", "250ms")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.DefaultExchangeRate != "285.25" {
		t.Fatalf("expected exchange rate override, got %s", cfg.DefaultExchangeRate)
	}

	if cfg.OutboxPublishInterval != 250*time.Millisecond {
		t.Fatalf("expected publish interval override, got %s", cfg.OutboxPublishInterval)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
