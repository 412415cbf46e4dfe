package config

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Listen.Addr() != "127.0.0.1:8080" {
		t.Errorf("Listen.Addr() = %q, want %q", cfg.Listen.Addr(), "127.0.0.1:8080")
	}
	if cfg.Pool.NumWorkers != 4 {
		t.Errorf("Pool.NumWorkers = %d, want 4", cfg.Pool.NumWorkers)
	}
	if cfg.Redis.Enabled {
		t.Error("Redis should be disabled by default")
	}
	if cfg.Nats.Enabled {
		t.Error("NATS should be disabled by default")
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics should be enabled by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LISTEN_HOST", "0.0.0.0")
	t.Setenv("LISTEN_PORT", "9090")
	t.Setenv("POOL_NUM_WORKERS", "16")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("NATS_ENABLED", "1")
	t.Setenv("NATS_PORT", "14222")
	t.Setenv("METRICS_NAMESPACE", "custom_ns")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	if cfg.Listen.Addr() != "0.0.0.0:9090" {
		t.Errorf("Listen.Addr() = %q, want %q", cfg.Listen.Addr(), "0.0.0.0:9090")
	}
	if cfg.Pool.NumWorkers != 16 {
		t.Errorf("Pool.NumWorkers = %d, want 16", cfg.Pool.NumWorkers)
	}
	if !cfg.Redis.Enabled {
		t.Error("Redis.Enabled = false, want true")
	}
	if !cfg.Nats.Enabled {
		t.Error("Nats.Enabled = false, want true")
	}
	if cfg.Nats.URL() != "nats://localhost:14222" {
		t.Errorf("Nats.URL() = %q, want %q", cfg.Nats.URL(), "nats://localhost:14222")
	}
	if cfg.Metrics.Namespace != "custom_ns" {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, "custom_ns")
	}
}

func TestLoadFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("LISTEN_PORT", "not-a-number")
	t.Setenv("POOL_NUM_WORKERS", "also-not-a-number")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	if cfg.Listen.Port != 8080 {
		t.Errorf("Listen.Port = %d, want default 8080", cfg.Listen.Port)
	}
	if cfg.Pool.NumWorkers != 4 {
		t.Errorf("Pool.NumWorkers = %d, want default 4", cfg.Pool.NumWorkers)
	}
}
