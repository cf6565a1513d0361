package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("BROADCAST_USE_REDIS", "")
	t.Setenv("TICKET_STRICT_TRANSITIONS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Port != "8080" {
		t.Errorf("App.Port = %q, want 8080", cfg.App.Port)
	}
	if cfg.Broadcast.UseRedis {
		t.Error("Broadcast.UseRedis should default to false")
	}
	if cfg.Broadcast.SubscriberBuffer != 16 {
		t.Errorf("SubscriberBuffer = %d, want 16", cfg.Broadcast.SubscriberBuffer)
	}
	if cfg.Tickets.StrictTransitions {
		t.Error("StrictTransitions should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("BROADCAST_USE_REDIS", "true")
	t.Setenv("BROADCAST_CHANNEL", "tickets")
	t.Setenv("TICKET_STRICT_TRANSITIONS", "1")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.App.Addr(); got != "127.0.0.1:9090" {
		t.Errorf("Addr() = %q", got)
	}
	if !cfg.Broadcast.UseRedis || cfg.Broadcast.Channel != "tickets" {
		t.Errorf("broadcast config = %+v", cfg.Broadcast)
	}
	if !cfg.Tickets.StrictTransitions {
		t.Error("expected strict transitions")
	}
	if cfg.Postgres.MaxConns != 10 {
		t.Errorf("MaxConns = %d, want fallback 10", cfg.Postgres.MaxConns)
	}
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "x")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid REDIS_DB")
	}
}

func TestDurations(t *testing.T) {
	if got := (AppConfig{RequestTimeoutSeconds: 0}).RequestTimeout(); got != 0 {
		t.Errorf("RequestTimeout() = %v, want 0", got)
	}
	if got := (AppConfig{RequestTimeoutSeconds: 5}).RequestTimeout(); got != 5*time.Second {
		t.Errorf("RequestTimeout() = %v", got)
	}
	if got := (BroadcastConfig{}).KeepAlive(); got != 25*time.Second {
		t.Errorf("KeepAlive() = %v", got)
	}
}

func TestLoadRejectsUnsafeSettings(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"default secret in production", map[string]string{"APP_ENV": "production", "AUTH_JWT_SECRET": ""}},
		{"bcrypt cost too low", map[string]string{"AUTH_BCRYPT_COST": "2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
