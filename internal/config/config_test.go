package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, 8000, cfg.HTTP.Port)
	require.Equal(t, "polling", cfg.Telegram.Mode)
	require.Equal(t, 5*time.Second, cfg.Poller.Interval)
	require.Equal(t, 24*time.Hour, cfg.Auth.TTL)
	require.Contains(t, cfg.Database.DSN, "postgres://")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://user:pass@db:5432/upnepa?sslmode=disable")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:token")
	t.Setenv("TELEGRAM_BOT_MODE", "webhook")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("POLL_INTERVAL_SECONDS", "3")
	t.Setenv("HTTP_PORT", "9000")

	cfg := Load()

	require.Equal(t, "postgres://user:pass@db:5432/upnepa?sslmode=disable", cfg.Database.DSN)
	require.Equal(t, "123:token", cfg.Telegram.Token)
	require.Equal(t, "webhook", cfg.Telegram.Mode)
	require.Equal(t, "secret", cfg.Auth.Secret)
	require.Equal(t, 3*time.Second, cfg.Poller.Interval)
	require.Equal(t, 9000, cfg.HTTP.Port)
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("POLL_INTERVAL_SECONDS", "not-a-number")

	cfg := Load()
	require.Equal(t, 5*time.Second, cfg.Poller.Interval)
}
