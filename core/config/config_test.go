package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Init("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "inline", cfg.Notification.Driver)
	assert.Equal(t, 3, cfg.Notification.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Notification.BaseDelay)
	assert.Equal(t, 10*time.Second, cfg.Notification.AttemptTimeout)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.False(t, cfg.Storage.Enabled())

	got, ok := GetSafe()
	require.True(t, ok)
	assert.Same(t, cfg, got)
}

func TestInitEnvironmentOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("NOTIFICATION_MAX_ATTEMPTS", "5")

	cfg, err := Init("")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5, cfg.Notification.MaxAttempts)
}

func TestInitConfigFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\nmail:\n  provider: smtp\n"), 0o600))

	cfg, err := Init(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "smtp", cfg.Mail.Provider)
}

func TestInitCORSOrigins(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "")

	_, err := Init("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cors_allowed_origins")

	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "https://app.example.com,https://m.example.com")
	cfg, err := Init("")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://m.example.com"}, cfg.Server.CORSAllowedOrigins)
}

func TestInitRejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Init("")
	assert.Error(t, err)
}

func TestInitRejectsAsynqWithoutRedis(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("NOTIFICATION_DRIVER", "asynq")
	t.Setenv("REDIS_ENABLED", "false")

	_, err := Init("")
	assert.Error(t, err)
}
