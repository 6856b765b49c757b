package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/test")
	t.Setenv("JWT_SECRET", "secret")
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 10, cfg.DBMaxConns)
	assert.Equal(t, "Asia/Karachi", cfg.Location.String())
	assert.True(t, cfg.BookingSerializable)
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, "configs/settings.toml", cfg.SettingsSeedFile)
	assert.Equal(t, "./uploads", cfg.StoragePath)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 5*time.Minute, cfg.SettingsCacheTTL)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "/metrics", cfg.MetricsPath)
	assert.False(t, cfg.IsProduction)
}

func TestFromEnv_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("BOOKING_SERIALIZABLE", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SETTINGS_CACHE_TTL", "30s")
	t.Setenv("METRICS_ENABLED", "0")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.False(t, cfg.BookingSerializable)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 30*time.Second, cfg.SettingsCacheTTL)
	assert.False(t, cfg.MetricsEnabled)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing dsn", env: map[string]string{"DB_DSN": "", "JWT_SECRET": "s"}},
		{name: "missing secret", env: map[string]string{"DB_DSN": "d", "JWT_SECRET": ""}},
		{name: "bad timezone", env: map[string]string{"TIMEZONE": "Mars/Olympus"}},
		{name: "bad ttl", env: map[string]string{"JWT_ACCESS_TOKEN_TTL": "soon"}},
		{name: "bad bool", env: map[string]string{"BOOKING_SERIALIZABLE": "maybe"}},
		{name: "bad int", env: map[string]string{"BCRYPT_COST": "high"}},
		{name: "bad metrics path", env: map[string]string{"METRICS_PATH": "metrics"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
