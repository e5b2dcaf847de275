package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 8090

[database]
host = "db"
user = "booking"
password = "secret"
dbname = "desk_booking"

[logs]
level = "debug"

[booking]
timezone = "UTC"

[sweeper]
interval = "5m"
lock_enabled = true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ReadTimeout, "default kept")
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Equal(t, 5*time.Minute, cfg.Sweeper.Interval.Duration)
	assert.True(t, cfg.Sweeper.Enabled)
	assert.Equal(t, "desk-booking:sweeper", cfg.Sweeper.LockKey)
	assert.Equal(t, time.UTC, cfg.Booking.Location())
	assert.Equal(t,
		"host=db port=5432 user=booking password=secret dbname=desk_booking sslmode=disable",
		cfg.Database.DSN(),
	)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "postgres.internal")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("SWEEP_INTERVAL", "90s")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "postgres.internal", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, 90*time.Second, cfg.Sweeper.Interval.Duration)
	assert.Equal(t, "warn", cfg.Logs.Level)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")

	_, err := Load(writeConfig(t, sampleConfig))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }},
		{"no db host", func(c *Config) { c.Database.Host = "" }},
		{"zero interval", func(c *Config) { c.Sweeper.Interval = Duration{} }},
		{"lock without redis", func(c *Config) { c.Sweeper.LockEnabled = true; c.Redis.Addr = "" }},
		{"unknown timezone", func(c *Config) { c.Booking.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			cfg.Database.Host = "db"
			cfg.Database.DBName = "desk_booking"
			tt.mutate(cfg)

			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
