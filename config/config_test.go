package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "./data", cfg.Snapshots.Dir)
	assert.True(t, cfg.Snapshots.CacheEnabled)
	assert.Equal(t, 4, cfg.Snapshots.LoadConcurrency)
	assert.Equal(t, 100, cfg.Optimizer.MaxBasketItems)
	assert.Equal(t, "memory", cfg.Alerts.Backend)
	assert.Equal(t, 5*time.Minute, cfg.RateLimit.IdleTimeout)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
snapshots:
  dir: /srv/snapshots
alerts:
  backend: sqlite
  sqlite_path: /srv/state/alerts.db
logging:
  format: console
`), 0o644))

	t.Setenv("PRICE_COMPARATOR_OPTIMIZER_MAX_BASKET_ITEMS", "7")
	t.Setenv("SNAPSHOTS_DIR", "/override")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/override", cfg.Snapshots.Dir)
	assert.Equal(t, "sqlite", cfg.Alerts.Backend)
	assert.Equal(t, "/srv/state/alerts.db", cfg.Alerts.SQLitePath)
	assert.Equal(t, 7, cfg.Optimizer.MaxBasketItems)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PRICE_COMPARATOR_SERVER_PORT=9100\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("PRICE_COMPARATOR_SERVER_PORT") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 8080},
			Snapshots: SnapshotsConfig{Dir: "./data", LoadConcurrency: 4},
			Optimizer: OptimizerConfig{MaxBasketItems: 100},
			Alerts:    AlertsConfig{Backend: "memory"},
			RateLimit: RateLimitConfig{Enabled: true, RequestsPerSecond: 10, Burst: 20},
			Logging:   LoggingConfig{Format: "json"},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"empty snapshot dir", func(c *Config) { c.Snapshots.Dir = " " }},
		{"zero concurrency", func(c *Config) { c.Snapshots.LoadConcurrency = 0 }},
		{"zero basket limit", func(c *Config) { c.Optimizer.MaxBasketItems = 0 }},
		{"unknown backend", func(c *Config) { c.Alerts.Backend = "redis" }},
		{"sqlite without path", func(c *Config) { c.Alerts.Backend = "sqlite" }},
		{"postgres without url", func(c *Config) { c.Alerts.Backend = "postgres" }},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"telemetry without endpoint", func(c *Config) { c.Telemetry.Enabled = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}
