package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PRICE_COMPARATOR_SNAPSHOTS_DIR.
const EnvPrefix = "PRICE_COMPARATOR"

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Snapshots SnapshotsConfig `mapstructure:"snapshots"`
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SnapshotsConfig locates the snapshot CSV files
type SnapshotsConfig struct {
	Dir             string `mapstructure:"dir"`
	CacheEnabled    bool   `mapstructure:"cache_enabled"`
	LoadConcurrency int    `mapstructure:"load_concurrency"`
}

// OptimizerConfig holds basket optimizer limits
type OptimizerConfig struct {
	MaxBasketItems int `mapstructure:"max_basket_items"`
}

// AlertsConfig selects where price alerts are kept
type AlertsConfig struct {
	Backend         string        `mapstructure:"backend"` // memory, sqlite or postgres
	SQLitePath      string        `mapstructure:"sqlite_path"`
	DatabaseURL     string        `mapstructure:"database_url"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// TelemetryConfig holds OpenTelemetry export configuration
type TelemetryConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Endpoint       string        `mapstructure:"endpoint"`
	ServiceName    string        `mapstructure:"service_name"`
	Environment    string        `mapstructure:"environment"`
	ExportInterval time.Duration `mapstructure:"export_interval"`
}

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// .env is optional
	if path, err := loadEnvFile(".", "./config"); err != nil {
		log.Debug().Err(err).Msg(".env file not loaded")
	} else {
		log.Debug().Str("path", path).Msg("Loaded .env file")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFile loads the first .env found in dirs. Variables already set win.
func loadEnvFile(dirs ...string) (string, error) {
	for _, dir := range dirs {
		envFile := filepath.Join(dir, ".env")
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return "", fmt.Errorf("failed to load %s: %w", envFile, err)
		}
		return envFile, nil
	}
	return "", errors.New("no .env file found")
}

// bindEnvVars binds the conventional unprefixed variables
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.host", EnvPrefix+"_SERVER_HOST", "HOST")
	_ = v.BindEnv("logging.level", EnvPrefix+"_LOGGING_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("snapshots.dir", EnvPrefix+"_SNAPSHOTS_DIR", "SNAPSHOTS_DIR")
	_ = v.BindEnv("alerts.database_url", EnvPrefix+"_ALERTS_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("telemetry.endpoint", EnvPrefix+"_TELEMETRY_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	// Snapshot defaults
	v.SetDefault("snapshots.dir", "./data")
	v.SetDefault("snapshots.cache_enabled", true)
	v.SetDefault("snapshots.load_concurrency", 4)

	v.SetDefault("optimizer.max_basket_items", 100)

	// Alert store defaults
	v.SetDefault("alerts.backend", "memory")
	v.SetDefault("alerts.sqlite_path", "./data/state/alerts.db")
	v.SetDefault("alerts.max_connections", 10)
	v.SetDefault("alerts.min_connections", 1)
	v.SetDefault("alerts.max_conn_lifetime", 1*time.Hour)
	v.SetDefault("alerts.max_conn_idle_time", 30*time.Minute)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.idle_timeout", 5*time.Minute)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "price-comparator")
	v.SetDefault("telemetry.environment", "development")
	v.SetDefault("telemetry.export_interval", 30*time.Second)
}

// Validate rejects values the service cannot start with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port must be in 1..65535, got %d", ErrInvalidConfig, c.Server.Port)
	}
	if strings.TrimSpace(c.Snapshots.Dir) == "" {
		return fmt.Errorf("%w: snapshots.dir is required", ErrInvalidConfig)
	}
	if c.Snapshots.LoadConcurrency <= 0 {
		return fmt.Errorf("%w: snapshots.load_concurrency must be positive", ErrInvalidConfig)
	}
	if c.Optimizer.MaxBasketItems <= 0 {
		return fmt.Errorf("%w: optimizer.max_basket_items must be positive", ErrInvalidConfig)
	}

	switch c.Alerts.Backend {
	case "memory":
	case "sqlite":
		if c.Alerts.SQLitePath == "" {
			return fmt.Errorf("%w: alerts.sqlite_path is required for the sqlite backend", ErrInvalidConfig)
		}
	case "postgres":
		if c.Alerts.DatabaseURL == "" {
			return fmt.Errorf("%w: alerts.database_url is required for the postgres backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown alerts.backend %q", ErrInvalidConfig, c.Alerts.Backend)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit.requests_per_second and rate_limit.burst must be positive", ErrInvalidConfig)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("%w: logging.format must be json or console", ErrInvalidConfig)
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return fmt.Errorf("%w: telemetry.endpoint is required when telemetry is enabled", ErrInvalidConfig)
	}
	return nil
}

// Addr returns the host:port the HTTP server listens on
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
