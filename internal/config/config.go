package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server"`

	// Database configuration (defaults store; optional)
	Database DatabaseConfig `json:"database"`

	// Cache configuration (result cache; optional)
	Cache CacheConfig `json:"cache"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// Metrics configuration
	Metrics MetricsConfig `json:"metrics"`

	// Engine configuration
	Engine EngineConfig `json:"engine"`

	// Forecast dataset configuration
	Forecast ForecastConfig `json:"forecast"`

	// Health check configuration
	Health HealthConfig `json:"health"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         string        `json:"port"`
	Host         string        `json:"host"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Environment  string        `json:"environment"`
	EnableCORS   bool          `json:"enable_cors"`
}

// DatabaseConfig contains the defaults-store connection settings.
// An empty connection string selects the in-memory defaults repository.
type DatabaseConfig struct {
	ConnectionString string        `json:"connection_string"`
	ConnectTimeout   time.Duration `json:"connect_timeout"`
}

// CacheConfig contains the Redis result-cache settings. An empty address
// disables caching.
type CacheConfig struct {
	Address  string        `json:"address"`
	Password string        `json:"-"`
	DB       int           `json:"db"`
	TTL      time.Duration `json:"ttl"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // json or text
}

// MetricsConfig contains metrics exposure settings
type MetricsConfig struct {
	Enabled bool `json:"enabled"`
}

// EngineConfig contains Monte Carlo engine settings
type EngineConfig struct {
	WorkerCount        int `json:"worker_count"`
	DefaultSimulations int `json:"default_simulations"`
}

// ForecastConfig contains the market-forecast dataset settings.
// An empty path selects the embedded tables.
type ForecastConfig struct {
	DataPath string `json:"data_path"`
}

// HealthConfig contains health check settings
type HealthConfig struct {
	Enabled       bool          `json:"enabled"`
	CheckInterval time.Duration `json:"check_interval"`
	Timeout       time.Duration `json:"timeout"`
}

// LoadConfig loads configuration from environment variables with defaults
func LoadConfig() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("SERVER_PORT", "8080"),
			Host:         getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:  getDurationOrDefault("SERVER_IDLE_TIMEOUT", 120*time.Second),
			Environment:  getEnvOrDefault("ENVIRONMENT", "development"),
			EnableCORS:   getBoolOrDefault("ENABLE_CORS", true),
		},
		Database: DatabaseConfig{
			ConnectionString: getEnvOrDefault("DATABASE_URL", ""),
			ConnectTimeout:   getDurationOrDefault("DATABASE_CONNECT_TIMEOUT", 5*time.Second),
		},
		Cache: CacheConfig{
			Address:  getEnvOrDefault("REDIS_ADDR", ""),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
			TTL:      getDurationOrDefault("CACHE_TTL", 15*time.Minute),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolOrDefault("METRICS_ENABLED", true),
		},
		Engine: EngineConfig{
			WorkerCount:        getIntOrDefault("ENGINE_WORKER_COUNT", 0),
			DefaultSimulations: getIntOrDefault("ENGINE_DEFAULT_SIMULATIONS", 10000),
		},
		Forecast: ForecastConfig{
			DataPath: getEnvOrDefault("FORECAST_DATA_PATH", ""),
		},
		Health: HealthConfig{
			Enabled:       getBoolOrDefault("HEALTH_ENABLED", true),
			CheckInterval: getDurationOrDefault("HEALTH_CHECK_INTERVAL", 30*time.Second),
			Timeout:       getDurationOrDefault("HEALTH_CHECK_TIMEOUT", 5*time.Second),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port must not be empty")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server port must be numeric: %w", err)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	if c.Engine.WorkerCount < 0 {
		return fmt.Errorf("engine worker count must not be negative")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
