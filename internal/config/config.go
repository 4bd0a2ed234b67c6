package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSymbols is the symbol list used when none is configured
var DefaultSymbols = []string{"AAPL", "MSFT", "UBER", "GOOG"}

// Config holds all configuration for the application
type Config struct {
	// Common
	Environment string
	LogLevel    string

	Quotes   QuotesConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Report   ReportConfig
	API      APIConfig
	Metrics  MetricsConfig
}

// QuotesConfig selects and tunes the quote source
type QuotesConfig struct {
	Provider       string // "yahoo", "timescale" or "mock"
	RequestTimeout time.Duration
	Table          string // table read by the timescale provider
}

// CacheConfig controls the Redis quote cache
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// DatabaseConfig holds TimescaleDB configuration
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ReportConfig holds report defaults
type ReportConfig struct {
	Symbols     []string
	SMAWindow   int
	Concurrency int
}

// APIConfig holds REST API configuration
type APIConfig struct {
	Port         int
	JWTSecret    string
	RateLimitRPS int
}

// MetricsConfig holds Prometheus Pushgateway configuration for the CLI
type MetricsConfig struct {
	PushgatewayURL string
	JobName        string
}

// Load loads configuration from environment variables
// It automatically loads .env file if it exists in the current directory
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "production"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Quotes: QuotesConfig{
			Provider:       getEnv("QUOTES_PROVIDER", "yahoo"),
			RequestTimeout: getEnvAsDuration("QUOTES_REQUEST_TIMEOUT", 30*time.Second),
			Table:          getEnv("QUOTES_TABLE", "bars_1d"),
		},
		Cache: CacheConfig{
			Enabled: getEnvAsBool("QUOTES_CACHE_ENABLED", false),
			TTL:     getEnvAsDuration("QUOTES_CACHE_TTL", 15*time.Minute),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "stock_signals"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 5),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Report: ReportConfig{
			Symbols:     getEnvAsStringSlice("REPORT_SYMBOLS", DefaultSymbols),
			SMAWindow:   getEnvAsInt("REPORT_SMA_WINDOW", 30),
			Concurrency: getEnvAsInt("REPORT_CONCURRENCY", 1),
		},
		API: APIConfig{
			Port:         getEnvAsInt("API_PORT", 8090),
			JWTSecret:    getEnv("API_JWT_SECRET", ""),
			RateLimitRPS: getEnvAsInt("API_RATE_LIMIT_RPS", 20),
		},
		Metrics: MetricsConfig{
			PushgatewayURL: getEnv("METRICS_PUSHGATEWAY_URL", ""),
			JobName:        getEnv("METRICS_JOB_NAME", "stock_signals"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Quotes.Provider {
	case "yahoo", "timescale", "mock":
	default:
		return fmt.Errorf("QUOTES_PROVIDER must be one of yahoo, timescale, mock; got %q", c.Quotes.Provider)
	}
	if c.Quotes.Provider == "timescale" && c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required for the timescale provider")
	}
	if c.Cache.Enabled && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required when QUOTES_CACHE_ENABLED is set")
	}
	if len(c.Report.Symbols) == 0 {
		return fmt.Errorf("REPORT_SYMBOLS must contain at least one symbol")
	}
	if c.Report.Concurrency < 1 {
		return fmt.Errorf("REPORT_CONCURRENCY must be at least 1, got %d", c.Report.Concurrency)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Split by comma and trim spaces
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
