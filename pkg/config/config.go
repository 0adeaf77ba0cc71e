package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/japicc/pkg/observability"
)

// Config holds all runtime configuration for the japicc CLI and its report
// service.
type Config struct {
	Server        ServerConfig
	Store         StoreConfig
	Cache         CacheConfig
	Remote        RemoteConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP report-server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// HealthPort serves /health, /health/live, /health/ready and /metrics on
	// a separate port, the way
	// k8s liveness/readiness probes expect.
	HealthPort string
}

// StoreConfig holds dump-history storage configuration.
type StoreConfig struct {
	// SQLitePath is the file the dump history database is opened from.
	SQLitePath string
}

// CacheConfig holds Redis-backed check-result cache configuration.
type CacheConfig struct {
	Enabled     bool
	RedisURL    string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	EntryTTL    time.Duration
}

// RemoteConfig holds settings for fetching archives from S3 instead of the
// local filesystem.
type RemoteConfig struct {
	Endpoint       string
	Region         string
	Bucket         string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

// ObservabilityConfig holds logging, metrics and tracing settings.
type ObservabilityConfig struct {
	LogLevel observability.LogLevel

	MetricsEnabled bool

	OTelEnabled        bool
	OTelServiceName    string
	OTelServiceVersion string
}

// Load reads configuration from environment variables, applying defaults
// for anything unset, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Store:         loadStoreConfig(),
		Cache:         loadCacheConfig(),
		Remote:        loadRemoteConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("JAPICC_HOST", "0.0.0.0"),
		Port:            getEnv("JAPICC_PORT", "8080"),
		ReadTimeout:     getEnvDuration("JAPICC_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("JAPICC_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("JAPICC_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("JAPICC_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("JAPICC_HEALTH_PORT", "9090"),
	}
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		SQLitePath: getEnv("JAPICC_DUMP_STORE_PATH", "japicc-history.db"),
	}
}

func loadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:    getEnvBool("JAPICC_CACHE_ENABLED", false),
		RedisURL:   getEnv("JAPICC_REDIS_URL", "redis://localhost:6379/0"),
		Password:   getEnv("JAPICC_REDIS_PASSWORD", ""),
		DB:         getEnvInt("JAPICC_REDIS_DB", -1),
		MaxRetries: getEnvInt("JAPICC_REDIS_MAX_RETRIES", 0),
		PoolSize:   getEnvInt("JAPICC_REDIS_POOL_SIZE", 0),
		EntryTTL:   getEnvDuration("JAPICC_CACHE_TTL", time.Hour),
	}
}

func loadRemoteConfig() RemoteConfig {
	return RemoteConfig{
		Endpoint:       getEnv("JAPICC_S3_ENDPOINT", ""),
		Region:         getEnv("JAPICC_S3_REGION", "us-east-1"),
		Bucket:         getEnv("JAPICC_S3_BUCKET", ""),
		AccessKey:      getEnv("JAPICC_S3_ACCESS_KEY", ""),
		SecretKey:      getEnv("JAPICC_S3_SECRET_KEY", ""),
		ForcePathStyle: getEnvBool("JAPICC_S3_FORCE_PATH_STYLE", false),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           parseLogLevel(getEnv("JAPICC_LOG_LEVEL", "info")),
		MetricsEnabled:     getEnvBool("JAPICC_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("JAPICC_OTEL_ENABLED", false),
		OTelServiceName:    getEnv("JAPICC_OTEL_SERVICE_NAME", "japicc"),
		OTelServiceVersion: getEnv("JAPICC_OTEL_SERVICE_VERSION", "dev"),
	}
}

// Validate checks for configuration combinations that would fail later at a
// less helpful point (a broken HTTP listener, a doomed S3 client).
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Cache.Enabled && c.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when the cache is enabled")
	}

	if c.Remote.Bucket != "" && c.Remote.Region == "" {
		return fmt.Errorf("S3 region is required when a bucket is configured")
	}

	if c.Observability.OTelEnabled && c.Observability.OTelServiceName == "" {
		return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
	}

	return nil
}

func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
