package config

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/ptengelmann/ProfilanIQ/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	Limits    LimitConfig
	Engine    EngineConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	Environment string // "development" or "production"
}

// CacheConfig holds result cache settings
type CacheConfig struct {
	Dir     string
	TTL     time.Duration
	Enabled bool
}

// LimitConfig holds request back-pressure settings
type LimitConfig struct {
	MaxBodyBytes    int64
	RateLimitMax    int
	RateLimitWindow time.Duration
	RequestTimeout  time.Duration
}

// EngineConfig holds profiling engine defaults
type EngineConfig struct {
	MaxWorkers        int
	ChunkSize         int
	ParallelThreshold int // column count (pair count for correlations) above which the pool is used
	DefaultSampleSize int
	PoolTimeout       time.Duration
}

// ProfilingConfig holds pprof sidecar settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	env := getEnvOrDefault("APP_ENV", "development")

	rateLimitMax := 50
	if env == "development" {
		// Local iteration shouldn't trip the limiter.
		rateLimitMax = getEnvIntOrDefault("RATE_LIMIT_MAX", 1000)
	} else {
		rateLimitMax = getEnvIntOrDefault("RATE_LIMIT_MAX", 50)
	}

	maxWorkers := runtime.NumCPU() - 1
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", "5000"),
			Environment: env,
		},
		Cache: CacheConfig{
			Dir:     getEnvOrDefault("CACHE_DIR", ".cache/profiles"),
			TTL:     getEnvDurationOrDefault("CACHE_TTL", 24*time.Hour),
			Enabled: getEnvBoolOrDefault("CACHE_ENABLED", true),
		},
		Limits: LimitConfig{
			MaxBodyBytes:    int64(getEnvIntOrDefault("MAX_BODY_BYTES", 50*1024*1024)),
			RateLimitMax:    rateLimitMax,
			RateLimitWindow: getEnvDurationOrDefault("RATE_LIMIT_WINDOW", 15*time.Minute),
			RequestTimeout:  getEnvDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		},
		Engine: EngineConfig{
			MaxWorkers:        getEnvIntOrDefault("MAX_WORKERS", maxWorkers),
			ChunkSize:         getEnvIntOrDefault("CHUNK_SIZE", 4),
			ParallelThreshold: getEnvIntOrDefault("PARALLEL_THRESHOLD", 8),
			DefaultSampleSize: getEnvIntOrDefault("SAMPLE_SIZE", 5000),
			PoolTimeout:       getEnvDurationOrDefault("POOL_TIMEOUT", 30*time.Second),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Cache.TTL <= 0 {
		return errors.ConfigInvalid("cache TTL must be positive")
	}
	if config.Limits.MaxBodyBytes <= 0 {
		return errors.ConfigInvalid("max body bytes must be positive")
	}
	if config.Engine.MaxWorkers < 1 {
		return errors.ConfigInvalid("max workers must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
