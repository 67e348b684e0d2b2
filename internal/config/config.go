package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Environment string
	// LLM Configuration
	OllamaBaseURL       string
	DefaultModel        string
	RequestTimeout      time.Duration
	MaxTransportRetries int
	// Generation limits
	Concurrency    int
	MaxRepairs     int
	SampleMaxBytes int
	// Output
	OutputRoot string
	// Logging: empty LogDir keeps logs on stderr only
	LogDir      string
	MaxLogFiles int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Environment: env,
		// LLM Configuration
		OllamaBaseURL:       getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		DefaultModel:        getEnv("DEFAULT_MODEL", "llama3.2"),
		RequestTimeout:      getDuration("REQUEST_TIMEOUT", 120*time.Second),
		MaxTransportRetries: getInt("MAX_TRANSPORT_RETRIES", 3),
		// Generation limits
		Concurrency:    getInt("CONCURRENCY", 4),
		MaxRepairs:     getInt("MAX_REPAIRS", 2),
		SampleMaxBytes: getInt("SAMPLE_MAX_BYTES", SampleMaxBytes),
		// Output
		OutputRoot: getEnv("OUTPUT_ROOT", "output"),
		// Logging
		LogDir:      getEnv("LOG_DIR", ""),
		MaxLogFiles: getInt("MAX_LOG_FILES", 5),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
