package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the mock-interview service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	// LLM gateway settings. The API key and model are read once at process
	// start; the model defaults to a chat-capable one.
	LLMMode           string
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	LLMRequestTimeout time.Duration
	LLMMaxRetries     int

	// DATABASE_URL switches the transcript store to postgres; empty keeps
	// transcripts in process memory.
	DatabaseURL string
	// SessionIdleTimeout bounds in-memory transcript growth over long-lived
	// processes. Zero disables eviction.
	SessionIdleTimeout time.Duration

	DefaultRole      string
	DefaultSeniority string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:           envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:   envOrDefault("APP_METRICS_NAMESPACE", "interviewer"),
		LLMMode:            envOrDefault("LLM_MODE", "auto"),
		OpenAIAPIKey:       trimmedEnv("OPENAI_API_KEY"),
		OpenAIModel:        envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:      trimmedEnv("OPENAI_BASE_URL"),
		DatabaseURL:        trimmedEnv("DATABASE_URL"),
		DefaultRole:        envOrDefault("APP_DEFAULT_ROLE", "Data Scientist"),
		DefaultSeniority:   envOrDefault("APP_DEFAULT_SENIORITY", "mid"),
		ShutdownTimeout:    15 * time.Second,
		LLMRequestTimeout:  60 * time.Second,
		LLMMaxRetries:      2,
		SessionIdleTimeout: 30 * time.Minute,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.LLMRequestTimeout, err = durationFromEnv("LLM_REQUEST_TIMEOUT", cfg.LLMRequestTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionIdleTimeout, err = durationFromEnv("APP_SESSION_IDLE_TIMEOUT", cfg.SessionIdleTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.LLMMaxRetries, err = intFromEnv("LLM_MAX_RETRIES", cfg.LLMMaxRetries)
	if err != nil {
		return Config{}, err
	}

	switch strings.ToLower(cfg.LLMMode) {
	case "auto", "openai", "mock":
	default:
		return Config{}, fmt.Errorf("LLM_MODE must be one of auto|openai|mock, got %q", cfg.LLMMode)
	}
	if cfg.LLMRequestTimeout <= 0 {
		return Config{}, fmt.Errorf("LLM_REQUEST_TIMEOUT must be positive")
	}
	if cfg.LLMMaxRetries < 0 {
		return Config{}, fmt.Errorf("LLM_MAX_RETRIES must be >= 0")
	}
	if cfg.SessionIdleTimeout != 0 && cfg.SessionIdleTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_IDLE_TIMEOUT must be 0 or at least 5s")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}
