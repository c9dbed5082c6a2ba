package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mandalnilabja/genrelay/internal/relay"
)

// Config holds application configuration loaded from environment and file.
// Priority: Env vars → config.toml → defaults
type Config struct {
	// ServerAddr is the address to bind the server to (e.g., "127.0.0.1:8080")
	ServerAddr string

	// APIKey authenticates against the Anthropic API. Environment only.
	APIKey string

	// AnthropicBaseURL overrides the provider base URL (gateways, tests)
	AnthropicBaseURL string

	// UpstreamTimeout bounds one provider call; zero means no timeout
	UpstreamTimeout time.Duration

	// Profile overrides; zero values keep the built-in profile defaults
	DefaultModel       string
	DefaultMaxTokens   int
	DefaultTemperature *float64
	SystemPrompt       string

	LogLevel  string
	LogFormat string
}

// Defaults
const (
	DefaultServerAddr = "127.0.0.1:8080"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

// Load reads configuration from file and environment variables.
// Environment variables override file config values.
func Load() (*Config, error) {
	fileConfig, err := LoadFile()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ConfigPath(), err)
	}
	return build(fileConfig)
}

// FromEnv reads configuration from environment variables only. Used by hosts
// without a writable home directory.
func FromEnv() (*Config, error) {
	return build(&FileConfig{})
}

func build(fc *FileConfig) (*Config, error) {
	cfg := &Config{
		ServerAddr:       getEnvOrFile("SERVER_ADDR", fc.ServerAddr, DefaultServerAddr),
		APIKey:           os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicBaseURL: getEnvOrFile("ANTHROPIC_BASE_URL", fc.AnthropicBaseURL, ""),
		DefaultModel:     getEnvOrFile("RELAY_MODEL", fc.Model, ""),
		SystemPrompt:     getEnvOrFile("RELAY_SYSTEM_PROMPT", fc.SystemPrompt, ""),
		LogLevel:         getEnvOrFile("LOG_LEVEL", fc.LogLevel, DefaultLogLevel),
		LogFormat:        getEnvOrFile("LOG_FORMAT", fc.LogFormat, DefaultLogFormat),
	}

	var err error
	if cfg.UpstreamTimeout, err = getEnvDurationOrFile("UPSTREAM_TIMEOUT", fc.UpstreamTimeout); err != nil {
		return nil, err
	}
	if cfg.DefaultMaxTokens, err = getEnvIntOrFile("RELAY_MAX_TOKENS", fc.MaxTokens); err != nil {
		return nil, err
	}
	if cfg.DefaultMaxTokens < 0 {
		return nil, fmt.Errorf("max_tokens must not be negative, got %d", cfg.DefaultMaxTokens)
	}
	if cfg.DefaultTemperature, err = getEnvFloatOrFile("RELAY_TEMPERATURE", fc.Temperature); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ProfileOverrides returns the configured replacements for profile defaults.
func (c *Config) ProfileOverrides() relay.Overrides {
	return relay.Overrides{
		Model:       c.DefaultModel,
		MaxTokens:   c.DefaultMaxTokens,
		Temperature: c.DefaultTemperature,
		System:      c.SystemPrompt,
	}
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

func getEnvIntOrFile(key string, fileValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fileValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloatOrFile(key string, fileValue *float64) (*float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fileValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &f, nil
}

func getEnvDurationOrFile(key, fileValue string) (time.Duration, error) {
	value := getEnvOrFile(key, fileValue, "")
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: negative duration %s", key, d)
	}
	return d, nil
}
