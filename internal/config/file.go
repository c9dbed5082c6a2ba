package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
type FileConfig struct {
	ServerAddr       string   `toml:"server_addr"`
	AnthropicBaseURL string   `toml:"anthropic_base_url"`
	UpstreamTimeout  string   `toml:"upstream_timeout"`
	Model            string   `toml:"model"`
	MaxTokens        int      `toml:"max_tokens"`
	Temperature      *float64 `toml:"temperature"`
	SystemPrompt     string   `toml:"system_prompt"`
	LogLevel         string   `toml:"log_level"`
	LogFormat        string   `toml:"log_format"`
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	cfg := &FileConfig{}

	path := ConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

const defaultConfig = `# genrelay configuration
# Environment variables take precedence over these values.
# The Anthropic API key is read from ANTHROPIC_API_KEY only.

# server_addr = "127.0.0.1:8080"
# anthropic_base_url = "https://api.anthropic.com"
# upstream_timeout = "120s"

# Replace the built-in generation defaults
# model = "claude-3-haiku-20240307"
# max_tokens = 4096
# temperature = 1.0
# system_prompt = "You are an HTML App Generator."

# log_level = "info"   # debug, info, warn, error
# log_format = "text"  # text, json
`

// EnsureConfigFile creates a default config file with commented examples if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	// If config already exists, do nothing
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// Ensure directory exists
	if err := EnsureDataDir(); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
