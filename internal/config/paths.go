package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPathEnv overrides the config file location.
const ConfigPathEnv = "RELAY_CONFIG"

// DataDir returns the path to the genrelay data directory.
// - Windows: %APPDATA%\genrelay
// - Other OS: ~/.genrelay
func DataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "genrelay")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".genrelay"
	}
	return filepath.Join(home, ".genrelay")
}

// ConfigPath returns the path to the config file ($RELAY_CONFIG or ~/.genrelay/config.toml).
func ConfigPath() string {
	if path := os.Getenv(ConfigPathEnv); path != "" {
		return path
	}
	return filepath.Join(DataDir(), "config.toml")
}

// EnsureDataDir creates the directory holding the config file if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(filepath.Dir(ConfigPath()), 0700)
}
