// Package config loads client configuration from a TOML file with
// environment variable overrides. Missing files fall back to defaults, so
// the client always starts.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the client configuration.
type Config struct {
	// BackendURL is the base URL of the local assistant server.
	BackendURL string `toml:"backend_url"`
	// Backend selects the backend implementation: "local" or "gemini".
	Backend string `toml:"backend"`
	// Model asks the local server to load the named model on startup.
	// Empty keeps whatever the server has loaded.
	Model string `toml:"model"`
	// HistoryPath is the chat history file.
	HistoryPath string `toml:"history_path"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// LogPath is the log file. Logs never go to the terminal, which the
	// TUI owns.
	LogPath string `toml:"log_path"`
	// GeminiAPIKey authenticates the gemini backend. Usually set via the
	// GEMINI_API_KEY environment variable instead.
	GeminiAPIKey string `toml:"gemini_api_key"`
}

// Default returns the built-in configuration.
func Default() Config {
	dir := configDir()
	return Config{
		BackendURL:  "http://localhost:8080",
		Backend:     "local",
		HistoryPath: filepath.Join(dir, "history.json"),
		LogLevel:    "info",
		LogPath:     filepath.Join(dir, "codechat.log"),
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.toml")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codechat"
	}
	return filepath.Join(home, ".codechat")
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. Environment variables override file values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file is fine.
	case err != nil:
		return Config{}, fmt.Errorf("config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.BackendURL, "CODECHAT_BACKEND_URL")
	setFromEnv(&cfg.Backend, "CODECHAT_BACKEND")
	setFromEnv(&cfg.Model, "CODECHAT_MODEL")
	setFromEnv(&cfg.HistoryPath, "CODECHAT_HISTORY")
	setFromEnv(&cfg.LogLevel, "CODECHAT_LOG_LEVEL")
	setFromEnv(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
