// Package config handles the onion configuration file and credential lookup.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hardy/onion/internal/models"
)

// Config represents the user configuration
type Config struct {
	// ServerURL is where the completion client finds the proxy endpoint.
	ServerURL string `json:"server_url"`
	// ListenAddr is the address `onion serve` binds to. The PORT
	// environment variable and the --listen flag take precedence.
	ListenAddr string `json:"listen_addr"`
	// DefaultModel is the upstream model identifier used by the proxy.
	DefaultModel string `json:"default_model"`
	// CopyToClipboard copies one-shot query responses to the clipboard.
	CopyToClipboard bool `json:"copy_to_clipboard"`
	// HistoryLimit caps the number of retained history entries; the
	// oldest entries are evicted beyond it.
	HistoryLimit int `json:"history_limit"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		ServerURL:       models.DefaultServerURL,
		ListenAddr:      models.DefaultListenAddr,
		DefaultModel:    models.ModelGemini25Flash,
		CopyToClipboard: false,
		HistoryLimit:    200,
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".onion"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the configuration from an explicit path
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultConfig().HistoryLimit
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// APIKey returns the upstream credential from the environment. The key is
// never written to the config file and never leaves the server process.
func APIKey() string {
	return os.Getenv(models.EnvAPIKey)
}

// ResolveListenAddr picks the proxy listen address: flag, then PORT env,
// then config.
func ResolveListenAddr(flagAddr string, cfg Config) string {
	if flagAddr != "" {
		return flagAddr
	}
	if port := os.Getenv(models.EnvPort); port != "" {
		return ":" + port
	}
	if cfg.ListenAddr != "" {
		return cfg.ListenAddr
	}
	return models.DefaultListenAddr
}
