// Package daemon manages the ReCircle service lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all service configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	Metrics     bool     `toml:"metrics"`
}

// DatabaseConfig controls persistent storage.
type DatabaseConfig struct {
	Dir string `toml:"dir"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible zero-config default.
func DefaultConfig() Config {
	homeDir := recircleHome()
	return Config{
		Server: ServerConfig{
			Host:        "127.0.0.1",
			Port:        8420,
			CORSOrigins: []string{"*"},
			Metrics:     true,
		},
		Database: DatabaseConfig{
			Dir: filepath.Join(homeDir, "data"),
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "recircle.log"),
		},
	}
}

// LoadConfig reads config from $RECIRCLE_HOME/config.toml, falling back to
// defaults when no file exists.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(recircleHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to $RECIRCLE_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(recircleHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// recircleHome returns the ReCircle data directory.
func recircleHome() string {
	if env := os.Getenv("RECIRCLE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".recircle")
}

// Home is exported for use by other packages.
func Home() string {
	return recircleHome()
}
