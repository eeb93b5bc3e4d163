// Package config loads the application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Favorites FavoritesConfig `yaml:"favorites"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr           string  `yaml:"addr"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

// DatasetConfig holds the source dataset location
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// FavoritesConfig holds the client-local favorites store location
type FavoritesConfig struct {
	DBPath string `yaml:"db_path"`
}

// Load reads the config file, applies defaults for missing values and then
// environment overrides. A missing file is not an error; defaults plus the
// environment apply.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			RateLimitRPS:   25,
			RateLimitBurst: 50,
		},
		Dataset:   DatasetConfig{Path: "movies.csv"},
		Favorites: FavoritesConfig{DBPath: "favorites.db"},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if addr := os.Getenv("CATALOG_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if path := os.Getenv("CATALOG_DATASET"); path != "" {
		cfg.Dataset.Path = path
	}
	if path := os.Getenv("CATALOG_FAVORITES_DB"); path != "" {
		cfg.Favorites.DBPath = path
	}

	if cfg.Server.Addr == "" {
		return nil, fmt.Errorf("server address is required")
	}
	if cfg.Dataset.Path == "" {
		return nil, fmt.Errorf("dataset path is required")
	}
	if cfg.Server.RateLimitRPS <= 0 || cfg.Server.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("rate limit settings must be positive")
	}

	return cfg, nil
}
