package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Store   StoreConfig   `yaml:"store"`
	Events  EventsConfig  `yaml:"events"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type CatalogConfig struct {
	// Source is a file path or an http(s) URL to the catalog JSON.
	Source string `yaml:"source"`
}

type StoreConfig struct {
	// Backend is one of "sqlite", "postgres", "memory".
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"` // sqlite file
	URL     string `yaml:"url"`  // postgres DSN
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8610,
			MetricsPort: 8611,
		},
		Catalog: CatalogConfig{
			Source: "catalog.json",
		},
		Store: StoreConfig{
			Backend: "sqlite",
			Path:    "reckon.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	switch cfg.Store.Backend {
	case "sqlite", "postgres", "memory":
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RECKON_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("RECKON_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("RECKON_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("RECKON_CATALOG"); v != "" {
		cfg.Catalog.Source = v
	}
	if v := os.Getenv("RECKON_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("RECKON_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("RECKON_DATABASE_URL"); v != "" {
		cfg.Store.URL = v
	}
	if v := os.Getenv("RECKON_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("RECKON_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
