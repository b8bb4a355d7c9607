// FilmTrack - Mood Profiling and Recommendation Engine
// Copyright 2026 FilmTrack contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub000

// Package config loads application configuration with Koanf v2 from three
// layered sources, later layers overriding earlier ones:
//
//  1. Defaults: built-in values for every setting
//  2. Config file: optional YAML file (config.yaml, or FILMTRACK_CONFIG_PATH)
//  3. Environment variables: FILMTRACK_SECTION_KEY, e.g. FILMTRACK_SERVER_PORT
//
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/filmtrack/config.yaml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "FILMTRACK_CONFIG_PATH"

// envPrefix namespaces all FilmTrack environment variables.
const envPrefix = "FILMTRACK_"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Store   StoreConfig   `koanf:"store"`
	LLM     LLMConfig     `koanf:"llm"`
	Catalog CatalogConfig `koanf:"catalog"`
	Engine  EngineConfig  `koanf:"engine"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// StoreConfig holds Badger store settings.
type StoreConfig struct {
	// Path is the on-disk database directory. Ignored when InMemory is set.
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`

	// GCInterval spaces value-log garbage collection runs.
	GCInterval time.Duration `koanf:"gc_interval"`

	// SweepInterval spaces expired recommendation cache sweeps.
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// LLMConfig holds completion service settings.
type LLMConfig struct {
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	Model             string        `koanf:"model"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerMinute int           `koanf:"requests_per_minute"`
}

// CatalogConfig holds title catalog API settings.
type CatalogConfig struct {
	BaseURL           string        `koanf:"base_url"`
	APIKey            string        `koanf:"api_key"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond int           `koanf:"requests_per_second"`
}

// EngineConfig holds recommendation engine knobs.
type EngineConfig struct {
	// DefaultLimit is the recommendation count when the request omits one.
	DefaultLimit int `koanf:"default_limit"`

	// MaxLimit caps the per-request recommendation count.
	MaxLimit int `koanf:"max_limit"`

	// ResolveWorkers bounds concurrent candidate resolutions.
	ResolveWorkers int `koanf:"resolve_workers"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns the built-in defaults applied before file and env
// layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Store: StoreConfig{
			Path:          "/data/filmtrack",
			InMemory:      false,
			GCInterval:    10 * time.Minute,
			SweepInterval: time.Hour,
		},
		LLM: LLMConfig{
			BaseURL:           "https://api.openai.com/v1",
			APIKey:            "",
			Model:             "gpt-4o-mini",
			Timeout:           60 * time.Second,
			RequestsPerMinute: 60,
		},
		Catalog: CatalogConfig{
			BaseURL:           "https://api.themoviedb.org/3",
			APIKey:            "",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 10,
		},
		Engine: EngineConfig{
			DefaultLimit:   10,
			MaxLimit:       30,
			ResolveWorkers: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and required relationships. Credentials are not
// required here so the server can start in offline test setups.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required when store.in_memory is false")
	}
	if c.Engine.DefaultLimit < 1 {
		return fmt.Errorf("engine.default_limit must be at least 1")
	}
	if c.Engine.MaxLimit < c.Engine.DefaultLimit {
		return fmt.Errorf("engine.max_limit %d below engine.default_limit %d",
			c.Engine.MaxLimit, c.Engine.DefaultLimit)
	}
	if c.Engine.ResolveWorkers < 1 {
		return fmt.Errorf("engine.resolve_workers must be at least 1")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q must be json or console", c.Logging.Format)
	}
	return nil
}

// findConfigFile returns the path of the first config file that exists, or
// empty string when none does.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps FILMTRACK_SECTION_KEY variables to koanf paths.
// The first underscore after the prefix separates section from key:
// FILMTRACK_LLM_API_KEY becomes llm.api_key.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return key
	}
	return parts[0] + "." + parts[1]
}
