// Package config loads the storefront client configuration from an optional
// YAML file with environment variable overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all client settings.
type Config struct {
	API struct {
		// BaseURL is the commerce backend root, e.g. https://api.example.com/api.
		BaseURL string `yaml:"base_url"`
		// TimeoutSeconds bounds every request round-trip.
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"api"`

	Credentials struct {
		// Path is where the persisted session snapshot lives.
		Path string `yaml:"path"`
	} `yaml:"credentials"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	cfg.API.BaseURL = "http://localhost:5000/api"
	cfg.API.TimeoutSeconds = 10
	cfg.Credentials.Path = defaultCredentialsPath()
	cfg.Log.Level = "info"
	return cfg
}

func defaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".storefront", "credentials.json")
	}
	return filepath.Join(dir, "storefront", "credentials.json")
}

// Load reads the config file at path when it exists, applies environment
// overrides, and validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("STOREFRONT_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("STOREFRONT_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.API.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("STOREFRONT_CREDENTIALS"); v != "" {
		cfg.Credentials.Path = v
	}
	if v := os.Getenv("STOREFRONT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c Config) validate() error {
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: api.base_url must be a valid URL, got %q", c.API.BaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("config: api.base_url scheme must be http or https")
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: api.timeout_seconds must be positive")
	}
	if c.Credentials.Path == "" {
		return fmt.Errorf("config: credentials.path is required")
	}
	return nil
}
