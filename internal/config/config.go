// Package config loads the static description of the four backend
// endpoints consumed by the storefront client.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Endpoint describes one backend. Immutable after loading.
type Endpoint struct {
	BaseURL string `yaml:"base_url"`
	// TimeoutMillis defaults to 10000.
	TimeoutMillis int `yaml:"timeout_ms"`
	// AttachAuth controls whether requests carry the session token.
	AttachAuth bool `yaml:"attach_auth"`
}

// Timeout returns the endpoint timeout as a duration.
func (e Endpoint) Timeout() time.Duration {
	if e.TimeoutMillis <= 0 {
		return 10 * time.Second
	}
	return time.Duration(e.TimeoutMillis) * time.Millisecond
}

// Config holds the endpoint configuration for all four backends.
type Config struct {
	Store    Endpoint `yaml:"store"`
	Delivery Endpoint `yaml:"delivery"`
	Email    Endpoint `yaml:"email"`
	Bank     Endpoint `yaml:"bank"`
}

// Load reads the endpoints configuration from config/endpoints.yaml.
func Load() (*Config, error) {
	return LoadFromPath(filepath.Join("config", "endpoints.yaml"))
}

// LoadFromPath reads the endpoints configuration from a specific path.
// Environment overrides are applied after parsing.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read endpoints config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse endpoints config: %w", err)
	}

	cfg.applyEnv()

	for name, ep := range map[string]Endpoint{
		"store":    cfg.Store,
		"delivery": cfg.Delivery,
		"email":    cfg.Email,
		"bank":     cfg.Bank,
	} {
		if ep.BaseURL == "" {
			return nil, fmt.Errorf("backend %s: base_url is required", name)
		}
	}

	return &cfg, nil
}

// LoadOrDefault loads the endpoints config or returns the development
// defaults if the file is not found.
func LoadOrDefault(path string) *Config {
	cfg, err := LoadFromPath(path)
	if err != nil {
		cfg = Default()
		cfg.applyEnv()
	}
	return cfg
}

// Default returns the development endpoint addresses.
func Default() *Config {
	return &Config{
		Store: Endpoint{
			BaseURL:       "http://localhost:8082/api",
			TimeoutMillis: 10000,
			AttachAuth:    true,
		},
		Delivery: Endpoint{
			BaseURL:       "http://localhost:8081/api",
			TimeoutMillis: 10000,
			AttachAuth:    true,
		},
		Email: Endpoint{
			BaseURL:       "http://localhost:8083/api",
			TimeoutMillis: 10000,
			AttachAuth:    false,
		},
		Bank: Endpoint{
			BaseURL:       "http://localhost:8084/api",
			TimeoutMillis: 10000,
			AttachAuth:    true,
		},
	}
}

// applyEnv overrides base addresses from STOREFRONT_<BACKEND>_URL.
func (c *Config) applyEnv() {
	if v := os.Getenv("STOREFRONT_STORE_URL"); v != "" {
		c.Store.BaseURL = v
	}
	if v := os.Getenv("STOREFRONT_DELIVERY_URL"); v != "" {
		c.Delivery.BaseURL = v
	}
	if v := os.Getenv("STOREFRONT_EMAIL_URL"); v != "" {
		c.Email.BaseURL = v
	}
	if v := os.Getenv("STOREFRONT_BANK_URL"); v != "" {
		c.Bank.BaseURL = v
	}
}
