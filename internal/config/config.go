// Package config provides configuration for the pricewise server.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoVendors          = errors.New("at least one enabled vendor is required")
	ErrVendorMissingName  = errors.New("vendor name is required")
	ErrUnknownVendorKind  = errors.New("vendor kind must be one of: amazon, flipkart, croma, reliance, endpoint")
	ErrEndpointMissingURL = errors.New("endpoint vendors require base_url")
	ErrInvalidRateLimit   = errors.New("rate_limit.requests and rate_limit.window_sec must be at least 1")
	ErrInvalidTimeout     = errors.New("search timeouts must be at least 1 second")
)

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Search  SearchConfig   `yaml:"search"`
	Vendors []VendorConfig `yaml:"vendors"`
	Gemini  GeminiConfig   `yaml:"gemini"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr               string `yaml:"addr"`
	ReadTimeoutSec     int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec    int    `yaml:"write_timeout_sec"`
	IdleTimeoutSec     int    `yaml:"idle_timeout_sec"`
	ShutdownTimeoutSec int    `yaml:"shutdown_timeout_sec"`
}

// SearchConfig holds the fan-out and caching settings.
type SearchConfig struct {
	TimeoutSec        int             `yaml:"timeout_sec"`         // overall fan-out deadline
	AdapterTimeoutSec int             `yaml:"adapter_timeout_sec"` // per-vendor round trip
	CacheTTLSec       int             `yaml:"cache_ttl_sec"`
	RateLimit         RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig is the per-IP allowance for the search API.
type RateLimitConfig struct {
	Requests  int `yaml:"requests"`
	WindowSec int `yaml:"window_sec"`
}

// VendorConfig describes one registered vendor adapter. BaseURL overrides
// the vendor's live site, which is how local stub vendors are wired in.
type VendorConfig struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	BaseURL  string `yaml:"base_url"`
	Disabled bool   `yaml:"disabled"`
}

// GeminiConfig holds the description-service settings. The API key is
// never read from the file; it comes from the GEMINI_API_KEY environment
// variable at startup.
type GeminiConfig struct {
	BaseURL           string `yaml:"base_url"`
	Model             string `yaml:"model"`
	RequestsPerMinute int    `yaml:"rpm"`
	TimeoutSec        int    `yaml:"timeout_sec"`
	APIKey            string `yaml:"-"`
}

// Default returns the configuration used when no file is given: the four
// live vendors, a 10s fan-out deadline and a 30s result cache.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:               ":8080",
			ReadTimeoutSec:     10,
			WriteTimeoutSec:    30,
			IdleTimeoutSec:     60,
			ShutdownTimeoutSec: 10,
		},
		Search: SearchConfig{
			TimeoutSec:        10,
			AdapterTimeoutSec: 8,
			CacheTTLSec:       30,
			RateLimit: RateLimitConfig{
				Requests:  10,
				WindowSec: 60,
			},
		},
		Vendors: []VendorConfig{
			{Name: "Amazon", Kind: "amazon"},
			{Name: "Flipkart", Kind: "flipkart"},
			{Name: "Croma", Kind: "croma"},
			{Name: "Reliance Digital", Kind: "reliance"},
		},
		Gemini: GeminiConfig{
			RequestsPerMinute: 30,
			TimeoutSec:        30,
		},
	}
}

// Load reads the configuration file at path, applies environment
// overrides and validates the result. An empty path loads the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if addr := os.Getenv("PRICEWISE_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	// Read once at startup; an absent key disables /chatbot only.
	cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for problems that would only surface
// at request time.
func (c *Config) Validate() error {
	enabled := 0
	for _, v := range c.Vendors {
		if v.Disabled {
			continue
		}
		enabled++
		if v.Name == "" {
			return ErrVendorMissingName
		}
		switch v.Kind {
		case "amazon", "flipkart", "croma", "reliance":
		case "endpoint":
			if v.BaseURL == "" {
				return fmt.Errorf("%w: vendor %q", ErrEndpointMissingURL, v.Name)
			}
		default:
			return fmt.Errorf("%w: got %q", ErrUnknownVendorKind, v.Kind)
		}
	}
	if enabled == 0 {
		return ErrNoVendors
	}

	if c.Search.TimeoutSec < 1 || c.Search.AdapterTimeoutSec < 1 {
		return ErrInvalidTimeout
	}
	if c.Search.RateLimit.Requests < 1 || c.Search.RateLimit.WindowSec < 1 {
		return ErrInvalidRateLimit
	}
	return nil
}

// SearchTimeout returns the overall fan-out deadline.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.Search.TimeoutSec) * time.Second
}

// AdapterTimeout returns the per-vendor round-trip timeout.
func (c *Config) AdapterTimeout() time.Duration {
	return time.Duration(c.Search.AdapterTimeoutSec) * time.Second
}

// CacheTTL returns how long a search response stays cached.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Search.CacheTTLSec) * time.Second
}

// RateLimitWindow returns the per-IP rate limit window.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.Search.RateLimit.WindowSec) * time.Second
}
