package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend selects the completion service used for scoring
type Backend string

const (
	BackendOpenAI Backend = "openai"
	BackendGemini Backend = "gemini"
	BackendVertex Backend = "vertex"
)

const (
	DefaultModel       = "qwen/qwen3-next-80b-a3b-instruct"
	DefaultTemperature = 0.0
	DefaultTimeout     = 60 * time.Second
)

// Config carries the scorer endpoint, credentials and model.
// It is built once at startup and passed to the scorer client and engine.
type Config struct {
	Backend Backend `yaml:"backend"`
	Model   string  `yaml:"model"`

	// BaseURL and APIKey are used by the openai and gemini backends
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`

	// Project and Location are used by the vertex backend
	Project  string `yaml:"project"`
	Location string `yaml:"location"`

	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`

	// RequestsPerMinute paces scorer calls; 0 disables pacing
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// Default returns a config for the openai backend with no credentials
func Default() Config {
	return Config{
		Backend:     BackendOpenAI,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		Timeout:     DefaultTimeout,
	}
}

// Load reads a YAML config file on top of Default
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, errors.New("config path required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	cfg.Backend = Backend(strings.ToLower(strings.TrimSpace(string(cfg.Backend))))
	return cfg, cfg.Validate()
}

// Validate checks values that would be wrong regardless of credentials.
// Missing credentials are not a validation error; see IsConfigured.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendOpenAI, BackendGemini, BackendVertex:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Model == "" {
		return errors.New("model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature out of range: %v", c.Temperature)
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests per minute must not be negative: %d", c.RequestsPerMinute)
	}
	return nil
}

// IsConfigured reports whether endpoint and credentials are present for the backend
func (c Config) IsConfigured() bool {
	return len(c.Missing()) == 0
}

// Missing lists the settings the backend needs but does not have
func (c Config) Missing() []string {
	var missing []string
	switch c.Backend {
	case BackendOpenAI:
		if c.BaseURL == "" {
			missing = append(missing, "base_url")
		}
		if c.APIKey == "" {
			missing = append(missing, "api_key")
		}
	case BackendGemini:
		if c.APIKey == "" {
			missing = append(missing, "api_key")
		}
	case BackendVertex:
		if c.Project == "" {
			missing = append(missing, "project")
		}
		if c.Location == "" {
			missing = append(missing, "location")
		}
	default:
		missing = append(missing, "backend")
	}
	return missing
}
