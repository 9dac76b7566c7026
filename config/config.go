// Package config loads poai settings from .poai.yaml and the environment.
//
// Settings are layered: built-in defaults, then .poai.yaml in the run root,
// then POAI_* environment variables. Command-line flags are applied on top
// by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the run root.
const FileName = ".poai.yaml"

// Defaults.
const (
	DefaultProvider     = "openai"
	DefaultBatchSize    = 100
	DefaultRequestDelay = time.Second
	DefaultSourceLang   = "en"
)

// Config holds run settings.
type Config struct {
	// Provider is the AI service identifier (openai, groq, ollama, ...).
	Provider string `yaml:"provider,omitempty" env:"POAI_PROVIDER"`
	// Model overrides the provider's default model.
	Model string `yaml:"model,omitempty" env:"POAI_MODEL"`
	// BaseURL overrides the provider's API endpoint.
	BaseURL string `yaml:"base_url,omitempty" env:"POAI_BASE_URL"`
	// Proxy is an HTTP/HTTPS proxy URL.
	Proxy string `yaml:"proxy,omitempty" env:"POAI_PROXY"`
	// Timeout bounds a single request (0 keeps the provider default).
	Timeout time.Duration `yaml:"timeout,omitempty" env:"POAI_TIMEOUT"`

	// BatchSize is the number of entries per request.
	BatchSize int `yaml:"batch_size,omitempty" env:"POAI_BATCH_SIZE"`
	// RequestDelay is waited after every request.
	RequestDelay time.Duration `yaml:"request_delay,omitempty" env:"POAI_REQUEST_DELAY"`
	// SourceLang is the language of the msgids.
	SourceLang string `yaml:"source_lang,omitempty" env:"POAI_SOURCE_LANG"`
	// Category is used when no --category or --file is given.
	Category string `yaml:"category,omitempty" env:"POAI_CATEGORY"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Provider:     DefaultProvider,
		BatchSize:    DefaultBatchSize,
		RequestDelay: DefaultRequestDelay,
		SourceLang:   DefaultSourceLang,
	}
}

// Load returns the defaults overlaid with rootDir/.poai.yaml (when present)
// and the environment.
func Load(rootDir string) (*Config, error) {
	cfg := Defaults()
	if err := cfg.loadFile(filepath.Join(rootDir, FileName)); err != nil {
		return nil, err
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings that cannot be meaningful. The batch size is
// checked by the translation run itself.
func (c *Config) Validate() error {
	if c.RequestDelay < 0 {
		return fmt.Errorf("request_delay must not be negative, got %s", c.RequestDelay)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}
