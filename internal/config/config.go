// Package config loads autoflow's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/notesmith/autoflow/internal/openai"
)

// Config is everything a run needs from the environment. Zero or
// missing fields fall back to the defaults.
type Config struct {
	// VaultDir is the document store root flows operate on.
	VaultDir string `yaml:"vault_dir"`

	// DataDir overrides where the index, registry, error log and
	// history live. Empty means the platform default.
	DataDir string `yaml:"data_dir"`

	Model          string  `yaml:"model"`
	EmbeddingModel string  `yaml:"embedding_model"`
	Temperature    float64 `yaml:"temperature"`

	// BaseURL points at an OpenAI-compatible endpoint. Empty means
	// the hosted API.
	BaseURL string `yaml:"base_url"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`

	// Cron overrides the daemon's sweep schedule.
	Cron string `yaml:"cron"`

	// RequestTimeout bounds a single provider request, in seconds.
	RequestTimeout int `yaml:"request_timeout"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		VaultDir:       ".",
		Model:          openai.DefaultModel,
		EmbeddingModel: openai.DefaultEmbeddingModel,
		Temperature:    0.7,
		APIKeyEnv:      "OPENAI_API_KEY",
		RequestTimeout: 30,
	}
}

// Load reads the config at path over the defaults. A missing file
// yields the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Timeout returns the provider request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// APIKey resolves the API key from the configured environment
// variable.
func (c *Config) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}
