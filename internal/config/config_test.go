package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	if *cfg != *want {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `vault_dir: /srv/vault
model: gpt-4o
temperature: 0.2
cron: "0 6 * * *"
request_timeout: 90
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.VaultDir != "/srv/vault" || cfg.Model != "gpt-4o" || cfg.Temperature != 0.2 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Cron != "0 6 * * *" {
		t.Errorf("Cron = %q", cfg.Cron)
	}
	if cfg.Timeout() != 90*time.Second {
		t.Errorf("Timeout() = %v", cfg.Timeout())
	}

	// Untouched fields keep their defaults.
	if cfg.EmbeddingModel != Default().EmbeddingModel || cfg.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("vault_dir: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed YAML")
	}
}

func TestAPIKeyEnvResolution(t *testing.T) {
	t.Setenv("AUTOFLOW_TEST_KEY", "sk-test")

	cfg := Default()
	cfg.APIKeyEnv = "AUTOFLOW_TEST_KEY"
	if got := cfg.APIKey(); got != "sk-test" {
		t.Errorf("APIKey() = %q", got)
	}

	cfg.APIKeyEnv = ""
	if got := cfg.APIKey(); got != "" {
		t.Errorf("APIKey() with empty env name = %q", got)
	}
}
