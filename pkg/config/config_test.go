package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Destination.Timeout != 120*time.Second {
		t.Errorf("timeout = %s", cfg.Destination.Timeout)
	}
	if cfg.Defaults.MaxEmbeddingsPerCall != 2048 {
		t.Errorf("max_embeddings_per_call = %d", cfg.Defaults.MaxEmbeddingsPerCall)
	}
	if !cfg.Observability.Metrics.Enabled || cfg.Observability.Metrics.Path != "/metrics" {
		t.Errorf("metrics = %+v", cfg.Observability.Metrics)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bruecke.yaml", `
destination:
  base_url: https://backend.example.com/v2
  api_key: secret
  timeout: 30s
defaults:
  model: gpt-4o
  use_orchestration: true
models:
  - name: gpt-4o
    version: "2024-08-06"
    params:
      temperature: 0.3
    template_defaults:
      assistant_role: helpful
  - name: text-embed-1
    max_embeddings_per_call: 16
debug:
  categories: providers
  level: DEBUG
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Destination.BaseURL != "https://backend.example.com/v2" {
		t.Errorf("base_url = %q", cfg.Destination.BaseURL)
	}
	if cfg.Destination.Timeout != 30*time.Second {
		t.Errorf("timeout = %s", cfg.Destination.Timeout)
	}
	if !cfg.Defaults.UseOrchestration {
		t.Error("use_orchestration not set")
	}

	m := cfg.Model("gpt-4o")
	if m == nil {
		t.Fatal("model gpt-4o not found")
	}
	if m.Version != "2024-08-06" {
		t.Errorf("version = %q", m.Version)
	}
	if m.Params["temperature"] != 0.3 {
		t.Errorf("params = %v", m.Params)
	}
	if m.TemplateDefaults["assistant_role"] != "helpful" {
		t.Errorf("template_defaults = %v", m.TemplateDefaults)
	}

	if e := cfg.Model("text-embed-1"); e == nil || e.MaxEmbeddingsPerCall != 16 {
		t.Errorf("text-embed-1 = %+v", e)
	}
	if cfg.Model("missing") != nil {
		t.Error("unknown model should return nil")
	}

	// Defaults for fields the file does not mention survive.
	if cfg.Defaults.MaxEmbeddingsPerCall != 2048 {
		t.Errorf("max_embeddings_per_call = %d", cfg.Defaults.MaxEmbeddingsPerCall)
	}
	if cfg.Debug.Categories != "providers" || cfg.Debug.Level != "DEBUG" {
		t.Errorf("debug = %+v", cfg.Debug)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bruecke.yaml", `
destination:
  base_url: https://file.example.com
  api_key: from-file
`)

	t.Setenv("BRUECKE_BACKEND_URL", "https://env.example.com")
	t.Setenv("BRUECKE_API_KEY", "from-env")
	t.Setenv("BRUECKE_MODEL", "gpt-4o-mini")
	t.Setenv("BRUECKE_USE_ORCHESTRATION", "true")
	t.Setenv("BRUECKE_TIMEOUT", "45s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Destination.BaseURL != "https://env.example.com" {
		t.Errorf("base_url = %q, env must win", cfg.Destination.BaseURL)
	}
	if cfg.Destination.APIKey != "from-env" {
		t.Errorf("api_key = %q", cfg.Destination.APIKey)
	}
	if cfg.Defaults.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.Defaults.Model)
	}
	if !cfg.Defaults.UseOrchestration {
		t.Error("use_orchestration not set from env")
	}
	if cfg.Destination.Timeout != 45*time.Second {
		t.Errorf("timeout = %s", cfg.Destination.Timeout)
	}
}

func TestLoadDiscoveryViaEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", `
destination:
  base_url: https://discovered.example.com
`)

	t.Setenv("BRUECKE_CONFIG", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Destination.BaseURL != "https://discovered.example.com" {
		t.Errorf("base_url = %q", cfg.Destination.BaseURL)
	}
}

func TestLoadAPIKeyFile(t *testing.T) {
	dir := t.TempDir()
	keyPath := writeFile(t, dir, "key.txt", "file-secret\n")
	path := writeFile(t, dir, "bruecke.yaml", `
destination:
  base_url: https://backend.example.com
  api_key_file: `+keyPath+`
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Destination.APIKey != "file-secret" {
		t.Errorf("api_key = %q, want trimmed file content", cfg.Destination.APIKey)
	}
}

func TestLoadAPIKeyFilePrecedence(t *testing.T) {
	// An explicit api_key wins over api_key_file.
	dir := t.TempDir()
	keyPath := writeFile(t, dir, "key.txt", "file-secret")
	path := writeFile(t, dir, "bruecke.yaml", `
destination:
  base_url: https://backend.example.com
  api_key: direct-secret
  api_key_file: `+keyPath+`
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Destination.APIKey != "direct-secret" {
		t.Errorf("api_key = %q", cfg.Destination.APIKey)
	}
}

func TestLoadMissingKeyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bruecke.yaml", `
destination:
  base_url: https://backend.example.com
  api_key_file: /nonexistent/key.txt
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "api_key_file") {
		t.Errorf("err = %v, want api_key_file failure", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing base url",
			mutate:  func(c *Config) { c.Destination.BaseURL = "" },
			wantErr: "destination.base_url",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Destination.Timeout = -time.Second },
			wantErr: "destination.timeout",
		},
		{
			name:    "negative embedding limit",
			mutate:  func(c *Config) { c.Defaults.MaxEmbeddingsPerCall = -1 },
			wantErr: "max_embeddings_per_call",
		},
		{
			name: "unnamed model",
			mutate: func(c *Config) {
				c.Models = []ModelConfig{{}}
			},
			wantErr: "models[0].name",
		},
		{
			name: "duplicate model name",
			mutate: func(c *Config) {
				c.Models = []ModelConfig{{Name: "gpt-4o"}, {Name: "gpt-4o"}}
			},
			wantErr: "duplicate model name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Destination.BaseURL = "https://backend.example.com"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateOK(t *testing.T) {
	cfg := Defaults()
	cfg.Destination.BaseURL = "https://backend.example.com"
	cfg.Models = []ModelConfig{{Name: "gpt-4o"}, {Name: "text-embed-1"}}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
