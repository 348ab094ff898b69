// Package config provides unified configuration for bruecke.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (BRUECKE_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the bruecke adapter layer.
type Config struct {
	Destination   DestinationConfig   `yaml:"destination"`
	Defaults      DefaultsConfig      `yaml:"defaults"`
	Models        []ModelConfig       `yaml:"models"`
	Observability ObservabilityConfig `yaml:"observability"`
	Debug         DebugConfig         `yaml:"debug"`
}

// DestinationConfig holds backend connection settings. Both dialects share
// the base URL unless orchestration_url points the orchestration dialect
// somewhere else.
type DestinationConfig struct {
	BaseURL          string        `yaml:"base_url"` // required
	OrchestrationURL string        `yaml:"orchestration_url"`
	APIKey           string        `yaml:"api_key"`
	APIKeyFile       string        `yaml:"api_key_file"` // _file variant for api_key
	Timeout          time.Duration `yaml:"timeout"`      // default: 120s
}

// DefaultsConfig holds settings applied to every model unless a model
// entry overrides them.
type DefaultsConfig struct {
	Model                string `yaml:"model"`
	UseOrchestration     bool   `yaml:"use_orchestration"`
	IncludeReasoning     bool   `yaml:"include_reasoning"`
	MaxEmbeddingsPerCall int    `yaml:"max_embeddings_per_call"` // default: 2048
}

// ModelConfig holds per-model settings. The passthrough maps are handed to
// the backend unvalidated; their semantics live server-side.
type ModelConfig struct {
	Name             string `yaml:"name"`
	Version          string `yaml:"version"`
	UseOrchestration *bool  `yaml:"use_orchestration"`
	IncludeReasoning *bool  `yaml:"include_reasoning"`

	Params          map[string]any `yaml:"params"`
	EmbeddingParams map[string]any `yaml:"embedding_params"`

	MaxEmbeddingsPerCall int `yaml:"max_embeddings_per_call"`

	// Orchestration module configuration blocks.
	TemplateDefaults map[string]any `yaml:"template_defaults"`
	Masking          map[string]any `yaml:"masking"`
	Filtering        map[string]any `yaml:"filtering"`
	Grounding        map[string]any `yaml:"grounding"`
	Translation      map[string]any `yaml:"translation"`
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// DebugConfig holds debug logging settings. Environment variables
// (BRUECKE_DEBUG, BRUECKE_LOG_LEVEL) take precedence over these.
type DebugConfig struct {
	Categories string `yaml:"categories"`
	Level      string `yaml:"level"`
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Destination: DestinationConfig{
			Timeout: 120 * time.Second,
		},
		Defaults: DefaultsConfig{
			MaxEmbeddingsPerCall: 2048,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}

// Model returns the model entry with the given name, or nil.
func (c *Config) Model(name string) *ModelConfig {
	for i := range c.Models {
		if c.Models[i].Name == name {
			return &c.Models[i]
		}
	}
	return nil
}
