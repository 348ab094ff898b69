package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, BRUECKE_CONFIG env, ./bruecke.yaml, /etc/bruecke/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	// Start with defaults.
	cfg := Defaults()

	// Discover and load YAML config file.
	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	// Apply environment variable overrides.
	applyEnvOverrides(&cfg)

	// Resolve _file references.
	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	// Validate.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. BRUECKE_CONFIG environment variable
// 3. ./bruecke.yaml in the current directory
// 4. /etc/bruecke/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	// Explicit path takes priority.
	if configPath != "" {
		return configPath
	}

	// Check BRUECKE_CONFIG env var.
	if envPath := os.Getenv("BRUECKE_CONFIG"); envPath != "" {
		return envPath
	}

	// Check common locations.
	candidates := []string{
		"bruecke.yaml",
		"/etc/bruecke/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BRUECKE_BACKEND_URL"); v != "" {
		cfg.Destination.BaseURL = v
	}
	if v := os.Getenv("BRUECKE_ORCHESTRATION_URL"); v != "" {
		cfg.Destination.OrchestrationURL = v
	}
	if v := os.Getenv("BRUECKE_API_KEY"); v != "" {
		cfg.Destination.APIKey = v
	}
	if v := os.Getenv("BRUECKE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Destination.Timeout = d
		}
	}
	if v := os.Getenv("BRUECKE_MODEL"); v != "" {
		cfg.Defaults.Model = v
	}
	if v := os.Getenv("BRUECKE_USE_ORCHESTRATION"); v != "" {
		cfg.Defaults.UseOrchestration = strings.EqualFold(v, "true") || v == "1"
	}
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// For each field ending in _file, if the value field is empty and the file field is set,
// the file is read, whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// destination.api_key_file -> destination.api_key
	if cfg.Destination.APIKeyFile != "" && cfg.Destination.APIKey == "" {
		val, err := readSecretFile(cfg.Destination.APIKeyFile)
		if err != nil {
			return fmt.Errorf("destination.api_key_file: %w", err)
		}
		cfg.Destination.APIKey = val
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
