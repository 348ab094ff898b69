package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// destination.base_url is required.
	if c.Destination.BaseURL == "" {
		errs = append(errs, fmt.Errorf("destination.base_url is required"))
	}

	if c.Destination.Timeout < 0 {
		errs = append(errs, fmt.Errorf("destination.timeout must be >= 0, got %s", c.Destination.Timeout))
	}

	if c.Defaults.MaxEmbeddingsPerCall < 0 {
		errs = append(errs, fmt.Errorf("defaults.max_embeddings_per_call must be >= 0, got %d", c.Defaults.MaxEmbeddingsPerCall))
	}

	seen := make(map[string]struct{})
	for i, m := range c.Models {
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("models[%d].name is required", i))
			continue
		}
		if _, dup := seen[m.Name]; dup {
			errs = append(errs, fmt.Errorf("models[%d]: duplicate model name %q", i, m.Name))
		}
		seen[m.Name] = struct{}{}

		if m.MaxEmbeddingsPerCall < 0 {
			errs = append(errs, fmt.Errorf("models[%d].max_embeddings_per_call must be >= 0, got %d", i, m.MaxEmbeddingsPerCall))
		}
	}

	return errors.Join(errs...)
}
