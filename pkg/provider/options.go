package provider

import (
	"fmt"

	"github.com/rhuss/bruecke/pkg/api"
)

// OptionsNamespace is the provider key under which per-call overrides are
// passed by application code.
const OptionsNamespace = "bruecke"

// ProviderCallOptions are the validated per-call overrides from the
// namespaced provider-options bag. Every field layers on top of the
// corresponding Settings value. The bag is consumed once per call and
// never persisted.
type ProviderCallOptions struct {
	// ModelParams are wire-keyed backend parameters with the highest
	// precedence in the merge chain.
	ModelParams map[string]any

	IncludeReasoning *bool
	UseOrchestration *bool

	// TemplateValues fill orchestration template placeholders.
	TemplateValues map[string]any

	// Per-call orchestration module configuration overrides.
	Masking     map[string]any
	Filtering   map[string]any
	Grounding   map[string]any
	Translation map[string]any

	// EmbeddingParams are wire-keyed embedding overrides.
	EmbeddingParams map[string]any
}

// ParseProviderOptions validates the namespaced option bag. Unknown keys
// inside the namespace fail the call: a silently ignored override is worse
// than an error before any network I/O.
func ParseProviderOptions(raw map[string]any) (*ProviderCallOptions, error) {
	if raw == nil {
		return nil, nil
	}

	opts := &ProviderCallOptions{}
	for key, val := range raw {
		var err error
		switch key {
		case "modelParams":
			opts.ModelParams, err = asParamMap(key, val)
		case "includeReasoning":
			opts.IncludeReasoning, err = asBool(key, val)
		case "useOrchestration":
			opts.UseOrchestration, err = asBool(key, val)
		case "templateValues":
			opts.TemplateValues, err = asParamMap(key, val)
		case "masking":
			opts.Masking, err = asParamMap(key, val)
		case "filtering":
			opts.Filtering, err = asParamMap(key, val)
		case "grounding":
			opts.Grounding, err = asParamMap(key, val)
		case "translation":
			opts.Translation, err = asParamMap(key, val)
		case "embeddingParams":
			opts.EmbeddingParams, err = asParamMap(key, val)
		default:
			return nil, api.NewUnsupportedFunctionalityError(
				fmt.Sprintf("provider option %q", key), "")
		}
		if err != nil {
			return nil, err
		}
	}
	return opts, nil
}

func asParamMap(key string, val any) (map[string]any, error) {
	m, ok := val.(map[string]any)
	if !ok {
		return nil, api.NewInvalidPromptError("provider option %q must be an object, got %T", key, val)
	}
	return m, nil
}

func asBool(key string, val any) (*bool, error) {
	b, ok := val.(bool)
	if !ok {
		return nil, api.NewInvalidPromptError("provider option %q must be a boolean, got %T", key, val)
	}
	return &b, nil
}
