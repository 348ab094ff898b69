package provider

import (
	"fmt"

	"github.com/rhuss/bruecke/pkg/api"
	"github.com/rhuss/bruecke/pkg/merge"
)

// ChatParamKeys maps unified camelCase option names to the Chat Completions
// wire keys. The orchestration dialect's model_params block uses the same
// keys; each strategy passes its table explicitly so a future backend with
// a different dialect only adds a table.
var ChatParamKeys = map[string]string{
	"temperature":      "temperature",
	"maxOutputTokens":  "max_tokens",
	"topP":             "top_p",
	"frequencyPenalty": "frequency_penalty",
	"presencePenalty":  "presence_penalty",
	"seed":             "seed",
	"stopSequences":    "stop",
}

// ModelParams builds the wire-keyed sampling parameter map for one call.
// Precedence, lowest to highest: model settings, per-call options,
// per-call provider options. Object-valued parameters merge key-by-key;
// arrays and scalars replace wholesale.
//
// Out-of-range values are forwarded with a warning rather than rejected:
// translation is this layer's job, domain validation is the backend's.
func ModelParams(table map[string]string, call *Call) (map[string]any, []api.Warning, error) {
	var warnings []api.Warning

	optLayer := make(map[string]any)
	set := func(name string, val any) {
		wire, ok := table[name]
		if !ok {
			wire = name
		}
		optLayer[wire] = val
	}

	opts := &call.Options
	if opts.Temperature != nil {
		if *opts.Temperature < 0 {
			warnings = append(warnings, api.CompatibilityWarning("temperature",
				fmt.Sprintf("value %v is out of range and forwarded to the backend unchanged", *opts.Temperature)))
		}
		set("temperature", *opts.Temperature)
	}
	if opts.MaxOutputTokens != nil {
		if *opts.MaxOutputTokens < 0 {
			warnings = append(warnings, api.CompatibilityWarning("maxOutputTokens",
				fmt.Sprintf("value %d is out of range and forwarded to the backend unchanged", *opts.MaxOutputTokens)))
		}
		set("maxOutputTokens", *opts.MaxOutputTokens)
	}
	if opts.TopP != nil {
		set("topP", *opts.TopP)
	}
	if opts.FrequencyPenalty != nil {
		set("frequencyPenalty", *opts.FrequencyPenalty)
	}
	if opts.PresencePenalty != nil {
		set("presencePenalty", *opts.PresencePenalty)
	}
	if opts.Seed != nil {
		set("seed", *opts.Seed)
	}
	if len(opts.StopSequences) > 0 {
		stops := make([]any, len(opts.StopSequences))
		for i, s := range opts.StopSequences {
			stops[i] = s
		}
		set("stopSequences", stops)
	}

	var providerLayer map[string]any
	if call.Provider != nil {
		providerLayer = call.Provider.ModelParams
	}

	params, err := merge.Maps(call.Settings.ModelParams, optLayer, providerLayer)
	if err != nil {
		return nil, nil, fmt.Errorf("merging model parameters: %w", err)
	}
	return params, warnings, nil
}

// EmbeddingParamKeys maps unified embedding option names to wire keys.
var EmbeddingParamKeys = map[string]string{
	"encodingFormat": "encoding_format",
	"dimensions":     "dimensions",
	"inputType":      "input_type",
	"user":           "user",
}

// EmbeddingParams layers embedding parameters with the same precedence
// rule as ModelParams.
func EmbeddingParams(settings Settings, callParams map[string]any) (map[string]any, error) {
	params, err := merge.Maps(settings.EmbeddingParams, callParams)
	if err != nil {
		return nil, fmt.Errorf("merging embedding parameters: %w", err)
	}
	return params, nil
}
