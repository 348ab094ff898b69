package orchestration

import (
	"github.com/rhuss/bruecke/pkg/api"
	"github.com/rhuss/bruecke/pkg/merge"
	"github.com/rhuss/bruecke/pkg/provider"
)

// defaultModelVersion pins the model version when settings leave it open.
const defaultModelVersion = "latest"

// buildRequest translates one call into the orchestration request body.
// The converted conversation becomes the templating module's template;
// template placeholder values travel in input_params. Module configuration
// blocks merge settings-level config with per-call provider overrides.
func buildRequest(call *provider.Call) (completionRequest, []api.Warning, error) {
	var warnings []api.Warning

	messages, err := provider.ConvertMessages(call.Options.Messages, provider.ConvertOptions{
		IncludeReasoning: call.IncludeReasoning(),
	})
	if err != nil {
		return completionRequest{}, nil, err
	}

	params, paramWarnings, err := provider.ModelParams(provider.ChatParamKeys, call)
	if err != nil {
		return completionRequest{}, nil, err
	}
	warnings = append(warnings, paramWarnings...)

	version := call.Settings.ModelVersion
	if version == "" {
		version = defaultModelVersion
	}

	templating := templatingModuleConfig{
		Template: messages,
		Defaults: call.Settings.TemplateDefaults,
	}

	if len(call.Options.Tools) > 0 {
		tools, toolWarnings := provider.ConvertTools(call.Options.Tools)
		warnings = append(warnings, toolWarnings...)
		templating.Tools = tools
	}

	// This dialect has no tool-choice knob: anything but the automatic
	// choice downgrades with a warning and nothing is emitted.
	choice, choiceWarnings := provider.ResolveToolChoice(call.Options.ToolChoice, call.Settings.ToolChoice)
	warnings = append(warnings, choiceWarnings...)
	_, convertWarnings := provider.ConvertToolChoice(choice, false)
	warnings = append(warnings, convertWarnings...)

	format, formatWarnings := provider.ConvertResponseFormat(call.Options.ResponseFormat, true)
	warnings = append(warnings, formatWarnings...)
	templating.ResponseFormat = format

	modules := moduleConfigurations{
		LLM: llmModuleConfig{
			ModelName:    call.ModelID,
			ModelParams:  params,
			ModelVersion: version,
		},
		Templating: templating,
	}

	var perCall provider.ProviderCallOptions
	if call.Provider != nil {
		perCall = *call.Provider
	}
	if modules.Masking, err = moduleBlock(call.Settings.Masking, perCall.Masking); err != nil {
		return completionRequest{}, nil, err
	}
	if modules.Filtering, err = moduleBlock(call.Settings.Filtering, perCall.Filtering); err != nil {
		return completionRequest{}, nil, err
	}
	if modules.Grounding, err = moduleBlock(call.Settings.Grounding, perCall.Grounding); err != nil {
		return completionRequest{}, nil, err
	}
	if modules.Translation, err = moduleBlock(call.Settings.Translation, perCall.Translation); err != nil {
		return completionRequest{}, nil, err
	}

	req := completionRequest{
		OrchestrationConfig: orchestrationConfig{ModuleConfigurations: modules},
	}
	if len(perCall.TemplateValues) > 0 {
		req.InputParams = perCall.TemplateValues
	}

	return req, warnings, nil
}

// moduleBlock merges a settings-level module block with its per-call
// override. An empty result is dropped from the request entirely.
func moduleBlock(settings, override map[string]any) (map[string]any, error) {
	if len(settings) == 0 && len(override) == 0 {
		return nil, nil
	}
	merged, err := merge.Maps(settings, override)
	if err != nil {
		return nil, err
	}
	if len(merged) == 0 {
		return nil, nil
	}
	return merged, nil
}
