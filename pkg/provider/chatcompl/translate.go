package chatcompl

import (
	"github.com/rhuss/bruecke/pkg/api"
	"github.com/rhuss/bruecke/pkg/provider"
)

// buildRequest translates one call into the Chat Completions request body,
// collecting degradation warnings along the way. Conversion failures
// surface before any network I/O.
func buildRequest(call *provider.Call) (chatCompletionRequest, []api.Warning, error) {
	var warnings []api.Warning

	messages, err := provider.ConvertMessages(call.Options.Messages, provider.ConvertOptions{
		IncludeReasoning: call.IncludeReasoning(),
	})
	if err != nil {
		return chatCompletionRequest{}, nil, err
	}

	params, paramWarnings, err := provider.ModelParams(provider.ChatParamKeys, call)
	if err != nil {
		return chatCompletionRequest{}, nil, err
	}
	warnings = append(warnings, paramWarnings...)

	req := chatCompletionRequest{
		Model:    call.ModelID,
		Messages: messages,
		Params:   params,
	}

	if len(call.Options.Tools) > 0 {
		tools, toolWarnings := provider.ConvertTools(call.Options.Tools)
		warnings = append(warnings, toolWarnings...)
		req.Tools = tools
	}

	choice, choiceWarnings := provider.ResolveToolChoice(call.Options.ToolChoice, call.Settings.ToolChoice)
	warnings = append(warnings, choiceWarnings...)
	// The raw dialect supports explicit tool choices.
	wireChoice, convertWarnings := provider.ConvertToolChoice(choice, true)
	warnings = append(warnings, convertWarnings...)
	req.ToolChoice = wireChoice

	// No per-call schema support on this dialect: schema-typed formats
	// fall back to json_object with a warning.
	format, formatWarnings := provider.ConvertResponseFormat(call.Options.ResponseFormat, false)
	warnings = append(warnings, formatWarnings...)
	req.ResponseFormat = format

	return req, warnings, nil
}
