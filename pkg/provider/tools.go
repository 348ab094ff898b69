package provider

import (
	"encoding/json"
	"fmt"

	"github.com/rhuss/bruecke/pkg/api"
)

// emptyToolParameters is the degraded schema used when a tool's input
// schema cannot be converted. The tool stays callable; only parameter
// validation fidelity is lost.
var emptyToolParameters = json.RawMessage(`{"type":"object","properties":{}}`)

// ConvertTools converts provider-agnostic tool definitions into the
// backend function-tool shape. A non-function tool is dropped with a
// warning; an unconvertible schema degrades to empty parameters with a
// warning. Tool conversion never fails the call.
func ConvertTools(tools []Tool) ([]ChatTool, []api.Warning) {
	var out []ChatTool
	var warnings []api.Warning

	for _, t := range tools {
		if t.Type != "" && t.Type != "function" {
			warnings = append(warnings, api.UnsupportedWarning(
				fmt.Sprintf("tool type %q", t.Type),
				fmt.Sprintf("tool %s was dropped", t.Name)))
			continue
		}

		params, err := toolSchema(t.InputSchema)
		if err != nil {
			warnings = append(warnings, api.UnsupportedWarning(
				fmt.Sprintf("input schema of tool %s", t.Name),
				"schema could not be converted; using an empty parameters schema"))
			params = emptyToolParameters
		}

		out = append(out, ChatTool{
			Type: "function",
			Function: ChatFunctionDef{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}

	return out, warnings
}

func toolSchema(schema any) (json.RawMessage, error) {
	switch s := schema.(type) {
	case nil:
		return emptyToolParameters, nil
	case json.RawMessage:
		if !json.Valid(s) {
			return nil, fmt.Errorf("schema is not valid JSON")
		}
		return s, nil
	case []byte:
		if !json.Valid(s) {
			return nil, fmt.Errorf("schema is not valid JSON")
		}
		return json.RawMessage(s), nil
	default:
		b, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		return json.RawMessage(b), nil
	}
}

// ResolveToolChoice applies the consistent override policy: a call-time
// choice always wins over a settings-level choice, with a compatibility
// warning when both are set, on every backend.
func ResolveToolChoice(callChoice, settingsChoice *ToolChoice) (*ToolChoice, []api.Warning) {
	if callChoice == nil {
		return settingsChoice, nil
	}
	if settingsChoice == nil {
		return callChoice, nil
	}
	var warnings []api.Warning
	if *callChoice != *settingsChoice {
		warnings = append(warnings, api.CompatibilityWarning("toolChoice",
			"call-time tool choice overrides the settings-level choice"))
	}
	return callChoice, warnings
}

// ConvertToolChoice maps a resolved tool choice to the backend wire value.
// Only the automatic choice is portable across both dialects; on a backend
// without explicit-choice support everything else downgrades to automatic
// with a warning.
func ConvertToolChoice(choice *ToolChoice, supportsExplicit bool) (any, []api.Warning) {
	if choice == nil {
		return nil, nil
	}

	if !supportsExplicit && choice.Mode != ToolChoiceAuto {
		return "auto", []api.Warning{api.UnsupportedWarning(
			fmt.Sprintf("tool choice %q", choice.Mode),
			"this backend only supports automatic tool choice")}
	}

	switch choice.Mode {
	case ToolChoiceAuto:
		return "auto", nil
	case ToolChoiceNone:
		return "none", nil
	case ToolChoiceRequired:
		return "required", nil
	case ToolChoiceTool:
		return map[string]any{
			"type":     "function",
			"function": map[string]any{"name": choice.ToolName},
		}, nil
	default:
		return "auto", []api.Warning{api.UnsupportedWarning(
			fmt.Sprintf("tool choice %q", choice.Mode), "falling back to automatic")}
	}
}

// ConvertResponseFormat maps a response format request to the backend wire
// value. When the backend lacks per-call schema support, a schema-typed
// format falls back to the generic JSON-object mode with a warning that
// schema adherence is not guaranteed.
func ConvertResponseFormat(rf *ResponseFormat, supportsSchema bool) (any, []api.Warning) {
	if rf == nil || rf.Type == "" || rf.Type == "text" {
		return nil, nil
	}

	if rf.Type != "json" {
		return nil, []api.Warning{api.UnsupportedWarning(
			fmt.Sprintf("response format %q", rf.Type), "")}
	}

	if rf.Schema == nil {
		return map[string]any{"type": "json_object"}, nil
	}

	if !supportsSchema {
		return map[string]any{"type": "json_object"}, []api.Warning{
			api.CompatibilityWarning("responseFormat",
				"this backend does not support per-call JSON schemas; falling back to json_object, schema adherence is not guaranteed")}
	}

	schema, err := toolSchema(rf.Schema)
	if err != nil {
		return map[string]any{"type": "json_object"}, []api.Warning{
			api.UnsupportedWarning("responseFormat",
				"JSON schema could not be converted; falling back to json_object")}
	}

	name := rf.Name
	if name == "" {
		name = "response"
	}
	jsonSchema := map[string]any{
		"name":   name,
		"schema": json.RawMessage(schema),
		"strict": true,
	}
	if rf.Description != "" {
		jsonSchema["description"] = rf.Description
	}
	return map[string]any{"type": "json_schema", "json_schema": jsonSchema}, nil
}
