package orchestration

import (
	"encoding/json"
	"testing"

	"github.com/rhuss/bruecke/pkg/api"
	"github.com/rhuss/bruecke/pkg/provider"
)

func marshalRequest(t *testing.T, req completionRequest) map[string]any {
	t.Helper()
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	return body
}

func moduleConfigs(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	cfg, ok := body["orchestration_config"].(map[string]any)
	if !ok {
		t.Fatalf("orchestration_config missing: %v", body)
	}
	modules, ok := cfg["module_configurations"].(map[string]any)
	if !ok {
		t.Fatalf("module_configurations missing: %v", cfg)
	}
	return modules
}

func TestBuildRequestShape(t *testing.T) {
	temp := 0.5
	call := &provider.Call{
		ModelID: "gpt-4o",
		Options: provider.CallOptions{
			Messages: []api.Message{
				api.SystemMessage("You are {{?assistant_role}}."),
				api.UserMessage(api.TextPart{Text: "Hello"}),
			},
			Temperature: &temp,
		},
		Settings: provider.Settings{
			ModelVersion:     "2024-08-06",
			TemplateDefaults: map[string]any{"assistant_role": "helpful"},
		},
		Provider: &provider.ProviderCallOptions{
			TemplateValues: map[string]any{"assistant_role": "terse"},
		},
	}

	req, warnings, err := buildRequest(call)
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}

	body := marshalRequest(t, req)
	modules := moduleConfigs(t, body)

	llm, _ := modules["llm_module_config"].(map[string]any)
	if llm["model_name"] != "gpt-4o" || llm["model_version"] != "2024-08-06" {
		t.Errorf("llm module = %v", llm)
	}
	params, _ := llm["model_params"].(map[string]any)
	if params["temperature"] != 0.5 {
		t.Errorf("model_params = %v", params)
	}

	templating, _ := modules["templating_module_config"].(map[string]any)
	template, _ := templating["template"].([]any)
	if len(template) != 2 {
		t.Fatalf("template = %v", templating["template"])
	}
	defaults, _ := templating["defaults"].(map[string]any)
	if defaults["assistant_role"] != "helpful" {
		t.Errorf("defaults = %v", defaults)
	}

	inputParams, _ := body["input_params"].(map[string]any)
	if inputParams["assistant_role"] != "terse" {
		t.Errorf("input_params = %v", body["input_params"])
	}

	for _, key := range []string{"masking_module_config", "filtering_module_config", "grounding_module_config", "translation_module_config"} {
		if _, present := modules[key]; present {
			t.Errorf("%s present without configuration", key)
		}
	}
}

func TestBuildRequestDefaultModelVersion(t *testing.T) {
	call := &provider.Call{
		ModelID: "gpt-4o",
		Options: provider.CallOptions{
			Messages: []api.Message{api.UserMessage(api.TextPart{Text: "hi"})},
		},
	}

	req, _, err := buildRequest(call)
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}
	if got := req.OrchestrationConfig.ModuleConfigurations.LLM.ModelVersion; got != "latest" {
		t.Errorf("model_version = %q, want latest", got)
	}
}

func TestBuildRequestModuleBlocks(t *testing.T) {
	call := &provider.Call{
		ModelID: "gpt-4o",
		Options: provider.CallOptions{
			Messages: []api.Message{api.UserMessage(api.TextPart{Text: "hi"})},
		},
		Settings: provider.Settings{
			Masking: map[string]any{
				"masking_providers": []any{map[string]any{"type": "sap_data_privacy_integration"}},
			},
			Filtering: map[string]any{
				"input": map[string]any{"filters": []any{map[string]any{"type": "azure_content_safety"}}},
			},
		},
		Provider: &provider.ProviderCallOptions{
			Filtering: map[string]any{
				"output": map[string]any{"filters": []any{map[string]any{"type": "azure_content_safety"}}},
			},
		},
	}

	req, _, err := buildRequest(call)
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}

	body := marshalRequest(t, req)
	modules := moduleConfigs(t, body)

	if _, present := modules["masking_module_config"]; !present {
		t.Error("masking_module_config missing")
	}
	filtering, _ := modules["filtering_module_config"].(map[string]any)
	if _, present := filtering["input"]; !present {
		t.Errorf("settings-level filtering lost: %v", filtering)
	}
	if _, present := filtering["output"]; !present {
		t.Errorf("per-call filtering lost: %v", filtering)
	}
}

func TestBuildRequestExplicitToolChoiceDowngrades(t *testing.T) {
	call := &provider.Call{
		ModelID: "gpt-4o",
		Options: provider.CallOptions{
			Messages: []api.Message{api.UserMessage(api.TextPart{Text: "weather?"})},
			Tools: []provider.Tool{{
				Type: "function",
				Name: "get_weather",
			}},
			ToolChoice: &provider.ToolChoice{Mode: provider.ToolChoiceRequired},
		},
	}

	req, warnings, err := buildRequest(call)
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}

	found := false
	for _, w := range warnings {
		if w.Type == api.WarningUnsupported {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an unsupported warning for the explicit tool choice, got %v", warnings)
	}

	if tools := req.OrchestrationConfig.ModuleConfigurations.Templating.Tools; len(tools) != 1 {
		t.Errorf("tools = %v", tools)
	}
}

func TestBuildRequestSchemaFormat(t *testing.T) {
	call := &provider.Call{
		ModelID: "gpt-4o",
		Options: provider.CallOptions{
			Messages: []api.Message{api.UserMessage(api.TextPart{Text: "list colors"})},
			ResponseFormat: &provider.ResponseFormat{
				Type:   "json",
				Schema: map[string]any{"type": "object"},
				Name:   "colors",
			},
		},
	}

	req, warnings, err := buildRequest(call)
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}

	body := marshalRequest(t, req)
	modules := moduleConfigs(t, body)
	templating, _ := modules["templating_module_config"].(map[string]any)
	format, _ := templating["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("response_format = %v, want json_schema", templating["response_format"])
	}
	schema, _ := format["json_schema"].(map[string]any)
	if schema["name"] != "colors" || schema["strict"] != true {
		t.Errorf("json_schema = %v", schema)
	}
}
