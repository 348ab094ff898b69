package provider

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/rhuss/bruecke/pkg/api"
)

func TestConvertTools_FunctionTool(t *testing.T) {
	schema := json.RawMessage(`{"type":"object","properties":{"location":{"type":"string"}}}`)
	tools, warnings := ConvertTools([]Tool{
		{Type: "function", Name: "weather", Description: "Get the weather", InputSchema: schema},
	})

	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	if len(tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(tools))
	}
	if tools[0].Type != "function" || tools[0].Function.Name != "weather" {
		t.Errorf("unexpected tool: %+v", tools[0])
	}
	if string(tools[0].Function.Parameters) != string(schema) {
		t.Errorf("expected schema passthrough, got %s", tools[0].Function.Parameters)
	}
}

func TestConvertTools_MapSchema(t *testing.T) {
	tools, warnings := ConvertTools([]Tool{
		{Name: "echo", InputSchema: map[string]any{"type": "object"}},
	})
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	if string(tools[0].Function.Parameters) != `{"type":"object"}` {
		t.Errorf("expected marshaled schema, got %s", tools[0].Function.Parameters)
	}
}

func TestConvertTools_UnsupportedTypeDropped(t *testing.T) {
	tools, warnings := ConvertTools([]Tool{
		{Type: "provider-defined", Name: "search"},
		{Type: "function", Name: "kept"},
	})

	if len(tools) != 1 || tools[0].Function.Name != "kept" {
		t.Fatalf("expected only the function tool to survive, got %+v", tools)
	}
	if len(warnings) != 1 || warnings[0].Type != api.WarningUnsupported {
		t.Fatalf("expected one unsupported warning, got %v", warnings)
	}
}

func TestConvertTools_BrokenSchemaDegrades(t *testing.T) {
	tools, warnings := ConvertTools([]Tool{
		{Name: "broken", InputSchema: json.RawMessage(`{not json`)},
	})

	if len(tools) != 1 {
		t.Fatalf("expected tool to survive with degraded schema, got %+v", tools)
	}
	if string(tools[0].Function.Parameters) != string(emptyToolParameters) {
		t.Errorf("expected empty parameters schema, got %s", tools[0].Function.Parameters)
	}
	if len(warnings) != 1 || warnings[0].Type != api.WarningUnsupported {
		t.Errorf("expected unsupported warning, got %v", warnings)
	}
}

func TestResolveToolChoice_CallTimeWins(t *testing.T) {
	call := &ToolChoice{Mode: ToolChoiceRequired}
	settings := &ToolChoice{Mode: ToolChoiceNone}

	resolved, warnings := ResolveToolChoice(call, settings)
	if resolved.Mode != ToolChoiceRequired {
		t.Errorf("expected call-time choice to win, got %v", resolved.Mode)
	}
	if len(warnings) != 1 || warnings[0].Type != api.WarningCompatibility {
		t.Errorf("expected a compatibility warning on conflict, got %v", warnings)
	}
}

func TestResolveToolChoice_NoConflictNoWarning(t *testing.T) {
	same := &ToolChoice{Mode: ToolChoiceAuto}
	resolved, warnings := ResolveToolChoice(same, &ToolChoice{Mode: ToolChoiceAuto})
	if resolved.Mode != ToolChoiceAuto || len(warnings) != 0 {
		t.Errorf("expected silent agreement, got %v %v", resolved, warnings)
	}

	resolved, warnings = ResolveToolChoice(nil, &ToolChoice{Mode: ToolChoiceNone})
	if resolved.Mode != ToolChoiceNone || len(warnings) != 0 {
		t.Errorf("expected settings fallback, got %v %v", resolved, warnings)
	}
}

func TestConvertToolChoice_Explicit(t *testing.T) {
	wire, warnings := ConvertToolChoice(&ToolChoice{Mode: ToolChoiceTool, ToolName: "weather"}, true)
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	want := map[string]any{
		"type":     "function",
		"function": map[string]any{"name": "weather"},
	}
	if !reflect.DeepEqual(wire, want) {
		t.Errorf("expected %v, got %v", want, wire)
	}
}

func TestConvertToolChoice_DowngradeWithoutExplicitSupport(t *testing.T) {
	wire, warnings := ConvertToolChoice(&ToolChoice{Mode: ToolChoiceRequired}, false)
	if wire != "auto" {
		t.Errorf("expected downgrade to auto, got %v", wire)
	}
	if len(warnings) != 1 || warnings[0].Type != api.WarningUnsupported {
		t.Errorf("expected unsupported warning, got %v", warnings)
	}
}

func TestConvertResponseFormat_SchemaSupported(t *testing.T) {
	rf := &ResponseFormat{
		Type:   "json",
		Name:   "weather_report",
		Schema: map[string]any{"type": "object"},
	}

	wire, warnings := ConvertResponseFormat(rf, true)
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	m := wire.(map[string]any)
	if m["type"] != "json_schema" {
		t.Errorf("expected json_schema mode, got %v", m["type"])
	}
	js := m["json_schema"].(map[string]any)
	if js["name"] != "weather_report" {
		t.Errorf("expected schema name, got %v", js["name"])
	}
}

func TestConvertResponseFormat_SchemaFallback(t *testing.T) {
	rf := &ResponseFormat{Type: "json", Schema: map[string]any{"type": "object"}}

	wire, warnings := ConvertResponseFormat(rf, false)
	m := wire.(map[string]any)
	if m["type"] != "json_object" {
		t.Errorf("expected json_object fallback, got %v", m["type"])
	}
	if len(warnings) != 1 || warnings[0].Type != api.WarningCompatibility {
		t.Fatalf("expected compatibility warning, got %v", warnings)
	}
}

func TestConvertResponseFormat_TextIsNoop(t *testing.T) {
	if wire, _ := ConvertResponseFormat(nil, true); wire != nil {
		t.Errorf("expected nil for absent format, got %v", wire)
	}
	if wire, _ := ConvertResponseFormat(&ResponseFormat{Type: "text"}, true); wire != nil {
		t.Errorf("expected nil for text format, got %v", wire)
	}
}
