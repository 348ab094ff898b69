package model

import (
	"context"
	"testing"

	"github.com/rhuss/bruecke/pkg/api"
	"github.com/rhuss/bruecke/pkg/provider"
)

// fakeStrategy records the calls it receives and plays back canned results.
type fakeStrategy struct {
	name   string
	calls  []*provider.Call
	result *api.Result
	events []api.StreamEvent
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Generate(ctx context.Context, call *provider.Call) (*api.Result, error) {
	f.calls = append(f.calls, call)
	if f.result != nil {
		return f.result, nil
	}
	return &api.Result{FinishReason: api.FinishReason{Unified: api.FinishStop}}, nil
}

func (f *fakeStrategy) Stream(ctx context.Context, call *provider.Call) (*provider.StreamResponse, error) {
	f.calls = append(f.calls, call)
	ch := make(chan api.StreamEvent, len(f.events))
	for _, e := range f.events {
		ch <- e
	}
	close(ch)
	return &provider.StreamResponse{Events: ch}, nil
}

func newModel(settings provider.Settings) (*LanguageModel, *fakeStrategy, *fakeStrategy) {
	chat := &fakeStrategy{name: "chat-completion"}
	orch := &fakeStrategy{name: "orchestration"}
	return NewLanguageModel("gpt-4o", settings, chat, orch), chat, orch
}

func prompt(text string) provider.CallOptions {
	return provider.CallOptions{
		Messages: []api.Message{api.UserMessage(api.TextPart{Text: text})},
	}
}

func TestGenerateDefaultsToChatCompletion(t *testing.T) {
	m, chat, orch := newModel(provider.Settings{})

	if _, err := m.Generate(context.Background(), GenerateOptions{CallOptions: prompt("hi")}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(chat.calls) != 1 || len(orch.calls) != 0 {
		t.Errorf("calls: chat=%d orch=%d, want chat only", len(chat.calls), len(orch.calls))
	}
}

func TestGeneratePicksOrchestrationFromSettings(t *testing.T) {
	m, chat, orch := newModel(provider.Settings{UseOrchestration: true})

	if _, err := m.Generate(context.Background(), GenerateOptions{CallOptions: prompt("hi")}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(orch.calls) != 1 || len(chat.calls) != 0 {
		t.Errorf("calls: chat=%d orch=%d, want orchestration only", len(chat.calls), len(orch.calls))
	}
}

func TestGeneratePicksOrchestrationFromModuleConfig(t *testing.T) {
	m, chat, orch := newModel(provider.Settings{
		Filtering: map[string]any{"input": map[string]any{}},
	})

	if _, err := m.Generate(context.Background(), GenerateOptions{CallOptions: prompt("hi")}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(orch.calls) != 1 || len(chat.calls) != 0 {
		t.Errorf("calls: chat=%d orch=%d, want orchestration only", len(chat.calls), len(orch.calls))
	}
}

func TestGeneratePerCallOverrideWins(t *testing.T) {
	// Settings request orchestration, the call explicitly opts out.
	m, chat, orch := newModel(provider.Settings{UseOrchestration: true})

	opts := GenerateOptions{
		CallOptions: prompt("hi"),
		ProviderOptions: map[string]map[string]any{
			"bruecke": {"useOrchestration": false},
		},
	}
	if _, err := m.Generate(context.Background(), opts); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(chat.calls) != 1 || len(orch.calls) != 0 {
		t.Errorf("calls: chat=%d orch=%d, want chat only", len(chat.calls), len(orch.calls))
	}
}

func TestGeneratePerCallTemplateValuesPickOrchestration(t *testing.T) {
	m, chat, orch := newModel(provider.Settings{})

	opts := GenerateOptions{
		CallOptions: prompt("hi"),
		ProviderOptions: map[string]map[string]any{
			"bruecke": {"templateValues": map[string]any{"name": "Ada"}},
		},
	}
	if _, err := m.Generate(context.Background(), opts); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(orch.calls) != 1 || len(chat.calls) != 0 {
		t.Errorf("calls: chat=%d orch=%d, want orchestration only", len(chat.calls), len(orch.calls))
	}
}

func TestGenerateParsesProviderOptions(t *testing.T) {
	m, chat, _ := newModel(provider.Settings{})

	opts := GenerateOptions{
		CallOptions: prompt("hi"),
		ProviderOptions: map[string]map[string]any{
			"bruecke": {"modelParams": map[string]any{"logit_bias": map[string]any{"1": -1}}},
		},
	}
	if _, err := m.Generate(context.Background(), opts); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	call := chat.calls[0]
	if call.Provider == nil || call.Provider.ModelParams["logit_bias"] == nil {
		t.Errorf("provider options not parsed: %+v", call.Provider)
	}
	if call.ModelID != "gpt-4o" {
		t.Errorf("modelID = %q", call.ModelID)
	}
}

func TestGenerateUnknownProviderOption(t *testing.T) {
	m, chat, _ := newModel(provider.Settings{})

	opts := GenerateOptions{
		CallOptions: prompt("hi"),
		ProviderOptions: map[string]map[string]any{
			"bruecke": {"nope": 1},
		},
	}
	if _, err := m.Generate(context.Background(), opts); err == nil {
		t.Fatal("expected error for unknown provider option")
	}
	if len(chat.calls) != 0 {
		t.Error("strategy must not be called when option parsing fails")
	}
}

func TestGenerateForeignNamespaceIgnored(t *testing.T) {
	m, chat, _ := newModel(provider.Settings{})

	opts := GenerateOptions{
		CallOptions: prompt("hi"),
		ProviderOptions: map[string]map[string]any{
			"otherProvider": {"anything": true},
		},
	}
	if _, err := m.Generate(context.Background(), opts); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if chat.calls[0].Provider != nil {
		t.Errorf("foreign namespace parsed: %+v", chat.calls[0].Provider)
	}
}

func TestStreamPassesEventsThrough(t *testing.T) {
	events := []api.StreamEvent{
		{Type: api.EventStreamStart},
		{Type: api.EventTextStart, BlockID: "blk_1"},
		{Type: api.EventTextDelta, BlockID: "blk_1", Delta: "hi"},
		{Type: api.EventTextEnd, BlockID: "blk_1"},
		{Type: api.EventFinish, FinishReason: api.FinishReason{Unified: api.FinishStop}, Usage: &api.Usage{}},
	}
	chat := &fakeStrategy{name: "chat-completion", events: events}
	orch := &fakeStrategy{name: "orchestration"}
	m := NewLanguageModel("gpt-4o", provider.Settings{}, chat, orch)

	resp, err := m.Stream(context.Background(), GenerateOptions{CallOptions: prompt("hi")})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	var got []api.StreamEvent
	for e := range resp.Events {
		got = append(got, e)
	}
	if len(got) != len(events) {
		t.Fatalf("got %d events, want %d", len(got), len(events))
	}
	for i := range events {
		if got[i].Type != events[i].Type || got[i].Delta != events[i].Delta {
			t.Errorf("event %d = %+v, want %+v", i, got[i], events[i])
		}
	}
}
