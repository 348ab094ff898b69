package model

import (
	"context"
	"time"

	"github.com/rhuss/bruecke/pkg/api"
	"github.com/rhuss/bruecke/pkg/observability"
	"github.com/rhuss/bruecke/pkg/provider"
)

// GenerateOptions are the per-call options for Generate and Stream.
// ProviderOptions is the namespaced escape hatch for backend-specific
// overrides; only the "bruecke" namespace is consumed.
type GenerateOptions struct {
	provider.CallOptions

	ProviderOptions map[string]map[string]any
}

// LanguageModel is the provider-agnostic facade for one chat model. It is
// immutable after construction and safe for concurrent use; all per-call
// state lives in the Call handed to the strategy.
type LanguageModel struct {
	modelID  string
	settings provider.Settings
	chat     provider.Strategy
	orch     provider.Strategy
}

// NewLanguageModel creates a facade bound to both backend strategies.
func NewLanguageModel(modelID string, settings provider.Settings, chat, orch provider.Strategy) *LanguageModel {
	return &LanguageModel{
		modelID:  modelID,
		settings: settings,
		chat:     chat,
		orch:     orch,
	}
}

// ModelID returns the model identifier.
func (m *LanguageModel) ModelID() string {
	return m.modelID
}

// Generate performs one non-streaming generation call.
func (m *LanguageModel) Generate(ctx context.Context, opts GenerateOptions) (*api.Result, error) {
	call, err := m.buildCall(opts)
	if err != nil {
		return nil, err
	}
	strat := m.pick(call)

	start := time.Now()
	result, err := strat.Generate(ctx, call)
	observability.CallLatency.WithLabelValues(strat.Name(), m.modelID, "generate").
		Observe(time.Since(start).Seconds())
	if err != nil {
		observability.CallsTotal.WithLabelValues(strat.Name(), m.modelID, "generate", "error").Inc()
		return nil, err
	}

	observability.CallsTotal.WithLabelValues(strat.Name(), m.modelID, "generate", "ok").Inc()
	observability.TokensTotal.WithLabelValues(strat.Name(), m.modelID, "input").
		Add(float64(result.Usage.InputTokens.Total))
	observability.TokensTotal.WithLabelValues(strat.Name(), m.modelID, "output").
		Add(float64(result.Usage.OutputTokens.Total))
	for _, w := range result.Warnings {
		observability.WarningsTotal.WithLabelValues(string(w.Type)).Inc()
	}
	return result, nil
}

// Stream opens one streaming generation call. The returned event channel is
// instrumented: token and warning counters update as the stream progresses,
// and the active-streams gauge drops when the stream closes.
func (m *LanguageModel) Stream(ctx context.Context, opts GenerateOptions) (*provider.StreamResponse, error) {
	call, err := m.buildCall(opts)
	if err != nil {
		return nil, err
	}
	strat := m.pick(call)

	start := time.Now()
	resp, err := strat.Stream(ctx, call)
	if err != nil {
		observability.CallsTotal.WithLabelValues(strat.Name(), m.modelID, "stream", "error").Inc()
		return nil, err
	}

	return instrumentStream(resp, strat.Name(), m.modelID, start), nil
}

func (m *LanguageModel) buildCall(opts GenerateOptions) (*provider.Call, error) {
	perCall, err := parseNamespace(opts.ProviderOptions)
	if err != nil {
		return nil, err
	}
	return &provider.Call{
		ModelID:  m.modelID,
		Options:  opts.CallOptions,
		Settings: m.settings,
		Provider: perCall,
	}, nil
}

// pick selects the backend strategy. A per-call useOrchestration override
// wins; otherwise orchestration is chosen when settings request it or when
// the call carries orchestration-only configuration.
func (m *LanguageModel) pick(call *provider.Call) provider.Strategy {
	if call.Provider != nil && call.Provider.UseOrchestration != nil {
		if *call.Provider.UseOrchestration {
			return m.orch
		}
		return m.chat
	}
	if m.settings.UseOrchestration {
		return m.orch
	}
	if hasOrchestrationConfig(call) {
		return m.orch
	}
	return m.chat
}

// hasOrchestrationConfig reports whether the call carries configuration
// only the orchestration dialect can serve.
func hasOrchestrationConfig(call *provider.Call) bool {
	s := call.Settings
	if len(s.Masking)+len(s.Filtering)+len(s.Grounding)+len(s.Translation)+len(s.TemplateDefaults) > 0 {
		return true
	}
	if p := call.Provider; p != nil {
		if len(p.Masking)+len(p.Filtering)+len(p.Grounding)+len(p.Translation)+len(p.TemplateValues) > 0 {
			return true
		}
	}
	return false
}

// parseNamespace extracts and validates the bruecke provider-options bag.
func parseNamespace(opts map[string]map[string]any) (*provider.ProviderCallOptions, error) {
	if opts == nil {
		return nil, nil
	}
	raw, ok := opts[provider.OptionsNamespace]
	if !ok {
		return nil, nil
	}
	return provider.ParseProviderOptions(raw)
}

// instrumentStream pipes the strategy's event channel through the metrics
// layer. The returned response is a drop-in replacement.
func instrumentStream(resp *provider.StreamResponse, strategy, modelID string, start time.Time) *provider.StreamResponse {
	out := make(chan api.StreamEvent, 8)
	observability.StreamsActive.Inc()

	go func() {
		defer close(out)
		defer observability.StreamsActive.Dec()

		status := "ok"
		for event := range resp.Events {
			switch event.Type {
			case api.EventStreamStart:
				for _, w := range event.Warnings {
					observability.WarningsTotal.WithLabelValues(string(w.Type)).Inc()
				}
			case api.EventFinish:
				if event.Usage != nil {
					observability.TokensTotal.WithLabelValues(strategy, modelID, "input").
						Add(float64(event.Usage.InputTokens.Total))
					observability.TokensTotal.WithLabelValues(strategy, modelID, "output").
						Add(float64(event.Usage.OutputTokens.Total))
				}
			case api.EventError:
				status = "error"
			}
			out <- event
		}

		observability.CallLatency.WithLabelValues(strategy, modelID, "stream").
			Observe(time.Since(start).Seconds())
		observability.CallsTotal.WithLabelValues(strategy, modelID, "stream", status).Inc()
	}()

	return &provider.StreamResponse{
		Events:  out,
		Request: resp.Request,
	}
}
