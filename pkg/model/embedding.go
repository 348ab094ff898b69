package model

import (
	"context"
	"time"

	"github.com/rhuss/bruecke/pkg/api"
	"github.com/rhuss/bruecke/pkg/observability"
	"github.com/rhuss/bruecke/pkg/provider"
)

// defaultMaxEmbeddingsPerCall is the backend's batch ceiling when settings
// leave it open.
const defaultMaxEmbeddingsPerCall = 2048

// EmbeddingModel is the provider-agnostic facade for one embedding model.
type EmbeddingModel struct {
	modelID  string
	settings provider.Settings
	embedder provider.EmbeddingStrategy
}

// NewEmbeddingModel creates a facade bound to the embedding strategy.
func NewEmbeddingModel(modelID string, settings provider.Settings, embedder provider.EmbeddingStrategy) *EmbeddingModel {
	return &EmbeddingModel{
		modelID:  modelID,
		settings: settings,
		embedder: embedder,
	}
}

// ModelID returns the model identifier.
func (m *EmbeddingModel) ModelID() string {
	return m.modelID
}

// MaxEmbeddingsPerCall returns the batch ceiling for one call.
func (m *EmbeddingModel) MaxEmbeddingsPerCall() int {
	if m.settings.MaxEmbeddingsPerCall > 0 {
		return m.settings.MaxEmbeddingsPerCall
	}
	return defaultMaxEmbeddingsPerCall
}

// Embed embeds the given values in one backend call. The batch ceiling is
// enforced before any network I/O; embeddings come back in input order.
func (m *EmbeddingModel) Embed(ctx context.Context, values []string, providerOptions map[string]map[string]any) (*api.EmbedResult, error) {
	perCall, err := parseNamespace(providerOptions)
	if err != nil {
		return nil, err
	}

	var callParams map[string]any
	if perCall != nil {
		callParams = perCall.EmbeddingParams
	}
	params, err := provider.EmbeddingParams(m.settings, callParams)
	if err != nil {
		return nil, err
	}

	call := &provider.EmbedCall{
		ModelID:    m.modelID,
		Values:     values,
		Settings:   m.settings,
		MaxPerCall: m.MaxEmbeddingsPerCall(),
		Params:     params,
	}

	start := time.Now()
	result, err := m.embedder.Embed(ctx, call)
	observability.CallLatency.WithLabelValues("chat-completion", m.modelID, "embed").
		Observe(time.Since(start).Seconds())
	if err != nil {
		observability.CallsTotal.WithLabelValues("chat-completion", m.modelID, "embed", "error").Inc()
		return nil, err
	}

	observability.CallsTotal.WithLabelValues("chat-completion", m.modelID, "embed", "ok").Inc()
	observability.TokensTotal.WithLabelValues("chat-completion", m.modelID, "input").
		Add(float64(result.Usage.Tokens))
	return result, nil
}
