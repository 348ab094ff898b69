package model

import (
	"errors"

	"github.com/rhuss/bruecke/pkg/config"
	"github.com/rhuss/bruecke/pkg/provider"
	"github.com/rhuss/bruecke/pkg/provider/chatcompl"
	"github.com/rhuss/bruecke/pkg/provider/orchestration"
)

// Provider builds model facades from resolved configuration. Both backend
// strategies are constructed once and shared across facades.
type Provider struct {
	cfg  *config.Config
	chat *chatcompl.Strategy
	orch *orchestration.Strategy
}

// NewProvider creates a Provider from loaded configuration.
func NewProvider(cfg *config.Config) (*Provider, error) {
	chatDest := provider.Destination{
		BaseURL: cfg.Destination.BaseURL,
		APIKey:  cfg.Destination.APIKey,
		Timeout: cfg.Destination.Timeout,
	}
	chat, err := chatcompl.New(chatDest)
	if err != nil {
		return nil, err
	}

	orchDest := chatDest
	if cfg.Destination.OrchestrationURL != "" {
		orchDest.BaseURL = cfg.Destination.OrchestrationURL
	}
	orch, err := orchestration.New(orchDest)
	if err != nil {
		return nil, err
	}

	return &Provider{cfg: cfg, chat: chat, orch: orch}, nil
}

// LanguageModel returns a facade for the given model. An empty modelID
// falls back to the configured default model.
func (p *Provider) LanguageModel(modelID string) *LanguageModel {
	if modelID == "" {
		modelID = p.cfg.Defaults.Model
	}
	return NewLanguageModel(modelID, p.settingsFor(modelID), p.chat, p.orch)
}

// EmbeddingModel returns an embedding facade for the given model.
func (p *Provider) EmbeddingModel(modelID string) *EmbeddingModel {
	if modelID == "" {
		modelID = p.cfg.Defaults.Model
	}
	return NewEmbeddingModel(modelID, p.settingsFor(modelID), p.chat)
}

// Close releases both strategies' connections.
func (p *Provider) Close() error {
	return errors.Join(p.chat.Close(), p.orch.Close())
}

// settingsFor resolves the effective settings for one model: global
// defaults overlaid with the model's config entry, when one exists.
func (p *Provider) settingsFor(modelID string) provider.Settings {
	s := provider.Settings{
		UseOrchestration:     p.cfg.Defaults.UseOrchestration,
		IncludeReasoning:     p.cfg.Defaults.IncludeReasoning,
		MaxEmbeddingsPerCall: p.cfg.Defaults.MaxEmbeddingsPerCall,
	}

	m := p.cfg.Model(modelID)
	if m == nil {
		return s
	}

	s.ModelParams = m.Params
	s.ModelVersion = m.Version
	s.EmbeddingParams = m.EmbeddingParams
	s.TemplateDefaults = m.TemplateDefaults
	s.Masking = m.Masking
	s.Filtering = m.Filtering
	s.Grounding = m.Grounding
	s.Translation = m.Translation

	if m.UseOrchestration != nil {
		s.UseOrchestration = *m.UseOrchestration
	}
	if m.IncludeReasoning != nil {
		s.IncludeReasoning = *m.IncludeReasoning
	}
	if m.MaxEmbeddingsPerCall > 0 {
		s.MaxEmbeddingsPerCall = m.MaxEmbeddingsPerCall
	}
	return s
}
