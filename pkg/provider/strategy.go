package provider

import (
	"context"
	"time"

	"github.com/rhuss/bruecke/pkg/api"
)

// Destination describes where a strategy sends its requests. Credential
// resolution happens upstream in pkg/config; strategies only consume the
// resolved values.
type Destination struct {
	// BaseURL is the backend root URL, without a trailing slash.
	BaseURL string

	// APIKey for backend authentication (optional).
	APIKey string

	// Timeout for non-streaming HTTP requests. Streaming requests rely on
	// context cancellation instead.
	Timeout time.Duration
}

// Tool is a provider-agnostic tool definition. Only "function" tools are
// portable; other types are dropped with a warning during conversion.
type Tool struct {
	// Type is "function" for portable tools.
	Type string

	Name        string
	Description string

	// InputSchema is a JSON-schema-shaped value: a json.RawMessage, a
	// map, or any value that serializes to a JSON schema object.
	InputSchema any
}

// ToolChoiceMode selects how the backend may use tools.
type ToolChoiceMode string

const (
	ToolChoiceAuto     ToolChoiceMode = "auto"
	ToolChoiceNone     ToolChoiceMode = "none"
	ToolChoiceRequired ToolChoiceMode = "required"
	ToolChoiceTool     ToolChoiceMode = "tool"
)

// ToolChoice constrains tool usage for one call. ToolName is set only for
// ToolChoiceTool.
type ToolChoice struct {
	Mode     ToolChoiceMode
	ToolName string
}

// ResponseFormat requests structured output. Type is "text" or "json";
// Schema optionally carries a JSON schema for json-typed formats.
type ResponseFormat struct {
	Type        string
	Schema      any
	Name        string
	Description string
}

// CallOptions are the per-call, provider-agnostic generation options.
type CallOptions struct {
	Messages []api.Message

	Temperature      *float64
	MaxOutputTokens  *int
	TopP             *float64
	FrequencyPenalty *float64
	PresencePenalty  *float64
	Seed             *int64
	StopSequences    []string

	Tools          []Tool
	ToolChoice     *ToolChoice
	ResponseFormat *ResponseFormat
}

// Settings are the model-level defaults configured on a facade. Per-call
// options and provider options layer on top of them.
type Settings struct {
	// ModelParams holds wire-keyed backend parameters layered below
	// per-call options. Unknown keys pass through unchanged.
	ModelParams map[string]any

	// ModelVersion pins a model version on the orchestration dialect.
	ModelVersion string

	// UseOrchestration routes calls to the orchestration dialect by default.
	UseOrchestration bool

	// IncludeReasoning renders assistant reasoning parts as inline markup.
	IncludeReasoning bool

	// ToolChoice is a settings-level default. A call-time choice wins and
	// emits a compatibility warning when both are set.
	ToolChoice *ToolChoice

	// Orchestration module configuration blocks, passed through to the
	// backend as-is. Shaping only; their semantics live server-side.
	Masking     map[string]any
	Filtering   map[string]any
	Grounding   map[string]any
	Translation map[string]any

	// TemplateDefaults seeds the orchestration templating module.
	TemplateDefaults map[string]any

	// MaxEmbeddingsPerCall caps embedding batch size. Zero means the
	// backend default (2048).
	MaxEmbeddingsPerCall int

	// EmbeddingParams holds wire-keyed embedding parameters.
	EmbeddingParams map[string]any
}

// Call is everything one generation call needs: identity, options,
// settings, and the parsed per-call provider options. A Call is built
// fresh per invocation and owned by the strategy method it is passed to.
type Call struct {
	ModelID  string
	Options  CallOptions
	Settings Settings

	// Provider holds parsed per-call provider options; nil when the
	// caller supplied none.
	Provider *ProviderCallOptions
}

// IncludeReasoning resolves the reasoning-inclusion flag with per-call
// precedence over settings.
func (c *Call) IncludeReasoning() bool {
	if c.Provider != nil && c.Provider.IncludeReasoning != nil {
		return *c.Provider.IncludeReasoning
	}
	return c.Settings.IncludeReasoning
}

// StreamResponse is the handle returned by Strategy.Stream: the unified
// event channel plus the outbound request body for inspection.
type StreamResponse struct {
	Events  <-chan api.StreamEvent
	Request api.RequestInfo
}

// Strategy is an interchangeable backend implementation of the generate
// and stream contract. Implementations must be safe for concurrent use;
// all per-call state lives in the Call and in stream-local accumulators.
type Strategy interface {
	// Name returns the strategy identifier (e.g., "chat-completion").
	Name() string

	// Generate performs one non-streaming call and maps the backend
	// response into the unified result.
	Generate(ctx context.Context, call *Call) (*api.Result, error)

	// Stream opens a streaming call and transforms the backend's native
	// event sequence into the unified block-lifecycle protocol. Failures
	// during iteration arrive as error events on the channel, which is
	// always closed when the stream terminates.
	Stream(ctx context.Context, call *Call) (*StreamResponse, error)
}

// EmbedCall is everything one embedding call needs.
type EmbedCall struct {
	ModelID  string
	Values   []string
	Settings Settings

	// MaxPerCall is the batch ceiling, resolved by the facade. The
	// strategy rejects oversized batches before any network call.
	MaxPerCall int

	// Params holds parsed wire-keyed embedding overrides for this call.
	Params map[string]any
}

// EmbeddingStrategy is the embedding counterpart of Strategy.
type EmbeddingStrategy interface {
	Embed(ctx context.Context, call *EmbedCall) (*api.EmbedResult, error)
}
