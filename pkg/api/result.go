package api

import (
	"net/http"
	"time"
)

// ContentBlock is one ordered block of generated output. The concrete
// types are TextBlock and ToolCallBlock.
type ContentBlock interface {
	isContentBlock()
}

// TextBlock is a run of generated text.
type TextBlock struct {
	Text string
}

func (TextBlock) isContentBlock() {}

// ToolCallBlock is a completed tool invocation requested by the model.
// Input is the raw JSON argument string as produced by the backend.
type ToolCallBlock struct {
	ToolCallID string
	ToolName   string
	Input      string
}

func (ToolCallBlock) isContentBlock() {}

// TokenUsage accounts for prompt-side tokens. The backends served by this
// layer report only Total; the detail fields stay nil and callers must not
// assume they are populated.
type TokenUsage struct {
	Total      int
	NoCache    *int
	CacheRead  *int
	CacheWrite *int
}

// OutputTokenUsage accounts for completion-side tokens. Only Total is
// reported by these backends.
type OutputTokenUsage struct {
	Total     int
	Text      *int
	Reasoning *int
}

// Usage is the token accounting for one generation call.
type Usage struct {
	InputTokens  TokenUsage
	OutputTokens OutputTokenUsage
}

// FinishKind is the normalized classification of why generation stopped.
type FinishKind string

const (
	FinishStop          FinishKind = "stop"
	FinishLength        FinishKind = "length"
	FinishContentFilter FinishKind = "content-filter"
	FinishToolCalls     FinishKind = "tool-calls"
	FinishError         FinishKind = "error"
	FinishOther         FinishKind = "other"
)

// FinishReason pairs the normalized finish classification with the
// backend's native reason string, when one was reported.
type FinishReason struct {
	Unified FinishKind
	Raw     string
}

// WarningType classifies a non-fatal degradation.
type WarningType string

const (
	WarningUnsupported   WarningType = "unsupported"
	WarningCompatibility WarningType = "compatibility"
	WarningOther         WarningType = "other"
)

// Warning records a requested feature or parameter the active backend
// could not honor. Warnings are collected and surfaced on results and
// streams, never raised as errors.
type Warning struct {
	Type    WarningType
	Feature string
	Details string
	Message string
}

// UnsupportedWarning builds a Warning for a feature the backend cannot serve.
func UnsupportedWarning(feature, details string) Warning {
	return Warning{Type: WarningUnsupported, Feature: feature, Details: details}
}

// CompatibilityWarning builds a Warning for a feature served with degraded fidelity.
func CompatibilityWarning(feature, details string) Warning {
	return Warning{Type: WarningCompatibility, Feature: feature, Details: details}
}

// OtherWarning builds a free-form Warning.
func OtherWarning(message string) Warning {
	return Warning{Type: WarningOther, Message: message}
}

// RequestInfo exposes the outbound request body for inspection.
type RequestInfo struct {
	Body []byte
}

// ResponseInfo carries backend response identity and raw headers.
type ResponseInfo struct {
	ID        string
	ModelID   string
	Timestamp time.Time
	Headers   http.Header
}

// Result is the unified outcome of a non-streaming generation call.
type Result struct {
	Content          []ContentBlock
	FinishReason     FinishReason
	Usage            Usage
	Warnings         []Warning
	ProviderMetadata map[string]any
	Request          RequestInfo
	Response         ResponseInfo
}

// Text concatenates all text blocks of the result, in order.
func (r *Result) Text() string {
	var out string
	for _, b := range r.Content {
		if tb, ok := b.(TextBlock); ok {
			out += tb.Text
		}
	}
	return out
}

// ToolCalls returns the tool-call blocks of the result, in order.
func (r *Result) ToolCalls() []ToolCallBlock {
	var calls []ToolCallBlock
	for _, b := range r.Content {
		if tc, ok := b.(ToolCallBlock); ok {
			calls = append(calls, tc)
		}
	}
	return calls
}

// EmbeddingUsage is the token accounting for one embedding call.
type EmbeddingUsage struct {
	Tokens int
}

// EmbedResult is the unified outcome of an embedding call. Embeddings are
// ordered to match the input values.
type EmbedResult struct {
	Embeddings       [][]float32
	Usage            EmbeddingUsage
	Warnings         []Warning
	ProviderMetadata map[string]any
}
