package chatcompl

import (
	"encoding/json"

	"github.com/rhuss/bruecke/pkg/provider"
)

// chatCompletionRequest is the request body for /chat/completions. Sampling
// parameters live in Params and merge into the serialized body, so unknown
// vendor keys pass through to the backend unblocked.
type chatCompletionRequest struct {
	Model          string                 `json:"model"`
	Messages       []provider.ChatMessage `json:"messages"`
	Tools          []provider.ChatTool    `json:"tools,omitempty"`
	ToolChoice     any                    `json:"tool_choice,omitempty"`
	ResponseFormat any                    `json:"response_format,omitempty"`
	Stream         bool                   `json:"stream,omitempty"`
	StreamOptions  *chatStreamOptions     `json:"stream_options,omitempty"`

	Params map[string]any `json:"-"`
}

// reservedKeys are owned by the typed struct fields and never overridden
// by passthrough parameters.
var reservedKeys = map[string]struct{}{
	"model":           {},
	"messages":        {},
	"tools":           {},
	"tool_choice":     {},
	"response_format": {},
	"stream":          {},
	"stream_options":  {},
}

// MarshalJSON merges Params into the serialized request body.
func (r chatCompletionRequest) MarshalJSON() ([]byte, error) {
	type plain chatCompletionRequest
	base, err := json.Marshal(plain(r))
	if err != nil {
		return nil, err
	}
	if len(r.Params) == 0 {
		return base, nil
	}

	var body map[string]any
	if err := json.Unmarshal(base, &body); err != nil {
		return nil, err
	}
	for key, val := range r.Params {
		if _, reserved := reservedKeys[key]; reserved {
			continue
		}
		body[key] = val
	}
	return json.Marshal(body)
}

// chatStreamOptions controls streaming behavior.
type chatStreamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// chatCompletionResponse is the non-streaming response body.
type chatCompletionResponse struct {
	ID      string              `json:"id"`
	Object  string              `json:"object"`
	Created int64               `json:"created"`
	Model   string              `json:"model"`
	Choices []chatChoice        `json:"choices"`
	Usage   *provider.ChatUsage `json:"usage,omitempty"`
}

// chatChoice is one completion choice.
type chatChoice struct {
	Index        int                 `json:"index"`
	Message      chatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"`
}

// chatResponseMessage is the assistant message returned by the backend.
type chatResponseMessage struct {
	Role      string                  `json:"role"`
	Content   *string                 `json:"content"`
	ToolCalls []provider.ChatToolCall `json:"tool_calls,omitempty"`
}

// chatCompletionChunk is one SSE chunk of a streaming response.
type chatCompletionChunk struct {
	ID      string              `json:"id"`
	Object  string              `json:"object"`
	Created int64               `json:"created"`
	Model   string              `json:"model"`
	Choices []chatChunkChoice   `json:"choices"`
	Usage   *provider.ChatUsage `json:"usage,omitempty"`
}

// chatChunkChoice is one streamed choice delta.
type chatChunkChoice struct {
	Index        int                     `json:"index"`
	Delta        provider.ChatChunkDelta `json:"delta"`
	FinishReason *string                 `json:"finish_reason"`
}

// embeddingRequest is the request body for /embeddings. Params merges in
// the wire-keyed embedding parameters (encoding_format, dimensions, ...).
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`

	Params map[string]any `json:"-"`
}

var embeddingReservedKeys = map[string]struct{}{
	"model": {},
	"input": {},
}

// MarshalJSON merges Params into the serialized request body.
func (r embeddingRequest) MarshalJSON() ([]byte, error) {
	type plain embeddingRequest
	base, err := json.Marshal(plain(r))
	if err != nil {
		return nil, err
	}
	if len(r.Params) == 0 {
		return base, nil
	}

	var body map[string]any
	if err := json.Unmarshal(base, &body); err != nil {
		return nil, err
	}
	for key, val := range r.Params {
		if _, reserved := embeddingReservedKeys[key]; reserved {
			continue
		}
		body[key] = val
	}
	return json.Marshal(body)
}

// embeddingResponse is the response body of /embeddings.
type embeddingResponse struct {
	Object string          `json:"object"`
	Model  string          `json:"model"`
	Data   []embeddingData `json:"data"`
	Usage  *embeddingUsage `json:"usage,omitempty"`
}

// embeddingData is one embedding with its input position.
type embeddingData struct {
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

// embeddingUsage holds token usage for an embedding call.
type embeddingUsage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}
