package orchestration

import (
	"github.com/rhuss/bruecke/pkg/provider"
)

// completionRequest is the request body for /completion. The conversation
// goes into the templating module's template; placeholder values travel
// separately in input_params.
type completionRequest struct {
	OrchestrationConfig orchestrationConfig    `json:"orchestration_config"`
	InputParams         map[string]any         `json:"input_params,omitempty"`
	MessagesHistory     []provider.ChatMessage `json:"messages_history,omitempty"`
}

type orchestrationConfig struct {
	ModuleConfigurations moduleConfigurations `json:"module_configurations"`
	Stream               bool                 `json:"stream,omitempty"`
}

// moduleConfigurations collects the per-module config blocks. The llm and
// templating blocks are always present; the remaining blocks are optional
// passthrough maps.
type moduleConfigurations struct {
	LLM         llmModuleConfig        `json:"llm_module_config"`
	Templating  templatingModuleConfig `json:"templating_module_config"`
	Masking     map[string]any         `json:"masking_module_config,omitempty"`
	Filtering   map[string]any         `json:"filtering_module_config,omitempty"`
	Grounding   map[string]any         `json:"grounding_module_config,omitempty"`
	Translation map[string]any         `json:"translation_module_config,omitempty"`
}

// llmModuleConfig selects the model and carries its wire-keyed parameters.
type llmModuleConfig struct {
	ModelName    string         `json:"model_name"`
	ModelParams  map[string]any `json:"model_params,omitempty"`
	ModelVersion string         `json:"model_version,omitempty"`
}

// templatingModuleConfig carries the converted conversation plus tool and
// response-format declarations. Defaults seed placeholders not present in
// input_params.
type templatingModuleConfig struct {
	Template       []provider.ChatMessage `json:"template"`
	Defaults       map[string]any         `json:"defaults,omitempty"`
	Tools          []provider.ChatTool    `json:"tools,omitempty"`
	ResponseFormat any                    `json:"response_format,omitempty"`
}

// completionResponse is the non-streaming response body. The generation
// outcome nests under orchestration_result in the familiar chat-completion
// shape; module_results carries opaque per-module diagnostics.
type completionResponse struct {
	RequestID           string              `json:"request_id"`
	ModuleResults       map[string]any      `json:"module_results,omitempty"`
	OrchestrationResult orchestrationResult `json:"orchestration_result"`
}

type orchestrationResult struct {
	ID      string              `json:"id"`
	Object  string              `json:"object"`
	Created int64               `json:"created"`
	Model   string              `json:"model"`
	Choices []resultChoice      `json:"choices"`
	Usage   *provider.ChatUsage `json:"usage,omitempty"`
}

type resultChoice struct {
	Index        int           `json:"index"`
	Message      resultMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type resultMessage struct {
	Role      string                  `json:"role"`
	Content   *string                 `json:"content"`
	ToolCalls []provider.ChatToolCall `json:"tool_calls,omitempty"`
}

// completionChunk is one SSE chunk of a streaming response. The delta
// stream nests under orchestration_result like its non-streaming sibling.
type completionChunk struct {
	RequestID           string             `json:"request_id"`
	ModuleResults       map[string]any     `json:"module_results,omitempty"`
	OrchestrationResult orchestrationChunk `json:"orchestration_result"`
}

type orchestrationChunk struct {
	ID      string              `json:"id"`
	Object  string              `json:"object"`
	Created int64               `json:"created"`
	Model   string              `json:"model"`
	Choices []chunkChoice       `json:"choices"`
	Usage   *provider.ChatUsage `json:"usage,omitempty"`
}

type chunkChoice struct {
	Index        int                     `json:"index"`
	Delta        provider.ChatChunkDelta `json:"delta"`
	FinishReason *string                 `json:"finish_reason"`
}
