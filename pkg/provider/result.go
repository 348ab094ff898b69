package provider

import "github.com/rhuss/bruecke/pkg/api"

// MapFinishReason normalizes a backend finish reason string. The raw value
// is preserved alongside the unified classification.
func MapFinishReason(raw string) api.FinishReason {
	fr := api.FinishReason{Raw: raw}
	switch raw {
	case "stop":
		fr.Unified = api.FinishStop
	case "length":
		fr.Unified = api.FinishLength
	case "content_filter":
		fr.Unified = api.FinishContentFilter
	case "tool_calls", "function_call":
		fr.Unified = api.FinishToolCalls
	case "error":
		fr.Unified = api.FinishError
	default:
		fr.Unified = api.FinishOther
	}
	return fr
}

// UsageFromChat maps backend token counts into the unified usage shape.
// These backends report totals only; the detail fields stay nil.
func UsageFromChat(u *ChatUsage) api.Usage {
	if u == nil {
		return api.Usage{}
	}
	return api.Usage{
		InputTokens:  api.TokenUsage{Total: u.PromptTokens},
		OutputTokens: api.OutputTokenUsage{Total: u.CompletionTokens},
	}
}

// ContentBlocks builds the ordered unified content of a non-streaming
// response: the text block first (when non-empty), then one tool-call
// block per backend tool call. A tool call arriving without an id is
// assigned a fresh one.
func ContentBlocks(text string, toolCalls []ChatToolCall) []api.ContentBlock {
	var blocks []api.ContentBlock
	if text != "" {
		blocks = append(blocks, api.TextBlock{Text: text})
	}
	for _, tc := range toolCalls {
		id := tc.ID
		if id == "" {
			id = api.NewCallID()
		}
		blocks = append(blocks, api.ToolCallBlock{
			ToolCallID: id,
			ToolName:   tc.Function.Name,
			Input:      tc.Function.Arguments,
		})
	}
	return blocks
}
