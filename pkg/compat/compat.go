// Package compat converts the unified result and stream shapes into the
// older v1 protocol shapes. Every conversion is a one-way pure function per
// field group; no state, no runtime shape mutation.
package compat

import (
	"fmt"

	"github.com/rhuss/bruecke/pkg/api"
)

// V1Usage is the older flat token accounting shape.
type V1Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// V1ToolCall is the older tool call shape.
type V1ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// V1Result is the older flat generation result.
type V1Result struct {
	Text         string       `json:"text"`
	ToolCalls    []V1ToolCall `json:"tool_calls,omitempty"`
	FinishReason string       `json:"finish_reason"`
	Usage        V1Usage      `json:"usage"`
	Warnings     []string     `json:"warnings,omitempty"`
}

// V1StreamPart is the older flat stream event. TextDelta carries text and
// tool-argument fragments alike; the part type disambiguates.
type V1StreamPart struct {
	Type         string   `json:"type"`
	TextDelta    string   `json:"text_delta,omitempty"`
	ToolCallID   string   `json:"tool_call_id,omitempty"`
	ToolName     string   `json:"tool_name,omitempty"`
	Arguments    string   `json:"arguments,omitempty"`
	FinishReason string   `json:"finish_reason,omitempty"`
	Usage        *V1Usage `json:"usage,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// ToV1FinishReason maps the unified finish classification to the older
// snake_case string form.
func ToV1FinishReason(fr api.FinishReason) string {
	switch fr.Unified {
	case api.FinishStop:
		return "stop"
	case api.FinishLength:
		return "length"
	case api.FinishContentFilter:
		return "content_filter"
	case api.FinishToolCalls:
		return "tool_calls"
	case api.FinishError:
		return "error"
	default:
		return "unknown"
	}
}

// ToV1Usage flattens the unified usage. The v1 protocol reported a total,
// so it is reconstructed from both directions.
func ToV1Usage(u api.Usage) V1Usage {
	return V1Usage{
		PromptTokens:     u.InputTokens.Total,
		CompletionTokens: u.OutputTokens.Total,
		TotalTokens:      u.InputTokens.Total + u.OutputTokens.Total,
	}
}

// ToV1Warning renders a warning as the older plain-string form.
func ToV1Warning(w api.Warning) string {
	switch w.Type {
	case api.WarningUnsupported:
		if w.Details != "" {
			return fmt.Sprintf("unsupported: %s (%s)", w.Feature, w.Details)
		}
		return fmt.Sprintf("unsupported: %s", w.Feature)
	case api.WarningCompatibility:
		if w.Details != "" {
			return fmt.Sprintf("compatibility: %s (%s)", w.Feature, w.Details)
		}
		return fmt.Sprintf("compatibility: %s", w.Feature)
	default:
		return w.Message
	}
}

// ToV1Result flattens a unified result into the older shape.
func ToV1Result(r *api.Result) V1Result {
	out := V1Result{
		Text:         r.Text(),
		FinishReason: ToV1FinishReason(r.FinishReason),
		Usage:        ToV1Usage(r.Usage),
	}
	for _, tc := range r.ToolCalls() {
		out.ToolCalls = append(out.ToolCalls, V1ToolCall{
			ID:        tc.ToolCallID,
			Name:      tc.ToolName,
			Arguments: tc.Input,
		})
	}
	for _, w := range r.Warnings {
		out.Warnings = append(out.Warnings, ToV1Warning(w))
	}
	return out
}

// ToV1StreamPart maps one unified stream event to the older part shape.
// Block start/end events have no v1 counterpart and report ok=false; the
// caller skips them.
func ToV1StreamPart(e api.StreamEvent) (V1StreamPart, bool) {
	switch e.Type {
	case api.EventTextDelta:
		return V1StreamPart{Type: "text-delta", TextDelta: e.Delta}, true
	case api.EventToolInputDelta:
		return V1StreamPart{Type: "tool-call-delta", TextDelta: e.Delta, ToolCallID: e.ToolCallID}, true
	case api.EventToolCall:
		return V1StreamPart{
			Type:       "tool-call",
			ToolCallID: e.ToolCallID,
			ToolName:   e.ToolName,
			Arguments:  e.Input,
		}, true
	case api.EventFinish:
		part := V1StreamPart{
			Type:         "finish",
			FinishReason: ToV1FinishReason(e.FinishReason),
		}
		if e.Usage != nil {
			usage := ToV1Usage(*e.Usage)
			part.Usage = &usage
		}
		return part, true
	case api.EventError:
		msg := ""
		if e.Err != nil {
			msg = e.Err.Error()
		}
		return V1StreamPart{Type: "error", Error: msg}, true
	default:
		return V1StreamPart{}, false
	}
}
