package provider

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rhuss/bruecke/pkg/api"
)

// ConvertOptions control message conversion.
type ConvertOptions struct {
	// IncludeReasoning renders assistant reasoning parts as inline
	// <think>...</think> markup prepended to the message text. When
	// false, reasoning parts are dropped entirely.
	IncludeReasoning bool
}

// imageMediaTypes is the known-good allowlist. Types outside it still
// convert, with an advisory log, because backends keep adding formats.
var imageMediaTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/jpg":  {},
	"image/gif":  {},
	"image/webp": {},
}

// ConvertMessages transforms a unified conversation into the backend chat
// message array. It is pure and synchronous: message order is preserved,
// except that a tool message with N results fans out into N backend
// messages. Conversion fails before any network call on unrecognized
// roles, unsupported file types, and unknown part types.
func ConvertMessages(messages []api.Message, opts ConvertOptions) ([]ChatMessage, error) {
	var out []ChatMessage

	for _, msg := range messages {
		switch msg.Role {
		case api.RoleSystem:
			out = append(out, ChatMessage{Role: "system", Content: msg.Content})

		case api.RoleUser:
			cm, err := convertUserMessage(msg)
			if err != nil {
				return nil, err
			}
			out = append(out, cm)

		case api.RoleAssistant:
			cm, err := convertAssistantMessage(msg, opts)
			if err != nil {
				return nil, err
			}
			out = append(out, cm)

		case api.RoleTool:
			msgs, err := convertToolMessage(msg)
			if err != nil {
				return nil, err
			}
			out = append(out, msgs...)

		default:
			// The role set is closed upstream; this is an exhaustiveness check.
			return nil, api.NewInvalidPromptError("Unsupported role: %s", msg.Role)
		}
	}

	return out, nil
}

func convertUserMessage(msg api.Message) (ChatMessage, error) {
	var items []ContentItem

	for _, part := range msg.Parts {
		switch p := part.(type) {
		case api.TextPart:
			items = append(items, ContentItem{Type: "text", Text: p.Text})

		case api.FilePart:
			url, err := imageDataURL(p)
			if err != nil {
				return ChatMessage{}, err
			}
			items = append(items, ContentItem{
				Type:     "image_url",
				ImageURL: &ImageURL{URL: url},
			})

		default:
			return ChatMessage{}, api.NewUnsupportedFunctionalityError(
				fmt.Sprintf("content type %s in user message", partTypeName(part)), "")
		}
	}

	// A single text part collapses to the plain-string content form.
	if len(items) == 1 && items[0].Type == "text" {
		return ChatMessage{Role: "user", Content: items[0].Text}, nil
	}
	return ChatMessage{Role: "user", Content: items}, nil
}

// imageDataURL normalizes file part data to an image URL: raw bytes and
// base64 strings become data: URLs, URL references pass through unchanged.
func imageDataURL(p api.FilePart) (string, error) {
	if !strings.HasPrefix(p.MediaType, "image/") {
		return "", api.NewUnsupportedFunctionalityError(
			fmt.Sprintf("file content type %s", p.MediaType),
			"Only image files are supported")
	}

	if _, known := imageMediaTypes[p.MediaType]; !known {
		slog.Warn("image media type outside known-good allowlist",
			"mediaType", p.MediaType)
	}

	switch {
	case p.Data.URL != "":
		return p.Data.URL, nil
	case p.Data.Base64 != "":
		return "data:" + p.MediaType + ";base64," + p.Data.Base64, nil
	case p.Data.Bytes != nil:
		return "data:" + p.MediaType + ";base64," +
			base64.StdEncoding.EncodeToString(p.Data.Bytes), nil
	default:
		return "", api.NewUnsupportedFunctionalityError(
			"file data", "file part carries no URL, base64, or byte content")
	}
}

func convertAssistantMessage(msg api.Message, opts ConvertOptions) (ChatMessage, error) {
	var reasoning, text strings.Builder
	var toolCalls []ChatToolCall

	for _, part := range msg.Parts {
		switch p := part.(type) {
		case api.TextPart:
			text.WriteString(p.Text)

		case api.ReasoningPart:
			// Empty reasoning produces no markup.
			if opts.IncludeReasoning && p.Text != "" {
				reasoning.WriteString("<think>")
				reasoning.WriteString(p.Text)
				reasoning.WriteString("</think>")
			}

		case api.ToolCallPart:
			args, err := toolCallArguments(p.Input)
			if err != nil {
				return ChatMessage{}, err
			}
			toolCalls = append(toolCalls, ChatToolCall{
				ID:   p.ToolCallID,
				Type: "function",
				Function: ChatFunctionCall{
					Name:      p.ToolName,
					Arguments: args,
				},
			})

		default:
			return ChatMessage{}, api.NewUnsupportedFunctionalityError(
				fmt.Sprintf("content type %s in assistant message", partTypeName(part)), "")
		}
	}

	return ChatMessage{
		Role:      "assistant",
		Content:   reasoning.String() + text.String(),
		ToolCalls: toolCalls,
	}, nil
}

// toolCallArguments serializes a tool call input. A string that is already
// valid JSON passes through unchanged to avoid double-encoding; everything
// else is JSON-serialized.
func toolCallArguments(input any) (string, error) {
	if s, ok := input.(string); ok && json.Valid([]byte(s)) {
		return s, nil
	}
	b, err := json.Marshal(input)
	if err != nil {
		return "", api.NewInvalidPromptError("tool call input is not serializable: %v", err)
	}
	return string(b), nil
}

// convertToolMessage fans each tool-result part out into its own backend
// message. A tool message with no parts produces no messages.
func convertToolMessage(msg api.Message) ([]ChatMessage, error) {
	var out []ChatMessage

	for _, part := range msg.Parts {
		p, ok := part.(api.ToolResultPart)
		if !ok {
			return nil, api.NewUnsupportedFunctionalityError(
				fmt.Sprintf("content type %s in tool message", partTypeName(part)), "")
		}

		content, err := json.Marshal(p.Output)
		if err != nil {
			return nil, api.NewInvalidPromptError("tool result output is not serializable: %v", err)
		}
		out = append(out, ChatMessage{
			Role:       "tool",
			Content:    string(content),
			ToolCallID: p.ToolCallID,
		})
	}

	return out, nil
}

func partTypeName(part api.Part) string {
	switch part.(type) {
	case api.TextPart:
		return "text"
	case api.ReasoningPart:
		return "reasoning"
	case api.FilePart:
		return "file"
	case api.ToolCallPart:
		return "tool-call"
	case api.ToolResultPart:
		return "tool-result"
	default:
		return fmt.Sprintf("%T", part)
	}
}
