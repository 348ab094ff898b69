package api

import "time"

// StreamEventType classifies a unified streaming event.
type StreamEventType int

const (
	// EventStreamStart is always the first event and carries the warnings
	// collected while building the request.
	EventStreamStart StreamEventType = iota

	// EventResponseMetadata is emitted once, on the first backend chunk.
	EventResponseMetadata

	// EventTextStart opens a text block.
	EventTextStart

	// EventTextDelta carries incremental text for the open text block.
	EventTextDelta

	// EventTextEnd closes the open text block.
	EventTextEnd

	// EventToolInputStart opens a tool-input block once the tool name is known.
	EventToolInputStart

	// EventToolInputDelta carries an incremental argument-string fragment.
	EventToolInputDelta

	// EventToolInputEnd closes a tool-input block.
	EventToolInputEnd

	// EventToolCall carries a finalized tool call with its complete input.
	EventToolCall

	// EventFinish is the last event of a successful stream and carries the
	// finish reason, usage, and provider metadata.
	EventFinish

	// EventError delivers a stream-time failure. The stream closes after it.
	EventError
)

var eventTypeNames = map[StreamEventType]string{
	EventStreamStart:      "stream-start",
	EventResponseMetadata: "response-metadata",
	EventTextStart:        "text-start",
	EventTextDelta:        "text-delta",
	EventTextEnd:          "text-end",
	EventToolInputStart:   "tool-input-start",
	EventToolInputDelta:   "tool-input-delta",
	EventToolInputEnd:     "tool-input-end",
	EventToolCall:         "tool-call",
	EventFinish:           "finish",
	EventError:            "error",
}

// String returns the wire-style name of the event type.
func (t StreamEventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// StreamEvent is a single unified streaming event. Which fields are
// populated depends on Type.
type StreamEvent struct {
	Type StreamEventType

	// Warnings is set on stream-start.
	Warnings []Warning

	// ID, ModelID, and Timestamp are set on response-metadata.
	ID        string
	ModelID   string
	Timestamp time.Time

	// BlockID identifies the text or tool-input block for the block
	// lifecycle events.
	BlockID string

	// Delta carries incremental text or argument content.
	Delta string

	// ToolCallID and ToolName are set on tool-input and tool-call events.
	ToolCallID string
	ToolName   string

	// Input is the complete argument JSON, set on tool-call.
	Input string

	// FinishReason, Usage, and ProviderMetadata are set on finish.
	FinishReason     FinishReason
	Usage            *Usage
	ProviderMetadata map[string]any

	// Err is set on error.
	Err error
}
