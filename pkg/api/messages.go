package api

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is a single turn in a conversation. System messages carry plain
// text in Content; user, assistant, and tool messages carry an ordered
// sequence of Parts.
type Message struct {
	Role Role

	// Content holds the text of a system message. Ignored for other roles.
	Content string

	// Parts holds the ordered content of user, assistant, and tool messages.
	Parts []Part
}

// Part is one fragment of a message. The concrete types form a closed set:
// TextPart, ReasoningPart, FilePart, ToolCallPart, ToolResultPart.
type Part interface {
	isPart()
}

// TextPart is plain text content.
type TextPart struct {
	Text string
}

func (TextPart) isPart() {}

// ReasoningPart is model reasoning text attached to an assistant message.
// It is dropped during conversion unless reasoning inclusion is requested.
type ReasoningPart struct {
	Text string
}

func (ReasoningPart) isPart() {}

// FileData holds file content in exactly one of three encodings.
type FileData struct {
	// URL references remote content, passed through unchanged.
	URL string

	// Base64 holds already-encoded content.
	Base64 string

	// Bytes holds raw content, encoded to base64 during conversion.
	Bytes []byte
}

// FilePart is binary content within a user message. Only image media types
// are representable in the backend message format.
type FilePart struct {
	MediaType string
	Data      FileData
}

func (FilePart) isPart() {}

// ToolCallPart records a tool invocation requested by the assistant.
// Input may be a JSON string (passed through if syntactically valid) or
// any value that serializes to JSON.
type ToolCallPart struct {
	ToolCallID string
	ToolName   string
	Input      any
}

func (ToolCallPart) isPart() {}

// ToolResultPart carries the outcome of one tool invocation inside a
// tool-role message. Output is JSON-serialized during conversion.
type ToolResultPart struct {
	ToolCallID string
	ToolName   string
	Output     any
}

func (ToolResultPart) isPart() {}

// SystemMessage builds a system message with plain text content.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// UserMessage builds a user message from the given parts.
func UserMessage(parts ...Part) Message {
	return Message{Role: RoleUser, Parts: parts}
}

// AssistantMessage builds an assistant message from the given parts.
func AssistantMessage(parts ...Part) Message {
	return Message{Role: RoleAssistant, Parts: parts}
}

// ToolMessage builds a tool message from the given tool-result parts.
func ToolMessage(parts ...Part) Message {
	return Message{Role: RoleTool, Parts: parts}
}
