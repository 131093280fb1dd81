// Package agent holds the conversational core of sage: the message model,
// the intent router that decides which lookup tool (if any) serves a user
// utterance, and the turn orchestrator that ties tools and the completion
// service into a single answer.
package agent

// Message roles. A conversation is an ordered []Message; when a system
// message is present it occupies position 0 only.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolInvocation records the zero-or-one tool call made during a turn.
// It is surfaced to callers as metadata and folded into model context; it is
// not persisted by the orchestrator itself.
type ToolInvocation struct {
	Tool      string `json:"tool_name"`
	Argument  string `json:"argument"`
	Result    string `json:"result"`
	Succeeded bool   `json:"succeeded"`
}
