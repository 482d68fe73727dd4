package domain

// Message roles. The wire format matches the chat-completions message shape so
// client-supplied history can be replayed to the model without translation.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
	RoleDeveloper = "developer"
)

// Message is one turn of conversation. The client must resend the full
// returned message array (plus its next user message) on the following call;
// there is no server-side session state.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a structured tool invocation requested by the assistant.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction carries the tool name and its JSON-encoded arguments.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// IsPlainText reports whether the message is an ordinary text turn with no
// tool-call structure attached.
func (m Message) IsPlainText() bool {
	return len(m.ToolCalls) == 0 && m.ToolCallID == "" && m.Content != ""
}

// HasToolCall reports whether the assistant message requests the named tool.
func (m Message) HasToolCall(name string) bool {
	for _, tc := range m.ToolCalls {
		if tc.Function.Name == name {
			return true
		}
	}
	return false
}
