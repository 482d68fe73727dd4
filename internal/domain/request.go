package domain

// ChatRequest is the inbound request for one conversational turn. Messages is
// the full history returned by the previous turn; the server holds no session
// state of its own.
type ChatRequest struct {
	Message  string    `json:"message"`
	Messages []Message `json:"messages"`
}

// ChatResponse carries the full updated history back to the client.
type ChatResponse struct {
	Messages []Message `json:"messages"`
}

// StreamFrame is one SSE progress frame of the streaming chat variant.
type StreamFrame struct {
	Type     string    `json:"type"` // phase, tool_call, tool_result, done, error
	Phase    Phase     `json:"phase,omitempty"`
	ToolName string    `json:"tool_name,omitempty"`
	Status   string    `json:"status,omitempty"`
	Message  string    `json:"message,omitempty"`
	Messages []Message `json:"messages,omitempty"`
}

// ToolResult is the dispatcher's uniform result envelope. A failed tool is a
// conversational fact for the model to react to, never a thrown error.
type ToolResult struct {
	Status  string      `json:"status"` // success or error
	Message interface{} `json:"message"`
}

// SuccessResult wraps a payload in a success envelope.
func SuccessResult(payload interface{}) ToolResult {
	return ToolResult{Status: "success", Message: payload}
}

// ErrorResult wraps an error text in an error envelope.
func ErrorResult(msg string) ToolResult {
	return ToolResult{Status: "error", Message: msg}
}
