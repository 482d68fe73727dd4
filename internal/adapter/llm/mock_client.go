package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/deckhand-io/deckhand/internal/domain"
)

// MockClient is a scriptable ChatClient for tests and local development.
// Scripted responses are returned in order; once exhausted it echoes the last
// user message.
type MockClient struct {
	mu       sync.Mutex
	scripted []*ChatCompletionResponse

	// Requests records every request received, in order.
	Requests []*ChatCompletionRequest
}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements ChatClient interface.
var _ ChatClient = (*MockClient)(nil)

// Enqueue appends a scripted response.
func (m *MockClient) Enqueue(resp *ChatCompletionResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripted = append(m.scripted, resp)
}

// CreateChatCompletion returns the next scripted response, or a mock echo.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)

	if len(m.scripted) > 0 {
		resp := m.scripted[0]
		m.scripted = m.scripted[1:]
		return resp, nil
	}

	var lastUser string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == domain.RoleUser {
			lastUser = req.Messages[i].Content
			break
		}
	}
	content := "[MOCK] This is a mock response from the LLM client."
	if lastUser != "" {
		content = fmt.Sprintf("[MOCK] Received your message: %q.", truncate(lastUser, 100))
	}
	return TextResponse(content), nil
}

// TextResponse builds a completion response with a plain assistant reply.
func TextResponse(content string) *ChatCompletionResponse {
	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("mock-chatcmpl-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   "mock",
		Choices: []Choice{
			{
				Index: 0,
				Message: &domain.Message{
					Role:    domain.RoleAssistant,
					Content: content,
				},
				FinishReason: "stop",
			},
		},
	}
}

// ToolCallResponse builds a completion response requesting the given tool
// calls. Argument strings must be valid JSON.
func ToolCallResponse(calls ...domain.ToolCall) *ChatCompletionResponse {
	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("mock-chatcmpl-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   "mock",
		Choices: []Choice{
			{
				Index: 0,
				Message: &domain.Message{
					Role:      domain.RoleAssistant,
					ToolCalls: calls,
				},
				FinishReason: "tool_calls",
			},
		},
	}
}

// Call is a convenience constructor for a scripted tool call.
func Call(id, name, args string) domain.ToolCall {
	return domain.ToolCall{
		ID:   id,
		Type: "function",
		Function: domain.ToolCallFunction{
			Name:      name,
			Arguments: args,
		},
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
