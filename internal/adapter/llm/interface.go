package llm

import "context"

// ChatClient defines the LLM API surface the orchestration loop depends on.
type ChatClient interface {
	// CreateChatCompletion sends a chat completion request, with or without
	// a tool catalog attached.
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// Ensure Client implements ChatClient interface.
var _ ChatClient = (*Client)(nil)
