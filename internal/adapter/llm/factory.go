package llm

import (
	"log"
	"os"
	"time"
)

const (
	// EnvDeckhandMode is the environment variable name for mode selection.
	EnvDeckhandMode = "DECKHAND_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewChatClient creates an LLM client based on the DECKHAND_MODE environment
// variable. If DECKHAND_MODE=MOCK, returns a MockClient; otherwise returns a
// real Client.
func NewChatClient(baseURL string, keys KeySource, timeout time.Duration) ChatClient {
	if os.Getenv(EnvDeckhandMode) == ModeMock {
		log.Println("DECKHAND_MODE=MOCK detected, using mock LLM client")
		return NewMockClient()
	}
	return NewClient(baseURL, keys, timeout)
}
