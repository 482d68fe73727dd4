// Package secrets resolves credentials for the external collaborators.
//
// Each credential is read either from a secrets-store file reference
// (*_FILE environment variables, pointing at a mounted secret) or, for local
// development, directly from plain environment variables. Values are resolved
// at most once per process and cached for its lifetime.
package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

const (
	envLLMAPIKey     = "LLM_API_KEY"
	envLLMAPIKeyFile = "LLM_API_KEY_FILE"

	envCollectionUsername = "COLLECTION_USERNAME"
	envCollectionPassword = "COLLECTION_PASSWORD"
	envCollectionAuthFile = "COLLECTION_BASIC_AUTH_FILE"
)

// Provider caches process-lifetime credentials.
type Provider struct {
	llmOnce sync.Once
	llmKey  string
	llmErr  error

	basicOnce sync.Once
	username  string
	password  string
	basicErr  error
}

// NewProvider creates an empty provider. Nothing is resolved until first use.
func NewProvider() *Provider {
	return &Provider{}
}

// APIKey returns the LLM API key.
func (p *Provider) APIKey(ctx context.Context) (string, error) {
	p.llmOnce.Do(func() {
		p.llmKey, p.llmErr = fromEnvOrFile(envLLMAPIKey, envLLMAPIKeyFile)
	})
	return p.llmKey, p.llmErr
}

// BasicCredentials returns the collection backend basic-auth pair.
func (p *Provider) BasicCredentials(ctx context.Context) (string, string, error) {
	p.basicOnce.Do(func() {
		if user := os.Getenv(envCollectionUsername); user != "" {
			p.username = user
			p.password = os.Getenv(envCollectionPassword)
			return
		}
		raw, err := fromEnvOrFile("", envCollectionAuthFile)
		if err != nil {
			p.basicErr = err
			return
		}
		user, pass, ok := strings.Cut(raw, ":")
		if !ok {
			p.basicErr = fmt.Errorf("malformed basic-auth secret: expected user:password")
			return
		}
		p.username = user
		p.password = pass
	})
	return p.username, p.password, p.basicErr
}

// fromEnvOrFile reads a secret from the plain env var, falling back to the
// file referenced by the *_FILE env var.
func fromEnvOrFile(envKey, fileKey string) (string, error) {
	if envKey != "" {
		if val := os.Getenv(envKey); val != "" {
			return val, nil
		}
	}
	path := os.Getenv(fileKey)
	if path == "" {
		if envKey != "" {
			return "", fmt.Errorf("no credential found: set %s or %s", envKey, fileKey)
		}
		return "", fmt.Errorf("no credential found: set %s", fileKey)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}
