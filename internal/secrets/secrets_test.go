package secrets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-plain")
	t.Setenv("LLM_API_KEY_FILE", "")

	key, err := NewProvider().APIKey(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "sk-plain" {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestAPIKeyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llm_key")
	if err := os.WriteFile(path, []byte("sk-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("LLM_API_KEY_FILE", path)

	key, err := NewProvider().APIKey(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "sk-file" {
		t.Fatalf("file content not trimmed: %q", key)
	}
}

func TestAPIKeyMissing(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("LLM_API_KEY_FILE", "")

	if _, err := NewProvider().APIKey(context.Background()); err == nil {
		t.Fatal("expected error when no source is configured")
	}
}

func TestBasicCredentialsFromEnv(t *testing.T) {
	t.Setenv("COLLECTION_USERNAME", "svc")
	t.Setenv("COLLECTION_PASSWORD", "hunter2")
	t.Setenv("COLLECTION_BASIC_AUTH_FILE", "")

	user, pass, err := NewProvider().BasicCredentials(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != "svc" || pass != "hunter2" {
		t.Fatalf("unexpected pair %q:%q", user, pass)
	}
}

func TestBasicCredentialsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basic_auth")
	if err := os.WriteFile(path, []byte("svc:hun:ter2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COLLECTION_USERNAME", "")
	t.Setenv("COLLECTION_BASIC_AUTH_FILE", path)

	user, pass, err := NewProvider().BasicCredentials(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Only the first colon separates user from password.
	if user != "svc" || pass != "hun:ter2" {
		t.Fatalf("unexpected pair %q:%q", user, pass)
	}
}

func TestBasicCredentialsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basic_auth")
	if err := os.WriteFile(path, []byte("no-colon-here"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COLLECTION_USERNAME", "")
	t.Setenv("COLLECTION_BASIC_AUTH_FILE", path)

	if _, _, err := NewProvider().BasicCredentials(context.Background()); err == nil {
		t.Fatal("expected error for malformed secret")
	}
}

func TestAPIKeyResolvedOnce(t *testing.T) {
	t.Setenv("LLM_API_KEY", "sk-first")
	p := NewProvider()
	if _, err := p.APIKey(context.Background()); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LLM_API_KEY", "sk-second")
	key, err := p.APIKey(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if key != "sk-first" {
		t.Fatalf("key re-resolved: %q", key)
	}
}
