// Package collection invokes the collection-tracking backend generically,
// driven by the machine-readable API schema it serves.
package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// CredentialSource supplies the basic-auth pair exchanged for a bearer token.
type CredentialSource interface {
	BasicCredentials(ctx context.Context) (username, password string, err error)
}

// Client is the collection backend client.
type Client struct {
	baseURL    string
	schemaPath string
	tokenPath  string
	creds      CredentialSource
	httpClient *http.Client

	schemaMu  sync.Mutex
	ops       map[string]Operation
	fetchedAt time.Time
	cacheTTL  time.Duration

	tokenMu sync.Mutex
	token   string
}

// NewClient creates a new collection backend client.
func NewClient(baseURL, schemaPath, tokenPath string, creds CredentialSource, cacheTTL, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		schemaPath: schemaPath,
		tokenPath:  tokenPath,
		creds:      creds,
		cacheTTL:   cacheTTL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Operations returns the backend's operations keyed by tool name, fetching
// and caching the schema as needed.
func (c *Client) Operations(ctx context.Context) (map[string]Operation, error) {
	c.schemaMu.Lock()
	defer c.schemaMu.Unlock()

	if c.ops != nil && time.Since(c.fetchedAt) < c.cacheTTL {
		return c.ops, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.schemaPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schema: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("schema retrieval failed [%d]: %s", resp.StatusCode, string(body))
	}

	var doc document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	c.ops = resolveOperations(&doc)
	c.fetchedAt = time.Now()
	return c.ops, nil
}

// Operation resolves a single operation by tool name.
func (c *Client) Operation(ctx context.Context, toolName string) (Operation, error) {
	ops, err := c.Operations(ctx)
	if err != nil {
		return Operation{}, err
	}
	op, ok := ops[toolName]
	if !ok {
		return Operation{}, fmt.Errorf("unknown backend operation %s", toolName)
	}
	return op, nil
}

// tokenResponse is the token endpoint's reply.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}

// Token returns the cached bearer token, exchanging basic-auth credentials at
// the token endpoint on first use.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" {
		return c.token, nil
	}

	username, password, err := c.creds.BasicCredentials(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve backend credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.tokenPath, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(username, password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange failed [%d]: %s", resp.StatusCode, string(body))
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned no access token")
	}

	c.token = tok.AccessToken
	return c.token, nil
}

// InvalidateToken drops the cached bearer token so the next call re-exchanges.
func (c *Client) InvalidateToken() {
	c.tokenMu.Lock()
	c.token = ""
	c.tokenMu.Unlock()
}

// Invoke executes the named backend operation with the model-supplied
// arguments. Arguments are partitioned into path, query, and body per the
// operation's declared schema; the response is normalized before return.
func (c *Client) Invoke(ctx context.Context, toolName string, args map[string]interface{}) (interface{}, error) {
	op, err := c.Operation(ctx, toolName)
	if err != nil {
		return nil, err
	}

	result, status, err := c.invokeOnce(ctx, op, args)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		// Stale token. Re-exchange once.
		c.InvalidateToken()
		result, status, err = c.invokeOnce(ctx, op, args)
		if err != nil {
			return nil, err
		}
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("backend operation %s failed [%d]: %s", toolName, status, compactBody(result))
	}
	return Normalize(result), nil
}

func (c *Client) invokeOnce(ctx context.Context, op Operation, args map[string]interface{}) (interface{}, int, error) {
	path := op.Path
	query := url.Values{}
	body := map[string]interface{}{}
	bodyKeys := op.bodyKeys()

	paramIn := make(map[string]string, len(op.Parameters))
	for _, p := range op.Parameters {
		paramIn[p.Name] = p.In
	}

	for key, val := range args {
		switch paramIn[key] {
		case "path":
			path = strings.ReplaceAll(path, "{"+key+"}", url.PathEscape(fmt.Sprintf("%v", val)))
		case "query":
			query.Set(key, fmt.Sprintf("%v", val))
		default:
			if bodyKeys[key] {
				body[key] = val
			}
			// Keys declared nowhere in the schema are dropped.
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if len(body) > 0 {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, target, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.Token(ctx)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	if len(respBody) == 0 {
		return map[string]interface{}{"status_code": resp.StatusCode}, resp.StatusCode, nil
	}

	var decoded interface{}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		// Non-JSON bodies are passed through as text.
		decoded = string(respBody)
	}
	return decoded, resp.StatusCode, nil
}

func compactBody(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(encoded)
}
