// Package client is the single point of outbound HTTP configuration for the
// backend API. It attaches the session's bearer token to every request and
// reports 401 responses to one replaceable handler.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pageza/bitebox/frontend/internal/logger"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 10 << 20

// TokenSource yields the bearer token for the next request. An empty token
// with a nil error means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Options configures a Client.
type Options struct {
	// HTTPClient defaults to a client without a timeout; deadlines come
	// from the caller's context.
	HTTPClient *http.Client
	// Tokens supplies the bearer token. Nil means never authenticated.
	Tokens TokenSource
	// OnUnauthorized is called for every 401 response before the error is
	// returned. It can be replaced later with SetUnauthorizedHandler.
	OnUnauthorized func()
	Logger         *logger.Logger
}

// Client talks to the backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *logger.Logger

	mu             sync.RWMutex
	onUnauthorized func()
}

// New creates a client rooted at baseURL, e.g. "http://localhost:8080/api".
func New(baseURL string, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           httpClient,
		tokens:         opts.Tokens,
		log:            logger.OrNop(opts.Logger),
		onUnauthorized: opts.OnUnauthorized,
	}
}

// SetUnauthorizedHandler replaces the 401 handler. Only one handler is
// active at a time; nil removes it.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

func (c *Client) unauthorized() {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Authenticated reports whether the next request would carry a token.
func (c *Client) Authenticated(ctx context.Context) bool {
	if c.tokens == nil {
		return false
	}
	token, err := c.tokens.Token(ctx)
	return err == nil && token != ""
}

// Send performs a request and returns the body of a 2xx response. Non-2xx
// responses come back as *APIError; transport failures are wrapped.
func (c *Client) Send(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read session token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}

	c.log.Debugw("backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		c.unauthorized()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
			Method:     method,
			Path:       path,
		}
	}
	return data, nil
}

// GetJSON fetches path and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	data, err := c.Send(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	return decode(path, data, out)
}

// PostJSON sends in as a JSON body and decodes the response into out.
// A nil out discards the response.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request for %s: %w", path, err)
	}
	data, err := c.Send(ctx, http.MethodPost, path, bytes.NewReader(payload), "application/json")
	if err != nil {
		return err
	}
	return decode(path, data, out)
}

// PostMultipart sends form as a multipart POST body. Create endpoints often
// confirm with plain text such as "User created"; a 2xx body that is not a
// JSON document leaves out untouched.
func (c *Client) PostMultipart(ctx context.Context, path string, form *Multipart, out any) error {
	return c.sendMultipart(ctx, http.MethodPost, path, form, out)
}

// PatchMultipart sends form as a multipart PATCH body.
func (c *Client) PatchMultipart(ctx context.Context, path string, form *Multipart, out any) error {
	return c.sendMultipart(ctx, http.MethodPatch, path, form, out)
}

// Patch sends a PATCH without a body.
func (c *Client) Patch(ctx context.Context, path string) error {
	_, err := c.Send(ctx, http.MethodPatch, path, nil, "")
	return err
}

func (c *Client) sendMultipart(ctx context.Context, method, path string, form *Multipart, out any) error {
	body, contentType, err := form.encode()
	if err != nil {
		return err
	}
	data, err := c.Send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return decodeOptional(path, data, out)
}

// decode leaves out untouched when there is nothing to decode.
func decode(path string, data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// decodeOptional is decode for responses whose payload may be a plain-text
// confirmation instead of JSON.
func decodeOptional(path string, data []byte, out any) error {
	if !isJSONDocument(data) {
		return nil
	}
	return decode(path, data, out)
}

func isJSONDocument(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}
