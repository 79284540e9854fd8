// Package httpjson is the JSON-over-HTTP transport shared by the model
// providers that have no Go SDK in this module.
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// maxErrorBody bounds the part of an error response kept in StatusError.
const maxErrorBody = 512

// errorPaths are tried in order to find a provider message in an error body.
var errorPaths = []string{"error.message", "error", "message"}

// StatusError is returned for any response outside 2xx.
type StatusError struct {
	Provider string
	Status   int
	Message  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.Status, e.Message)
}

// Option configures a Client.
type Option func(*Client)

// WithHeader sets a header on every request.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		c.header.Set(name, value)
	}
}

// Client sends JSON requests to one base URL.
type Client struct {
	provider string
	baseURL  string
	http     *http.Client
	header   http.Header
}

// New creates a client. provider prefixes every error message.
func New(provider, baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		header:   make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post sends in as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	raw, err := c.Do(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// Get decodes the response of a GET into out. A nil out discards the body.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	raw, err := c.Do(ctx, http.MethodGet, path, http.NoBody)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(raw, out)
}

// Do sends a request and returns the body of a 2xx response.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for name, values := range c.header {
		req.Header[name] = values
	}
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Provider: c.provider, Status: resp.StatusCode, Message: errorMessage(raw, resp.StatusCode)}
	}
	return raw, nil
}

// BaseURL returns the base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.http.Timeout
}

func decode(raw []byte, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the provider message from an error body, or returns
// the trimmed body itself.
func errorMessage(raw []byte, status int) string {
	if gjson.ValidBytes(raw) {
		for _, path := range errorPaths {
			if r := gjson.GetBytes(raw, path); r.Type == gjson.String && r.Str != "" {
				return r.Str
			}
		}
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		return http.StatusText(status)
	}
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	return msg
}
