// Package anthropic answers questions with the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/custodia-labs/studymate/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-sonnet-latest"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 1024

	anthropicVersion = "2023-06-01"
)

// ErrMissingAPIKey is returned by NewLLMService without a key.
var ErrMissingAPIKey = errors.New("anthropic: API key is required")

// Config configures the service. Only APIKey is required.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService sends each prompt as a single-turn conversation.
type LLMService struct {
	api   *httpjson.Client
	model string
}

type messagesRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
	StopSeqs    []string  `json:"stop_sequences,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// NewLLMService creates an Anthropic service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		api: httpjson.New("anthropic", cfg.BaseURL, cfg.Timeout,
			httpjson.WithHeader("x-api-key", cfg.APIKey),
			httpjson.WithHeader("anthropic-version", anthropicVersion),
		),
		model: cfg.Model,
	}, nil
}

// Generate returns the concatenated text blocks of the reply. The API
// requires max_tokens, so a zero MaxTokens becomes DefaultMaxTokens.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := messagesRequest{
		Model:       s.model,
		Messages:    []message{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		StopSeqs:    opts.StopWords,
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = DefaultMaxTokens
	}

	var resp messagesResponse
	if err := s.api.Post(ctx, "/v1/messages", req, &resp); err != nil {
		return "", err
	}
	if resp.StopReason == "max_tokens" {
		logger.Warn("anthropic: answer cut off at %d tokens", req.MaxTokens)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// ModelName returns the model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks the key by listing models, which costs no tokens.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Get(ctx, "/v1/models", nil)
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
