// Package ollama answers questions with a local Ollama chat model.
package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/studymate/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig configures the chat model. Zero values take the defaults above.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService generates answers through POST /api/chat without streaming.
type LLMService struct {
	api   *httpjson.Client
	model string
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *options      `json:"options,omitempty"`
}

type options struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature float64  `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message    chatMessage `json:"message"`
	Done       bool        `json:"done"`
	DoneReason string      `json:"done_reason,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// NewLLMService creates an Ollama chat service.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	return &LLMService{
		api:   httpjson.New("ollama", cfg.BaseURL, cfg.Timeout),
		model: cfg.Model,
	}
}

// Generate sends the prompt as one user message and returns the trimmed reply.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := chatRequest{
		Model:    s.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 || len(opts.StopWords) > 0 {
		req.Options = &options{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
			Stop:        opts.StopWords,
		}
	}

	var resp chatResponse
	if err := s.api.Post(ctx, "/api/chat", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("ollama error: %s", resp.Error)
	}
	if resp.DoneReason == "length" {
		logger.Warn("ollama: answer cut off at %d tokens", opts.MaxTokens)
	}
	return strings.TrimSpace(resp.Message.Content), nil
}

// ModelName returns the chat model.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists the local models and checks the configured one is among them.
func (s *LLMService) Ping(ctx context.Context) error {
	return httpjson.CheckOllamaModel(ctx, s.api, s.model)
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
