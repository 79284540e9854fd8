// Package ollama embeds passages with a model served by Ollama.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/studymate/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "nomic-embed-text"
	DefaultTimeout    = 60 * time.Second
	DefaultDimensions = 768 // nomic-embed-text default
)

// Config holds configuration for the Ollama embedding service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model to use (default: nomic-embed-text).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions is the expected vector size. It is replaced by the size
	// of the first vector the server returns.
	Dimensions int
}

// EmbeddingService embeds passages through POST /api/embed, one request
// per batch.
type EmbeddingService struct {
	api        *httpjson.Client
	model      string
	dimensions atomic.Int64
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// NewEmbeddingService creates an Ollama embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	s := &EmbeddingService{
		api:   httpjson.New("ollama", cfg.BaseURL, cfg.Timeout),
		model: cfg.Model,
	}
	s.dimensions.Store(int64(cfg.Dimensions))
	return s
}

// Embed embeds a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch embeds texts in input order. The server must return exactly
// one non-empty vector per input, all of the same length.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp embedResponse
	if err := s.api.Post(ctx, "/api/embed", embedRequest{Model: s.model, Input: texts}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}

	dims := len(resp.Embeddings[0])
	out := make([][]float32, len(resp.Embeddings))
	for i, raw := range resp.Embeddings {
		switch len(raw) {
		case 0:
			return nil, errors.New("ollama returned an empty embedding")
		case dims:
		default:
			return nil, fmt.Errorf("ollama returned embeddings of %d and %d dimensions", dims, len(raw))
		}
		v := make([]float32, len(raw))
		for j, x := range raw {
			v[j] = float32(x)
		}
		out[i] = v
	}
	s.dimensions.Store(int64(dims))
	return out, nil
}

// Dimensions returns the size of the last returned vectors, or the
// configured size before the first call.
func (s *EmbeddingService) Dimensions() int {
	return int(s.dimensions.Load())
}

// ModelName returns the embedding model.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Identity returns "ollama/<model>".
func (s *EmbeddingService) Identity() string {
	return "ollama/" + s.model
}

// Ping checks the server is up and has the model pulled.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return httpjson.CheckOllamaModel(ctx, s.api, s.model)
}

// Close is a no-op.
func (s *EmbeddingService) Close() error {
	return nil
}
