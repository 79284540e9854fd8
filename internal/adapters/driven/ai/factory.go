// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	localembed "github.com/custodia-labs/studymate/internal/adapters/driven/embedding/local"
	ollamaembed "github.com/custodia-labs/studymate/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/studymate/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/studymate/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/studymate/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/studymate/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string // Non-fatal issues that caused fallback.
	FellBack         bool     // True if the embedder fell back to the local hashing model.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise creates both services from settings. An unreachable embedding
// provider falls back to the local hashing embedder so retrieval keeps
// working; an unreachable LLM is left nil and reported as a warning.
func Initialise(ctx context.Context, settings *domain.AppSettings) *InitResult {
	result := &InitResult{}

	embedder, err := ConnectEmbedder(ctx, &settings.Embedding)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	}
	if embedder == nil {
		if settings.Embedding.Provider != domain.AIProviderLocal {
			result.FellBack = true
			logger.Warn("embedding provider %s unavailable, using local hashing embedder", settings.Embedding.Provider)
		}
		embedder = localembed.NewEmbeddingService(localembed.Config{})
	}
	result.EmbeddingService = embedder

	llm, err := ConnectLLM(ctx, &settings.LLM)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	}
	result.LLMService = llm

	return result
}

// ConnectEmbedder creates the configured embedding service and pings it.
// An unconfigured provider gives (nil, nil).
func ConnectEmbedder(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	return connect(ctx, domain.ErrEmbeddingUnavailable, func() (driven.EmbeddingService, error) {
		return CreateEmbeddingService(settings)
	})
}

// ConnectLLM creates the configured language model and pings it.
// An unconfigured provider gives (nil, nil).
func ConnectLLM(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	return connect(ctx, domain.ErrLLMUnavailable, func() (driven.LLMService, error) {
		return CreateLLMService(settings)
	})
}

type pinger interface {
	comparable
	Ping(ctx context.Context) error
	Close() error
}

// connect builds a service and keeps it only if it answers a ping within
// pingTimeout. Failures wrap unavailable and end with the wizard hint.
func connect[S pinger](ctx context.Context, unavailable error, create func() (S, error)) (S, error) {
	var none S
	svc, err := create()
	if err != nil {
		return none, fmt.Errorf("%w: %w. Run 'studymate settings wizard' to fix", unavailable, err)
	}
	if svc == none {
		return none, nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return none, fmt.Errorf("%w: service unreachable (%w). Run 'studymate settings wizard' to fix", unavailable, err)
	}
	return svc, nil
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, nil
	}
	if settings.Provider == domain.AIProviderAnthropic {
		return nil, errors.New("anthropic does not support embeddings, use ollama, openai or local")
	}
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderLocal:
		return localembed.NewEmbeddingService(localembed.Config{
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		}), nil

	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	timeout := time.Duration(settings.TimeoutSeconds) * time.Second

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}
