package driven

import "github.com/custodia-labs/studymate/internal/core/domain"

// AIConfigValidator checks provider settings before they are saved.
type AIConfigValidator interface {
	// ValidateEmbedding reaches the embedding provider once.
	// Unconfigured settings are valid. Failures wrap domain.ErrEmbeddingUnavailable.
	ValidateEmbedding(settings *domain.EmbeddingSettings) error

	// ValidateLLM reaches the language model provider once.
	// Unconfigured settings are valid. Failures wrap domain.ErrLLMUnavailable.
	ValidateLLM(settings *domain.LLMSettings) error
}
