package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks provider settings from the settings wizard by
// building a client and pinging it once. Failures wrap
// domain.ErrEmbeddingUnavailable or domain.ErrLLMUnavailable.
type ConfigValidator struct {
	timeout time.Duration
}

// ValidatorOption configures a ConfigValidator.
type ValidatorOption func(*ConfigValidator)

// WithPingTimeout bounds each connectivity check. The default is 5s.
func WithPingTimeout(d time.Duration) ValidatorOption {
	return func(v *ConfigValidator) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// NewConfigValidator creates a validator.
func NewConfigValidator(opts ...ValidatorOption) *ConfigValidator {
	v := &ConfigValidator{timeout: pingTimeout}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateEmbedding pings the embedding provider. Unconfigured settings
// and the local embedder have nothing to reach and always pass.
func (v *ConfigValidator) ValidateEmbedding(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() || settings.Provider == domain.AIProviderLocal {
		return nil
	}
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil
	}
	return v.ping(svc, domain.ErrEmbeddingUnavailable, settings.Provider)
}

// ValidateLLM pings the language model provider. Unconfigured settings pass.
func (v *ConfigValidator) ValidateLLM(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	svc, err := CreateLLMService(settings)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil
	}
	return v.ping(svc, domain.ErrLLMUnavailable, settings.Provider)
}

func (v *ConfigValidator) ping(svc interface {
	Ping(ctx context.Context) error
	Close() error
}, sentinel error, provider domain.AIProvider) error {
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %s unreachable: %w", sentinel, provider, err)
	}
	return nil
}
