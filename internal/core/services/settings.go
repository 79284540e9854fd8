package services

import (
	"fmt"
	"os"
	"slices"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider      = "embedding.provider"
	keyEmbedModel         = "embedding.model"
	keyEmbedBaseURL       = "embedding.base_url"
	keyEmbedAPIKey        = "embedding.api_key"
	keyLLMProvider        = "llm.provider"
	keyLLMModel           = "llm.model"
	keyLLMBaseURL         = "llm.base_url"
	keyLLMAPIKey          = "llm.api_key"
	keyLLMTimeout         = "llm.timeout_seconds"
	keyLLMTemperature     = "llm.temperature"
	keyLLMMaxTokens       = "llm.max_tokens"
	keyChunkSize          = "chunking.size"
	keyChunkOverlap       = "chunking.overlap"
	keyChunkMergePages    = "chunking.merge_pages"
	keyRetrievalTopK      = "retrieval.top_k"
	keyRetrievalMaxChars  = "retrieval.max_context_chars"
	keyIndexBatchSize     = "indexing.batch_size"
	keyIndexConcurrency   = "indexing.concurrency"
	keyIndexRPS           = "indexing.requests_per_second"
	keyLoadingWorkers     = "loading.workers"
)

// Environment variables consulted when the config file leaves a value empty.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	envOpenAIKey    = "OPENAI_API_KEY"
	envAnthropicKey = "ANTHROPIC_API_KEY"
	envOllamaHost   = "OLLAMA_HOST"
)

const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// WithEnv replaces the environment lookup used for API key and host fallbacks.
func (s *SettingsService) WithEnv(getenv func(string) string) *SettingsService {
	s.getenv = getenv
	return s
}

// Get retrieves current application settings.
// API keys and the Ollama host fall back to the environment when unset.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.configStore.GetString(keyEmbedModel),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider:       s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:          s.configStore.GetString(keyLLMModel),
			BaseURL:        s.configStore.GetString(keyLLMBaseURL),
			APIKey:         s.configStore.GetString(keyLLMAPIKey),
			TimeoutSeconds: s.getInt(keyLLMTimeout, defaults.LLM.TimeoutSeconds),
			Temperature:    s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
			MaxTokens:      s.getInt(keyLLMMaxTokens, defaults.LLM.MaxTokens),
		},
		Chunking: domain.ChunkingSettings{
			Size:       s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap:    s.getIntAllowZero(keyChunkOverlap, defaults.Chunking.Overlap),
			MergePages: s.getBool(keyChunkMergePages, defaults.Chunking.MergePages),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:            s.getInt(keyRetrievalTopK, defaults.Retrieval.TopK),
			MaxContextChars: s.getInt(keyRetrievalMaxChars, defaults.Retrieval.MaxContextChars),
		},
		Indexing: domain.IndexingSettings{
			BatchSize:         s.getInt(keyIndexBatchSize, defaults.Indexing.BatchSize),
			Concurrency:       s.getInt(keyIndexConcurrency, defaults.Indexing.Concurrency),
			RequestsPerSecond: s.getFloat(keyIndexRPS, defaults.Indexing.RequestsPerSecond),
		},
		Loading: domain.LoadingSettings{
			Workers: s.getInt(keyLoadingWorkers, defaults.Loading.Workers),
		},
	}

	if settings.Embedding.Model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	}
	if settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}

	settings.Embedding.APIKey = s.envFallback(settings.Embedding.Provider, settings.Embedding.APIKey)
	settings.LLM.APIKey = s.envFallback(settings.LLM.Provider, settings.LLM.APIKey)
	if settings.Embedding.Provider == domain.AIProviderOllama && settings.Embedding.BaseURL == "" {
		settings.Embedding.BaseURL = s.ollamaHost()
	}
	if settings.LLM.Provider == domain.AIProviderOllama && settings.LLM.BaseURL == "" {
		settings.LLM.BaseURL = s.ollamaHost()
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTimeout, settings.LLM.TimeoutSeconds},
		{keyLLMTemperature, settings.LLM.Temperature},
		{keyLLMMaxTokens, settings.LLM.MaxTokens},
		{keyChunkSize, settings.Chunking.Size},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyChunkMergePages, settings.Chunking.MergePages},
		{keyRetrievalTopK, settings.Retrieval.TopK},
		{keyRetrievalMaxChars, settings.Retrieval.MaxContextChars},
		{keyIndexBatchSize, settings.Indexing.BatchSize},
		{keyIndexConcurrency, settings.Indexing.Concurrency},
		{keyIndexRPS, settings.Indexing.RequestsPerSecond},
		{keyLoadingWorkers, settings.Loading.Workers},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// API keys are only written when set so environment keys never land on disk.
	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != s.envKey(settings.Embedding.Provider) {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != s.envKey(settings.LLM.Provider) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
// Changing the provider invalidates any index built with the previous one.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	if apiKey == "" {
		apiKey = s.envKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	if provider == domain.AIProviderOllama {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = s.ollamaHost()
		}
	} else {
		// Cloud and built-in providers don't need a custom base URL
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if !slices.Contains(domain.AllLLMProviders(), provider) {
		return fmt.Errorf("provider %s does not support text generation", provider)
	}

	if apiKey == "" {
		apiKey = s.envKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = s.ollamaHost()
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetChunking configures passage size and overlap.
func (s *SettingsService) SetChunking(size, overlap int, mergePages bool) error {
	chunking := domain.ChunkingSettings{Size: size, Overlap: overlap, MergePages: mergePages}
	if err := chunking.Validate(); err != nil {
		return fmt.Errorf("chunk size %d with overlap %d: %w", size, overlap, err)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Chunking = chunking
	return s.Save(settings)
}

// SetTopK configures the number of passages retrieved per question.
func (s *SettingsService) SetTopK(k int) error {
	if k <= 0 {
		return fmt.Errorf("top_k must be positive, got %d: %w", k, domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Retrieval.TopK = k
	return s.Save(settings)
}

// Validate checks that the current settings can build and query an index.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is not configured", settings.Embedding.Provider)
	}
	if err := settings.Chunking.Validate(); err != nil {
		return fmt.Errorf("chunk size %d with overlap %d: %w",
			settings.Chunking.Size, settings.Chunking.Overlap, err)
	}
	if settings.Retrieval.TopK <= 0 {
		return fmt.Errorf("top_k must be positive: %w", domain.ErrInvalidInput)
	}

	// A missing LLM only limits the session to retrieval.
	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() && settings.LLM.Provider.RequiresAPIKey() {
		return fmt.Errorf("LLM provider %s requires an API key", settings.LLM.Provider)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero treats an explicit zero as a value rather than a miss.
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) envKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return s.getenv(envOpenAIKey)
	case domain.AIProviderAnthropic:
		return s.getenv(envAnthropicKey)
	default:
		return ""
	}
}

func (s *SettingsService) envFallback(provider domain.AIProvider, key string) string {
	if key != "" {
		return key
	}
	return s.envKey(provider)
}

func (s *SettingsService) ollamaHost() string {
	host := s.getenv(envOllamaHost)
	if host == "" {
		return defaultOllamaURL
	}
	return host
}
