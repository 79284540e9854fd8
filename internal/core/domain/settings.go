package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderLocal is the built-in offline hashing embedder.
	AIProviderLocal AIProvider = "local"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderLocal:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderLocal:
		return "Local hashing (offline, no model)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// TimeoutSeconds bounds each generation call.
	TimeoutSeconds int

	// Temperature is the sampling temperature.
	Temperature float64

	// MaxTokens caps the answer length.
	MaxTokens int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderLocal {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// Chunking defaults.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 100
)

// ChunkingSettings controls how units are split into passages.
type ChunkingSettings struct {
	// Size is the maximum passage length in characters.
	Size int

	// Overlap is the number of characters shared by consecutive passages.
	// Must be smaller than Size.
	Overlap int

	// MergePages splits the pages of a PDF as one stream so passages may
	// span a page break.
	MergePages bool
}

// Validate checks the chunking parameters.
func (c ChunkingSettings) Validate() error {
	if c.Size <= 0 || c.Overlap < 0 || c.Overlap >= c.Size {
		return ErrInvalidInput
	}
	return nil
}

// Retrieval defaults.
const (
	DefaultTopK            = 4
	DefaultMaxContextChars = 8000
)

// RetrievalSettings controls question answering.
type RetrievalSettings struct {
	// TopK is the number of passages retrieved per question.
	TopK int

	// MaxContextChars bounds the passage text placed in the prompt.
	MaxContextChars int
}

// Indexing defaults.
const (
	DefaultEmbedBatchSize   = 32
	DefaultEmbedConcurrency = 4
)

// IndexingSettings controls index builds.
type IndexingSettings struct {
	// BatchSize is the number of passages per embedding request.
	BatchSize int

	// Concurrency is the number of embedding requests in flight.
	Concurrency int

	// RequestsPerSecond paces embedding requests. Zero disables pacing.
	RequestsPerSecond float64
}

// DefaultLoadWorkers is the size of the file loading pool.
const DefaultLoadWorkers = 4

// LoadingSettings controls file loading.
type LoadingSettings struct {
	// Workers is the number of files decoded in parallel.
	Workers int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Chunking holds passage splitting settings.
	Chunking ChunkingSettings

	// Retrieval holds question answering settings.
	Retrieval RetrievalSettings

	// Indexing holds index build settings.
	Indexing IndexingSettings

	// Loading holds file loading settings.
	Loading LoadingSettings
}

// DefaultLLMTimeoutSeconds bounds a generation call when unset.
const DefaultLLMTimeoutSeconds = 120

// DefaultAppSettings returns settings with sensible defaults.
// Both providers point at a local Ollama instance.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModels()[AIProviderOllama],
		},
		LLM: LLMSettings{
			Provider:       AIProviderOllama,
			Model:          DefaultLLMModels()[AIProviderOllama],
			TimeoutSeconds: DefaultLLMTimeoutSeconds,
			Temperature:    0.7,
			MaxTokens:      2048,
		},
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			TopK:            DefaultTopK,
			MaxContextChars: DefaultMaxContextChars,
		},
		Indexing: IndexingSettings{
			BatchSize:   DefaultEmbedBatchSize,
			Concurrency: DefaultEmbedConcurrency,
		},
		Loading: LoadingSettings{
			Workers: DefaultLoadWorkers,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderLocal,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderLocal:  "hashing-v1",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Built-in
		"hashing-v1": 512,
	}
}
