package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState indicates an operation was attempted against
	// state that cannot serve it.
	ErrInvalidState = errors.New("invalid state")

	// ErrUnsupportedFormat indicates a file extension outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrLoad indicates a file could not be read or decoded.
	ErrLoad = errors.New("load failed")

	// ErrNoExtractableText indicates a PDF decoded but yielded no text.
	ErrNoExtractableText = errors.New("no extractable text")

	// ErrEmbedding indicates an embedding call failed.
	ErrEmbedding = errors.New("embedding failed")

	// ErrGeneration indicates the language model call failed.
	ErrGeneration = errors.New("generation failed")

	// ErrEmptyResponse indicates the language model returned no text.
	ErrEmptyResponse = errors.New("empty response")

	// ErrNoKnowledgeBase indicates a question was asked before any
	// documents were indexed.
	ErrNoKnowledgeBase = errors.New("no knowledge base")

	// ErrEmbedderMismatch indicates the query embedder differs from the one
	// that built the index.
	ErrEmbedderMismatch = errors.New("embedder mismatch")

	// ErrNoDocuments indicates every file of a batch failed to load.
	// The previous knowledge base is kept.
	ErrNoDocuments = errors.New("no documents loaded")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answering questions is disabled; retrieval still works.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Nothing can be indexed without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
