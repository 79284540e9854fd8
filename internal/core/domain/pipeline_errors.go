package domain

import "fmt"

// UnsupportedFormatError reports a file whose extension has no loader.
type UnsupportedFormatError struct {
	SourceID  string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	ext := e.Extension
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("%s: unsupported format %s (supported: .pdf, .txt)", e.SourceID, ext)
}

// Is matches ErrUnsupportedFormat.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// LoadError reports a file that could not be read or decoded.
type LoadError struct {
	SourceID string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: load failed: %v", e.SourceID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is matches ErrLoad.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// EmbeddingError reports a failed embedding call. For index builds it
// names the first passage that could not be embedded; for questions Query
// is set and the passage fields are empty.
type EmbeddingError struct {
	SourceID   string
	ChunkIndex int
	Query      bool
	Err        error
}

func (e *EmbeddingError) Error() string {
	if e.Query {
		return fmt.Sprintf("embed question: %v", e.Err)
	}
	return fmt.Sprintf("embed passage %d of %s: %v", e.ChunkIndex, e.SourceID, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// Is matches ErrEmbedding.
func (e *EmbeddingError) Is(target error) bool {
	return target == ErrEmbedding
}

// GenerationError reports a failed or empty language model call.
type GenerationError struct {
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("generate answer: %v", e.Err)
	}
	return fmt.Sprintf("generate answer with %s: %v", e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is matches ErrGeneration.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

// EmbedderMismatchError reports a query embedder that differs from the
// embedder the index was built with. Scores across embedders are meaningless.
type EmbedderMismatchError struct {
	IndexEmbedder string
	QueryEmbedder string
}

func (e *EmbedderMismatchError) Error() string {
	return fmt.Sprintf("index built with %s but questions are embedded with %s; rebuild the knowledge base",
		e.IndexEmbedder, e.QueryEmbedder)
}

// Is matches ErrEmbedderMismatch and ErrInvalidState.
func (e *EmbedderMismatchError) Is(target error) bool {
	return target == ErrEmbedderMismatch || target == ErrInvalidState
}
