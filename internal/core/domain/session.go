package domain

import "time"

// IngestReport summarises one ingestion of a document set.
type IngestReport struct {
	// Files are the source ids that loaded successfully, in input order.
	Files []string

	// Failures are the files that could not be loaded, in input order.
	Failures []FileFailure

	// Passages is the number of passages indexed.
	Passages int

	// EmbedderID identifies the embedder that built the index.
	EmbedderID string

	// Duration is the wall time of load, chunk and embed.
	Duration time.Duration
}

// SessionStats describes the current knowledge base and history.
type SessionStats struct {
	// Files are the indexed file names.
	Files []string

	// Passages is the number of indexed passages.
	Passages int

	// Questions is the number of answered questions in history.
	Questions int

	// EmbedderID identifies the embedder of the current index.
	EmbedderID string

	// BuiltAt is when the current index was published. Zero when none exists.
	BuiltAt time.Time
}

// HasKnowledgeBase returns true if an index is available for questions.
func (s SessionStats) HasKnowledgeBase() bool {
	return s.Passages > 0
}

// InspectReport is the result of loading and chunking files without
// embedding them.
type InspectReport struct {
	// Documents are the loaded documents, in input order.
	Documents []RawDocument

	// Failures are the files that could not be loaded, in input order.
	Failures []FileFailure

	// Passages are the passages the chunker produced.
	Passages []Passage
}
