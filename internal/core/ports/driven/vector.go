package driven

import (
	"context"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// VectorIndex stores passages with their vectors and answers exact
// nearest-neighbour queries by cosine similarity. An index is built once
// per document set and is read-only after it is published.
type VectorIndex interface {
	// Add inserts a passage with its embedding. All vectors must share one dimension.
	Add(ctx context.Context, passage domain.Passage, embedding []float32) error

	// Search returns at most k passages, highest similarity first, ties
	// broken by chunk index. k must be positive.
	Search(ctx context.Context, query []float32, k int) ([]domain.ScoredPassage, error)

	// Len returns the number of stored passages.
	Len() int

	// Dimensions returns the vector size, or zero when empty.
	Dimensions() int

	// EmbedderID returns the identity of the embedder that built the index.
	EmbedderID() string

	// Passages returns the stored passages in chunk order.
	Passages() []domain.Passage
}

// VectorIndexFactory creates an empty index for the given embedder.
type VectorIndexFactory func(embedderID string) VectorIndex
