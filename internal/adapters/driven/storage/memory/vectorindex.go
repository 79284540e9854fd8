package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an exact in-memory implementation of driven.VectorIndex.
// Search scans every vector; document sets are small enough that a
// brute-force cosine scan is fast and needs no tuning.
type VectorIndex struct {
	mu         sync.RWMutex
	embedderID string
	dims       int
	entries    []vectorEntry
	seen       map[int]bool
}

type vectorEntry struct {
	passage domain.Passage
	vector  []float32
	norm    float64
}

// NewVectorIndex creates an empty index for the given embedder identity.
func NewVectorIndex(embedderID string) *VectorIndex {
	return &VectorIndex{
		embedderID: embedderID,
		seen:       make(map[int]bool),
	}
}

// NewVectorIndexFactory returns a driven.VectorIndexFactory producing memory indexes.
func NewVectorIndexFactory() driven.VectorIndexFactory {
	return func(embedderID string) driven.VectorIndex {
		return NewVectorIndex(embedderID)
	}
}

// Add stores a passage with its vector. The first vector fixes the dimension.
func (idx *VectorIndex) Add(_ context.Context, passage domain.Passage, embedding []float32) error {
	if len(embedding) == 0 {
		return fmt.Errorf("%w: empty vector for passage %d", domain.ErrInvalidInput, passage.ChunkIndex)
	}
	if !finite(embedding) {
		return fmt.Errorf("%w: vector for passage %d has NaN or infinite values", domain.ErrInvalidInput, passage.ChunkIndex)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.dims == 0 {
		idx.dims = len(embedding)
	} else if len(embedding) != idx.dims {
		return fmt.Errorf("%w: vector has %d dimensions, index has %d",
			domain.ErrInvalidInput, len(embedding), idx.dims)
	}
	if idx.seen[passage.ChunkIndex] {
		return fmt.Errorf("%w: passage %d already indexed", domain.ErrInvalidInput, passage.ChunkIndex)
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)
	idx.entries = append(idx.entries, vectorEntry{passage: passage, vector: vec, norm: norm(vec)})
	idx.seen[passage.ChunkIndex] = true
	return nil
}

// Search returns the k most similar passages, highest cosine similarity
// first, ties broken by ascending chunk index.
func (idx *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]domain.ScoredPassage, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.entries) == 0 {
		return nil, nil
	}
	if len(query) != idx.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrInvalidInput, len(query), idx.dims)
	}
	if !finite(query) {
		return nil, fmt.Errorf("%w: query has NaN or infinite values", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	qnorm := norm(query)
	results := make([]domain.ScoredPassage, len(idx.entries))
	for i, e := range idx.entries {
		results[i] = domain.ScoredPassage{Passage: e.passage, Score: cosine(query, qnorm, e.vector, e.norm)}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Passage.ChunkIndex < results[j].Passage.ChunkIndex
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Len returns the number of stored passages.
func (idx *VectorIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Dimensions returns the vector size, or zero when empty.
func (idx *VectorIndex) Dimensions() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dims
}

// EmbedderID returns the identity of the embedder that built the index.
func (idx *VectorIndex) EmbedderID() string {
	return idx.embedderID
}

// Passages returns the stored passages in chunk order.
func (idx *VectorIndex) Passages() []domain.Passage {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]domain.Passage, len(idx.entries))
	for i, e := range idx.entries {
		out[i] = e.passage
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkIndex < out[j].ChunkIndex })
	return out
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func finite(v []float32) bool {
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// cosine returns 0 when either vector has zero length.
func cosine(a []float32, anorm float64, b []float32, bnorm float64) float64 {
	if anorm == 0 || bnorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (anorm * bnorm)
}
