package driven

import "github.com/custodia-labs/studymate/internal/core/domain"

// Chunker splits loaded documents into passages.
// Chunk indexes run from zero across the whole document set.
type Chunker interface {
	Chunk(docs []domain.RawDocument) []domain.Passage
}
