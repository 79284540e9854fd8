package domain

import "fmt"

// Passage is a retrievable slice of a unit. Passages are immutable.
type Passage struct {
	// Text is the passage content, at most the configured chunk size.
	Text string

	// SourceID is the file the passage came from.
	SourceID string

	// Position is inherited from the unit (page number or 0).
	Position int

	// ChunkIndex is the order of the passage within the whole document set.
	ChunkIndex int
}

// Location returns a human-readable provenance label.
func (p Passage) Location() string {
	if p.Position > 0 {
		return fmt.Sprintf("%s, page %d", p.SourceID, p.Position)
	}
	return p.SourceID
}

// Snippet returns at most n characters of the passage, followed by "..."
// when truncated.
func (p Passage) Snippet(n int) string {
	r := []rune(p.Text)
	if n <= 0 || len(r) <= n {
		return p.Text
	}
	return string(r[:n]) + "..."
}

// ScoredPassage is a search hit.
type ScoredPassage struct {
	Passage Passage

	// Score is the cosine similarity to the query.
	Score float64
}
