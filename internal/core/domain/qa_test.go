package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQARecord_CopiesEvidence(t *testing.T) {
	evidence := []ScoredPassage{
		{Passage: Passage{Text: "cats purr", SourceID: "a.txt", ChunkIndex: 0}, Score: 0.9},
		{Passage: Passage{Text: "dogs bark", SourceID: "b.pdf", Position: 1, ChunkIndex: 1}, Score: 0.5},
	}
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	rec := NewQARecord("What are cats?", Answer{Text: "Cats purr.", Evidence: evidence, Model: "llama3.2"}, at)

	require.Len(t, rec.Evidence, 2)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, at, rec.Timestamp)
	assert.Equal(t, "What are cats?", rec.Question)
	assert.Equal(t, "Cats purr.", rec.Answer)
	assert.Equal(t, "llama3.2", rec.Model)
	assert.Equal(t, 2, rec.Sources())

	evidence[0].Passage.Text = "mutated"
	assert.Equal(t, "cats purr", rec.Evidence[0].Text)
}

func TestNewQARecord_UniqueIDs(t *testing.T) {
	a := NewQARecord("q", Answer{}, time.Now())
	b := NewQARecord("q", Answer{}, time.Now())
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 0, a.Sources())
}

func TestQARecord_Documents(t *testing.T) {
	rec := QARecord{Evidence: []Passage{
		{SourceID: "b.pdf"}, {SourceID: "a.txt"}, {SourceID: "b.pdf"},
	}}
	assert.Equal(t, []string{"b.pdf", "a.txt"}, rec.Documents())
	assert.Nil(t, QARecord{}.Documents())
}

func TestExportFormat_IsValid(t *testing.T) {
	for _, f := range AllExportFormats() {
		assert.True(t, f.IsValid(), f)
	}
	assert.False(t, ExportFormat("xlsx").IsValid())
}

func TestSessionStats_HasKnowledgeBase(t *testing.T) {
	assert.False(t, SessionStats{}.HasKnowledgeBase())
	assert.True(t, SessionStats{Passages: 3}.HasKnowledgeBase())
}
