package list

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

func sampleRefs() []domain.ScoredPassage {
	return []domain.ScoredPassage{
		{Passage: domain.Passage{Text: "Cells divide by mitosis.", SourceID: "biology.pdf", Position: 3}, Score: 0.95},
		{Passage: domain.Passage{Text: "Meiosis halves the\nchromosomes.", SourceID: "biology.pdf", Position: 4, ChunkIndex: 1}, Score: 0.42},
		{Passage: domain.Passage{Text: "Lecture notes.", SourceID: "notes.txt", ChunkIndex: 2}, Score: 0.1},
	}
}

func manyRefs(n int) []domain.ScoredPassage {
	refs := make([]domain.ScoredPassage, n)
	for i := range refs {
		refs[i] = domain.ScoredPassage{
			Passage: domain.Passage{Text: fmt.Sprintf("passage %d", i), SourceID: "book.pdf", Position: i + 1},
			Score:   0.5,
		}
	}
	return refs
}

func press(r *References, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "home":
			msg = tea.KeyMsg{Type: tea.KeyHome}
		case "end":
			msg = tea.KeyMsg{Type: tea.KeyEnd}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		r.Update(msg)
	}
}

func TestNewReferences(t *testing.T) {
	r := NewReferences(nil, nil)

	require.NotNil(t, r)
	assert.NotNil(t, r.styles)
	assert.NotNil(t, r.keymap)
	assert.Zero(t, r.Len())
	assert.Nil(t, r.Current())
	assert.Equal(t, "No references", r.View())
}

func TestReferences_SetReferencesResetsSelection(t *testing.T) {
	r := NewReferences(nil, nil)
	r.SetReferences(manyRefs(10))
	r.SetDimensions(80, 6)
	r.Select(8)
	require.Positive(t, r.Offset())

	r.SetReferences(sampleRefs())

	assert.Equal(t, 3, r.Len())
	assert.Zero(t, r.Selected())
	assert.Zero(t, r.Offset())
	assert.Equal(t, sampleRefs(), r.References())
}

func TestReferences_Navigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"down", []string{"down"}, 1},
		{"j twice", []string{"j", "j"}, 2},
		{"stops at end", []string{"j", "j", "j", "j"}, 2},
		{"stops at start", []string{"up", "k"}, 0},
		{"down then up", []string{"down", "down", "k"}, 1},
		{"last", []string{"G"}, 2},
		{"end then home", []string{"end", "home"}, 0},
		{"first", []string{"j", "g"}, 0},
		{"other keys ignored", []string{"x", "q"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReferences(nil, nil)
			r.SetReferences(sampleRefs())

			press(r, tt.keys...)

			assert.Equal(t, tt.want, r.Selected())
		})
	}
}

func TestReferences_NavigationOnEmptyList(t *testing.T) {
	r := NewReferences(nil, nil)

	press(r, "j", "G", "k")
	r.Update(tea.WindowSizeMsg{Width: 10})

	assert.Zero(t, r.Selected())
	assert.Nil(t, r.Current())
}

func TestReferences_Current(t *testing.T) {
	r := NewReferences(nil, nil)
	r.SetReferences(sampleRefs())
	r.Select(1)

	cur := r.Current()

	require.NotNil(t, cur)
	assert.Equal(t, 4, cur.Passage.Position)
}

func TestReferences_SelectClamps(t *testing.T) {
	r := NewReferences(nil, nil)
	r.SetReferences(sampleRefs())

	r.Select(99)
	assert.Equal(t, 2, r.Selected())

	r.Select(-3)
	assert.Zero(t, r.Selected())
}

func TestReferences_ScrollsSelectionIntoView(t *testing.T) {
	r := NewReferences(nil, nil)
	r.SetReferences(manyRefs(10))
	r.SetDimensions(80, 8) // three references fit

	r.Select(5)
	assert.Equal(t, 3, r.Offset())
	assert.Contains(t, r.View(), "[6] book.pdf, page 6")
	assert.NotContains(t, r.View(), "[1] book.pdf")

	r.Select(1)
	assert.Equal(t, 1, r.Offset())

	r.SetDimensions(80, 2)
	assert.Equal(t, 1, r.Offset(), "at least one reference stays visible")
}

func TestReferences_View(t *testing.T) {
	r := NewReferences(nil, nil)
	r.SetReferences(sampleRefs())
	r.SetDimensions(100, 20)

	view := r.View()

	assert.Contains(t, view, "References (3 from 2 documents)")
	assert.Contains(t, view, "> [1] biology.pdf, page 3")
	assert.Contains(t, view, "[3] notes.txt")
	assert.Contains(t, view, "Meiosis halves the chromosomes.", "whitespace is collapsed")
	assert.Contains(t, view, "█████ 0.95")
	assert.NotContains(t, view, "more")
}

func TestReferences_ViewHiddenCount(t *testing.T) {
	r := NewReferences(nil, nil)
	r.SetReferences(manyRefs(6))
	r.SetDimensions(80, 6)

	view := r.View()

	assert.Contains(t, view, "References (6 from 1 document)")
	assert.Contains(t, view, "... 4 more")
}

func TestReferences_ViewWithoutScores(t *testing.T) {
	r := NewReferences(nil, nil)
	r.SetReferences([]domain.ScoredPassage{{Passage: domain.Passage{Text: "from history", SourceID: "a.txt"}}})

	view := r.View()

	assert.NotContains(t, view, "░")
	assert.Contains(t, view, "from history")
}

func TestGauge(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, ""}, // unscored
		{1, "█████ 1.00"},
		{0.42, "██░░░ 0.42"},
		{0.05, "░░░░░ 0.05"},
		{-0.3, "░░░░░ -0.30"},
		{1.2, "█████ 1.20"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, gauge(tt.score))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééé...", truncate("éééééééé", 6))
}
