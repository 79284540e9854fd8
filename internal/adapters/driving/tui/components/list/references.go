// Package list renders the passages behind an answer.
package list

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
)

// gaugeWidth is the number of cells in a relevance gauge.
const gaugeWidth = 5

// linesPerReference is the height of one rendered reference.
const linesPerReference = 2

// References is a scrollable list of retrieved passages with one selection.
// Evidence loaded from history has no score, so its gauge is left out.
type References struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	refs     []domain.ScoredPassage
	selected int
	offset   int // first visible reference

	width  int
	height int
}

// NewReferences creates an empty reference list.
func NewReferences(s *styles.Styles, km *keymap.KeyMap) *References {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &References{styles: s, keymap: km, width: 80, height: 10}
}

// Update moves the selection for navigation keys and ignores everything else.
func (r *References) Update(msg tea.Msg) (*References, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}
	switch {
	case key.Matches(km, r.keymap.Up):
		r.Select(r.selected - 1)
	case key.Matches(km, r.keymap.Down):
		r.Select(r.selected + 1)
	case key.Matches(km, r.keymap.PageUp):
		r.Select(r.selected - r.visible())
	case key.Matches(km, r.keymap.PageDown):
		r.Select(r.selected + r.visible())
	case key.Matches(km, r.keymap.First):
		r.Select(0)
	case key.Matches(km, r.keymap.Last):
		r.Select(len(r.refs) - 1)
	}
	return r, nil
}

// View renders the header and the visible window of references.
func (r *References) View() string {
	if len(r.refs) == 0 {
		return r.styles.Muted.Render("No references")
	}

	var b strings.Builder
	b.WriteString(r.styles.Subtitle.Render(r.header()))
	b.WriteString("\n")

	end := min(r.offset+r.visible(), len(r.refs))
	for i := r.offset; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(r.render(i))
	}
	if hidden := len(r.refs) - end; hidden > 0 {
		b.WriteString("\n")
		b.WriteString(r.styles.Muted.Render(fmt.Sprintf("  ... %d more", hidden)))
	}
	return b.String()
}

// header counts references and the documents they come from.
func (r *References) header() string {
	docs := make(map[string]struct{}, len(r.refs))
	for _, ref := range r.refs {
		docs[ref.Passage.SourceID] = struct{}{}
	}
	noun := "documents"
	if len(docs) == 1 {
		noun = "document"
	}
	return fmt.Sprintf("References (%d from %d %s)", len(r.refs), len(docs), noun)
}

// render formats one reference as a location line and a single-line preview.
func (r *References) render(i int) string {
	ref := r.refs[i]

	labelWidth := max(r.width-gaugeWidth-12, 10)
	label := truncate(fmt.Sprintf("[%d] %s", i+1, ref.Passage.Location()), labelWidth)
	line := fmt.Sprintf("%-*s", labelWidth, label)

	var title string
	if i == r.selected {
		title = r.styles.Selected.Render("> " + line + " " + gauge(ref.Score))
	} else {
		title = r.styles.Normal.Render("  "+line+" ") + r.styles.Muted.Render(gauge(ref.Score))
	}

	preview := truncate(strings.Join(strings.Fields(ref.Passage.Text), " "), max(r.width-6, 20))
	return title + "\n" + r.styles.Muted.Render("    "+preview)
}

// gauge draws a cosine score as filled cells followed by the value.
func gauge(score float64) string {
	if score == 0 {
		return ""
	}
	filled := int(max(min(score, 1), 0)*gaugeWidth + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", gaugeWidth-filled) +
		fmt.Sprintf(" %.2f", score)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// visible is the number of references that fit below the header.
func (r *References) visible() int {
	return max((r.height-2)/linesPerReference, 1)
}

// SetReferences replaces the list and selects the first reference.
func (r *References) SetReferences(refs []domain.ScoredPassage) {
	r.refs = refs
	r.selected = 0
	r.offset = 0
}

// References returns the listed passages.
func (r *References) References() []domain.ScoredPassage {
	return r.refs
}

// Select moves the selection to i, clamped to the list, and scrolls it
// into view.
func (r *References) Select(i int) {
	if len(r.refs) == 0 {
		return
	}
	r.selected = max(min(i, len(r.refs)-1), 0)
	r.scroll()
}

func (r *References) scroll() {
	n := r.visible()
	if r.selected < r.offset {
		r.offset = r.selected
	}
	if r.selected >= r.offset+n {
		r.offset = r.selected - n + 1
	}
}

// Selected returns the index of the selected reference.
func (r *References) Selected() int {
	return r.selected
}

// Current returns the selected reference, or nil when the list is empty.
func (r *References) Current() *domain.ScoredPassage {
	if len(r.refs) == 0 {
		return nil
	}
	return &r.refs[r.selected]
}

// Offset returns the index of the first visible reference.
func (r *References) Offset() int {
	return r.offset
}

// SetDimensions resizes the list and keeps the selection visible.
func (r *References) SetDimensions(width, height int) {
	r.width = width
	r.height = height
	r.scroll()
}

// Len returns the number of references.
func (r *References) Len() int {
	return len(r.refs)
}
