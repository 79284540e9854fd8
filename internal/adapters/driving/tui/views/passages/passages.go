// Package passages provides the view that pages through one file's passages.
package passages

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
)

// View is the passages view.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	name         string
	passages     []domain.Passage
	lines        []line
	scrollOffset int
	width        int
	height       int
	ready        bool
}

// line is one rendered row; headers are the "[idx] location" rows.
type line struct {
	text   string
	header bool
}

// NewView creates a new passages view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, keymap: keymap.DefaultKeyMap(), width: 80, height: 24}
}

// SetFile shows the passages of one file from the top.
func (v *View) SetFile(name string, passages []domain.Passage) {
	v.name = name
	v.passages = passages
	v.scrollOffset = 0
	v.wrapContent()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the passages view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up):
		v.scrollOffset = max(v.scrollOffset-1, 0)
	case key.Matches(msg, v.keymap.Down):
		v.scrollOffset = min(v.scrollOffset+1, v.maxScrollOffset())
	case key.Matches(msg, v.keymap.PageUp):
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case key.Matches(msg, v.keymap.PageDown):
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case key.Matches(msg, v.keymap.First):
		v.scrollOffset = 0
	case key.Matches(msg, v.keymap.Last):
		v.scrollOffset = v.maxScrollOffset()
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	}

	return v, nil
}

// wrapContent lays the passages out as lines that fit the view width.
func (v *View) wrapContent() {
	contentWidth := v.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	v.lines = v.lines[:0]
	for i, p := range v.passages {
		if i > 0 {
			v.lines = append(v.lines, line{})
		}
		v.lines = append(v.lines, line{
			text:   fmt.Sprintf("[%d] %s", p.ChunkIndex, p.Location()),
			header: true,
		})
		for _, raw := range strings.Split(p.Text, "\n") {
			for _, w := range wrap(raw, contentWidth) {
				v.lines = append(v.lines, line{text: w})
			}
		}
	}
}

// wrap splits s into rows of at most width runes, breaking at spaces when
// a row has one.
func wrap(s string, width int) []string {
	r := []rune(s)
	if len(r) <= width {
		return []string{s}
	}
	var rows []string
	for len(r) > width {
		cut := width
		for i := width; i > width/2; i-- {
			if r[i] == ' ' {
				cut = i
				break
			}
		}
		rows = append(rows, strings.TrimRight(string(r[:cut]), " "))
		r = []rune(strings.TrimLeft(string(r[cut:]), " "))
	}
	if len(r) > 0 {
		rows = append(rows, string(r))
	}
	return rows
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Reserve lines for title, separator, help, and padding
	available := v.height - 6
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the passages view.
func (v *View) View() string {
	var b strings.Builder

	title := "Passages"
	if v.name != "" {
		title = fmt.Sprintf("%s (%d passages)", v.name, len(v.passages))
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(v.width-4, 60)))
	b.WriteString("\n\n")

	if len(v.lines) == 0 {
		b.WriteString(v.styles.Muted.Render("(No passages)"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visibleLines := v.visibleLines()
	end := min(v.scrollOffset+visibleLines, len(v.lines))
	for _, l := range v.lines[v.scrollOffset:end] {
		if l.header {
			b.WriteString(v.styles.Subtitle.Render(l.text))
		} else {
			b.WriteString(v.styles.Normal.Render(l.text))
		}
		b.WriteString("\n")
	}

	if len(v.lines) > visibleLines {
		b.WriteString("\n")
		percentage := 0
		if v.maxScrollOffset() > 0 {
			percentage = v.scrollOffset * 100 / v.maxScrollOffset()
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%] Line %d-%d of %d",
			percentage, v.scrollOffset+1, end, len(v.lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.wrapContent()
}

// Name returns the file being shown.
func (v *View) Name() string {
	return v.name
}

// Passages returns the passages being shown.
func (v *View) Passages() []domain.Passage {
	return v.passages
}

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// LineCount returns the number of laid out lines.
func (v *View) LineCount() int {
	return len(v.lines)
}
