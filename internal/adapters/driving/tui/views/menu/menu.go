// Package menu provides the start view: a knowledge base summary and the
// entries leading to the other views.
package menu

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

// Item is one menu entry. Entries with a Requires check are skipped by the
// cursor and rendered muted while the check fails.
type Item struct {
	Label    string
	Hotkey   string
	View     messages.ViewType
	Quit     bool
	Requires func(domain.SessionStats) bool
}

func hasDocuments(s domain.SessionStats) bool { return s.HasKnowledgeBase() }
func hasHistory(s domain.SessionStats) bool   { return s.Questions > 0 }

// DefaultItems returns the StudyMate menu.
func DefaultItems() []Item {
	return []Item{
		{Label: "Ask a question", Hotkey: "a", View: messages.ViewAsk, Requires: hasDocuments},
		{Label: "Documents", Hotkey: "d", View: messages.ViewDocuments, Requires: hasDocuments},
		{Label: "History", Hotkey: "h", View: messages.ViewHistory, Requires: hasHistory},
		{Label: "Help", Hotkey: "?", View: messages.ViewHelp},
		{Label: "Quit", Hotkey: "q", Quit: true},
	}
}

// View is the menu view.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	items  []Item

	selected int
	stats    domain.SessionStats
	hasLLM   bool
	notice   string

	width  int
	height int
	ready  bool
}

// NewView creates a menu with the default items.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles: s,
		keymap: km,
		items:  DefaultItems(),
		width:  80,
		height: 24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles navigation, selection and item hotkeys.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Up):
			v.move(-1)
			return v, nil
		case key.Matches(msg, v.keymap.Down):
			v.move(1)
			return v, nil
		case key.Matches(msg, v.keymap.Select):
			return v, v.activate(v.selected)
		}
		for i, item := range v.items {
			if msg.String() == item.Hotkey {
				return v, v.activate(i)
			}
		}
	}
	return v, nil
}

// move steps the cursor by delta, skipping unavailable items.
func (v *View) move(delta int) {
	for i := v.selected + delta; i >= 0 && i < len(v.items); i += delta {
		if v.Available(i) {
			v.selected = i
			return
		}
	}
}

// activate returns the command for item i, or nil when it is unavailable.
func (v *View) activate(i int) tea.Cmd {
	if !v.Available(i) {
		return nil
	}
	v.selected = i
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View}
	}
}

// Available reports whether item i can be chosen with the current stats.
func (v *View) Available(i int) bool {
	if i < 0 || i >= len(v.items) {
		return false
	}
	req := v.items[i].Requires
	return req == nil || req(v.stats)
}

// View renders the summary panel and the items.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("StudyMate"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Ask questions about your documents"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Border.Padding(0, 1).Render(v.Summary()))
	b.WriteString("\n")
	if v.notice != "" {
		b.WriteString(v.styles.Muted.Render(v.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, item := range v.items {
		label := fmt.Sprintf("[%s] %s", item.Hotkey, item.Label)
		switch {
		case i == v.selected:
			b.WriteString(v.styles.Selected.Render("> " + label))
		case !v.Available(i):
			b.WriteString(v.styles.Muted.Render("  " + label))
		default:
			b.WriteString(v.styles.Normal.Render("  " + label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("↑/↓ navigate  enter select  q quit"))
	return b.String()
}

// Summary describes the knowledge base in one or two lines.
func (v *View) Summary() string {
	if !v.stats.HasKnowledgeBase() {
		return "No documents loaded. Start with: studymate tui <files>"
	}

	noun := "files"
	if len(v.stats.Files) == 1 {
		noun = "file"
	}
	line := fmt.Sprintf("%d passages from %d %s", v.stats.Passages, len(v.stats.Files), noun)
	if v.stats.Questions > 0 {
		line += fmt.Sprintf(", %d questions asked", v.stats.Questions)
	}

	detail := "embedded with " + v.stats.EmbedderID
	if !v.stats.BuiltAt.IsZero() {
		detail += " at " + v.stats.BuiltAt.Format("15:04")
	}
	if !v.hasLLM {
		detail += ". No language model, search only"
	}
	return line + "\n" + detail
}

// SetStats refreshes the summary and moves the cursor off an entry that
// became unavailable.
func (v *View) SetStats(stats domain.SessionStats, hasLLM bool) {
	v.stats = stats
	v.hasLLM = hasLLM
	if v.Available(v.selected) {
		return
	}
	for i := range v.items {
		if v.Available(i) {
			v.selected = i
			return
		}
	}
}

// SetNotice sets a line shown under the summary, such as the outcome of a
// background rebuild. An empty notice hides it.
func (v *View) SetNotice(notice string) {
	v.notice = notice
}

// Notice returns the current notice.
func (v *View) Notice() string {
	return v.notice
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the cursor index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the menu entries.
func (v *View) Items() []Item {
	return v.items
}
