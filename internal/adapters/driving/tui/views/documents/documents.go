// Package documents provides the indexed files view for the TUI.
package documents

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// ErrNoKnowledgeBase is shown when the session has no indexed documents.
var ErrNoKnowledgeBase = errors.New("knowledge base service not available")

// File is one indexed file and its passages.
type File struct {
	Name     string
	Passages []domain.Passage
}

// View is the indexed files view.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	kb     driving.KnowledgeBaseService

	stats        domain.SessionStats
	files        []File
	selected     int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	scrollOffset int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, kb driving.KnowledgeBaseService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		kb:     kb,
	}
}

// Init loads the knowledge base summary.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadDocuments()
}

// loadDocuments returns a command that reads the knowledge base.
func (v *View) loadDocuments() tea.Cmd {
	kb := v.kb
	return func() tea.Msg {
		if kb == nil {
			return messages.ErrorOccurred{Err: ErrNoKnowledgeBase}
		}
		return messages.DocumentsLoaded{
			Stats:    kb.Stats(),
			Passages: kb.Passages(),
		}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		v.err = nil
		v.stats = msg.Stats
		v.files = groupByFile(msg.Stats.Files, msg.Passages)
		if v.selected >= len(v.files) {
			v.selected = 0
			v.scrollOffset = 0
		}
		return v, nil

	case messages.ErrorOccurred:
		v.loading = false
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// groupByFile pairs each indexed file with its passages, keeping the
// knowledge base's file order.
func groupByFile(names []string, passages []domain.Passage) []File {
	byName := make(map[string][]domain.Passage, len(names))
	for _, p := range passages {
		byName[p.SourceID] = append(byName[p.SourceID], p)
	}
	files := make([]File, len(names))
	for i, name := range names {
		files[i] = File{Name: name, Passages: byName[name]}
	}
	return files
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up):
		v.selectFile(v.selected - 1)
	case key.Matches(msg, v.keymap.Down):
		v.selectFile(v.selected + 1)
	case key.Matches(msg, v.keymap.First):
		v.selectFile(0)
	case key.Matches(msg, v.keymap.Last):
		v.selectFile(len(v.files) - 1)
	case key.Matches(msg, v.keymap.Select):
		if v.selected < len(v.files) {
			file := v.files[v.selected]
			return v, func() tea.Msg {
				return messages.DocumentSelected{Name: file.Name, Passages: file.Passages}
			}
		}
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case key.Matches(msg, v.keymap.Refresh):
		v.loading = true
		return v, v.loadDocuments()
	}

	return v, nil
}

func (v *View) selectFile(i int) {
	if len(v.files) == 0 {
		return
	}
	v.selected = min(max(i, 0), len(v.files)-1)
	v.adjustScroll()
}

// adjustScroll adjusts the scroll offset to keep the selected item visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

// visibleItemCount returns the number of items that can be displayed.
func (v *View) visibleItemCount() int {
	// Reserve lines for title, summary, help, and padding
	available := v.height - 9
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.files))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.files) == 0:
		b.WriteString(v.styles.Muted.Render("No documents loaded. Start with -d FILE or --dir DIR."))
	default:
		b.WriteString(v.styles.Muted.Render(v.summary()))
		b.WriteString("\n\n")
		v.renderFiles(&b)
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) summary() string {
	s := fmt.Sprintf("%d passages, embedder %s", v.stats.Passages, v.stats.EmbedderID)
	if !v.stats.BuiltAt.IsZero() {
		s += ", built " + v.stats.BuiltAt.Format(domain.TimestampLayout)
	}
	return s
}

func (v *View) renderFiles(b *strings.Builder) {
	visibleItems := v.visibleItemCount()
	end := min(v.scrollOffset+visibleItems, len(v.files))
	for i := v.scrollOffset; i < end; i++ {
		b.WriteString(v.renderFile(i, &v.files[i]))
		b.WriteString("\n")
	}

	if len(v.files) > visibleItems {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1, end, len(v.files))))
	}
}

// renderFile renders a single file line.
func (v *View) renderFile(index int, file *File) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	name := file.Name
	maxNameLen := v.width/2 - 4
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}
	count := fmt.Sprintf("%d passages", len(file.Passages))

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxNameLen, name, count))
	}
	return v.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxNameLen, name)) +
		v.styles.Muted.Render(count)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [enter] passages  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Files returns the indexed files.
func (v *View) Files() []File {
	return v.files
}

// SelectedIndex returns the currently selected file index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Loading reports whether a reload is in progress.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
