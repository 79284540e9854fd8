// Package history provides the question history view for the TUI.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/studymate/internal/adapters/driven/export"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// ErrNoHistoryService is shown when no history service was provided.
var ErrNoHistoryService = errors.New("history service not available")

// mode is what the keyboard currently controls.
type mode int

const (
	modeList mode = iota
	modeDetail
	modeExport
	modeConfirmClear
)

// View lists answered questions, newest first.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	history driving.HistoryService
	now     func() time.Time

	exportDir    string
	records      []domain.QARecord // newest first
	selected     int
	scrollOffset int
	mode         mode
	formats      []domain.ExportFormat
	formatIndex  int
	notice       string
	err          error
	width        int
	height       int
	ready        bool
}

// NewView creates a new history view. Exports are written to the working
// directory.
func NewView(s *styles.Styles, history driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		history: history,
		now:     time.Now,
		formats: domain.AllExportFormats(),
		width:   80,
		height:  24,
	}
}

// SetExportDir sets the directory exports are written to.
func (v *View) SetExportDir(dir string) {
	v.exportDir = dir
}

// Init loads the history.
func (v *View) Init() tea.Cmd {
	v.mode = modeList
	v.notice = ""
	v.err = nil
	return v.loadHistory()
}

func (v *View) loadHistory() tea.Cmd {
	history := v.history
	return func() tea.Msg {
		if history == nil {
			return messages.ErrorOccurred{Err: ErrNoHistoryService}
		}
		return messages.HistoryLoaded{Records: history.History()}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.HistoryLoaded:
		v.records = make([]domain.QARecord, len(msg.Records))
		for i, r := range msg.Records {
			v.records[len(msg.Records)-1-i] = r
		}
		if v.selected >= len(v.records) {
			v.selected = 0
			v.scrollOffset = 0
		}
		return v, nil

	case messages.HistoryExported:
		v.mode = modeList
		if msg.Err != nil {
			v.err = msg.Err
			v.notice = ""
		} else {
			v.err = nil
			v.notice = "History written to " + msg.Path
		}
		return v, nil

	case messages.HistoryCleared:
		v.mode = modeList
		v.notice = "History cleared."
		return v, v.loadHistory()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch v.mode {
	case modeDetail:
		if key.Matches(msg, v.keymap.Back, v.keymap.Select) {
			v.mode = modeList
		}
		return v, nil
	case modeExport:
		return v.handleExportKey(msg)
	case modeConfirmClear:
		if key.Matches(msg, v.keymap.Confirm) {
			return v, v.clearHistory()
		}
		v.mode = modeList
		return v, nil
	case modeList:
		// Handled below
	}

	switch {
	case key.Matches(msg, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case key.Matches(msg, v.keymap.Down):
		if v.selected < len(v.records)-1 {
			v.selected++
			v.adjustScroll()
		}
	case key.Matches(msg, v.keymap.Select):
		if len(v.records) > 0 {
			v.mode = modeDetail
		}
	case key.Matches(msg, v.keymap.Export):
		if len(v.records) > 0 {
			v.mode = modeExport
			v.notice = ""
		}
	case key.Matches(msg, v.keymap.Clear):
		if len(v.records) > 0 {
			v.mode = modeConfirmClear
		}
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

func (v *View) handleExportKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up):
		v.formatIndex = max(v.formatIndex-1, 0)
	case key.Matches(msg, v.keymap.Down):
		v.formatIndex = min(v.formatIndex+1, len(v.formats)-1)
	case key.Matches(msg, v.keymap.Select):
		return v, v.exportHistory(v.formats[v.formatIndex])
	case key.Matches(msg, v.keymap.Back):
		v.mode = modeList
	}
	return v, nil
}

// exportHistory writes the history to a timestamped file in the export
// directory.
func (v *View) exportHistory(format domain.ExportFormat) tea.Cmd {
	history := v.history
	path := filepath.Join(v.exportDir, export.DefaultFilename(format, v.now()))
	return func() tea.Msg {
		if history == nil {
			return messages.HistoryExported{Err: ErrNoHistoryService}
		}
		f, err := os.Create(path)
		if err != nil {
			return messages.HistoryExported{Err: fmt.Errorf("create %s: %w", path, err)}
		}
		if err := history.ExportHistory(f, format); err != nil {
			f.Close()
			return messages.HistoryExported{Err: err}
		}
		if err := f.Close(); err != nil {
			return messages.HistoryExported{Err: fmt.Errorf("close %s: %w", path, err)}
		}
		return messages.HistoryExported{Path: path}
	}
}

func (v *View) clearHistory() tea.Cmd {
	history := v.history
	return func() tea.Msg {
		if history == nil {
			return messages.ErrorOccurred{Err: ErrNoHistoryService}
		}
		history.ClearHistory()
		return messages.HistoryCleared{}
	}
}

// adjustScroll keeps the selected record visible.
func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

// visibleItemCount returns how many records fit; each takes two lines.
func (v *View) visibleItemCount() int {
	return max((v.height-8)/2, 1)
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("History (%d)", len(v.records))))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	} else if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n\n")
	}

	switch {
	case len(v.records) == 0:
		b.WriteString(v.styles.Muted.Render("No questions asked yet."))
	case v.mode == modeDetail:
		b.WriteString(v.renderDetail(&v.records[v.selected]))
	case v.mode == modeExport:
		b.WriteString(v.renderExportMenu())
	default:
		v.renderList(&b)
		if v.mode == modeConfirmClear {
			b.WriteString("\n")
			b.WriteString(v.styles.Warning.Render("Clear all history? [y/N]"))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderList(b *strings.Builder) {
	end := min(v.scrollOffset+v.visibleItemCount(), len(v.records))
	for i := v.scrollOffset; i < end; i++ {
		r := &v.records[i]
		number := len(v.records) - i
		label := fmt.Sprintf("Q%d: %s", number, truncate(r.Question, max(v.width-30, 20)))
		meta := fmt.Sprintf("%s, %d references", r.Timestamp.Format(domain.TimestampLayout), r.Sources())
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + label))
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("    " + meta))
		b.WriteString("\n")
	}
}

func (v *View) renderDetail(r *domain.QARecord) string {
	var b strings.Builder
	b.WriteString(v.styles.Question.Render("Q: " + r.Question))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Asked: " + r.Timestamp.Format(domain.TimestampLayout)))
	b.WriteString("\n\n")
	b.WriteString(styles.Wrap(v.styles.Answer, v.width-2, r.Answer))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Subtitle.Render("References:"))
	for i, p := range r.Evidence {
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render(fmt.Sprintf("  %d. %s", i+1, p.Location())))
	}
	return b.String()
}

func (v *View) renderExportMenu() string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Export history as:"))
	b.WriteString("\n\n")
	for i, f := range v.formats {
		if i == v.formatIndex {
			b.WriteString(v.styles.Selected.Render("> " + string(f)))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + string(f)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderHelp() string {
	switch v.mode {
	case modeDetail:
		return v.styles.Help.Render("[enter/esc] back to list")
	case modeExport:
		return v.styles.Help.Render("[↑/↓] format  [enter] export  [esc] cancel")
	case modeList, modeConfirmClear:
		// List hints below
	}
	bindings := v.keymap.HistoryHelp()
	hints := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		hints = append(hints, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	return v.styles.Help.Render(strings.Join(hints, "  "))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Records returns the loaded records, newest first.
func (v *View) Records() []domain.QARecord {
	return v.records
}

// SelectedIndex returns the selected record index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Notice returns the last status notice.
func (v *View) Notice() string {
	return v.notice
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
