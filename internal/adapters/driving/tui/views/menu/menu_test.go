package menu

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/core/domain"
)

var loaded = domain.SessionStats{
	Files:      []string{"biology.pdf", "notes.txt"},
	Passages:   12,
	EmbedderID: "ollama/nomic-embed-text",
	BuiltAt:    time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
}

func newTestView(stats domain.SessionStats, hasLLM bool) *View {
	v := NewView(nil, nil)
	v.SetDimensions(100, 30)
	v.SetStats(stats, hasLLM)
	return v
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// viewChange runs cmd and returns the view it switches to.
func viewChange(t *testing.T, cmd tea.Cmd) messages.ViewType {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.ViewChanged)
	require.True(t, ok)
	return msg.View
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.NotNil(t, v.keymap)
	assert.Len(t, v.Items(), 5)
	assert.Zero(t, v.Selected())
	assert.Nil(t, v.Init())
	assert.Equal(t, "Initialising...", v.View())
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil, nil)

	_, cmd := v.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	assert.Nil(t, cmd)
	assert.True(t, v.ready)
	assert.Equal(t, 100, v.width)
	assert.Equal(t, 50, v.height)
}

func TestView_Available(t *testing.T) {
	tests := []struct {
		name  string
		stats domain.SessionStats
		want  []bool // ask, documents, history, help, quit
	}{
		{"empty", domain.SessionStats{}, []bool{false, false, false, true, true}},
		{"loaded", loaded, []bool{true, true, false, true, true}},
		{"with history", domain.SessionStats{Passages: 1, Questions: 2}, []bool{true, true, true, true, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestView(tt.stats, true)
			for i, want := range tt.want {
				assert.Equal(t, want, v.Available(i), v.Items()[i].Label)
			}
			assert.False(t, v.Available(-1))
			assert.False(t, v.Available(len(v.Items())))
		})
	}
}

func TestView_Navigation(t *testing.T) {
	tests := []struct {
		name  string
		stats domain.SessionStats
		keys  []string
		want  int
	}{
		{"down", loaded, []string{"down"}, 1},
		{"skips history", loaded, []string{"j", "j"}, 3},
		{"back over history", loaded, []string{"j", "j", "k"}, 1},
		{"stops at quit", loaded, []string{"j", "j", "j", "j", "j"}, 4},
		{"stops at first", loaded, []string{"up"}, 0},
		{"empty starts at help", domain.SessionStats{}, nil, 3},
		{"empty cannot reach ask", domain.SessionStats{}, []string{"k", "k"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestView(tt.stats, true)
			for _, k := range tt.keys {
				v.Update(keyPress(k))
			}
			assert.Equal(t, tt.want, v.Selected())
		})
	}
}

func TestView_Select(t *testing.T) {
	v := newTestView(loaded, true)

	_, cmd := v.Update(keyPress("enter"))
	assert.Equal(t, messages.ViewAsk, viewChange(t, cmd))

	v.Update(keyPress("down"))
	_, cmd = v.Update(keyPress("enter"))
	assert.Equal(t, messages.ViewDocuments, viewChange(t, cmd))
}

func TestView_Hotkeys(t *testing.T) {
	v := newTestView(domain.SessionStats{Passages: 3, Questions: 1}, true)

	_, cmd := v.Update(keyPress("h"))
	assert.Equal(t, messages.ViewHistory, viewChange(t, cmd))
	assert.Equal(t, 2, v.Selected())

	_, cmd = v.Update(keyPress("?"))
	assert.Equal(t, messages.ViewHelp, viewChange(t, cmd))

	_, cmd = v.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = v.Update(keyPress("z"))
	assert.Nil(t, cmd)
}

func TestView_UnavailableHotkeyDoesNothing(t *testing.T) {
	v := newTestView(domain.SessionStats{}, true)

	_, cmd := v.Update(keyPress("a"))

	assert.Nil(t, cmd)
	assert.Equal(t, 3, v.Selected())
}

func TestView_SetStatsMovesCursorOffUnavailable(t *testing.T) {
	v := newTestView(loaded, true)
	v.Update(keyPress("d"))
	require.Equal(t, 1, v.Selected())

	v.SetStats(domain.SessionStats{}, true)
	assert.Equal(t, 3, v.Selected())

	v.SetStats(loaded, true)
	assert.Equal(t, 3, v.Selected(), "an available cursor stays put")
}

func TestView_Summary(t *testing.T) {
	tests := []struct {
		name   string
		stats  domain.SessionStats
		hasLLM bool
		want   []string
	}{
		{
			name: "no documents",
			want: []string{"No documents loaded", "studymate tui <files>"},
		},
		{
			name:   "loaded",
			stats:  loaded,
			hasLLM: true,
			want:   []string{"12 passages from 2 files", "embedded with ollama/nomic-embed-text at 09:30"},
		},
		{
			name:  "one file with history and no model",
			stats: domain.SessionStats{Files: []string{"a.txt"}, Passages: 1, Questions: 3, EmbedderID: "local"},
			want:  []string{"1 passages from 1 file, 3 questions asked", "No language model, search only"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestView(tt.stats, tt.hasLLM)
			for _, want := range tt.want {
				assert.Contains(t, v.Summary(), want)
			}
		})
	}
}

func TestView_Render(t *testing.T) {
	v := newTestView(loaded, true)

	view := v.View()

	assert.Contains(t, view, "StudyMate")
	assert.Contains(t, view, "12 passages from 2 files")
	assert.Contains(t, view, "> [a] Ask a question")
	assert.Contains(t, view, "  [h] History")
	assert.Contains(t, view, "enter select")
}

func TestView_Notice(t *testing.T) {
	v := newTestView(loaded, true)
	assert.NotContains(t, v.View(), "Documents rebuilt")

	v.SetNotice("Documents rebuilt: 2 file(s), 12 passages")

	assert.Equal(t, "Documents rebuilt: 2 file(s), 12 passages", v.Notice())
	assert.Contains(t, v.View(), "Documents rebuilt: 2 file(s), 12 passages")

	v.SetNotice("")
	assert.NotContains(t, v.View(), "Documents rebuilt")
}
