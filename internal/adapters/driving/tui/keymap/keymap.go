// Package keymap holds every key binding of the TUI so views match on
// bindings instead of raw key strings.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap is the full set of bindings. Views match with key.Matches.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	// Navigation in lists and scrolled text.
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	First    key.Binding
	Last     key.Binding
	Select   key.Binding

	// Ask view.
	Submit      key.Binding
	Recall      key.Binding
	NewQuestion key.Binding
	Expand      key.Binding

	// Documents and history views.
	Refresh key.Binding
	Export  key.Binding
	Clear   key.Binding
	Confirm key.Binding
}

// DefaultKeyMap returns the StudyMate bindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),

		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		First:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		Last:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),

		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ask")),
		Recall:      key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "earlier questions")),
		NewQuestion: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new question")),
		Expand:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "full passage")),

		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Clear:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
		Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	}
}

// ShortHelp is shown in the status bar while no answer is displayed.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Recall, k.Back}
}

// ResultsHelp is shown in the status bar under an answer.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.NewQuestion, k.Up, k.Expand, k.Back}
}

// HistoryHelp is shown under the history list.
func (k *KeyMap) HistoryHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Export, k.Clear, k.Back}
}

// FullHelp groups every binding by where it applies.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.First, k.Last, k.Select},
		{k.Submit, k.Recall, k.NewQuestion, k.Expand},
		{k.Refresh, k.Export, k.Clear, k.Confirm},
		{k.Back, k.Help, k.Quit},
	}
}
