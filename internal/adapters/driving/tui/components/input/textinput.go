// Package input provides the question field of the ask view.
package input

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
)

// MaxQuestionLength is the longest question the input accepts.
const MaxQuestionLength = 1000

// counterFrom is the length from which the remaining characters are shown.
const counterFrom = MaxQuestionLength * 9 / 10

// maxRecall bounds the remembered questions.
const maxRecall = 50

// QuestionInput is a single-line question field. Up and down step through
// earlier questions like a shell history; the draft being typed is kept
// and comes back after the newest entry.
type QuestionInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int

	recall []string // oldest first
	cursor int      // len(recall) while editing the draft
	draft  string
}

// NewQuestionInput creates a focused, empty input.
func NewQuestionInput(s *styles.Styles) *QuestionInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask a question about your documents..."
	ti.CharLimit = MaxQuestionLength
	ti.Width = 50
	ti.Focus()

	return &QuestionInput{textinput: ti, styles: s, width: 50}
}

// Init starts the cursor blink.
func (s *QuestionInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles recall keys and passes everything else to the text field.
func (s *QuestionInput) Update(msg tea.Msg) (*QuestionInput, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && s.textinput.Focused() {
		switch km.Type { //nolint:exhaustive // only recall keys are handled here
		case tea.KeyUp:
			s.step(-1)
			return s, nil
		case tea.KeyDown:
			s.step(1)
			return s, nil
		}
	}
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

func (s *QuestionInput) step(delta int) {
	next := s.cursor + delta
	if next < 0 || next > len(s.recall) {
		return
	}
	if s.cursor == len(s.recall) {
		s.draft = s.textinput.Value()
	}
	s.cursor = next
	if next == len(s.recall) {
		s.textinput.SetValue(s.draft)
	} else {
		s.textinput.SetValue(s.recall[next])
	}
	s.textinput.CursorEnd()
}

// Remember records a submitted question for recall and resets the cursor
// to a fresh draft. Repeating the newest entry is not recorded twice.
func (s *QuestionInput) Remember(question string) {
	if question != "" && (len(s.recall) == 0 || s.recall[len(s.recall)-1] != question) {
		s.recall = append(s.recall, question)
		if len(s.recall) > maxRecall {
			s.recall = s.recall[len(s.recall)-maxRecall:]
		}
	}
	s.cursor = len(s.recall)
	s.draft = ""
}

// Recall returns the remembered questions, oldest first.
func (s *QuestionInput) Recall() []string {
	return s.recall
}

// View renders the label, the field and, near the limit, the characters left.
func (s *QuestionInput) View() string {
	label := s.styles.Title.Render("Ask: ")
	field := s.styles.InputField.Render(s.textinput.View())
	parts := []string{label, field}
	if n := len([]rune(s.textinput.Value())); n >= counterFrom {
		parts = append(parts, s.styles.Warning.Render(fmt.Sprintf(" %d left", MaxQuestionLength-n)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// Value returns the typed text.
func (s *QuestionInput) Value() string {
	return s.textinput.Value()
}

// SetValue replaces the typed text.
func (s *QuestionInput) SetValue(value string) {
	s.textinput.SetValue(value)
}

// Focus gives the field keyboard focus.
func (s *QuestionInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus.
func (s *QuestionInput) Blur() {
	s.textinput.Blur()
}

// Focused reports whether the field has focus.
func (s *QuestionInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth fits the field into width, leaving room for the label and border.
func (s *QuestionInput) SetWidth(width int) {
	s.width = width
	s.textinput.Width = max(width-10, 20)
}

// Width returns the width last set.
func (s *QuestionInput) Width() int {
	return s.width
}

// Reset clears the text and the draft.
func (s *QuestionInput) Reset() {
	s.textinput.Reset()
	s.cursor = len(s.recall)
	s.draft = ""
}
