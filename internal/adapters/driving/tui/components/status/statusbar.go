// Package status provides the status line shown under the ask view.
package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
)

// State is the stage of the current question.
type State string

const (
	StateReady      State = "ready"
	StateThinking   State = "thinking"
	StateAnswered   State = "answered"
	StateSearchOnly State = "search_only"
	StateError      State = "error"
)

// Bar shows the question state on the left and key hints on the right.
// It is passive: the owning view sets its fields.
type Bar struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	state      State
	message    string
	references int
	model      string
	elapsed    time.Duration
	width      int
}

// NewBar creates a status bar.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// View renders the bar padded to its width on a single line.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	padding := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateThinking:
		return s.styles.Muted.Render("Thinking...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render("Error: " + s.message)
		}
		return s.styles.Error.Render("Error")
	case StateAnswered:
		return s.styles.Normal.Render(s.summary())
	case StateSearchOnly:
		return s.styles.Warning.Render(s.summary() + ", search only")
	}
	if s.message != "" {
		return s.styles.Normal.Render(s.message)
	}
	return s.styles.Muted.Render("Ready")
}

// summary reads like "4 references from llama3.2 in 2.1s".
func (s *Bar) summary() string {
	var b strings.Builder
	switch s.references {
	case 0:
		b.WriteString("No references")
	case 1:
		b.WriteString("1 reference")
	default:
		fmt.Fprintf(&b, "%d references", s.references)
	}
	if s.model != "" {
		fmt.Fprintf(&b, " from %s", s.model)
	}
	if elapsed := s.elapsed.Round(100 * time.Millisecond); elapsed > 0 {
		fmt.Fprintf(&b, " in %s", elapsed)
	}
	return b.String()
}

func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	if (s.state == StateAnswered || s.state == StateSearchOnly) && s.references > 0 {
		bindings = s.keymap.ResultsHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// Thinking marks a question as in flight and clears the previous outcome.
func (s *Bar) Thinking() {
	s.Clear()
	s.state = StateThinking
}

// Answered records a completed question. An empty model means the
// references came from search alone.
func (s *Bar) Answered(references int, model string, elapsed time.Duration) {
	s.state = StateAnswered
	if model == "" {
		s.state = StateSearchOnly
	}
	s.message = ""
	s.references = references
	s.model = model
	s.elapsed = elapsed
}

// Failed shows err in place of the outcome.
func (s *Bar) Failed(err error) {
	s.state = StateError
	s.message = ""
	if err != nil {
		s.message = err.Error()
	}
}

// SetMessage sets the text shown while ready.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Clear resets the bar to ready.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.references = 0
	s.model = ""
	s.elapsed = 0
}

// SetWidth sets the bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// State returns the current state.
func (s *Bar) State() State { return s.state }

// Message returns the error or ready message.
func (s *Bar) Message() string { return s.message }

// References returns the number of references of the last question.
func (s *Bar) References() int { return s.references }

// Width returns the bar width.
func (s *Bar) Width() int { return s.width }
