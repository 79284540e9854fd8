// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// retrievalOnlyNotice is shown in place of an answer when no language model
// is configured.
const retrievalOnlyNotice = "No language model configured. Showing the closest passages."

// View represents the ask view with input, answer, references and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	list      *list.References
	statusbar *status.Bar

	session driving.SessionService
	ctx     context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing a question, false = reading references
	expanded   bool // show the full text of the selected reference

	question      string
	answer        string
	model         string
	retrievalOnly bool
	asked         time.Time

	now func() time.Time
}

// NewView creates a new ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.SessionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		list:       list.NewReferences(s, km),
		statusbar:  status.NewBar(s, km),
		session:    session,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
		now:        time.Now,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerCompleted:
		v.handleAnswerCompleted(msg)
		return v, nil

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if key.Matches(msg, v.keymap.Back) {
		if v.expanded {
			v.expanded = false
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if key.Matches(msg, v.keymap.Submit) {
			return v.submit()
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case key.Matches(msg, v.keymap.Expand):
		if v.list.Len() > 0 {
			v.expanded = !v.expanded
		}
		return v, nil
	case key.Matches(msg, v.keymap.NewQuestion):
		v.newQuestion()
		return v, v.input.Focus()
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// submit sends the typed question.
func (v *View) submit() (*View, tea.Cmd) {
	question := strings.TrimSpace(v.input.Value())
	if question == "" {
		return v, nil
	}
	v.input.Remember(question)
	v.question = question
	v.answer = ""
	v.model = ""
	v.err = nil
	v.expanded = false
	v.list.SetReferences(nil)
	v.statusbar.Thinking()
	v.asked = v.now()
	v.focusInput = false
	v.input.Blur()
	return v, v.performAsk(question)
}

// performAsk answers the question, or only retrieves passages when the
// session has no language model.
func (v *View) performAsk(question string) tea.Cmd {
	session := v.session
	ctx := v.ctx
	return func() tea.Msg {
		if session == nil {
			return messages.ErrorOccurred{Err: ErrNoSessionService}
		}
		if !session.HasLLM() {
			results, err := session.Search(ctx, question, domain.SearchOptions{})
			return messages.SearchCompleted{Query: question, Results: results, Err: err}
		}
		record, err := session.Ask(ctx, question, domain.AskOptions{})
		return messages.AnswerCompleted{Record: record, Err: err}
	}
}

func (v *View) handleAnswerCompleted(msg messages.AnswerCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	if msg.Record == nil {
		return
	}

	v.err = nil
	v.retrievalOnly = false
	v.answer = msg.Record.Answer
	v.model = msg.Record.Model

	refs := make([]domain.ScoredPassage, len(msg.Record.Evidence))
	for i, p := range msg.Record.Evidence {
		refs[i] = domain.ScoredPassage{Passage: p}
	}
	v.showReferences(refs)
	v.statusbar.Answered(len(refs), v.model, v.now().Sub(v.asked))
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.retrievalOnly = true
	v.answer = ""
	v.model = ""
	v.showReferences(msg.Results)
	v.statusbar.Answered(len(msg.Results), "", v.now().Sub(v.asked))
}

func (v *View) showReferences(refs []domain.ScoredPassage) {
	v.list.SetReferences(refs)
	v.focusInput = false
	v.input.Blur()
}

// setError shows err and returns focus to the input so the question can be
// edited and retried.
func (v *View) setError(err error) {
	v.err = err
	v.statusbar.Failed(err)
	v.focusInput = true
	v.input.Focus()
}

func (v *View) newQuestion() {
	v.focusInput = true
	v.expanded = false
	v.input.Reset()
	v.statusbar.Clear()
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 16)
	sections = append(sections, v.styles.Title.Render("StudyMate"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.question != "" && v.err == nil {
		sections = append(sections, v.styles.Question.Render("Q: "+v.question), "")
		switch {
		case v.answer != "":
			sections = append(sections, styles.Wrap(v.styles.Answer, v.width-2, v.answer))
			if v.model != "" {
				sections = append(sections, v.styles.Muted.Render("  answered by "+v.model))
			}
			sections = append(sections, "")
		case v.retrievalOnly:
			sections = append(sections, v.styles.Warning.Render(retrievalOnlyNotice), "")
		}
	}

	if v.expanded {
		sections = append(sections, v.renderExpanded())
	} else if v.question != "" {
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderExpanded renders the full text of the selected reference.
func (v *View) renderExpanded() string {
	ref := v.list.Current()
	if ref == nil {
		return ""
	}
	header := v.styles.Subtitle.Render(
		fmt.Sprintf("Reference %d: %s", v.list.Selected()+1, ref.Passage.Location()))
	body := styles.Wrap(v.styles.Normal, v.width-4, ref.Passage.Text)
	return v.styles.Border.Padding(0, 1).Render(header + "\n\n" + body)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-14) // header, input, question, answer and status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Input returns the text currently typed.
func (v *View) Input() string {
	return v.input.Value()
}

// SetInput sets the typed text.
func (v *View) SetInput(text string) {
	v.input.SetValue(text)
}

// Question returns the last submitted question.
func (v *View) Question() string {
	return v.question
}

// Answer returns the answer to the last question.
func (v *View) Answer() string {
	return v.answer
}

// RetrievalOnly reports whether the last question was answered with
// passages only.
func (v *View) RetrievalOnly() bool {
	return v.retrievalOnly
}

// References returns the passages shown for the last question.
func (v *View) References() []domain.ScoredPassage {
	return v.list.References()
}

// SelectedIndex returns the index of the selected reference.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Expanded reports whether the selected reference is shown in full.
func (v *View) Expanded() bool {
	return v.expanded
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// SetNotice shows a one-line notice in the status bar.
func (v *View) SetNotice(notice string) {
	v.statusbar.SetMessage(notice)
}

// Notice returns the status bar message.
func (v *View) Notice() string {
	return v.statusbar.Message()
}

// Reset returns the view to an empty question.
func (v *View) Reset() {
	v.newQuestion()
	v.input.Focus()
	v.list.SetReferences(nil)
	v.err = nil
	v.question = ""
	v.answer = ""
	v.model = ""
	v.retrievalOnly = false
}
