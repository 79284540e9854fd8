package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/views/ask"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/views/passages"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	menuView      *menu.View
	askView       *ask.View
	documentsView *documents.View
	passagesView  *passages.View
	historyView   *history.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool

	// program is set while Run is active so other goroutines can Send.
	programMu sync.Mutex
	program   *tea.Program
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.NewStyles(styles.ThemeFromEnv(os.Getenv))
	app := &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menu.NewView(s, nil),
		askView:       ask.NewView(s, nil, ports.Session),
		documentsView: documents.NewView(s, ports.Session),
		passagesView:  passages.NewView(s),
		historyView:   history.NewView(s, ports.Session),
		currentView:   messages.ViewMenu, // Start with menu
	}
	app.refreshSummary()
	return app, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.askView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("StudyMate"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewAsk:
			a.askView.Reset()
			return a, a.askView.Init()
		case messages.ViewDocuments:
			return a, a.documentsView.Init()
		case messages.ViewHistory:
			return a, a.historyView.Init()
		case messages.ViewMenu:
			a.refreshSummary()
		case messages.ViewPassages, messages.ViewHelp:
			// No initialisation needed
		}
		return a, nil

	case messages.AnswerCompleted, messages.SearchCompleted:
		a.askView, cmd = a.askView.Update(msg)
		a.err = a.askView.Err()
		return a, cmd

	case messages.DocumentsLoaded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentSelected:
		a.passagesView.SetFile(msg.Name, msg.Passages)
		a.currentView = messages.ViewPassages
		return a, nil

	case messages.HistoryLoaded, messages.HistoryExported, messages.HistoryCleared:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.updateCurrent(msg)

	case messages.KnowledgeBaseRebuilt:
		notice := rebuildNotice(msg)
		a.refreshSummary()
		a.menuView.SetNotice(notice)
		a.askView.SetNotice(notice)
		if msg.Err == nil && a.currentView == messages.ViewDocuments {
			return a, a.documentsView.Init()
		}
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.updateCurrent(msg)
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewPassages:
		a.passagesView, cmd = a.passagesView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewHelp:
		// Help view is static
	}
	return cmd
}

// rebuildNotice describes a rebuild in one line.
func rebuildNotice(msg messages.KnowledgeBaseRebuilt) string {
	if msg.Err != nil {
		return "Rebuild failed, keeping previous documents: " + msg.Err.Error()
	}
	if msg.Report == nil {
		return "Documents rebuilt."
	}
	notice := fmt.Sprintf("Documents rebuilt: %d file(s), %d passages", len(msg.Report.Files), msg.Report.Passages)
	if n := len(msg.Report.Failures); n > 0 {
		notice += fmt.Sprintf(", %d skipped", n)
	}
	return notice
}

// refreshSummary passes the current knowledge base to the menu.
func (a *App) refreshSummary() {
	a.menuView.SetStats(a.ports.Session.Stats(), a.ports.Session.HasLLM())
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewAsk:
		return a.askView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewPassages:
		return a.passagesView.View()
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(`Help

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  a/d/h/?     Ask, Documents, History, Help
  q           Quit

Ask:
  (type)      Enter a question
  enter       Ask / show the full reference
  n           New question
  esc         Back to Menu

Documents:
  enter       Show passages of a file
  r           Reload

History:
  enter       Show answer and references
  e           Export as txt, csv or json
  x           Clear history
`)

	if a.ports.Settings != nil {
		if settings, err := a.ports.Settings.Get(); err == nil {
			b.WriteString("\nProviders:\n")
			fmt.Fprintf(&b, "  embedding   %s (%s)\n", settings.Embedding.Provider.Description(), settings.Embedding.Model)
			fmt.Fprintf(&b, "  llm         %s (%s)\n", settings.LLM.Provider.Description(), settings.LLM.Model)
		}
	}

	b.WriteString("\n[esc] back to menu")
	return b.String()
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	a.programMu.Lock()
	a.program = p
	a.programMu.Unlock()

	_, err := p.Run()

	a.programMu.Lock()
	a.program = nil
	a.programMu.Unlock()
	return err
}

// Send delivers msg to the running program from any goroutine. Messages
// sent while the TUI is not running are dropped.
func (a *App) Send(msg tea.Msg) {
	a.programMu.Lock()
	p := a.program
	a.programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// Answer returns the answer shown in the ask view.
func (a *App) Answer() string {
	return a.askView.Answer()
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.askView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.passagesView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
}
