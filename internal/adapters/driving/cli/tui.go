package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studymate/internal/adapters/driving/tui"
	"github.com/custodia-labs/studymate/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/studymate/internal/core/domain"
)

var tuiWatch bool

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for StudyMate.

The documents are loaded first; the TUI then lets you ask questions, browse
the passages of each file, and review or export the question history.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Ask / Select
  Esc      - Back / Cancel
  q        - Quit (from the menu)`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	addDocumentFlags(tuiCmd)
	tuiCmd.Flags().BoolVar(&tuiWatch, "watch", false, "rebuild when files in --dir change")
	rootCmd.AddCommand(tuiCmd)
}

// newTUIApp builds the TUI from the configured services.
func newTUIApp(ctx context.Context) (*tui.App, error) {
	app, err := tui.NewApp(tui.NewPorts(sessionService, settingsService))
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}
	return app.WithContext(ctx), nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if err := validateWatch(tuiWatch); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if _, err := loadDocuments(ctx, cmd); err != nil {
		return err
	}
	app, err := newTUIApp(ctx)
	if err != nil {
		return err
	}
	if tuiWatch {
		go watchIntoTUI(ctx, app)
	}
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// watchIntoTUI rebuilds on document changes and reports each outcome to the
// running TUI instead of the terminal.
func watchIntoTUI(ctx context.Context, app *tui.App) {
	err := rebuildOnChange(ctx, func(report *domain.IngestReport, err error) {
		app.Send(messages.KnowledgeBaseRebuilt{Report: report, Err: err})
	})
	if err != nil {
		app.Send(messages.ErrorOccurred{Err: err})
	}
}
