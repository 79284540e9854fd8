// Package cli implements the studymate command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
	"github.com/custodia-labs/studymate/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

var (
	settingsService driving.SettingsService
	sessionService  driving.SessionService
	documentWatcher driven.DocumentWatcher
)

var rootCmd = &cobra.Command{
	Use:   "studymate",
	Short: "Ask questions about your study documents",
	Long: `StudyMate answers questions about your PDF and text documents.

Documents are split into passages, embedded into an in-memory index and
searched for every question. Answers are generated by a language model from
the passages found and cite them as references.

Give documents with -d (repeatable) or a whole directory with --dir.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stages to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetSettingsService sets the settings service used by the settings command.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetSessionService sets the session every document command works on.
func SetSessionService(s driving.SessionService) {
	sessionService = s
}

// SetDocumentWatcher sets the watcher used by --watch.
func SetDocumentWatcher(w driven.DocumentWatcher) {
	documentWatcher = w
}
