// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/studymate/internal/core/domain"
)

// AnswerCompleted carries an answered question back to the model.
type AnswerCompleted struct {
	Record *domain.QARecord
	Err    error
}

// SearchCompleted carries retrieval-only results, used when no language
// model is configured.
type SearchCompleted struct {
	Query   string
	Results []domain.ScoredPassage
	Err     error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewAsk is the question input, answer and references view.
	ViewAsk
	// ViewDocuments lists the indexed files.
	ViewDocuments
	// ViewPassages shows the passages of one file.
	ViewPassages
	// ViewHistory lists answered questions.
	ViewHistory
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAsk:
		return "ask"
	case ViewDocuments:
		return "documents"
	case ViewPassages:
		return "passages"
	case ViewHistory:
		return "history"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded carries the knowledge base summary.
type DocumentsLoaded struct {
	Stats    domain.SessionStats
	Passages []domain.Passage
}

// DocumentSelected signals a file was chosen in the documents view.
type DocumentSelected struct {
	Name     string
	Passages []domain.Passage
}

// HistoryLoaded carries the question history, oldest first.
type HistoryLoaded struct {
	Records []domain.QARecord
}

// HistoryExported signals an export finished.
type HistoryExported struct {
	Path string
	Err  error
}

// HistoryCleared signals the history was emptied.
type HistoryCleared struct{}

// KnowledgeBaseRebuilt reports a rebuild triggered while the TUI runs, for
// example by a change in a watched directory. On error the previous
// knowledge base is still in place.
type KnowledgeBaseRebuilt struct {
	Report *domain.IngestReport
	Err    error
}
