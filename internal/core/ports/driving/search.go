package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

// KnowledgeBaseService builds and queries the session's knowledge base.
type KnowledgeBaseService interface {
	// Ingest loads, chunks and embeds the files, then replaces the current
	// knowledge base. Per-file failures are reported, not returned. When no
	// file loads, or the build fails, the previous knowledge base is kept.
	Ingest(ctx context.Context, files []domain.SourceFile) (*domain.IngestReport, error)

	// Search returns the passages closest to the query without generating an answer.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.ScoredPassage, error)

	// Inspect loads and chunks the files without embedding them. The
	// knowledge base is not touched.
	Inspect(ctx context.Context, files []domain.SourceFile) (*domain.InspectReport, error)

	// Changed reports whether the file names differ from the indexed set.
	Changed(names []string) bool

	// Stats describes the knowledge base and history.
	Stats() domain.SessionStats

	// Passages returns the indexed passages in chunk order.
	Passages() []domain.Passage
}

// AnswerService answers questions against the knowledge base.
type AnswerService interface {
	// Ask answers the question and records it in history. A failed answer
	// records nothing.
	Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.QARecord, error)

	// HasLLM reports whether a language model is configured. Without one,
	// Search still works and Ask returns domain.ErrLLMUnavailable.
	HasLLM() bool
}

// HistoryService exposes the question history.
type HistoryService interface {
	// History returns the records in the order they were answered.
	History() []domain.QARecord

	// ClearHistory removes every record.
	ClearHistory()

	// ExportHistory writes the history in the given format.
	ExportHistory(w io.Writer, format domain.ExportFormat) error
}

// SessionService is one user's document set and question history.
type SessionService interface {
	KnowledgeBaseService
	AnswerService
	HistoryService
}
