package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// mockSession is a mock implementation of driving.SessionService.
type mockSession struct {
	results  []domain.ScoredPassage
	record   *domain.QARecord
	stats    domain.SessionStats
	passages []domain.Passage
	history  []domain.QARecord
	err      error

	lastQuery  string
	lastLimit  int
	lastTopK   int
	exportedAs domain.ExportFormat
}

var _ driving.SessionService = (*mockSession)(nil)

func (m *mockSession) Ingest(_ context.Context, _ []domain.SourceFile) (*domain.IngestReport, error) {
	return &domain.IngestReport{}, m.err
}

func (m *mockSession) Inspect(_ context.Context, _ []domain.SourceFile) (*domain.InspectReport, error) {
	return &domain.InspectReport{}, m.err
}

func (m *mockSession) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.ScoredPassage, error) {
	m.lastQuery = query
	m.lastLimit = opts.Limit
	return m.results, m.err
}

func (m *mockSession) Ask(_ context.Context, question string, opts domain.AskOptions) (*domain.QARecord, error) {
	m.lastQuery = question
	m.lastTopK = opts.TopK
	return m.record, m.err
}

func (m *mockSession) HasLLM() bool               { return true }
func (m *mockSession) Changed(_ []string) bool    { return false }
func (m *mockSession) Stats() domain.SessionStats { return m.stats }
func (m *mockSession) Passages() []domain.Passage { return m.passages }
func (m *mockSession) History() []domain.QARecord { return m.history }
func (m *mockSession) ClearHistory()              { m.history = nil }

func (m *mockSession) ExportHistory(w io.Writer, format domain.ExportFormat) error {
	m.exportedAs = format
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, "[]\n")
	return err
}
