package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
)

// FakeSession is an in-memory driving.SessionService with canned results.
// Ask appends Record to the history when it succeeds.
type FakeSession struct {
	mu sync.Mutex

	Results   []domain.ScoredPassage
	Record    *domain.QARecord
	Stat      domain.SessionStats
	Passage   []domain.Passage
	Records   []domain.QARecord
	Err       error
	NoLLM     bool
	ExportErr error

	Questions []string
	Exported  []domain.ExportFormat
}

var _ driving.SessionService = (*FakeSession)(nil)

func (f *FakeSession) Ingest(_ context.Context, _ []domain.SourceFile) (*domain.IngestReport, error) {
	return &domain.IngestReport{}, f.Err
}

func (f *FakeSession) Inspect(_ context.Context, _ []domain.SourceFile) (*domain.InspectReport, error) {
	return &domain.InspectReport{}, f.Err
}

func (f *FakeSession) Search(_ context.Context, query string, _ domain.SearchOptions) ([]domain.ScoredPassage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Questions = append(f.Questions, query)
	return f.Results, f.Err
}

func (f *FakeSession) Ask(_ context.Context, question string, _ domain.AskOptions) (*domain.QARecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Questions = append(f.Questions, question)
	if f.NoLLM {
		return nil, domain.ErrLLMUnavailable
	}
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Record != nil {
		f.Records = append(f.Records, *f.Record)
	}
	return f.Record, nil
}

func (f *FakeSession) HasLLM() bool            { return !f.NoLLM }
func (f *FakeSession) Changed(_ []string) bool { return false }

func (f *FakeSession) Stats() domain.SessionStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := f.Stat
	stats.Questions = len(f.Records)
	return stats
}

func (f *FakeSession) Passages() []domain.Passage { return f.Passage }

func (f *FakeSession) History() []domain.QARecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.QARecord(nil), f.Records...)
}

func (f *FakeSession) ClearHistory() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Records = nil
}

// ExportHistory writes one "format: question" line per record.
func (f *FakeSession) ExportHistory(w io.Writer, format domain.ExportFormat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Exported = append(f.Exported, format)
	if f.ExportErr != nil {
		return f.ExportErr
	}
	for _, r := range f.Records {
		if _, err := fmt.Fprintf(w, "%s: %s\n", format, r.Question); err != nil {
			return err
		}
	}
	return nil
}
