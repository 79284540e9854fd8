package services

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/core/ports/driving"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SessionService = (*Session)(nil)

// knowledgeBase is a published index with the files it was built from.
// It is never modified after publication.
type knowledgeBase struct {
	index   driven.VectorIndex
	files   []string
	builtAt time.Time
}

// Session is one user's document set and question history.
// Rebuilds are serialised and published with an atomic swap, so questions
// asked during a rebuild keep using the previous knowledge base.
type Session struct {
	loader    *DocumentLoader
	chunker   driven.Chunker
	builder   *IndexBuilder
	engine    *AnswerEngine
	exporters map[domain.ExportFormat]driven.HistoryExporter

	kb      atomic.Pointer[knowledgeBase]
	buildMu sync.Mutex

	histMu  sync.RWMutex
	history []domain.QARecord

	now func() time.Time
}

// NewSession wires the pipeline stages into a session.
func NewSession(
	loader *DocumentLoader,
	chunker driven.Chunker,
	builder *IndexBuilder,
	engine *AnswerEngine,
	exporters ...driven.HistoryExporter,
) *Session {
	byFormat := make(map[domain.ExportFormat]driven.HistoryExporter, len(exporters))
	for _, e := range exporters {
		byFormat[e.Format()] = e
	}
	return &Session{
		loader:    loader,
		chunker:   chunker,
		builder:   builder,
		engine:    engine,
		exporters: byFormat,
		now:       time.Now,
	}
}

// HasLLM reports whether questions can be answered, not only searched.
func (s *Session) HasLLM() bool {
	return s.engine.HasLLM()
}

// Ingest loads, chunks and embeds the files and replaces the knowledge base.
// Per-file failures are listed in the report. When nothing loads or the
// build fails, the previous knowledge base stays in place.
func (s *Session) Ingest(ctx context.Context, files []domain.SourceFile) (*domain.IngestReport, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	start := time.Now()
	logger.Section("Ingest")

	loaded, err := s.loader.LoadAll(ctx, files)
	if err != nil {
		return nil, err
	}

	report := &domain.IngestReport{
		Failures:   loaded.Failures,
		EmbedderID: s.builder.EmbedderID(),
	}
	for _, doc := range loaded.Documents {
		report.Files = append(report.Files, doc.SourceID)
	}

	if len(loaded.Documents) == 0 {
		report.Duration = time.Since(start)
		return report, fmt.Errorf("%w: %d of %d files failed", domain.ErrNoDocuments, len(loaded.Failures), len(files))
	}

	passages := s.chunker.Chunk(loaded.Documents)
	logger.Debug("chunked %d documents into %d passages", len(loaded.Documents), len(passages))
	if len(passages) == 0 {
		report.Duration = time.Since(start)
		return report, fmt.Errorf("%w: no text in %d loaded files", domain.ErrNoDocuments, len(loaded.Documents))
	}

	index, err := s.builder.Build(ctx, passages)
	if err != nil {
		report.Duration = time.Since(start)
		return report, err
	}

	s.kb.Store(&knowledgeBase{
		index:   index,
		files:   sortedUnique(report.Files),
		builtAt: s.now(),
	})

	report.Passages = index.Len()
	report.Duration = time.Since(start)
	logger.Info("indexed %d passages from %d files in %v", report.Passages, len(report.Files), report.Duration)
	return report, nil
}

// Inspect loads and chunks the files without embedding them.
func (s *Session) Inspect(ctx context.Context, files []domain.SourceFile) (*domain.InspectReport, error) {
	loaded, err := s.loader.LoadAll(ctx, files)
	if err != nil {
		return nil, err
	}
	return &domain.InspectReport{
		Documents: loaded.Documents,
		Failures:  loaded.Failures,
		Passages:  s.chunker.Chunk(loaded.Documents),
	}, nil
}

// Search returns the passages closest to the query.
func (s *Session) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.ScoredPassage, error) {
	return s.engine.Retrieve(ctx, query, s.currentIndex(), opts.Limit)
}

// Ask answers the question and appends the record to history on success.
func (s *Session) Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.QARecord, error) {
	ans, err := s.engine.Answer(ctx, question, s.currentIndex(), opts.TopK)
	if err != nil {
		return nil, err
	}

	record := domain.NewQARecord(question, *ans, s.now())

	s.histMu.Lock()
	s.history = append(s.history, record)
	s.histMu.Unlock()

	return &record, nil
}

// Changed reports whether names differ, as a set, from the indexed files.
// With no knowledge base any non-empty set is a change.
func (s *Session) Changed(names []string) bool {
	kb := s.kb.Load()
	if kb == nil {
		return len(names) > 0
	}
	return !slices.Equal(kb.files, sortedUnique(names))
}

// Stats describes the knowledge base and history.
func (s *Session) Stats() domain.SessionStats {
	s.histMu.RLock()
	questions := len(s.history)
	s.histMu.RUnlock()

	stats := domain.SessionStats{Questions: questions}
	if kb := s.kb.Load(); kb != nil {
		stats.Files = slices.Clone(kb.files)
		stats.Passages = kb.index.Len()
		stats.EmbedderID = kb.index.EmbedderID()
		stats.BuiltAt = kb.builtAt
	}
	return stats
}

// Passages returns the indexed passages in chunk order.
func (s *Session) Passages() []domain.Passage {
	index := s.currentIndex()
	if index == nil {
		return nil
	}
	return index.Passages()
}

// History returns the records in the order they were answered.
func (s *Session) History() []domain.QARecord {
	s.histMu.RLock()
	defer s.histMu.RUnlock()
	return slices.Clone(s.history)
}

// ClearHistory removes every record.
func (s *Session) ClearHistory() {
	s.histMu.Lock()
	s.history = nil
	s.histMu.Unlock()
}

// ExportHistory writes the history, oldest first, in the given format.
func (s *Session) ExportHistory(w io.Writer, format domain.ExportFormat) error {
	exporter, ok := s.exporters[format]
	if !ok {
		return fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidInput, format)
	}
	if err := exporter.Export(w, s.History()); err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	return nil
}

func (s *Session) currentIndex() driven.VectorIndex {
	if kb := s.kb.Load(); kb != nil {
		return kb.index
	}
	return nil
}

func sortedUnique(names []string) []string {
	out := slices.Clone(names)
	slices.Sort(out)
	return slices.Compact(out)
}
