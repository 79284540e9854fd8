package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder maps each text to a fixed two-dimensional vector based on
// whether it mentions cats. It can be told to fail or misbehave.
type mockEmbedder struct {
	identity   string
	failOn     string // EmbedBatch fails when any text contains this.
	queryErr   error
	shortBatch bool // EmbedBatch returns one vector fewer than asked.
	ragged     bool // Vectors for texts containing "dog" get a third dimension.

	batchCalls atomic.Int32
	embedCalls atomic.Int32
	mu         sync.Mutex
	batchSizes []int
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{identity: "mock/v1"}
}

func (m *mockEmbedder) vector(text string) []float32 {
	lower := strings.ToLower(text)
	v := []float32{0.1, 0.1}
	if strings.Contains(lower, "cat") {
		v[0] = 1
	}
	if strings.Contains(lower, "dog") {
		v[1] = 1
		if m.ragged {
			v = append(v, 1)
		}
	}
	return v
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls.Add(1)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.batchCalls.Add(1)
	m.mu.Lock()
	m.batchSizes = append(m.batchSizes, len(texts))
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		if m.failOn != "" && strings.Contains(t, m.failOn) {
			return nil, errors.New("provider exploded")
		}
		out = append(out, m.vector(t))
	}
	if m.shortBatch {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int            { return 2 }
func (m *mockEmbedder) ModelName() string          { return "mock" }
func (m *mockEmbedder) Identity() string           { return m.identity }
func (m *mockEmbedder) Ping(context.Context) error { return nil }
func (m *mockEmbedder) Close() error               { return nil }

// mockLLM records prompts and returns a canned answer.
type mockLLM struct {
	response string
	err      error
	block    bool // Generate waits for the context to end.

	mu      sync.Mutex
	prompts []string
	opts    []driven.GenerateOptions
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockLLM) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

func (m *mockLLM) ModelName() string          { return "mock-llm" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error               { return nil }

// mockPromptStore serves fixed templates.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// stubLoader returns fixed units or an error for a format.
type stubLoader struct {
	format domain.Format
	units  []domain.RawUnit
	err    error
	panics bool
}

func (s *stubLoader) Format() domain.Format { return s.format }

func (s *stubLoader) Load(_ context.Context, _ string, _ []byte) ([]domain.RawUnit, error) {
	if s.panics {
		panic("boom")
	}
	return s.units, s.err
}

// recordingExporter captures the records it is asked to export.
type recordingExporter struct {
	format  domain.ExportFormat
	records []domain.QARecord
}

func (r *recordingExporter) Format() domain.ExportFormat { return r.format }

func (r *recordingExporter) Export(w io.Writer, records []domain.QARecord) error {
	r.records = records
	_, err := w.Write([]byte("exported"))
	return err
}
