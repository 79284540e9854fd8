package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// Ensure AnswerEngine accepts a prompt store.
var _ driven.PromptStoreAware = (*AnswerEngine)(nil)

// AnswerEngine retrieves passages for a question and asks the language
// model to answer from them.
type AnswerEngine struct {
	embedder        driven.EmbeddingService
	llm             driven.LLMService
	prompts         driven.PromptStore
	topK            int
	maxContextChars int
	genOpts         driven.GenerateOptions
	timeout         time.Duration
}

// AnswerEngineConfig holds the retrieval and generation settings.
type AnswerEngineConfig struct {
	// TopK is the default number of passages retrieved.
	TopK int

	// MaxContextChars bounds the passage text placed in the prompt.
	MaxContextChars int

	// Temperature and MaxTokens are passed to the model.
	Temperature float64
	MaxTokens   int

	// Timeout bounds each model call. Zero leaves it to the caller's context.
	Timeout time.Duration
}

// NewAnswerEngine creates an answer engine. llm may be nil, in which case
// only retrieval is available.
func NewAnswerEngine(embedder driven.EmbeddingService, llm driven.LLMService, cfg AnswerEngineConfig) *AnswerEngine {
	if cfg.TopK <= 0 {
		cfg.TopK = domain.DefaultTopK
	}
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = domain.DefaultMaxContextChars
	}
	return &AnswerEngine{
		embedder:        embedder,
		llm:             llm,
		topK:            cfg.TopK,
		maxContextChars: cfg.MaxContextChars,
		genOpts: driven.GenerateOptions{
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		},
		timeout: cfg.Timeout,
	}
}

// SetPromptStore sets the store the answer template is loaded from.
func (e *AnswerEngine) SetPromptStore(store driven.PromptStore) {
	e.prompts = store
}

// HasLLM reports whether answers can be generated.
func (e *AnswerEngine) HasLLM() bool {
	return e.llm != nil
}

// Retrieve embeds the query and returns the k closest passages.
// k <= 0 uses the configured default.
func (e *AnswerEngine) Retrieve(ctx context.Context, query string, index driven.VectorIndex, k int) ([]domain.ScoredPassage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if index == nil || index.Len() == 0 {
		return nil, domain.ErrNoKnowledgeBase
	}
	if index.EmbedderID() != e.embedder.Identity() {
		return nil, &domain.EmbedderMismatchError{
			IndexEmbedder: index.EmbedderID(),
			QueryEmbedder: e.embedder.Identity(),
		}
	}
	if k <= 0 {
		k = e.topK
	}

	done := logger.Stage("retrieve")
	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &domain.EmbeddingError{Query: true, Err: err}
	}

	hits, err := index.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	done("%d passages", len(hits))
	return hits, nil
}

// Answer answers the question from the index. The evidence is the
// passages actually placed in the prompt, in retrieval order.
func (e *AnswerEngine) Answer(ctx context.Context, question string, index driven.VectorIndex, k int) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if index == nil || index.Len() == 0 {
		return nil, domain.ErrNoKnowledgeBase
	}
	if e.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	hits, err := e.Retrieve(ctx, question, index, k)
	if err != nil {
		return nil, err
	}

	evidence := e.fitContext(hits)
	prompt := e.buildPrompt(question, evidence)

	genCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	done := logger.Stage("generate")
	text, err := e.llm.Generate(genCtx, prompt, e.genOpts)
	if err != nil {
		return nil, &domain.GenerationError{Model: e.llm.ModelName(), Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &domain.GenerationError{Model: e.llm.ModelName(), Err: domain.ErrEmptyResponse}
	}
	done("%d chars with %s", len(text), e.llm.ModelName())

	return &domain.Answer{
		Text:     text,
		Evidence: evidence,
		Model:    e.llm.ModelName(),
	}, nil
}

// fitContext keeps whole passages from the front while their text fits
// the context budget. The first passage is always kept.
func (e *AnswerEngine) fitContext(hits []domain.ScoredPassage) []domain.ScoredPassage {
	used := 0
	for i, h := range hits {
		used += utf8.RuneCountInString(h.Passage.Text)
		if i > 0 && used > e.maxContextChars {
			logger.Debug("context budget %d reached, dropping %d passages", e.maxContextChars, len(hits)-i)
			return hits[:i]
		}
	}
	return hits
}

// buildPrompt fills the answer template with labelled passages and the question.
func (e *AnswerEngine) buildPrompt(question string, evidence []domain.ScoredPassage) string {
	var sb strings.Builder
	for i, h := range evidence {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[%d] (%s)\n%s", i+1, h.Passage.Location(), h.Passage.Text)
	}

	return fmt.Sprintf(e.template(), sb.String(), question)
}

// template returns the answer prompt, falling back to the built-in one
// when the store has none or the stored one lacks its two placeholders.
func (e *AnswerEngine) template() string {
	if e.prompts == nil {
		return driven.DefaultAnswerPrompt
	}
	tmpl, err := e.prompts.Load(driven.PromptAnswer)
	if err == nil {
		err = driven.CheckPrompt(driven.PromptAnswer, tmpl)
	}
	if err != nil {
		logger.Warn("answer prompt: %v, using default", err)
		return driven.DefaultAnswerPrompt
	}
	return tmpl
}
