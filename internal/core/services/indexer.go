package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/studymate/internal/core/domain"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
	"github.com/custodia-labs/studymate/internal/logger"
)

// IndexBuilder embeds passages and stores them in a fresh vector index.
type IndexBuilder struct {
	embedder    driven.EmbeddingService
	newIndex    driven.VectorIndexFactory
	batchSize   int
	concurrency int
	limiter     *rate.Limiter
}

// IndexBuilderOption configures an IndexBuilder.
type IndexBuilderOption func(*IndexBuilder)

// WithBatchSize sets the number of passages per embedding request.
func WithBatchSize(n int) IndexBuilderOption {
	return func(b *IndexBuilder) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithConcurrency sets the number of embedding requests in flight.
func WithConcurrency(n int) IndexBuilderOption {
	return func(b *IndexBuilder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithRateLimit paces embedding requests to rps per second.
// Zero or negative disables pacing.
func WithRateLimit(rps float64) IndexBuilderOption {
	return func(b *IndexBuilder) {
		if rps > 0 {
			b.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			b.limiter = nil
		}
	}
}

// NewIndexBuilder creates a builder for the embedder.
func NewIndexBuilder(embedder driven.EmbeddingService, newIndex driven.VectorIndexFactory, opts ...IndexBuilderOption) *IndexBuilder {
	b := &IndexBuilder{
		embedder:    embedder,
		newIndex:    newIndex,
		batchSize:   domain.DefaultEmbedBatchSize,
		concurrency: domain.DefaultEmbedConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// EmbedderID returns the identity of the embedder indexes are built with.
func (b *IndexBuilder) EmbedderID() string {
	return b.embedder.Identity()
}

// Build embeds every passage and returns a new index holding all of them.
// Any embedding failure fails the whole build with *domain.EmbeddingError
// and no index is returned.
func (b *IndexBuilder) Build(ctx context.Context, passages []domain.Passage) (driven.VectorIndex, error) {
	done := logger.Stage("embed")
	vectors := make([][]float32, len(passages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	batches := 0
	for lo := 0; lo < len(passages); lo += b.batchSize {
		hi := min(lo+b.batchSize, len(passages))
		batches++
		g.Go(func() error {
			return b.embedBatch(gctx, passages[lo:hi], vectors[lo:hi])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	index := b.newIndex(b.embedder.Identity())
	dims := 0
	for i, p := range passages {
		if dims == 0 {
			dims = len(vectors[i])
		}
		if len(vectors[i]) != dims {
			return nil, &domain.EmbeddingError{
				SourceID:   p.SourceID,
				ChunkIndex: p.ChunkIndex,
				Err:        fmt.Errorf("vector has %d dimensions, expected %d", len(vectors[i]), dims),
			}
		}
		if err := index.Add(ctx, p, vectors[i]); err != nil {
			return nil, fmt.Errorf("add passage %d: %w", p.ChunkIndex, err)
		}
	}

	done("%d passages in %d batches with %s", len(passages), batches, b.embedder.Identity())
	return index, nil
}

// embedBatch embeds one batch into out, which is aligned with batch.
func (b *IndexBuilder) embedBatch(ctx context.Context, batch []domain.Passage, out [][]float32) error {
	fail := func(p domain.Passage, err error) error {
		return &domain.EmbeddingError{SourceID: p.SourceID, ChunkIndex: p.ChunkIndex, Err: err}
	}

	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return fail(batch[0], err)
		}
	}

	texts := make([]string, len(batch))
	for i, p := range batch {
		texts[i] = p.Text
	}

	vecs, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fail(batch[0], err)
	}
	if len(vecs) != len(batch) {
		return fail(batch[0], fmt.Errorf("got %d vectors for %d passages", len(vecs), len(batch)))
	}
	for i, v := range vecs {
		if len(v) == 0 {
			return fail(batch[i], fmt.Errorf("empty vector"))
		}
		out[i] = v
	}
	return nil
}
