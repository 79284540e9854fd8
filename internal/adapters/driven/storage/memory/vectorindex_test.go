package memory

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

func passage(i int) domain.Passage {
	return domain.Passage{Text: fmt.Sprintf("passage %d", i), SourceID: "doc.txt", ChunkIndex: i}
}

func TestVectorIndex_New(t *testing.T) {
	idx := NewVectorIndex("local/hashing-v1")
	assert.Equal(t, "local/hashing-v1", idx.EmbedderID())
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.Dimensions())
	assert.Empty(t, idx.Passages())

	factory := NewVectorIndexFactory()
	assert.Equal(t, "x/y", factory("x/y").EmbedderID())
}

func TestVectorIndex_Add(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex("test")

	require.NoError(t, idx.Add(ctx, passage(0), []float32{1, 0, 0}))
	require.NoError(t, idx.Add(ctx, passage(1), []float32{0, 1, 0}))
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 3, idx.Dimensions())

	t.Run("dimension mismatch", func(t *testing.T) {
		err := idx.Add(ctx, passage(2), []float32{1, 0})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("empty vector", func(t *testing.T) {
		err := idx.Add(ctx, passage(3), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("duplicate passage", func(t *testing.T) {
		err := idx.Add(ctx, passage(0), []float32{0, 0, 1})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("NaN component", func(t *testing.T) {
		err := idx.Add(ctx, passage(4), []float32{1, float32(math.NaN()), 0})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("infinite component", func(t *testing.T) {
		err := idx.Add(ctx, passage(5), []float32{float32(math.Inf(-1)), 0, 0})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	assert.Equal(t, 2, idx.Len())
}

func TestVectorIndex_AddCopiesVector(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex("test")
	vec := []float32{1, 0}
	require.NoError(t, idx.Add(ctx, passage(0), vec))
	vec[0], vec[1] = 0, 1

	results, err := idx.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestVectorIndex_SearchRejectsNonFiniteQuery(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex("test")
	require.NoError(t, idx.Add(ctx, passage(0), []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, passage(1), []float32{0, 1}))

	_, err := idx.Search(ctx, []float32{float32(math.NaN()), 1}, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	results, err := idx.Search(ctx, []float32{0, 1}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Passage.ChunkIndex)
}

func TestVectorIndex_Search(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex("test")
	vectors := [][]float32{
		{1, 0},    // 0: identical to query
		{0, 1},    // 1: orthogonal
		{1, 1},    // 2: 45 degrees
		{-1, 0},   // 3: opposite
		{2, 0},    // 4: same direction as 0, different magnitude
		{0.5, 1},  // 5
		{0, 0},    // 6: zero vector
		{1, -0.1}, // 7
	}
	for i, v := range vectors {
		require.NoError(t, idx.Add(ctx, passage(i), v))
	}

	t.Run("ordered by similarity then chunk index", func(t *testing.T) {
		results, err := idx.Search(ctx, []float32{1, 0}, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, 0, results[0].Passage.ChunkIndex)
		assert.Equal(t, 4, results[1].Passage.ChunkIndex)
		assert.Equal(t, 7, results[2].Passage.ChunkIndex)
		assert.InDelta(t, 1.0, results[0].Score, 1e-9)
		assert.InDelta(t, 1.0, results[1].Score, 1e-9)
	})

	t.Run("non-increasing scores", func(t *testing.T) {
		results, err := idx.Search(ctx, []float32{0.3, 0.7}, len(vectors))
		require.NoError(t, err)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
		}
	})

	t.Run("k larger than index returns all", func(t *testing.T) {
		results, err := idx.Search(ctx, []float32{1, 0}, 100)
		require.NoError(t, err)
		assert.Len(t, results, len(vectors))

		seen := map[int]bool{}
		for _, r := range results {
			seen[r.Passage.ChunkIndex] = true
		}
		assert.Len(t, seen, len(vectors))
	})

	t.Run("opposite vector scores lowest", func(t *testing.T) {
		results, err := idx.Search(ctx, []float32{1, 0}, len(vectors))
		require.NoError(t, err)
		last := results[len(results)-1]
		assert.Equal(t, 3, last.Passage.ChunkIndex)
		assert.InDelta(t, -1.0, last.Score, 1e-9)
	})

	t.Run("zero query scores zero everywhere", func(t *testing.T) {
		results, err := idx.Search(ctx, []float32{0, 0}, 3)
		require.NoError(t, err)
		for i, r := range results {
			assert.Zero(t, r.Score)
			assert.Equal(t, i, r.Passage.ChunkIndex)
		}
	})

	t.Run("invalid k", func(t *testing.T) {
		_, err := idx.Search(ctx, []float32{1, 0}, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = idx.Search(ctx, []float32{1, 0}, -1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("query dimension mismatch", func(t *testing.T) {
		_, err := idx.Search(ctx, []float32{1, 0, 0}, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestVectorIndex_SearchEmpty(t *testing.T) {
	results, err := NewVectorIndex("test").Search(context.Background(), []float32{1}, 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestVectorIndex_PassagesInChunkOrder(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex("test")
	for _, i := range []int{2, 0, 1} {
		require.NoError(t, idx.Add(ctx, passage(i), []float32{1}))
	}

	got := idx.Passages()
	require.Len(t, got, 3)
	for i, p := range got {
		assert.Equal(t, i, p.ChunkIndex)
	}
}

func TestVectorIndex_ConcurrentSearch(t *testing.T) {
	ctx := context.Background()
	idx := NewVectorIndex("test")
	for i := 0; i < 50; i++ {
		require.NoError(t, idx.Add(ctx, passage(i), []float32{float32(i), 1}))
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := idx.Search(ctx, []float32{1, 1}, 4)
			assert.NoError(t, err)
			assert.Len(t, results, 4)
		}()
	}
	wg.Wait()
}
