package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns scored passages", func(t *testing.T) {
		session := &mockSession{
			results: []domain.ScoredPassage{
				{
					Passage: domain.Passage{Text: "Cats are mammals.", SourceID: "bio.pdf", Position: 3, ChunkIndex: 7},
					Score:   0.91,
				},
				{
					Passage: domain.Passage{Text: "The cat sat.", SourceID: "notes.txt", ChunkIndex: 0},
					Score:   0.42,
				},
			},
		}
		server, err := NewServer(PortsFromSession(session))
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "cats", Limit: 2})

		require.NoError(t, err)
		assert.Equal(t, "cats", session.lastQuery)
		assert.Equal(t, 2, session.lastLimit)
		require.Equal(t, 2, output.Count)
		assert.Equal(t, PassageOutput{Source: "bio.pdf", Page: 3, ChunkIndex: 7, Score: 0.91, Text: "Cats are mammals."}, output.Results[0])
		assert.Equal(t, 0, output.Results[1].Page)
	})

	t.Run("zero limit is passed through for the configured default", func(t *testing.T) {
		session := &mockSession{}
		server, err := NewServer(PortsFromSession(session))
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "x"})

		require.NoError(t, err)
		assert.Equal(t, 0, session.lastLimit)
		assert.Equal(t, 0, output.Count)
	})

	t.Run("returns error without knowledge base", func(t *testing.T) {
		server, err := NewServer(PortsFromSession(&mockSession{err: domain.ErrNoKnowledgeBase}))
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		assert.ErrorIs(t, err, domain.ErrNoKnowledgeBase)
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer with references", func(t *testing.T) {
		session := &mockSession{
			record: &domain.QARecord{
				Question: "What are cats?",
				Answer:   "Mammals.",
				Model:    "llama3.2",
				Evidence: []domain.Passage{
					{Text: "Cats are mammals.", SourceID: "bio.pdf", Position: 1, ChunkIndex: 2},
				},
			},
		}
		server, err := NewServer(PortsFromSession(session))
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "What are cats?", TopK: 3})

		require.NoError(t, err)
		assert.Equal(t, 3, session.lastTopK)
		assert.Equal(t, "Mammals.", output.Answer)
		assert.Equal(t, "llama3.2", output.Model)
		require.Len(t, output.References, 1)
		assert.Equal(t, "bio.pdf", output.References[0].Source)
		assert.Equal(t, 1, output.References[0].Page)
	})

	t.Run("returns generation error", func(t *testing.T) {
		genErr := &domain.GenerationError{Model: "m", Err: errors.New("boom")}
		server, err := NewServer(PortsFromSession(&mockSession{err: genErr}))
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "q"})

		assert.ErrorIs(t, err, domain.ErrGeneration)
	})
}
