package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

func TestExtractDocumentName(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid document URI",
			uri:      "studymate://documents/biology.pdf",
			expected: "biology.pdf",
		},
		{
			name:     "invalid prefix",
			uri:      "file://documents/biology.pdf",
			expected: "",
		},
		{
			name:     "list URI",
			uri:      "studymate://documents",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractDocumentName(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func loadedSession() *mockSession {
	return &mockSession{
		stats: domain.SessionStats{
			Files:      []string{"bio.pdf", "notes.txt"},
			Passages:   3,
			EmbedderID: "local/hashing-v1@512",
			BuiltAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		passages: []domain.Passage{
			{Text: "Cats are mammals.", SourceID: "bio.pdf", Position: 1, ChunkIndex: 0},
			{Text: "Dogs too.", SourceID: "bio.pdf", Position: 2, ChunkIndex: 1},
			{Text: "The cat sat.", SourceID: "notes.txt", ChunkIndex: 2},
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists documents with passage counts", func(t *testing.T) {
		server, err := NewServer(PortsFromSession(loadedSession()))
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("studymate://documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var out documentsOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &out))
		assert.Equal(t, 3, out.Passages)
		assert.Equal(t, "local/hashing-v1@512", out.EmbedderID)
		assert.Equal(t, "2025-01-02 03:04:05", out.BuiltAt)
		assert.Equal(t, []documentInfo{
			{Name: "bio.pdf", Passages: 2, URI: "studymate://documents/bio.pdf"},
			{Name: "notes.txt", Passages: 1, URI: "studymate://documents/notes.txt"},
		}, out.Documents)
	})

	t.Run("empty knowledge base", func(t *testing.T) {
		server, err := NewServer(PortsFromSession(&mockSession{}))
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("studymate://documents"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"documents": []`)
		assert.NotContains(t, result.Contents[0].Text, "built_at")
	})
}

func TestServer_handleDocumentPassagesResource(t *testing.T) {
	ctx := context.Background()
	server, err := NewServer(PortsFromSession(loadedSession()))
	require.NoError(t, err)

	t.Run("returns passages of one document", func(t *testing.T) {
		result, err := server.handleDocumentPassagesResource(ctx, makeReadResourceRequest("studymate://documents/bio.pdf"))

		require.NoError(t, err)
		text := result.Contents[0].Text
		assert.Equal(t, "[0] bio.pdf, page 1\nCats are mammals.\n\n[1] bio.pdf, page 2\nDogs too.", text)
	})

	t.Run("unknown document is not found", func(t *testing.T) {
		_, err := server.handleDocumentPassagesResource(ctx, makeReadResourceRequest("studymate://documents/missing.txt"))
		assert.Error(t, err)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		_, err := server.handleDocumentPassagesResource(ctx, makeReadResourceRequest("other://documents/bio.pdf"))
		assert.Error(t, err)
	})
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("exports history as JSON", func(t *testing.T) {
		session := &mockSession{}
		server, err := NewServer(PortsFromSession(session))
		require.NoError(t, err)

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("studymate://history"))

		require.NoError(t, err)
		assert.Equal(t, domain.ExportFormatJSON, session.exportedAs)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns export error", func(t *testing.T) {
		server, err := NewServer(PortsFromSession(&mockSession{err: errors.New("disk")}))
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, makeReadResourceRequest("studymate://history"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "exporting history")
	})
}
