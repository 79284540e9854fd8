package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	assert.Equal(t, DefaultBaseURL, svc.api.BaseURL())
	assert.Equal(t, DefaultTimeout, svc.api.Timeout())
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, "ollama/nomic-embed-text", svc.Identity())
	assert.NoError(t, svc.Close())
}

func TestEmbedBatch(t *testing.T) {
	var got embedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		resp := embedResponse{}
		for i := range got.Input {
			resp.Embeddings = append(resp.Embeddings, []float64{float64(i), 0.5, 1})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL + "/", Model: "all-minilm"})
	embeddings, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)

	assert.Equal(t, "all-minilm", got.Model)
	assert.Equal(t, []string{"a", "b"}, got.Input)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{1, 0.5, 1}, embeddings[1])
	assert.Equal(t, 3, svc.Dimensions())
}

func TestEmbed_Single(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[[0.1,0.2]]}`))
	}))
	defer server.Close()

	v, err := NewEmbeddingService(Config{BaseURL: server.URL}).Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, v, 2)
}

func TestEmbedBatch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "model not found", wantErr: "ollama error (status 500): model not found"},
		{name: "bad json", status: http.StatusOK, body: "{", wantErr: "decode response"},
		{name: "count mismatch", status: http.StatusOK, body: `{"embeddings":[[1]]}`, wantErr: "1 embeddings for 2 inputs"},
		{name: "empty vector", status: http.StatusOK, body: `{"embeddings":[[],[]]}`, wantErr: "empty embedding"},
		{name: "ragged vectors", status: http.StatusOK, body: `{"embeddings":[[1,2],[1]]}`, wantErr: "2 and 1 dimensions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewEmbeddingService(Config{BaseURL: server.URL}).EmbedBatch(context.Background(), []string{"a", "b"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEmbedBatch_Empty(t *testing.T) {
	out, err := NewEmbeddingService(Config{BaseURL: "http://127.0.0.1:1"}).EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestPing(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "model pulled", status: http.StatusOK, body: `{"models":[{"name":"nomic-embed-text:latest"}]}`},
		{name: "model missing", status: http.StatusOK, body: `{"models":[{"name":"all-minilm:latest"}]}`, wantErr: "ollama pull nomic-embed-text"},
		{name: "error status", status: http.StatusServiceUnavailable, wantErr: "status 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/tags", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := NewEmbeddingService(Config{BaseURL: server.URL}).Ping(context.Background())
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
