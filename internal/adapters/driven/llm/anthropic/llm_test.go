package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/studymate/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/studymate/internal/core/ports/driven"
)

func newService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	svc, err := NewLLMService(Config{APIKey: "key", BaseURL: server.URL, Model: "claude-3-5-haiku-latest"})
	require.NoError(t, err)
	return svc
}

func TestNewLLMService(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	svc, err := NewLLMService(Config{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultBaseURL, svc.api.BaseURL())
	assert.Equal(t, DefaultTimeout, svc.api.Timeout())
	assert.NoError(t, svc.Close())
}

func TestGenerate(t *testing.T) {
	var got messagesRequest
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Cells divide "},{"type":"tool_use"},{"type":"text","text":"by mitosis. "}],"stop_reason":"end_turn"}`))
	})

	out, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{Temperature: 0.5, StopWords: []string{"Q:"}})

	require.NoError(t, err)
	assert.Equal(t, "Cells divide by mitosis.", out)
	assert.Equal(t, "claude-3-5-haiku-latest", got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.Equal(t, 0.5, got.Temperature)
	assert.Equal(t, []string{"Q:"}, got.StopSeqs)
	assert.Equal(t, []message{{Role: "user", Content: "prompt"}}, got.Messages)
}

func TestGenerate_ExplicitMaxTokens(t *testing.T) {
	var raw map[string]any
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Short"}],"stop_reason":"max_tokens"}`))
	})

	out, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{MaxTokens: 16})

	require.NoError(t, err)
	assert.Equal(t, "Short", out)
	assert.EqualValues(t, 16, raw["max_tokens"])
	assert.NotContains(t, raw, "temperature")
	assert.NotContains(t, raw, "stop_sequences")
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "api error", status: http.StatusUnauthorized, body: `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`, wantErr: "anthropic error (status 401): invalid x-api-key"},
		{name: "overloaded", status: 529, body: `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`, wantErr: "Overloaded"},
		{name: "non json error", status: http.StatusBadGateway, body: `bad gateway`, wantErr: "anthropic error (status 502): bad gateway"},
		{name: "bad json", status: http.StatusOK, body: `{`, wantErr: "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerate_StatusErrorIsTyped(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := svc.Generate(context.Background(), "p", driven.GenerateOptions{})

	var statusErr *httpjson.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Status)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		if r.Header.Get("x-api-key") != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	good, err := NewLLMService(Config{APIKey: "good", BaseURL: server.URL})
	require.NoError(t, err)
	assert.NoError(t, good.Ping(context.Background()))

	bad, err := NewLLMService(Config{APIKey: "bad", BaseURL: server.URL})
	require.NoError(t, err)
	assert.ErrorContains(t, bad.Ping(context.Background()), "status 401")
}
