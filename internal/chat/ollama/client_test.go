// internal/chat/ollama/client_test.go
package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatmap-chat/internal/common/config"
	"heatmap-chat/internal/common/logger"
)

func newTestClient(t *testing.T, url, format string) *Client {
	client, err := NewClient(config.OllamaConfig{
		Host:           url,
		Model:          "qwen2.5:7b",
		Timeout:        5000,
		ResponseFormat: format,
	}, logger.NewTestLogger(t))
	require.NoError(t, err)
	return client
}

func TestParseResponseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    ResponseFormat
		wantErr bool
	}{
		{"", FormatChat, false},
		{"chat", FormatChat, false},
		{"legacy", FormatLegacy, false},
		{"streaming", FormatChat, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseResponseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewClientRejectsUnknownFormat(t *testing.T) {
	_, err := NewClient(config.OllamaConfig{
		Host:           "http://localhost:11434",
		Model:          "qwen2.5:7b",
		ResponseFormat: "sse",
	}, logger.NewTestLogger(t))
	assert.ErrorContains(t, err, "response format")
}

func TestNewClientTrimsHostSlash(t *testing.T) {
	client := newTestClient(t, "http://localhost:11434/", "chat")
	assert.Equal(t, "http://localhost:11434", client.Host())
}

func TestChatCompletion(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"model": "qwen2.5:7b",
			"message": {"role": "assistant", "content": "早上八點人流最多。"},
			"eval_count": 42,
			"prompt_eval_count": 310
		}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "chat")
	resp, err := client.ChatCompletion(context.Background(), []Message{
		{Role: "system", Content: "context"},
		{Role: "user", Content: "哪個時段最繁忙？"},
	})
	require.NoError(t, err)

	assert.Equal(t, "早上八點人流最多。", resp.Text)
	assert.Equal(t, "qwen2.5:7b", resp.Model)
	assert.Equal(t, 42, resp.EvalCount)
	assert.Equal(t, 310, resp.PromptEvalCount)

	assert.Equal(t, "qwen2.5:7b", gotReq.Model)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
}

func TestChatCompletionLegacyFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": "flat style reply", "eval_count": 7}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "legacy")
	resp, err := client.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	assert.Equal(t, "flat style reply", resp.Text)
	assert.Equal(t, 7, resp.EvalCount)
	assert.Zero(t, resp.PromptEvalCount)
	// Model omitted on the wire falls back to the configured one.
	assert.Equal(t, "qwen2.5:7b", resp.Model)
}

func TestChatCompletionMissingCounters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": {"content": "ok"}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "chat")
	resp, err := client.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	assert.Zero(t, resp.EvalCount)
	assert.Zero(t, resp.PromptEvalCount)
}

func TestChatCompletionErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "chat")
	_, err := client.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestChatCompletionUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := newTestClient(t, srv.URL, "chat")
	_, err := client.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "hi"}})
	assert.ErrorContains(t, err, "failed")
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models": [
			{"name": "qwen2.5:7b"},
			{"model": "llama3.1:8b"},
			{"name": "", "model": ""}
		]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "chat")
	names, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"qwen2.5:7b", "llama3.1:8b"}, names)
}

func TestListModelsEmptyManifest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models": []}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "chat")
	names, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}
