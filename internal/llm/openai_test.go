package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/insight-mole/internal/config"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [
    {
      "index": 0,
      "finish_reason": "stop",
      "message": {"role": "assistant", "content": "SELECT 1;"}
    }
  ],
  "usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
}`

type capturedRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int64   `json:"max_completion_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	p, err := NewOpenAI(&config.LLMConfig{
		Provider:  "openai",
		APIKey:    "sk-test",
		Endpoint:  ts.URL,
		Model:     "gpt-4o-mini",
		MaxTokens: 500,
	})
	require.NoError(t, err)
	return p
}

func TestOpenAICompleteSendsTwoMessages(t *testing.T) {
	captured := make(chan capturedRequest, 1)
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), "unexpected path %s", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var req capturedRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		captured <- req

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	})

	resp, err := p.Complete(context.Background(), "system prompt", "user text", WithTemperature(0.3))
	require.NoError(t, err)

	assert.Equal(t, "SELECT 1;", resp.Content)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, int64(15), resp.Usage.TotalTokens)

	got := <-captured

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.InDelta(t, 0.3, got.Temperature, 1e-9)
	assert.Equal(t, int64(500), got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "system prompt", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "user text", got.Messages[1].Content)
}

func TestOpenAICompleteModelOverride(t *testing.T) {
	captured := make(chan capturedRequest, 1)
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var req capturedRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		captured <- req
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody))
	})

	_, err := p.Complete(context.Background(), "s", "u", WithModel("gpt-4o"))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", (<-captured).Model)
}

func TestOpenAICompleteDoesNotRetry(t *testing.T) {
	var hits atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})

	_, err := p.Complete(context.Background(), "s", "u")
	assert.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestOpenAICompleteNoChoices(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[]}`))
	})

	_, err := p.Complete(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}
