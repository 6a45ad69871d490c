package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/chart-mole/internal/config"
)

const chatCompletionReply = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "mistralai/Mistral-7B-Instruct-v0.2",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "message": {"role": "assistant", "content": "3. Visualization: a pie chart of region"}
  }],
  "usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20}
}`

func TestOpenAIGenerate(t *testing.T) {
	var body map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer router-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletionReply))
	}))
	defer ts.Close()

	cfg := testLLMConfig(ts.URL + "/v1/")
	cfg.Provider = config.ProviderOpenAI
	cfg.APIKey = "router-key"

	o, err := NewOpenAI(cfg)
	require.NoError(t, err)

	resp, err := o.Generate(context.Background(), "analyze")
	require.NoError(t, err)

	assert.Equal(t, "3. Visualization: a pie chart of region", resp.Content)
	assert.Nil(t, resp.FunctionCall)
	assert.Equal(t, int64(20), resp.Usage.TotalTokens)

	assert.Equal(t, "mistralai/Mistral-7B-Instruct-v0.2", body["model"])
	assert.Equal(t, 0.95, body["top_p"])
	assert.Equal(t, 0.7, body["temperature"])
	assert.Equal(t, float64(500), body["max_tokens"])
	assert.NotContains(t, body, "tools")
}

func TestOpenAIGenerateReturnFullText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletionReply))
	}))
	defer ts.Close()

	cfg := testLLMConfig(ts.URL + "/v1/")
	cfg.Provider = config.ProviderOpenAI

	o, err := NewOpenAI(cfg)
	require.NoError(t, err)

	resp, err := o.Generate(context.Background(), "analyze: ", WithReturnFullText(true))
	require.NoError(t, err)
	assert.Equal(t, "analyze: 3. Visualization: a pie chart of region", resp.Content)

	resp, err = o.Generate(context.Background(), "analyze: ")
	require.NoError(t, err)
	assert.Equal(t, "3. Visualization: a pie chart of region", resp.Content)
}

func TestOpenAIGenerateToolCall(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "id": "chatcmpl-2", "object": "chat.completion", "created": 1700000000, "model": "m",
  "choices": [{"index": 0, "finish_reason": "tool_calls", "message": {
    "role": "assistant", "content": "",
    "tool_calls": [{"id": "call_1", "type": "function",
      "function": {"name": "recommend_visualization", "arguments": "{\"charts\":[\"Bar Graph\"]}"}}]
  }}],
  "usage": {"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2}
}`))
	}))
	defer ts.Close()

	cfg := testLLMConfig(ts.URL + "/v1/")
	cfg.Provider = config.ProviderOpenAI

	o, err := NewOpenAI(cfg)
	require.NoError(t, err)

	resp, err := o.Generate(context.Background(), "analyze")
	require.NoError(t, err)
	require.NotNil(t, resp.FunctionCall)
	assert.Equal(t, "recommend_visualization", resp.FunctionCall.Name)
	assert.JSONEq(t, `{"charts":["Bar Graph"]}`, resp.FunctionCall.Arguments)
}

func TestOpenAIGenerateServiceError(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "upstream exploded", "type": "server_error"}}`))
	}))
	defer ts.Close()

	cfg := testLLMConfig(ts.URL + "/v1/")
	cfg.Provider = config.ProviderOpenAI

	o, err := NewOpenAI(cfg)
	require.NoError(t, err)

	_, err = o.Generate(context.Background(), "analyze")
	var se *ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, 1, calls, "generation must not be retried")
}
