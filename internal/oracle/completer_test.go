// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-intel/pkg/types"
)

func TestOpenAICompleter(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model       string   `json:"model"`
			Temperature *float64 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		require.NotNil(t, req.Temperature)
		assert.Equal(t, 0.0, *req.Temperature)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "rate this", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "gpt-4o",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": "75"},
			}},
		})
	}))
	defer ts.Close()

	c := NewOpenAICompleter(types.OracleConfig{Model: "gpt-4o", APIKey: "sk-test", BaseURL: ts.URL + "/"}, nil)
	got, err := c.Complete(t.Context(), "rate this")
	require.NoError(t, err)
	assert.Equal(t, "75", got)
}

func TestOpenAICompleterErrorNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer ts.Close()

	c := NewOpenAICompleter(types.OracleConfig{Model: "gpt-4o", APIKey: "sk-test", BaseURL: ts.URL + "/"}, nil)
	_, err := c.Complete(t.Context(), "x")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func claudeServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req claudeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-test", req.Model)
		assert.Equal(t, 4096, req.MaxTokens)
		require.Len(t, req.Messages, 1)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
}

func claudeConfig(url string) types.OracleConfig {
	return types.OracleConfig{
		Backend: types.OracleClaude,
		Model:   "claude-test",
		APIKey:  "test-key",
		BaseURL: url,
	}
}

func TestClaudeCompleter(t *testing.T) {
	ts := claudeServer(t, http.StatusOK, claudeResponse{Content: []claudeContent{
		{Type: "text", Text: "[0, "},
		{Type: "tool_use"},
		{Type: "text", Text: "1]"},
	}})
	defer ts.Close()

	got, err := NewClaudeCompleter(claudeConfig(ts.URL), nil).Complete(t.Context(), "pick")
	require.NoError(t, err)
	assert.Equal(t, "[0, 1]", got)
}

func TestClaudeCompleterHTTPError(t *testing.T) {
	ts := claudeServer(t, http.StatusInternalServerError, map[string]string{"error": "overloaded"})
	defer ts.Close()

	_, err := NewClaudeCompleter(claudeConfig(ts.URL), nil).Complete(t.Context(), "pick")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "500")
}

func TestClaudeCompleterDefaultURL(t *testing.T) {
	ts := claudeServer(t, http.StatusOK, claudeResponse{Content: []claudeContent{{Type: "text", Text: "ok"}}})
	defer ts.Close()

	orig := claudeAPIURL
	claudeAPIURL = ts.URL + "/v1/messages"
	defer func() { claudeAPIURL = orig }()

	cfg := claudeConfig("")
	got, err := NewClaudeCompleter(cfg, ts.Client()).Complete(t.Context(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestRateLimiterHonoursContext(t *testing.T) {
	l := newLimiter(0.001)
	require.NotNil(t, l)
	require.NoError(t, wait(t.Context(), l), "first token is available immediately")

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, wait(ctx, l), ErrUnavailable)

	assert.Nil(t, newLimiter(0))
	assert.NoError(t, wait(t.Context(), nil))
}
