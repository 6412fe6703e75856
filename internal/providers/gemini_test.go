package providers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewGemini(t.Context(), "test-key", "gemini-2.0-flash", server.URL)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(t.Context(), "", "gemini-2.0-flash", "")
	require.Error(t, err)
}

func TestGemini_HappyPath(t *testing.T) {
	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.0-flash:generateContent"), r.URL.Path)

		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		gc, _ := body["generationConfig"].(map[string]any)
		assert.Equal(t, "application/json", gc["responseMimeType"])

		writeJSON(w, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":" [1,"},{"text":"2] "}]},"finishReason":"STOP"}]}`)
	})

	text, err := c.Complete(t.Context(), Request{Purpose: PurposeQuestions, Prompt: "hi", JSONOnly: true, Sampling: Sampling{Temperature: 0.7}})

	require.NoError(t, err)
	assert.Equal(t, "[1,2]", text)
}

func TestGemini_SearchSendsTool(t *testing.T) {
	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		tools, _ := body["tools"].([]any)
		assert.Len(t, tools, 1)

		writeJSON(w, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{}"}]},"finishReason":"STOP"}]}`)
	})

	text, err := c.Complete(t.Context(), Request{Purpose: PurposeAnalysis, Prompt: "hi", Search: true})

	require.NoError(t, err)
	assert.Equal(t, "{}", text)
}

func TestGemini_HTTPErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		retryable bool
	}{
		{"overloaded", http.StatusServiceUnavailable, `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`, true},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`, true},
		{"bad request", http.StatusBadRequest, `{"error":{"code":400,"message":"bad key","status":"INVALID_ARGUMENT"}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				writeJSON(w, tt.status, tt.body)
			})

			_, err := c.Complete(t.Context(), Request{Purpose: PurposeQuestions, Prompt: "hi"})

			var un *ModelUnavailable
			require.True(t, errors.As(err, &un), "got %T: %v", err, err)
			assert.Equal(t, SourceGemini, un.Source)
			assert.Equal(t, tt.status, un.Status)
			assert.Equal(t, tt.retryable, un.Retryable())
			assert.False(t, un.Timeout)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestGemini_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c, err := NewGemini(t.Context(), "test-key", "gemini-2.0-flash", url)
	require.NoError(t, err)

	_, err = c.Complete(t.Context(), Request{Purpose: PurposeQuestions, Prompt: "hi"})

	var un *ModelUnavailable
	require.True(t, errors.As(err, &un), "got %T: %v", err, err)
	assert.Zero(t, un.Status)
	assert.True(t, un.Retryable())
}

func TestGemini_BlockedPrompt(t *testing.T) {
	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`)
	})

	_, err := c.Complete(t.Context(), Request{Purpose: PurposeQuestions, Prompt: "hi"})

	var empty *EmptyResponse
	require.True(t, errors.As(err, &empty), "got %T: %v", err, err)
	assert.Contains(t, empty.Reason, "blocked")
	assert.Contains(t, empty.Reason, "SAFETY")
}

func TestGemini_EmptyText(t *testing.T) {
	c := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"   "}]},"finishReason":"SAFETY"}]}`)
	})

	_, err := c.Complete(t.Context(), Request{Purpose: PurposeQuestions, Prompt: "hi"})

	var empty *EmptyResponse
	require.True(t, errors.As(err, &empty), "got %T: %v", err, err)
	assert.Equal(t, "safety", empty.Reason)
}
