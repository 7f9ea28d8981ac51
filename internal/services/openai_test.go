package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIClient(serverURL string, rec *recordedSleeps, probe bool) *openAIClient {
	retry := NewRetryPolicy(3, 30*time.Second)
	retry.Sleep = rec.sleep

	return NewOpenAIClient(OpenAIConfig{
		APIKey:                "test-key",
		BaseURL:               serverURL,
		Model:                 "gpt-4o",
		Temperature:           0.2,
		MaxTokens:             4000,
		Timeout:               5 * time.Second,
		ProbeStructuredOutput: probe,
		Retry:                 retry,
	}).(*openAIClient)
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
	})
}

func TestOpenAIClient_Complete(t *testing.T) {
	var got chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeCompletion(w, `{"fit_assessment":{"score":70}}`)
	}))
	defer server.Close()

	client := newTestOpenAIClient(server.URL, &recordedSleeps{}, false)
	out, err := client.Complete(context.Background(), "the prompt", "the system")

	require.NoError(t, err)
	assert.Equal(t, `{"fit_assessment":{"score":70}}`, out)

	assert.Equal(t, "gpt-4o", got.Model)
	assert.Equal(t, 4000, got.MaxTokens)
	assert.InDelta(t, 0.2, got.Temperature, 0.0001)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, chatMessage{Role: "system", Content: "the system"}, got.Messages[0])
	assert.Equal(t, chatMessage{Role: "user", Content: "the prompt"}, got.Messages[1])
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestOpenAIClient_StatusClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantKind  LLMErrorKind
		wantCalls int32
	}{
		{"unauthorized is not retried", http.StatusUnauthorized, LLMErrorAuth, 1},
		{"rate limited is retried", http.StatusTooManyRequests, LLMErrorRateLimited, 3},
		{"server error is retried", http.StatusBadGateway, LLMErrorServer, 3},
		{"other status is a server error", http.StatusTeapot, LLMErrorServer, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
			}))
			defer server.Close()

			rec := &recordedSleeps{}
			_, err := newTestOpenAIClient(server.URL, rec, false).Complete(context.Background(), "p", "s")

			var llmErr *LLMError
			require.ErrorAs(t, err, &llmErr)
			assert.Equal(t, tt.wantKind, llmErr.Kind)
			assert.Equal(t, tt.status, llmErr.StatusCode)
			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantCalls == 3 {
				assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, rec.delays)
			}
		})
	}
}

func TestOpenAIClient_RecoversAfterRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeCompletion(w, "{}")
	}))
	defer server.Close()

	rec := &recordedSleeps{}
	out, err := newTestOpenAIClient(server.URL, rec, false).Complete(context.Background(), "p", "s")

	require.NoError(t, err)
	assert.Equal(t, "{}", out)
	assert.Equal(t, []time.Duration{2 * time.Second}, rec.delays)
}

func TestOpenAIClient_ErrorBodyTruncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer server.Close()

	_, err := newTestOpenAIClient(server.URL, &recordedSleeps{}, false).Complete(context.Background(), "p", "s")

	var llmErr *LLMError
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, LLMErrorServer, llmErr.Kind)
	assert.Len(t, llmErr.Body, 500)
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestOpenAIClient(server.URL, &recordedSleeps{}, false).Complete(context.Background(), "p", "s")

	var llmErr *LLMError
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, LLMErrorServer, llmErr.Kind)
}

func TestOpenAIClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	rec := &recordedSleeps{}
	_, err := newTestOpenAIClient(url, rec, false).Complete(context.Background(), "p", "s")

	var llmErr *LLMError
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, LLMErrorNetwork, llmErr.Kind)
	assert.Len(t, rec.delays, 2)
}

func TestOpenAIClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestOpenAIClient(server.URL, &recordedSleeps{}, false)
	client.cfg.Timeout = 50 * time.Millisecond
	client.cfg.Retry.MaxAttempts = 1

	_, err := client.Complete(context.Background(), "p", "s")

	var llmErr *LLMError
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, LLMErrorTimeout, llmErr.Kind)
}

func TestOpenAIClient_ProbeDisablesStructuredMode(t *testing.T) {
	var (
		calls      atomic.Int32
		lastFormat atomic.Pointer[responseFormat]
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if calls.Add(1) == 1 {
			assert.NotNil(t, req.ResponseFormat, "probe must ask for json_object")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"response_format is not supported"}}`))
			return
		}
		lastFormat.Store(req.ResponseFormat)
		writeCompletion(w, "plain text reply")
	}))
	defer server.Close()

	client := newTestOpenAIClient(server.URL, &recordedSleeps{}, true)

	out, err := client.Complete(context.Background(), "p", "s")
	require.NoError(t, err)
	assert.Equal(t, "plain text reply", out)
	assert.Nil(t, lastFormat.Load())

	_, err = client.Complete(context.Background(), "p", "s")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load(), "probe runs once per client")
}

func TestOpenAIClient_ProbeKeepsStructuredMode(t *testing.T) {
	var withFormat atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.ResponseFormat != nil {
			withFormat.Add(1)
		}
		writeCompletion(w, "{}")
	}))
	defer server.Close()

	client := newTestOpenAIClient(server.URL, &recordedSleeps{}, true)
	_, err := client.Complete(context.Background(), "p", "s")

	require.NoError(t, err)
	assert.Equal(t, int32(2), withFormat.Load())
}

func TestOpenAIClient_StructuredCheckSurvivesCanceledCaller(t *testing.T) {
	var withFormat atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.ResponseFormat != nil {
			withFormat.Add(1)
		}
		writeCompletion(w, "{}")
	}))
	defer server.Close()

	client := newTestOpenAIClient(server.URL, &recordedSleeps{}, true)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Complete(canceled, "p", "s")
	require.Error(t, err)
	assert.True(t, client.structured)

	_, err = client.Complete(context.Background(), "p", "s")
	require.NoError(t, err)
	assert.Equal(t, int32(2), withFormat.Load())
}

func TestIsRetryableLLMError(t *testing.T) {
	assert.False(t, IsRetryableLLMError(nil))
	assert.False(t, IsRetryableLLMError(&LLMError{Kind: LLMErrorAuth}))
	assert.False(t, IsRetryableLLMError(context.Canceled))
	assert.True(t, IsRetryableLLMError(&LLMError{Kind: LLMErrorTimeout}))
	assert.True(t, IsRetryableLLMError(&LLMError{Kind: LLMErrorRateLimited}))
}
