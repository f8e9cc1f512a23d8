package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
}

func TestChatCompletionSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])

		json.NewEncoder(w).Encode(completionResponse(`{"ok":true}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	content, err := client.ChatCompletion(context.Background(), "gpt-4o-mini", "prompt", 1024)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, content)
}

func TestChatCompletionRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(completionResponse("recovered"))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(Config{APIKey: "k", BaseURL: server.URL, MaxRetries: 2})
	require.NoError(t, err)

	content, err := client.ChatCompletion(context.Background(), "m", "p", 64)
	require.NoError(t, err)
	assert.Equal(t, "recovered", content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestChatCompletionDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := NewOpenAIClient(Config{APIKey: "k", BaseURL: server.URL, MaxRetries: 3})
	require.NoError(t, err)

	_, err = client.ChatCompletion(context.Background(), "m", "p", 64)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestChatCompletionGivesUpAfterRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewOpenAIClient(Config{APIKey: "k", BaseURL: server.URL, MaxRetries: 1})
	require.NoError(t, err)

	start := time.Now()
	_, err = client.ChatCompletion(context.Background(), "m", "p", 64)
	require.Error(t, err)
	assert.ErrorContains(t, err, "after 1 retries")
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestChatCompletionBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := inFlight.Add(1)
		for {
			p := peak.Load()
			if now <= p || peak.CompareAndSwap(p, now) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		json.NewEncoder(w).Encode(completionResponse("done"))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(Config{APIKey: "k", BaseURL: server.URL, MaxConcurrent: 2})
	require.NoError(t, err)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := client.ChatCompletion(context.Background(), "m", "p", 64)
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(Config{})
	assert.Error(t, err)
}

// TestLiveChatCompletion performs a live fire test against the configured
// provider. It needs LLM_API_KEY (via environment or ../../.env) and spends
// real tokens, so it skips everywhere else.
func TestLiveChatCompletion(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		_ = godotenv.Load(".env")
	}
	if os.Getenv("LLM_API_KEY") == "" {
		t.Skip("Skipping live test: LLM_API_KEY not set")
	}

	client, err := NewOpenAIClient(Config{
		APIKey:  os.Getenv("LLM_API_KEY"),
		BaseURL: os.Getenv("LLM_BASE_URL"),
	})
	require.NoError(t, err)

	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	content, err := client.ChatCompletion(ctx, model, `Reply with exactly the JSON {"ok": true} and nothing else.`, 64)
	require.NoError(t, err)
	assert.Contains(t, content, "ok")
}
