// Package llm implements ports.LLMClient against an OpenAI-compatible
// chat-completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"golisting/internal"
)

var logger = internal.NewLogger("LLMClient")

// Config holds LLM adapter configuration
type Config struct {
	APIKey        string        // API key (required)
	BaseURL       string        // Optional override (default: https://api.openai.com/v1)
	Temperature   float64       // 0.0-1.0, lower = more deterministic
	Timeout       time.Duration // Per-request timeout
	MaxConcurrent int64         // Bound on in-flight model calls
	MaxRetries    int           // Retries on 429/5xx (default 3)
}

// OpenAIClient implements ports.LLMClient for OpenAI-compatible APIs.
// A weighted semaphore bounds concurrent outbound calls across goroutines
// sharing the client; 429 and transient 5xx responses are retried with
// capped exponential backoff.
type OpenAIClient struct {
	config     Config
	httpClient *http.Client
	sem        *semaphore.Weighted
}

// NewOpenAIClient creates the client, applying config defaults
func NewOpenAIClient(config Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("missing LLM API key")
	}
	if strings.TrimSpace(config.BaseURL) == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	if config.Timeout <= 0 {
		config.Timeout = 180 * time.Second
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 4
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}

	return &OpenAIClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		sem:        semaphore.NewWeighted(config.MaxConcurrent),
	}, nil
}

func (c *OpenAIClient) ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error) {
	if strings.TrimSpace(model) == "" {
		return "", fmt.Errorf("missing model")
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("acquire request slot: %w", err)
	}
	defer c.sem.Release(1)

	// Chat Completions API (kept minimal: one system + one user message)
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type reqBody struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		Temperature float64 `json:"temperature,omitempty"`
		MaxTokens   int     `json:"max_tokens,omitempty"`
	}
	body := reqBody{
		Model: model,
		Messages: []msg{
			{Role: "system", Content: "You are a careful assistant. Output exactly what the user asks for."},
			{Role: "user", Content: prompt},
		},
		Temperature: c.config.Temperature,
		MaxTokens:   maxTokens,
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	backoff := time.Second

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			logger.Warn("Retry %d/%d after %v: %v", attempt, c.config.MaxRetries, backoff, lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > 30*time.Second {
				backoff = 30 * time.Second
			}
		}

		content, retryable, err := c.doRequest(ctx, url, raw)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}
	return "", fmt.Errorf("llm request failed after %d retries: %w", c.config.MaxRetries, lastErr)
}

// doRequest performs one attempt. retryable reports whether the failure is a
// rate limit or transient server error.
func (c *OpenAIClient) doRequest(ctx context.Context, url string, raw []byte) (content string, retryable bool, err error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		// Network errors are worth one more try.
		return "", true, fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("llm http %d: %s", resp.StatusCode, string(respRaw))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false, fmt.Errorf("llm http %d: %s", resp.StatusCode, string(respRaw))
	}

	type choice struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	type respBody struct {
		Choices []choice `json:"choices"`
	}
	var decoded respBody
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return "", false, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", false, fmt.Errorf("llm response missing choices")
	}
	return decoded.Choices[0].Message.Content, false, nil
}

// MockLLMClient is a mock LLM client for testing
type MockLLMClient struct {
	Response  string   // Set this for testing
	Responses []string // Consumed in order when set; overrides Response
	Error     error    // Set this to simulate errors
	Prompts   []string // Records every prompt received
	calls     int
}

func (m *MockLLMClient) ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Error != nil {
		return "", m.Error
	}
	if len(m.Responses) > 0 {
		resp := m.Responses[m.calls%len(m.Responses)]
		m.calls++
		return resp, nil
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return `{"titles": ["Mock Title 1", "Mock Title 2", "Mock Title 3"]}`, nil
}
