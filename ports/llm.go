package ports

import "context"

// LLMClient interface for LLM providers. Implementations own retry/backoff
// on rate-limit and transient server errors.
type LLMClient interface {
	ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error)
}
