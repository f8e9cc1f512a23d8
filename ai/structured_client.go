// Package ai carries the prompt templates and the typed client that turns
// model replies into Go structs.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golisting/domain/core"
	"golisting/internal"
	"golisting/ports"
)

var logger = internal.NewLogger("StructuredClient")

// StructuredClient provides typed JSON responses from LLM calls
type StructuredClient[T any] struct {
	Client    ports.LLMClient
	Model     string
	MaxTokens int
}

// NewStructuredClient creates a typed client over an LLM port
func NewStructuredClient[T any](client ports.LLMClient, model string, maxTokens int) *StructuredClient[T] {
	return &StructuredClient[T]{Client: client, Model: model, MaxTokens: maxTokens}
}

// GetJSONResponse sends the prompt, strips code fences and chatter from the
// reply, and unmarshals the remainder into T.
func (c *StructuredClient[T]) GetJSONResponse(ctx context.Context, prompt string) (*T, error) {
	logger.Debug("Sending request - model=%s, promptLength=%d", c.Model, len(prompt))

	content, err := c.Client.ChatCompletion(ctx, c.Model, prompt, c.MaxTokens)
	if err != nil {
		return nil, err
	}
	logger.Debug("Raw content length: %d bytes", len(content))

	cleaned := CleanJSONContent(content)

	var result T
	if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
		return &result, nil
	}

	// Fall back to the outermost object in case chatter survived cleaning.
	if sliced, ok := sliceOutermostObject(cleaned); ok {
		if err := json.Unmarshal([]byte(sliced), &result); err == nil {
			logger.Debug("Recovered JSON object from chatty reply")
			return &result, nil
		}
	}

	return nil, core.NewModelResponseError(c.Model,
		fmt.Errorf("unparseable JSON reply (%d bytes): %s", len(cleaned), preview(cleaned)))
}

// CleanJSONContent removes markdown code fences and leading prose before the
// JSON payload.
func CleanJSONContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	content = strings.TrimSpace(content)

	// Drop prose lines before the first brace ("Here is the JSON:" etc).
	if !strings.HasPrefix(content, "{") && !strings.HasPrefix(content, "[") {
		if idx := strings.IndexAny(content, "{["); idx > 0 {
			head := content[:idx]
			if !strings.ContainsAny(head, "{[") {
				content = content[idx:]
			}
		}
	}

	return strings.TrimSpace(content)
}

// sliceOutermostObject cuts from the first '{' to the last '}'
func sliceOutermostObject(content string) (string, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}

func preview(s string) string {
	if len(s) > 500 {
		return s[:500] + "..."
	}
	return s
}

// MarshalForPrompt renders a value as indented JSON for embedding into a
// prompt, keeping non-ASCII keyword text readable rather than escaped.
func MarshalForPrompt(v interface{}) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return "", fmt.Errorf("marshal prompt payload: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
