package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golisting/adapters/llm"
	"golisting/domain/core"
)

type titlesReply struct {
	Titles []string `json:"titles"`
}

func TestGetJSONResponseParsesCleanReply(t *testing.T) {
	mock := &llm.MockLLMClient{Response: `{"titles": ["a", "b", "c"]}`}
	client := NewStructuredClient[titlesReply](mock, "gpt-4o-mini", 1024)

	result, err := client.GetJSONResponse(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, result.Titles)
	require.Len(t, mock.Prompts, 1)
	assert.Equal(t, "prompt", mock.Prompts[0])
}

func TestGetJSONResponseStripsFencesAndChatter(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"json fence", "```json\n{\"titles\": [\"a\"]}\n```"},
		{"bare fence", "```\n{\"titles\": [\"a\"]}\n```"},
		{"leading prose", "Here is the JSON you asked for:\n{\"titles\": [\"a\"]}"},
		{"trailing prose", "{\"titles\": [\"a\"]}\nLet me know if you need changes."},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			mock := &llm.MockLLMClient{Response: test.reply}
			client := NewStructuredClient[titlesReply](mock, "m", 64)

			result, err := client.GetJSONResponse(context.Background(), "p")
			require.NoError(t, err)
			assert.Equal(t, []string{"a"}, result.Titles)
		})
	}
}

func TestGetJSONResponseUnparseableReply(t *testing.T) {
	mock := &llm.MockLLMClient{Response: "I am sorry, I cannot help with that."}
	client := NewStructuredClient[titlesReply](mock, "m", 64)

	_, err := client.GetJSONResponse(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, core.IsGenerationError(err))
}

func TestGetJSONResponsePropagatesClientError(t *testing.T) {
	mock := &llm.MockLLMClient{Error: errors.New("boom")}
	client := NewStructuredClient[titlesReply](mock, "m", 64)

	_, err := client.GetJSONResponse(context.Background(), "p")
	assert.ErrorContains(t, err, "boom")
}

func TestMarshalForPromptKeepsUnicode(t *testing.T) {
	payload := map[string]interface{}{"关键词": "uggs"}

	rendered, err := MarshalForPrompt(payload)
	require.NoError(t, err)
	assert.Contains(t, rendered, "关键词")
	assert.NotContains(t, rendered, `\u`)
}

func TestPromptsEmbedResearch(t *testing.T) {
	research := `{"brand_name": "Amazing Cosy"}`

	for name, prompt := range map[string]string{
		"single":      SingleAgentPrompt(research),
		"titles":      TitlesPrompt(research),
		"bullets":     BulletPointsPrompt(research, `{"titles":[]}`),
		"description": DescriptionPrompt(research, `{}`, `{}`),
	} {
		assert.Containsf(t, prompt, "Amazing Cosy", "prompt %s", name)
		assert.Containsf(t, prompt, "JSON", "prompt %s", name)
	}

	assert.True(t, strings.Contains(QualityCheckPrompt(`{"doc":1}`), `"doc":1`))
	assert.True(t, strings.Contains(RationalePrompt(`{"doc":1}`), `"doc":1`))
}
