package models

import (
	"os"
	"strconv"
	"time"
)

// AIConfig holds LLM service configuration shared by the agents
type AIConfig struct {
	APIKey        string
	Model         string
	BaseURL       string
	SystemContext string
	MaxTokens     int
	Temperature   float64
	MaxConcurrent int64
	Timeout       time.Duration
}

// DefaultAIConfig returns sensible defaults, overridable via environment
func DefaultAIConfig() *AIConfig {
	config := &AIConfig{
		APIKey:        os.Getenv("LLM_API_KEY"),
		Model:         "gpt-4o-mini",
		BaseURL:       os.Getenv("LLM_BASE_URL"),
		SystemContext: "You are an expert Amazon content writer and SEO specialist",
		MaxTokens:     8192,
		Temperature:   0.7,
		MaxConcurrent: 4,
		Timeout:       180 * time.Second,
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		config.Model = model
	}
	if maxTokens := os.Getenv("LLM_MAX_TOKENS"); maxTokens != "" {
		if value, err := strconv.Atoi(maxTokens); err == nil {
			config.MaxTokens = value
		}
	}
	if temp := os.Getenv("LLM_TEMPERATURE"); temp != "" {
		if value, err := strconv.ParseFloat(temp, 64); err == nil {
			config.Temperature = value
		}
	}
	if concurrent := os.Getenv("LLM_MAX_CONCURRENT"); concurrent != "" {
		if value, err := strconv.ParseInt(concurrent, 10, 64); err == nil && value > 0 {
			config.MaxConcurrent = value
		}
	}
	if timeout := os.Getenv("LLM_TIMEOUT_SECONDS"); timeout != "" {
		if value, err := strconv.Atoi(timeout); err == nil && value > 0 {
			config.Timeout = time.Duration(value) * time.Second
		}
	}

	return config
}
