package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golisting/internal/errors"
	"golisting/models"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	AI      *models.AIConfig
	Quality QualityConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	CORSOrigins     []string
	UploadDir       string
	ShutdownTimeout time.Duration
}

// QualityConfig holds the quality-check reporting threshold
type QualityConfig struct {
	PassThreshold int
}

// Load reads configuration from environment variables. The LLM API key is
// not required here: the normalize-only path runs without one, and the
// generation services check for it themselves.
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("PORT", "8000"),
			CORSOrigins:     splitOrigins(getEnvOrDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
			UploadDir:       getEnvOrDefault("UPLOAD_DIR", ""),
			ShutdownTimeout: 10 * time.Second,
		},
		AI: models.DefaultAIConfig(),
		Quality: QualityConfig{
			PassThreshold: getEnvIntOrDefault("QUALITY_PASS_THRESHOLD", 7),
		},
	}

	if config.Quality.PassThreshold < 0 || config.Quality.PassThreshold > 10 {
		return nil, errors.ConfigInvalid("QUALITY_PASS_THRESHOLD must be between 0 and 10")
	}

	return config, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
