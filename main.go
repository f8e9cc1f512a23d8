package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"golisting/adapters/llm"
	"golisting/api"
	"golisting/app"
	"golisting/internal/config"
	"golisting/ports"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var client ports.LLMClient
	if cfg.AI.APIKey != "" {
		client, err = llm.NewOpenAIClient(llm.Config{
			APIKey:        cfg.AI.APIKey,
			BaseURL:       cfg.AI.BaseURL,
			Temperature:   cfg.AI.Temperature,
			Timeout:       cfg.AI.Timeout,
			MaxConcurrent: cfg.AI.MaxConcurrent,
		})
		if err != nil {
			log.Fatalf("Failed to create LLM client: %v", err)
		}
	} else {
		log.Println("LLM_API_KEY not configured; /generate will be unavailable")
	}

	service := app.NewListingService(cfg.AI, client, cfg.Quality.PassThreshold)
	server := api.NewServer(cfg, service)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting %s on port %s", api.ServiceName, cfg.Server.Port)
	if err := server.Start(ctx, ":"+cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
