// Package api exposes the generation pipeline over HTTP: multipart upload of
// the two spreadsheet exports in, listing JSON out.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"golisting/app"
	"golisting/internal/config"
	"golisting/models"
)

// ServiceName and Version identify the service in the info endpoint
const (
	ServiceName = "Amazon Content Generator API"
	Version     = "1.0.0"
)

// ListingGenerator is the slice of the app layer the server needs
type ListingGenerator interface {
	GenerateSingle(ctx context.Context, req app.GenerateRequest) (*models.GenerationResult, error)
	GenerateOrchestrated(ctx context.Context, req app.GenerateRequest) (*models.GenerationResult, error)
}

// Server is the HTTP application
type Server struct {
	router    *chi.Mux
	generator ListingGenerator
	config    *config.Config
	hasAPIKey bool
}

// NewServer wires routes and middleware
func NewServer(cfg *config.Config, generator ListingGenerator) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		generator: generator,
		config:    cfg,
		hasAPIKey: strings.TrimSpace(cfg.AI.APIKey) != "",
	}

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(corsMiddleware(cfg.Server.CORSOrigins))

	s.router.Get("/", s.handleRoot)
	s.router.Get("/health", s.handleHealth)
	s.router.Post("/generate", s.handleGenerate)
	s.router.Post("/normalize", s.handleNormalize)

	return s
}

// Handler returns the http handler, for tests and for the main entrypoint
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until ctx is cancelled, then drains in-flight
// requests within the configured shutdown timeout.
func (s *Server) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// corsMiddleware allows the configured frontend origins
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[origin] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
