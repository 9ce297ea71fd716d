// Package server exposes the question answering, speech synthesis, and
// history endpoints over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Himanshusinh/Vachanamrut-backend/pkg/genai"
	"github.com/Himanshusinh/Vachanamrut-backend/pkg/history"
	"github.com/Himanshusinh/Vachanamrut-backend/pkg/similarity"
)

// Provider is the slice of the Gemini client the server needs. Tests swap in
// a fake.
type Provider interface {
	GenerateAnswer(ctx context.Context, query string) (string, error)
	Synthesize(ctx context.Context, text string) (genai.SpeechResult, error)
}

// Options configures the HTTP server.
type Options struct {
	Host         string  // default "0.0.0.0"
	Port         int     // default 4000
	Threshold    float64 // history match threshold, default similarity.DefaultThreshold
	MaxBodyBytes int64   // request body limit, default 10 MiB
}

// Server is the backend HTTP server.
type Server struct {
	options  Options
	server   *http.Server
	store    *history.Store
	matcher  *history.Matcher
	provider Provider
	logger   zerolog.Logger
}

// NewServer creates the HTTP server over a history store and a provider.
func NewServer(options Options, store *history.Store, matcher *history.Matcher, provider Provider, logger zerolog.Logger) (*Server, error) {
	if store == nil || matcher == nil {
		return nil, fmt.Errorf("history store and matcher are required")
	}
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}

	if options.Host == "" {
		options.Host = "0.0.0.0"
	}
	if options.Port == 0 {
		options.Port = 4000
	}
	if options.Threshold == 0 {
		options.Threshold = similarity.DefaultThreshold
	}
	if options.MaxBodyBytes == 0 {
		options.MaxBodyBytes = 10 << 20
	}

	return &Server{
		options:  options,
		store:    store,
		matcher:  matcher,
		provider: provider,
		logger:   logger,
	}, nil
}

// Handler builds the route table. Exposed so tests can drive it through
// httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/gemini", s.handleAsk)
	mux.HandleFunc("POST /api/tts", s.handleTTS)
	mux.HandleFunc("GET /api/history/list", s.handleHistoryList)
	mux.HandleFunc("POST /api/history/find", s.handleHistoryFind)
	mux.HandleFunc("POST /api/history/save-audio", s.handleHistorySave)
	mux.HandleFunc("POST /api/history/audio", s.handleHistoryAudio)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return s.withRequestLog(s.withCORS(s.withBodyLimit(mux)))
}

// Start runs the server until Stop is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.options.Host, s.options.Port),
		Handler: s.Handler(),
	}

	s.logger.Info().
		Str("host", s.options.Host).
		Int("port", s.options.Port).
		Str("history_root", s.store.Root()).
		Msg("Starting HTTP server")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	s.logger.Info().Msg("Shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}
