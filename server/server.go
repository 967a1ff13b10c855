// Package server wires configuration, the Gemini provider, the analysis
// pipeline, and the middleware chain into one HTTP server with graceful
// shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/platewise/platewise/config"
	"github.com/platewise/platewise/server/handlers"
	"github.com/platewise/platewise/server/metrics"
	"github.com/platewise/platewise/server/middleware"
	"github.com/platewise/platewise/server/processing"
	"github.com/platewise/platewise/server/provider"
)

// Server represents the HTTP server and everything it owns.
type Server struct {
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *metrics.Metrics
	httpServer *http.Server

	// closer releases the backend client during shutdown.
	closer io.Closer
}

// NewServer creates a fully wired server from configuration: the Gemini
// client, the optional circuit breaker around it, the analysis processor,
// and the HTTP routes and middleware.
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	gemini, err := provider.NewGemini(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	srv, err := NewServerWithProvider(cfg, provider.WithBreaker(gemini, cfg.LLM.CircuitBreaker, logger), logger)
	if err != nil {
		_ = gemini.Close()
		return nil, err
	}
	srv.closer = gemini

	return srv, nil
}

// NewServerWithProvider wires the server around an injected provider.
// This is the construction seam tests use to substitute the backend.
func NewServerWithProvider(cfg *config.Config, p provider.Provider, logger *zap.Logger) (*Server, error) {
	m := metrics.NewMetrics()

	processor, err := processing.NewProcessor(cfg, p, logger, m)
	if err != nil {
		return nil, fmt.Errorf("create processor: %w", err)
	}

	analyze := handlers.NewAnalyzeHandler(processor, logger, m)

	r := chi.NewRouter()

	// Middleware stack; order matters: the request ID must exist before
	// anything logs, and recovery must sit inside logging so panics are
	// still timed and counted.
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTimer)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS)
	r.Use(middleware.PrometheusMetrics(m))

	// Unauthenticated operational routes. None of these ever touch the
	// backend.
	r.Get("/", handlers.Liveness())
	r.Get("/health", handlers.Health())
	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Analysis route: body cap always, shared-secret check only when
	// enabled. The handler performs its own method check so non-POST gets
	// the JSON error shape rather than chi's plaintext 405.
	r.Group(func(gr chi.Router) {
		gr.Use(middleware.MaxBytes(cfg.Server.MaxBodyBytes))
		if cfg.Auth.Enabled {
			gr.Use(middleware.SharedSecret(cfg.Auth, logger))
		}
		gr.Handle("/analyze-meal", analyze)
	})

	return &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		httpServer: &http.Server{
			Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:        r,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		},
	}, nil
}

// Handler exposes the routed handler, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the server and blocks until ctx is canceled or the listener
// fails. Cancellation triggers a graceful shutdown bounded by the configured
// shutdown timeout, after which the backend client is released.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Server started",
			zap.String("address", s.httpServer.Addr),
			zap.Bool("auth_enabled", s.cfg.Auth.Enabled),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		s.logger.Info("Shutting down server")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error during server shutdown: %w", err)
		}
		if s.closer != nil {
			if err := s.closer.Close(); err != nil {
				s.logger.Warn("failed to close backend client", zap.Error(err))
			}
		}
		return nil

	case err := <-errChan:
		return err
	}
}
