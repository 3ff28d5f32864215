// Package server exposes the detection engine over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"golang-anomaly-detection-service/internal/detector"
	"golang-anomaly-detection-service/pkg/logger"

	"github.com/gorilla/mux"
)

// Config holds HTTP server settings.
type Config struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

// DefaultConfig returns server settings suitable for local use.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:      ":8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxBodyBytes:    16 << 20,
	}
}

// Server routes analysis requests to a shared engine. The engine is
// stateless, so one instance serves all requests concurrently.
type Server struct {
	config *Config
	engine *detector.Engine
	log    logger.Logger
	http   *http.Server
}

// New creates a server around the given engine.
func New(config *Config, engine *detector.Engine) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Server{
		config: config,
		engine: engine,
		log:    logger.GetGlobalLogger().WithComponent("server"),
	}

	router := mux.NewRouter()
	router.Use(s.requestIDMiddleware)
	router.Use(s.loggingMiddleware)

	router.HandleFunc("/api/analyze", s.handleAnalyze).Methods(http.MethodPost)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:         config.ListenAddr,
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return s
}

// Handler returns the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.WithField("addr", s.config.ListenAddr).Info("HTTP server listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	return s.http.Shutdown(shutdownCtx)
}
