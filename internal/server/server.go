// Package server wires the HTTP server around the API routes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/divvyup/divvy/internal/config"
	"github.com/divvyup/divvy/internal/handler"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New builds a ready-to-start server over the handler's route tree.
func New(cfg config.Config, h *handler.Handler) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           h.Routes(cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
