// Package httpserver exposes the entry store over a small JSON API.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/xolan/logbook/internal/config"
	"github.com/xolan/logbook/internal/httpserver/deps"
	"github.com/xolan/logbook/internal/httpserver/handlers"
	"github.com/xolan/logbook/internal/httpserver/mw"
	"github.com/xolan/logbook/internal/logger"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	http            *http.Server
	logger          logger.Logger
	shutdownTimeout time.Duration
}

// New builds the HTTP server (router, middlewares, route registration).
func New(cfg config.ServerConfig, d deps.Deps) *Server {
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}

	s := &http.Server{
		Addr:              cfg.Listen,
		Handler:           NewRouter(d),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return &Server{
		http:            s,
		logger:          d.Logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// NewRouter returns the API routes with their middlewares.
func NewRouter(d deps.Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}

	r := chi.NewRouter()
	r.Use(middleware.GetHead)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(mw.Log(d.Logger))

	r.Get("/healthz", handlers.Healthz(d))
	r.Route("/api", func(r chi.Router) {
		r.Get("/entries", handlers.ListEntries(d))
		r.Post("/entries", handlers.CreateEntry(d))
		r.Delete("/entries/{start}", handlers.DeleteEntry(d))
		r.Get("/history", handlers.History(d))
	})
	return r
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

// Serve accepts connections on l until Stop is called.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Infof("HTTP server listening on %s", l.Addr())
	err := s.http.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Start listens on the configured address and serves until Stop is called.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Stop gracefully shuts down the server with the provided context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down...")
	return s.http.Shutdown(ctx)
}

// Run serves on l until ctx is done, then shuts down within the configured
// shutdown timeout.
func (s *Server) Run(ctx context.Context, l net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(l) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
