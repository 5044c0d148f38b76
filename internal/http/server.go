package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/devmartyn/go-auth-api/internal/logging"
)

// Server owns the http.Server lifecycle: listen, serve, drain on shutdown.
type Server struct {
	httpServer *http.Server
	logger     *logging.Logger
}

// NewServer builds the listener with the configured timeouts. The idle
// timeout is fixed at a minute; read and write come from config because the
// auth endpoints do real work (argon2, SMTP enqueue) behind them.
func NewServer(addr string, handler http.Handler, logger *logging.Logger, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  time.Minute,
		},
		logger: logger,
	}
}

// Start blocks serving requests until the listener fails or Shutdown runs.
// A clean shutdown is not an error.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

// Shutdown drains in-flight requests until the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("http server stopped")
	return nil
}
