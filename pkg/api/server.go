package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/marmos91/radiusauth/internal/logger"
	"github.com/marmos91/radiusauth/pkg/api/token"
	"github.com/marmos91/radiusauth/pkg/auth"
	"github.com/marmos91/radiusauth/pkg/config"
)

// Server provides an HTTP server for the REST API.
//
// Endpoints:
//   - GET /health: Liveness probe
//   - GET /health/ready: Readiness probe
//   - GET /api/v1/auth/requests: Credential fields for an action
//   - POST /api/v1/auth/login: Exchange credentials for an access token
//   - GET /api/v1/auth/me: Identity behind a bearer token
//
// The server supports graceful shutdown with configurable timeout.
type Server struct {
	server       *http.Server
	manager      *auth.Manager
	tokens       *token.Service
	config       config.APIConfig
	listener     net.Listener
	ready        chan struct{}
	shutdownOnce sync.Once
}

// NewServer creates a new API HTTP server.
//
// The server is created in a stopped state. Call Start() to begin serving requests.
//
// Defaults are applied here to ensure the server works correctly even when
// created directly (e.g., in tests). This is idempotent with the defaults
// applied during config loading.
//
// Parameters:
//   - cfg: Server configuration (port, timeouts, JWT)
//   - manager: Authentication manager consulted on login
//
// Returns an error when the JWT secret is missing or too short.
func NewServer(cfg config.APIConfig, manager *auth.Manager) (*Server, error) {
	cfg.ApplyDefaults()

	tokens, err := token.NewService(token.Config{
		Secret:              cfg.GetJWTSecret(),
		AccessTokenDuration: cfg.JWT.AccessTokenDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("create token service: %w", err)
	}

	router := NewRouter(manager, tokens)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		server:  server,
		manager: manager,
		tokens:  tokens,
		config:  cfg,
		ready:   make(chan struct{}),
	}, nil
}

// Start starts the API HTTP server and blocks until the context is cancelled
// or an error occurs.
//
// When the context is cancelled, Start initiates graceful shutdown and returns.
//
// Returns:
//   - nil on graceful shutdown
//   - error if the server fails to start or shutdown encounters an error
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("API server failed: %w", err)
	}
	s.listener = ln
	close(s.ready)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "port", s.Port())
		logger.Debug("API endpoints available",
			"health", fmt.Sprintf("http://localhost:%d/health", s.Port()),
			"login", fmt.Sprintf("http://localhost:%d/api/v1/auth/login", s.Port()),
		)

		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("API server shutdown signal received")
		// Don't use the cancelled ctx as it would cause immediate shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("API server failed: %w", err)
	}
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Stop initiates graceful shutdown of the API server.
//
// Stop is safe to call multiple times and safe to call concurrently with Start().
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		logger.Debug("API server shutdown initiated")

		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("API server shutdown error: %w", err)
			logger.Error("API server shutdown error", logger.KeyError, err)
		} else {
			logger.Info("API server stopped gracefully")
		}
	})
	return shutdownErr
}

// Port returns the TCP port the server is listening on.
func (s *Server) Port() int {
	if s.listener != nil {
		if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
			return addr.Port
		}
	}
	return s.config.Port
}

// Handler returns the router, for tests that serve it with httptest.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
