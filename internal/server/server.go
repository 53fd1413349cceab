// Package server runs the HTTP API with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	config "github.com/Abdorithm/alx-files-manager/internal/config/server"
	"github.com/Abdorithm/alx-files-manager/pkg/log"
)

type Server struct {
	httpServer *http.Server
	logger     log.LoggerService
}

func New(cfg config.HTTPServerConfig, handler http.Handler, logger log.LoggerService) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Address,
			Handler:           handler,
			ReadTimeout:       config.Duration(cfg.ReadTimeout, 30*time.Second),
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      config.Duration(cfg.WriteTimeout, 60*time.Second),
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// Start listens on the configured address and serves in the background.
// The returned channel reports a serve failure, or closes on shutdown.
func (s *Server) Start() (<-chan error, error) {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		s.logger.Info("HTTP server listening on %s", listener.Addr())

		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	return errc, nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
