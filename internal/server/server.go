// Package server implements the proxy endpoint that keeps the Gemini API
// key server-side and forwards validated prompts upstream.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/hardy/onion/internal/models"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 5 * time.Minute // upstream generation can be slow
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server wraps the HTTP server hosting the proxy handler.
type Server struct {
	httpServer *http.Server
	log        zerolog.Logger
}

// New creates a Server listening on addr.
func New(addr, apiKey string, gen Generator, log zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle(models.APIPath, NewHandler(apiKey, gen, log))

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		log: log,
	}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("proxy listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.log.Info().Msg("shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}
