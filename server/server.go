// Package server runs the HTTP listener that exposes the health check and
// the websocket upgrade endpoint the session coordinator is served over,
// per SPEC_FULL.md section 6.1's transport shell. It follows the
// teacher's Config+NewServer / Run(ctx)<-chan error / Stop(ctx) error
// lifecycle idiom, trimmed of the asset-serving, templating, and TLS/ACME
// machinery that this spec's domain has no use for (see DESIGN.md).
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jsholden/wordbourne/coordinator"
	"github.com/jsholden/wordbourne/transport"
)

// Config describes how to run the server.
type Config struct {
	// Port is the TCP port to listen on.
	Port string
	// Log receives lifecycle information. Required.
	Log *log.Logger
	// Coordinator serves every upgraded websocket connection. Required.
	Coordinator *coordinator.Coordinator
	// CheckOrigin gates which origins may open a websocket connection.
	// Nil means permissive, per spec.md section 6's default.
	CheckOrigin func(r *http.Request) bool
	// StopTimeout bounds graceful shutdown.
	StopTimeout time.Duration
}

func (cfg Config) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("server: log required")
	case cfg.Coordinator == nil:
		return fmt.Errorf("server: coordinator required")
	}
	return nil
}

func (cfg Config) stopTimeout() time.Duration {
	if cfg.StopTimeout > 0 {
		return cfg.StopTimeout
	}
	return 5 * time.Second
}

// Server runs the HTTP listener.
type Server struct {
	cfg        Config
	upgrader   transport.Upgrader
	httpServer *http.Server
}

// NewServer creates a Server from cfg.
func (cfg Config) NewServer() (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Server{
		cfg:      cfg,
		upgrader: transport.NewGorillaUpgrader(cfg.CheckOrigin),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/ws", s.handleWebsocket)
	s.httpServer = &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}
	return s, nil
}

// Run starts listening and serves until the context is canceled or the
// listener fails. The returned channel carries at most one error.
func (s *Server) Run(ctx context.Context) <-chan error {
	errC := make(chan error, 1)
	go func() {
		defer close(errC)
		s.cfg.Log.Printf("server: listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil {
			errC <- err
		}
	}()
	return errC
}

// Stop gracefully shuts down the HTTP listener, bounded by cfg.StopTimeout.
func (s *Server) Stop(ctx context.Context) error {
	stopCtx, cancel := context.WithTimeout(ctx, s.cfg.stopTimeout())
	defer cancel()
	return s.httpServer.Shutdown(stopCtx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r)
	if err != nil {
		s.cfg.Log.Printf("server: websocket upgrade failed: %v", err)
		return
	}
	s.cfg.Coordinator.Serve(r.Context(), conn)
}
