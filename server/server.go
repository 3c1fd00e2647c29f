package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/theoremus-urban-solutions/marc2xml/config"
)

// Server serves conversions with the settings of cfg.
type Server struct {
	cfg       config.AppConfig
	http      *http.Server
	converted atomic.Int64
	skipped   atomic.Int64
}

// New returns a Server listening on cfg.Server.Port once started.
func New(cfg config.AppConfig) *Server {
	s := &Server{cfg: cfg}
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routes of the service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/convert.xml", s.handleConvert(config.FormatXML))
	mux.HandleFunc("POST /api/convert.json", s.handleConvert(config.FormatJSONL))
	return withRequestID(mux)
}

// Start listens and serves in the background. Listen errors are returned
// immediately.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", ln.Addr())
	return nil
}

// Shutdown stops accepting requests and waits for running ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Run starts the server and shuts it down when ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	log.Printf("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Printf("server shut down successfully")
	return nil
}
