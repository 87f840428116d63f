// Package server wires the dispatcher behind the middleware chain,
// binds a hardened TCP listener, and runs the HTTP server with
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/caddyserver/certmagic"
	"github.com/go-chi/chi/v5"

	"github.com/poletaevvlad/authproxy/internal/config"
	"github.com/poletaevvlad/authproxy/internal/dispatcher"
	"github.com/poletaevvlad/authproxy/internal/listener"
	"github.com/poletaevvlad/authproxy/internal/middleware"
)

// Server owns the listener and the *http.Server built from it.
type Server struct {
	cfg      *config.Config
	disp     *dispatcher.Dispatcher
	httpSrv  *http.Server
	listener net.Listener
}

// New builds the middleware chain around disp and constructs (but
// does not yet start) the listener and server.
func New(cfg *config.Config, disp *dispatcher.Dispatcher) (*Server, error) {
	router := chi.NewRouter()
	router.Use(middleware.Recover)
	router.Use(middleware.RequestTracing)
	router.Use(middleware.BodySizeLimit(middleware.MaxBodySize))
	router.Use(middleware.SecurityHeaders)
	// The dispatcher's routing depends on auth state, method, and
	// path all at once, so it is mounted as a single catch-all
	// handler rather than expressed as chi route entries.
	router.Handle("/*", disp)

	rawListener, err := listener.ListenTCP("tcp", cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("binding %s: %w", cfg.Addr(), err)
	}

	limited := listener.NewConnLimiter(rawListener, listener.ConnLimiterConfig{
		MaxConnsPerIP: cfg.MaxConnsPerIP,
		MaxTotalConns: cfg.MaxTotalConns,
		OnReject:      listener.LoggingOnReject,
	})

	return &Server{
		cfg:      cfg,
		disp:     disp,
		listener: limited,
		httpSrv: &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
	}, nil
}

// Run serves requests until ctx is cancelled, then drains connections
// gracefully. When cfg.TLSDomain is set, certificate issuance and
// renewal is delegated to certmagic instead of serving plain HTTP.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		var err error
		if s.cfg.TLSDomain != "" {
			tlsConfig, tlsErr := certmagic.TLS([]string{s.cfg.TLSDomain})
			if tlsErr != nil {
				log.Printf("automatic HTTPS unavailable for %s, falling back to HTTP: %v", s.cfg.TLSDomain, tlsErr)
				err = s.httpSrv.Serve(s.listener)
			} else {
				s.httpSrv.TLSConfig = tlsConfig
				tlsListener := tlsListenerFor(s.listener, tlsConfig)
				err = s.httpSrv.Serve(tlsListener)
			}
		} else {
			err = s.httpSrv.Serve(s.listener)
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// Addr returns the bound address, useful for tests that bind to port
// 0 and need to discover the chosen port.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
