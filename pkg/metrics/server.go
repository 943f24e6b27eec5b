package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	defaultPath         = "/metrics"
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
	shutdownTimeout     = 5 * time.Second
)

// Server exposes a Prometheus recorder over HTTP.
type Server struct {
	server   *http.Server
	listener net.Listener
	log      *zap.Logger

	mu     sync.Mutex
	closed bool
}

// Handler returns the scrape handler for the recorder's registry.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Serve starts serving the recorder at addr under /metrics. The listener is
// bound before Serve returns so callers can read Addr immediately.
func Serve(p *Prometheus, addr string, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	mux := http.NewServeMux()
	mux.Handle(defaultPath, p.Handler())

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		server: &http.Server{
			Handler:      mux,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		listener: ln,
		log:      log,
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	log.Info("metrics server listening", zap.String("addr", s.URL()))
	return s, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// URL returns the scrape URL.
func (s *Server) URL() string {
	return "http://" + s.Addr() + defaultPath
}

// Close shuts down the server. Safe to call more than once.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
