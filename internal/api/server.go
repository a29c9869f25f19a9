package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// ServerOptions configures NewServer.
type ServerOptions struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MetricsEnabled bool
	Version        string
	StartTime      time.Time
	Log            zerolog.Logger
}

// Server is the pipeline's operator-facing HTTP surface: /health always,
// /metrics when enabled. There is no query or control API; downstream
// readers consume the data lake straight out of the object store.
type Server struct {
	http *http.Server
	log  zerolog.Logger
}

func NewServer(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Recoverer)
	r.Use(Logger(opts.Log))

	health := NewHealthHandler(opts.Version, opts.StartTime)
	r.Get("/health", health.ServeHTTP)

	if opts.MetricsEnabled {
		r.Get("/metrics", promhttp.Handler().ServeHTTP)
	}

	return &Server{
		http: &http.Server{
			Addr:         opts.Addr,
			Handler:      r,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  opts.IdleTimeout,
		},
		log: opts.Log,
	}
}

// Start runs the HTTP server until it is shut down. It returns
// http.ErrServerClosed on a graceful Shutdown, matching net/http's
// convention; callers should treat that value as success.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests within ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
