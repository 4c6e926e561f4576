// Package server exposes the bridge operations as JSON request/response
// pairs over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/leapstack-labs/leapbridge/pkg/core"
	"golang.org/x/sync/errgroup"
)

// DefaultShutdownTimeout bounds graceful shutdown when none is configured.
const DefaultShutdownTimeout = 5 * time.Second

// Service is the set of operations served over HTTP.
type Service interface {
	Encode(text string) string
	Decode(token string) (string, error)
	Query(ctx context.Context) (core.ResultSet, error)
	GenerateWith(ctx context.Context, prompt, model string) (string, error)
}

// Config holds configuration for the server.
type Config struct {
	Service         Service
	Addr            string
	ShutdownTimeout time.Duration
	Logger          *slog.Logger

	// AllowedOrigins enables CORS for browser front ends. Empty disables it.
	AllowedOrigins []string
	// GenerateLimit throttles /v1/generate.
	GenerateLimit  RateLimit
}

// Server serves the bridge API.
type Server struct {
	service         Service
	addr            string
	shutdownTimeout time.Duration
	logger          *slog.Logger
	allowedOrigins  []string
	generateLimit   RateLimit
}

// NewServer creates a new server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	return &Server{
		service:         cfg.Service,
		addr:            cfg.Addr,
		shutdownTimeout: timeout,
		logger:          logger,
		allowedOrigins:  cfg.AllowedOrigins,
		generateLimit:   cfg.GenerateLimit,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		RequestID,
		s.requestLogger,
		middleware.Recoverer,
	)
	if len(s.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", RequestIDHeader},
			ExposedHeaders: []string{RequestIDHeader},
			MaxAge:         300,
		}))
	}

	h := &handlers{service: s.service}

	r.Get("/healthz", h.Health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/encode", h.Encode)
		r.Post("/decode", h.Decode)
		r.Post("/query", h.Query)
		r.With(s.generateLimit.limit).Post("/generate", h.Generate)
	})

	return r
}

// Serve listens on the configured address and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully. In-flight requests see their context cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting bridge server", "addr", "http://"+ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down bridge server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"request_id", RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
