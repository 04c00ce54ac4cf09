// Package ui serves the workbench core contracts over HTTP as JSON,
// for the presentation layer to consume.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/sqldeck/sqldeck/internal/workbench"
)

// Server is the workbench API server.
type Server struct {
	wb     *workbench.Workbench
	addr   string
	logger *slog.Logger
}

// Config holds configuration for the API server.
type Config struct {
	Workbench *workbench.Workbench
	Addr      string
	Logger    *slog.Logger
}

// NewServer creates a new API server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		wb:     cfg.Workbench,
		addr:   cfg.Addr,
		logger: logger,
	}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewMux()
	r.Use(
		middleware.Recoverer,
		requestLogger(s.logger),
	)

	h := newHandlers(s.wb, s.logger)
	r.Route("/api", func(r chi.Router) {
		r.Post("/query", h.Query)
		r.Get("/schema", h.Schema)
		r.Get("/graph", h.Graph)
		r.Post("/graph/nodes/{table}/move", h.MoveNode)
		r.Post("/graph/layout/reset", h.ResetLayout)
		r.Get("/snapshot", h.ExportSnapshot)
		r.Post("/snapshot", h.ImportSnapshot)
		r.Post("/reset", h.Reset)
		r.Get("/status", h.Status)
	})
	return r
}

// Serve starts the API server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting workbench API", "addr", s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down workbench API")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// requestLogger logs one line per request on the structured logger.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).Round(time.Microsecond),
			)
		})
	}
}
