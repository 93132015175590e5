// Package web serves the dashboard page, its charts and a small JSON API.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/KaramelBytes/sdgdash/internal/charts"
	"github.com/KaramelBytes/sdgdash/internal/logger"
	"github.com/KaramelBytes/sdgdash/internal/metrics"
	"github.com/KaramelBytes/sdgdash/internal/pipeline"
	"github.com/KaramelBytes/sdgdash/internal/view"
)

// Options wires the server's dependencies.
type Options struct {
	Loader   *pipeline.Loader
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	Defaults view.Defaults
	Size     charts.Size
	// ShutdownTimeout bounds graceful shutdown; zero means 10s.
	ShutdownTimeout time.Duration
}

// Server is the dashboard HTTP server.
type Server struct {
	loader   *pipeline.Loader
	log      *logger.Logger
	metrics  *metrics.Metrics
	defaults view.Defaults
	size     charts.Size
	shutdown time.Duration
}

// New builds a server. A nil Logger discards output and a nil Metrics
// disables /metrics.
func New(o Options) *Server {
	s := &Server{
		loader:   o.Loader,
		log:      o.Logger,
		metrics:  o.Metrics,
		defaults: o.Defaults,
		size:     o.Size,
		shutdown: o.ShutdownTimeout,
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	if s.size.Width <= 0 || s.size.Height <= 0 {
		s.size = charts.DefaultSize()
	}
	if s.shutdown <= 0 {
		s.shutdown = 10 * time.Second
	}
	return s
}

// Router returns the dashboard routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(RequestID)
	r.Use(Instrument(s.log, s.metrics))

	r.Get("/", s.handleIndex)
	r.Get("/charts/{kind}.svg", s.handleChart)
	r.Route("/api", func(r chi.Router) {
		r.Get("/records", s.handleRecords)
		r.Get("/radar", s.handleRadar)
		r.Get("/options", s.handleOptions)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("dashboard listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down", "timeout", s.shutdown)
	sctx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// load runs the loader and builds the view for the request's query.
func (s *Server) load(r *http.Request) (pipeline.Result, *view.View) {
	res := s.loader.Load(r.Context())
	sel := view.ParseSelection(r.URL.Query(), res.Table, s.defaults)
	return res, view.Build(res.Table, sel)
}
