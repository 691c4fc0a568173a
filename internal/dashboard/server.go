package dashboard

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nao1215/proxyscope/internal/dataset"
	"github.com/nao1215/proxyscope/internal/model"
	"github.com/nao1215/proxyscope/internal/pipeline"
)

// Title is the dashboard page title.
const Title = "Proxy Risk Analysis Dashboard"

//go:embed templates/*.html
var templatesFS embed.FS

// ChartSettings supplies per-chart output settings and the highlighted
// countries. *config.Config satisfies it.
type ChartSettings = pipeline.ChartSettings

// Server serves the dashboard for one CSV file.
type Server struct {
	// path is the CSV file the dashboard presents.
	path string

	settings  ChartSettings
	logger    *slog.Logger
	metrics   *Metrics
	cache     *dataset.Cache
	templates *template.Template
	router    chi.Router

	// mu guards current.
	mu sync.Mutex

	// current is the analysis computed from the cached dataset snapshot.
	// It is replaced when the cache hands out a different dataset.
	current *model.Analysis
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and load logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collectors. By default each server creates
// its own.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLoader sets the loader used to read the CSV file.
func WithLoader(loader *dataset.Loader) Option {
	return func(s *Server) {
		s.cache = dataset.NewCache(loader, dataset.WithLoadObserver(s.observeLoad))
	}
}

// NewServer creates a dashboard Server for the CSV file at path.
func NewServer(path string, settings ChartSettings, opts ...Option) (*Server, error) {
	if settings == nil {
		return nil, errors.New("dashboard: chart settings are required")
	}

	s := &Server{
		path:     path,
		settings: settings,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.cache == nil {
		s.cache = dataset.NewCache(dataset.NewLoader(dataset.WithLogger(s.logger)), dataset.WithLoadObserver(s.observeLoad))
	}

	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = t
	s.router = s.routes()

	return s, nil
}

// Handler returns the HTTP handler serving every dashboard route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's metrics collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// routes builds the chi router.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/", s.handleIndex)
	r.Get("/charts/{kind}.{format}", s.handleChart)
	r.Get("/api/analysis", s.handleAnalysis)
	r.Post("/reload", s.handleReload)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	return r
}

// instrument counts requests by route pattern and status code.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.RequestsTotal.WithLabelValues(route, fmt.Sprintf("%d", status)).Inc()
		s.logger.Debug("request served",
			"method", r.Method,
			"route", route,
			"status", status,
			"elapsed", time.Since(start),
		)
	})
}

// observeLoad feeds dataset loads into the metrics.
func (s *Server) observeLoad(path string, elapsed time.Duration, err error) {
	switch {
	case err == nil:
		s.metrics.RecordLoad("ok", elapsed)
	case dataset.IsNotFound(err):
		s.metrics.RecordLoad("not_found", elapsed)
	default:
		s.metrics.RecordLoad("error", elapsed)
	}
	if err != nil {
		s.logger.Warn("dataset load failed", "path", path, "error", err)
	}
}

// analysis returns the analysis of the current dataset snapshot, computing
// it when the snapshot changed.
func (s *Server) analysis(ctx context.Context) (*model.Analysis, error) {
	ds, err := s.cache.Get(s.path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.Dataset == ds {
		return s.current, nil
	}

	a := model.NewAnalysis(nil)
	a.Source = s.path
	loadCached := func(string) (*model.Dataset, error) { return ds, nil }
	p := pipeline.DefaultPipeline(loadCached, []pipeline.Option{pipeline.WithLogger(s.logger)},
		pipeline.WithPipelineStepLogger(s.logger))
	if err := p.Execute(ctx, a); err != nil {
		return nil, err
	}

	s.current = a
	s.metrics.DatasetRecords.Set(float64(a.RecordCount))
	s.metrics.DatasetDropped.Set(float64(a.DroppedCount))
	return a, nil
}

// reload drops the cached snapshot and loads the file again.
func (s *Server) reload(ctx context.Context) (*model.Analysis, error) {
	s.cache.Invalidate(s.path)
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return s.analysis(ctx)
}

// ListenAndServe serves the dashboard on addr until ctx is cancelled, then
// shuts the server down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", addr, "source", s.path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down dashboard: %w", err)
		}
		return nil
	}
}
