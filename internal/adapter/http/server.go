package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/modis-fire-dashboard/internal/chart"
	"github.com/couchcryptid/modis-fire-dashboard/internal/dashboard"
	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
)

// Service is the dashboard surface the API exposes.
type Service interface {
	Pages() []string
	PredictionForm() dashboard.Form
	Predict(ctx context.Context, in domain.PredictionInput) (domain.Prediction, error)
	Visualization(ctx context.Context, req dashboard.Request) (dashboard.Page, error)
	Chart(ctx context.Context, req dashboard.Request, id string) (chart.Figure, error)
	Export(ctx context.Context, req dashboard.Request, w io.Writer) error
}

// Renderer draws a figure, or one frame of it, as PNG.
type Renderer interface {
	RenderPNG(w io.Writer, fig chart.Figure, frame string) error
}

// Options tunes the middleware stack.
type Options struct {
	CORSOrigins []string
	// PredictRateLimit is the number of predictions per client per minute.
	// Zero disables limiting.
	PredictRateLimit int
}

// Server exposes the dashboard API alongside health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	svc        Service
	renderer   Renderer
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the probe routes and the /api/v1 tree.
func NewServer(addr string, svc Service, renderer Renderer, ready sharedobs.ReadinessChecker, opts Options, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     r,
			ReadTimeout: 10 * time.Second,
			// Page renders build every chart synchronously.
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:      svc,
		renderer: renderer,
		logger:   logger,
	}

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	predictLimit := func(next http.Handler) http.Handler { return next }
	if opts.PredictRateLimit > 0 {
		predictLimit = httprate.LimitByIP(opts.PredictRateLimit, time.Minute)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/pages", s.handlePages)
		r.Get("/prediction", s.handlePredictionForm)
		r.With(predictLimit).Post("/prediction", s.handlePredict)
		r.Get("/visualization", s.handleVisualization)
		r.Get("/visualization/charts/{chart}", s.handleChart)
		r.Get("/visualization/export.xlsx", s.handleExport)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// errorStatus maps service errors onto response codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, chart.ErrUnknownChart),
		errors.Is(err, chart.ErrChartUnavailable),
		errors.Is(err, dashboard.ErrNoDataset):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"error", err,
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	}
	writeError(w, status, err.Error())
}
