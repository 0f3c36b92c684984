package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/envdata-hub/internal/pipeline"
)

// Dashboards computes the reports served by the API.
type Dashboards interface {
	AirQuality(ctx context.Context, q pipeline.AirQualityQuery) (*pipeline.AirQualityReport, error)
	WaterResources(ctx context.Context, q pipeline.WaterQuery) (*pipeline.WaterReport, error)
	Correlation(ctx context.Context, q pipeline.CorrelationQuery) (*pipeline.CorrelationReport, error)
	Options(ctx context.Context) (*pipeline.OptionsReport, error)
}

// Server exposes the dashboard API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dashboards Dashboards
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the /api/v1 routes, /healthz,
// /readyz, and /metrics.
func NewServer(addr string, dashboards Dashboards, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dashboards: dashboards,
		logger:     logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/options", s.handleOptions)
	mux.HandleFunc("POST /api/v1/air-quality", s.handleAirQuality)
	mux.HandleFunc("POST /api/v1/water", s.handleWater)
	mux.HandleFunc("POST /api/v1/correlation", s.handleCorrelation)

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

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	report, err := s.dashboards.Options(r.Context())
	s.respond(w, r, report, err)
}

func (s *Server) handleAirQuality(w http.ResponseWriter, r *http.Request) {
	var q pipeline.AirQualityQuery
	if !s.decode(w, r, airQualitySchema, &q) {
		return
	}
	report, err := s.dashboards.AirQuality(r.Context(), q)
	s.respond(w, r, report, err)
}

func (s *Server) handleWater(w http.ResponseWriter, r *http.Request) {
	var q pipeline.WaterQuery
	if !s.decode(w, r, waterSchema, &q) {
		return
	}
	report, err := s.dashboards.WaterResources(r.Context(), q)
	s.respond(w, r, report, err)
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	var q pipeline.CorrelationQuery
	if !s.decode(w, r, correlationSchema, &q) {
		return
	}
	report, err := s.dashboards.Correlation(r.Context(), q)
	s.respond(w, r, report, err)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, report any, err error) {
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
		}
		writeJSON(w, status, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}
