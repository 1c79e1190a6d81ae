package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/land-temperature-etl/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReportSource returns the report of the last completed run, or nil before the first.
type ReportSource interface {
	LastReport() *domain.Report
}

// Server exposes health, readiness, metrics, and read-only report endpoints.
type Server struct {
	httpServer *http.Server
	reports    ReportSource
	logger     *slog.Logger
}

// NewServer creates an HTTP server with operational routes under / and report
// views under /api/v1.
func NewServer(addr string, ready sharedobs.ReadinessChecker, reports ReportSource, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		reports: reports,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/summary", s.withReport(s.handleSummary))
	mux.HandleFunc("GET /api/v1/series/{dimension}", s.withReport(s.handleSeries))
	mux.HandleFunc("GET /api/v1/variability/{dimension}", s.withReport(s.handleVariability))

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

type reportHandler func(w http.ResponseWriter, r *http.Request, report *domain.Report)

// withReport answers 503 until a run has completed.
func (s *Server) withReport(next reportHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := s.reports.LastReport()
		if report == nil {
			writeError(w, http.StatusServiceUnavailable, "no completed run")
			return
		}
		next(w, r, report)
	}
}

type summaryResponse struct {
	RunID       string                `json:"run_id"`
	GeneratedAt time.Time             `json:"generated_at"`
	TopN        int                   `json:"top_n"`
	Summary     domain.DatasetSummary `json:"summary"`
	Fill        domain.FillStats      `json:"fill"`
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request, report *domain.Report) {
	writeJSON(w, http.StatusOK, summaryResponse{
		RunID:       report.RunID,
		GeneratedAt: report.GeneratedAt,
		TopN:        report.TopN,
		Summary:     report.Summary,
		Fill:        report.Fill,
	})
}

// handleSeries returns every series of a dimension, or only those named by
// repeated name query parameters.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request, report *domain.Report) {
	d, err := domain.ParseDimension(r.PathValue("dimension"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, ok := report.Regions[d]
	if !ok {
		writeError(w, http.StatusNotFound, "dimension not aggregated")
		return
	}
	if names := r.URL.Query()["name"]; len(names) > 0 {
		writeJSON(w, http.StatusOK, domain.Select(d, rows, names))
		return
	}
	writeJSON(w, http.StatusOK, domain.BuildSeries(d, rows))
}

// handleVariability returns the n most (default) or least affected entities.
func (s *Server) handleVariability(w http.ResponseWriter, r *http.Request, report *domain.Report) {
	d, err := domain.ParseDimension(r.PathValue("dimension"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	v, ok := report.Variability[d]
	if !ok {
		writeError(w, http.StatusNotFound, "no variability for dimension")
		return
	}

	n := report.TopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err = strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
	}

	switch order := r.URL.Query().Get("order"); order {
	case "", "most":
		writeJSON(w, http.StatusOK, v.MostAffected(n))
	case "least":
		writeJSON(w, http.StatusOK, v.LeastAffected(n))
	default:
		writeError(w, http.StatusBadRequest, "order must be most or least")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
