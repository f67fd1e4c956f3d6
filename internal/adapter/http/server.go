// Package http exposes the habitability API plus health, readiness, and
// metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/exoplanet-habitability/internal/adapter/ollama"
	"github.com/couchcryptid/exoplanet-habitability/internal/aggregate"
	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
	"github.com/couchcryptid/exoplanet-habitability/internal/search"
)

const defaultHistoryLimit = 10

// PlanetService is the service surface the handlers need.
type PlanetService interface {
	Search(ctx context.Context, query, searchType string) (search.Result, error)
	Habitability(ctx context.Context, planetName string) (domain.PlanetRecord, error)
	Compare(ctx context.Context, names []string) ([]domain.PlanetRecord, error)
	Analyze(ctx context.Context, query string) (domain.PlanetRecord, ollama.Result, error)
	History(ctx context.Context, limit int) ([]domain.PlanetRecord, error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the API over HTTP.
type Server struct {
	httpServer *http.Server
	service    PlanetService
	logger     *slog.Logger
}

// NewServer creates the HTTP server with all routes mounted.
func NewServer(addr string, service PlanetService, logger *slog.Logger) *Server {
	s := &Server{
		service: service,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/", s.handleRoot)
		r.Post("/search", s.handleSearch)
		r.Get("/habitability/{planet}", s.handleHabitability)
		r.Get("/compare", s.handleCompare)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/history", s.handleHistory)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second, // analysis requests wait on the model
		IdleTimeout:  60 * time.Second,
	}
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

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Exoplanet Habitability API",
		"version": "2.0",
		"features": []string{
			"Multi-source data aggregation",
			"Habitability scoring",
			"Survival chance estimation",
			"Real and synthetic imagery",
			"AI-powered analysis",
		},
	})
}

type searchRequest struct {
	Query      string `json:"query"`
	SearchType string `json:"search_type"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SearchType == "" {
		req.SearchType = aggregate.SearchByName
	}

	result, err := s.service.Search(r.Context(), req.Query, req.SearchType)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHabitability(w http.ResponseWriter, r *http.Request) {
	planet := chi.URLParam(r, "planet")

	record, err := s.service.Habitability(r.Context(), planet)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record.Habitability)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	planet1 := r.URL.Query().Get("planet1")
	planet2 := r.URL.Query().Get("planet2")
	if planet1 == "" || planet2 == "" {
		writeError(w, http.StatusBadRequest, "planet1 and planet2 are required")
		return
	}

	records, err := s.service.Compare(r.Context(), []string{planet1, planet2})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	first, second := records[0], records[1]
	better := first.Name
	if second.Habitability.TotalScore > first.Habitability.TotalScore {
		better = second.Name
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"planet1": comparisonEntry(first),
		"planet2": comparisonEntry(second),
		"comparison": map[string]any{
			"better_habitability": better,
			"score_difference":    math.Abs(first.Habitability.TotalScore - second.Habitability.TotalScore),
			"survival_difference": math.Abs(first.Habitability.SurvivalChance - second.Habitability.SurvivalChance),
		},
	})
}

func comparisonEntry(record domain.PlanetRecord) map[string]any {
	return map[string]any{
		"name":            record.Name,
		"habitability":    record.Habitability,
		"physical_params": record.PhysicalParams,
		"orbital_params":  record.OrbitalParams,
	}
}

type analyzeRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, analysis, err := s.service.Analyze(r.Context(), req.Query)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"planet":           record.Name,
		"habitability":     record.Habitability,
		"analysis":         analysis.Analysis,
		"ollama_available": analysis.Available,
		"error":            analysis.Error,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.service.History(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"searches": records, "count": len(records)})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.service.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// writeServiceError maps service errors to HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, search.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, aggregate.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
