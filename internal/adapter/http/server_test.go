package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/exoplanet-habitability/internal/adapter/ollama"
	"github.com/couchcryptid/exoplanet-habitability/internal/aggregate"
	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
	"github.com/couchcryptid/exoplanet-habitability/internal/search"
)

type stubService struct {
	records  map[string]domain.PlanetRecord
	analysis ollama.Result
	history  []domain.PlanetRecord
	readyErr error
}

func (s *stubService) lookup(query string) (domain.PlanetRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.PlanetRecord{}, search.ErrEmptyQuery
	}
	record, ok := s.records[query]
	if !ok {
		return domain.PlanetRecord{}, aggregate.ErrNotFound
	}
	return record, nil
}

func (s *stubService) Search(_ context.Context, query, _ string) (search.Result, error) {
	record, err := s.lookup(query)
	if err != nil {
		return search.Result{}, err
	}
	return search.Result{PlanetRecord: record}, nil
}

func (s *stubService) Habitability(_ context.Context, planetName string) (domain.PlanetRecord, error) {
	return s.lookup(planetName)
}

func (s *stubService) Compare(_ context.Context, names []string) ([]domain.PlanetRecord, error) {
	out := make([]domain.PlanetRecord, len(names))
	for i, name := range names {
		record, err := s.lookup(name)
		if err != nil {
			return nil, err
		}
		out[i] = record
	}
	return out, nil
}

func (s *stubService) Analyze(_ context.Context, query string) (domain.PlanetRecord, ollama.Result, error) {
	record, err := s.lookup(query)
	if err != nil {
		return domain.PlanetRecord{}, ollama.Result{}, err
	}
	return record, s.analysis, nil
}

func (s *stubService) History(_ context.Context, limit int) ([]domain.PlanetRecord, error) {
	if limit > len(s.history) {
		limit = len(s.history)
	}
	return s.history[:limit], nil
}

func (s *stubService) CheckReadiness(context.Context) error {
	return s.readyErr
}

func scoredRecord(name string, total, survival float64) domain.PlanetRecord {
	return domain.PlanetRecord{
		ID:   "exo-" + strings.ToLower(name),
		Name: name,
		Habitability: &domain.HabitabilityScore{
			TotalScore:     total,
			SurvivalChance: survival,
			Category:       domain.CategoryPromising,
		},
	}
}

func newTestServer(svc *stubService) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(":0", svc, logger)
}

func doRequest(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRootEndpoint(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := doRequest(t, srv, http.MethodGet, "/api/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Exoplanet Habitability API", body["message"])
	assert.Equal(t, "2.0", body["version"])
	assert.NotEmpty(t, body["features"])
}

func TestSearchEndpoint(t *testing.T) {
	svc := &stubService{records: map[string]domain.PlanetRecord{
		"Kepler-452 b": scoredRecord("Kepler-452 b", 78.5, 86.3),
	}}
	srv := newTestServer(svc)

	rec := doRequest(t, srv, http.MethodPost, "/api/search",
		`{"query": "Kepler-452 b", "search_type": "name"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeBody(t, rec)
	assert.Equal(t, "Kepler-452 b", body["name"])
	assert.NotNil(t, body["habitability_score"])
}

func TestSearchEndpoint_Errors(t *testing.T) {
	svc := &stubService{records: map[string]domain.PlanetRecord{}}
	srv := newTestServer(svc)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"empty query", `{"query": ""}`, http.StatusBadRequest},
		{"malformed body", `{not json`, http.StatusBadRequest},
		{"unknown planet", `{"query": "Nibiru"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/search", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHabitabilityEndpoint(t *testing.T) {
	svc := &stubService{records: map[string]domain.PlanetRecord{
		"Kepler-452 b": scoredRecord("Kepler-452 b", 78.5, 86.3),
	}}
	srv := newTestServer(svc)

	rec := doRequest(t, srv, http.MethodGet, "/api/habitability/Kepler-452%20b", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, 78.5, body["total_score"])
	assert.Equal(t, "Promising", body["category"])
}

func TestHabitabilityEndpoint_NotFound(t *testing.T) {
	srv := newTestServer(&stubService{records: map[string]domain.PlanetRecord{}})

	rec := doRequest(t, srv, http.MethodGet, "/api/habitability/Nibiru", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompareEndpoint(t *testing.T) {
	svc := &stubService{records: map[string]domain.PlanetRecord{
		"Kepler-452 b": scoredRecord("Kepler-452 b", 78.5, 86.3),
		"TRAPPIST-1 e": scoredRecord("TRAPPIST-1 e", 82.0, 90.0),
	}}
	srv := newTestServer(svc)

	rec := doRequest(t, srv, http.MethodGet,
		"/api/compare?planet1=Kepler-452%20b&planet2=TRAPPIST-1%20e", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	first, ok := body["planet1"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Kepler-452 b", first["name"])

	comparison, ok := body["comparison"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "TRAPPIST-1 e", comparison["better_habitability"])
	assert.InDelta(t, 3.5, comparison["score_difference"], 0.001)
	assert.InDelta(t, 3.7, comparison["survival_difference"], 0.001)
}

func TestCompareEndpoint_Errors(t *testing.T) {
	svc := &stubService{records: map[string]domain.PlanetRecord{
		"Kepler-452 b": scoredRecord("Kepler-452 b", 78.5, 86.3),
	}}
	srv := newTestServer(svc)

	tests := []struct {
		name     string
		target   string
		wantCode int
	}{
		{"missing planet2", "/api/compare?planet1=Kepler-452%20b", http.StatusBadRequest},
		{"missing both", "/api/compare", http.StatusBadRequest},
		{"unknown planet", "/api/compare?planet1=Kepler-452%20b&planet2=Nibiru", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodGet, tt.target, "")
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	svc := &stubService{
		records: map[string]domain.PlanetRecord{
			"Kepler-452 b": scoredRecord("Kepler-452 b", 78.5, 86.3),
		},
		analysis: ollama.Result{Analysis: "A promising super-Earth.", Available: true},
	}
	srv := newTestServer(svc)

	rec := doRequest(t, srv, http.MethodPost, "/api/analyze", `{"query": "Kepler-452 b"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Kepler-452 b", body["planet"])
	assert.Equal(t, "A promising super-Earth.", body["analysis"])
	assert.Equal(t, true, body["ollama_available"])
}

func TestHistoryEndpoint(t *testing.T) {
	svc := &stubService{history: []domain.PlanetRecord{
		scoredRecord("Kepler-452 b", 78.5, 86.3),
		scoredRecord("TRAPPIST-1 e", 82.0, 90.0),
	}}
	srv := newTestServer(svc)

	rec := doRequest(t, srv, http.MethodGet, "/api/history?limit=1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
}

func TestHistoryEndpoint_InvalidLimit(t *testing.T) {
	srv := newTestServer(&stubService{})

	for _, limit := range []string{"0", "-3", "abc"} {
		rec := doRequest(t, srv, http.MethodGet, "/api/history?limit="+limit, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := doRequest(t, srv, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, rec.Body.String())
}

func TestReadyEndpoint(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv := newTestServer(&stubService{})
		rec := doRequest(t, srv, http.MethodGet, "/readyz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		srv := newTestServer(&stubService{readyErr: errors.New("database unreachable")})
		rec := doRequest(t, srv, http.MethodGet, "/readyz", "")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "not ready", body["status"])
		assert.Contains(t, body["error"], "database unreachable")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := doRequest(t, srv, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestServiceError_Internal(t *testing.T) {
	srv := newTestServer(&stubService{})
	srv.service = failingService{}

	rec := doRequest(t, srv, http.MethodPost, "/api/search", `{"query": "Kepler-452 b"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type failingService struct{}

func (failingService) Search(context.Context, string, string) (search.Result, error) {
	return search.Result{}, errors.New("boom")
}

func (failingService) Habitability(context.Context, string) (domain.PlanetRecord, error) {
	return domain.PlanetRecord{}, errors.New("boom")
}

func (failingService) Compare(context.Context, []string) ([]domain.PlanetRecord, error) {
	return nil, errors.New("boom")
}

func (failingService) Analyze(context.Context, string) (domain.PlanetRecord, ollama.Result, error) {
	return domain.PlanetRecord{}, ollama.Result{}, errors.New("boom")
}

func (failingService) History(context.Context, int) ([]domain.PlanetRecord, error) {
	return nil, errors.New("boom")
}

func (failingService) CheckReadiness(context.Context) error { return nil }
