// Package search is the service layer: it assembles planet records, scores
// them, attaches imagery and visualizations, and drives the optional history
// store and publisher. Handlers talk to this package only.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/exoplanet-habitability/internal/adapter/ollama"
	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
	"github.com/couchcryptid/exoplanet-habitability/internal/observability"
	"github.com/couchcryptid/exoplanet-habitability/internal/viz"
)

// ErrEmptyQuery rejects searches with nothing to look up.
var ErrEmptyQuery = errors.New("query must not be empty")

// Fetcher assembles a raw planet record from the upstream catalogs.
type Fetcher interface {
	Fetch(ctx context.Context, query, searchType string) (domain.PlanetRecord, error)
}

// HistoryStore persists and recalls past searches.
type HistoryStore interface {
	SaveSearch(ctx context.Context, record domain.PlanetRecord) error
	RecentSearches(ctx context.Context, limit int) ([]domain.PlanetRecord, error)
	Ping(ctx context.Context) error
}

// Publisher emits scored records for downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, record domain.PlanetRecord) error
}

// Analyzer produces a narrative assessment of a scored record.
type Analyzer interface {
	Analyze(ctx context.Context, record domain.PlanetRecord) ollama.Result
}

// Visualizations holds the rendered data URIs for one record.
type Visualizations struct {
	SyntheticStar   string `json:"synthetic_star,omitempty"`
	OrbitalDiagram  string `json:"orbital_diagram,omitempty"`
	MassRadiusChart string `json:"mass_radius_chart,omitempty"`
	Dashboard       string `json:"habitability_dashboard,omitempty"`
}

// Result is a scored record plus its presentation artifacts.
type Result struct {
	domain.PlanetRecord
	Images         []domain.ImageRef `json:"real_images,omitempty"`
	Visualizations *Visualizations   `json:"visualizations,omitempty"`
}

// Renderer produces the visualization set. Separated behind a function type
// so tests can swap the actual rendering out.
type Renderer func(record domain.PlanetRecord) Visualizations

// Service is the orchestration layer behind the HTTP API.
type Service struct {
	fetcher  Fetcher
	locator  domain.ImageLocator // nil when imagery is disabled
	store    HistoryStore        // nil when persistence is disabled
	pub      Publisher           // nil when publishing is disabled
	analyzer Analyzer
	render   Renderer
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates the service. locator, store, and pub may be nil; the matching
// feature is then skipped.
func New(fetcher Fetcher, locator domain.ImageLocator, store HistoryStore, pub Publisher, analyzer Analyzer, render Renderer, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		fetcher:  fetcher,
		locator:  locator,
		store:    store,
		pub:      pub,
		analyzer: analyzer,
		render:   render,
		logger:   logger,
		metrics:  metrics,
	}
}

// Search runs the full pipeline for one query: assemble, score, decorate,
// persist, publish. Persistence and publishing are best-effort; their
// failures are logged, never surfaced.
func (s *Service) Search(ctx context.Context, query, searchType string) (Result, error) {
	if query == "" {
		return Result{}, ErrEmptyQuery
	}

	start := time.Now()
	record, err := s.score(ctx, query, searchType)
	if err != nil {
		return Result{}, err
	}

	result := Result{PlanetRecord: record}
	if s.locator != nil {
		result.Images = s.locator.LocateImages(ctx, record.Name, record.HostStar)
	}
	if s.render != nil {
		viz := s.render(record)
		result.Visualizations = &viz
	}

	if s.store != nil {
		if err := s.store.SaveSearch(ctx, record); err != nil {
			s.logger.Warn("save search failed", "planet", record.Name, "error", err)
		} else {
			s.metrics.RecordsStored.Inc()
		}
	}
	if s.pub != nil {
		if err := s.pub.Publish(ctx, record); err != nil {
			s.logger.Warn("publish record failed", "planet", record.Name, "error", err)
		} else {
			s.metrics.RecordsPublished.Inc()
		}
	}

	s.metrics.SearchesTotal.Inc()
	s.metrics.SearchDuration.Observe(time.Since(start).Seconds())
	return result, nil
}

// Habitability assembles and scores a planet without imagery or rendering,
// for callers that only need the assessment.
func (s *Service) Habitability(ctx context.Context, planetName string) (domain.PlanetRecord, error) {
	if planetName == "" {
		return domain.PlanetRecord{}, ErrEmptyQuery
	}
	return s.score(ctx, planetName, "name")
}

// Compare scores several planets concurrently. Every planet must resolve;
// one miss fails the comparison so rankings never silently drop a column.
func (s *Service) Compare(ctx context.Context, names []string) ([]domain.PlanetRecord, error) {
	if len(names) == 0 {
		return nil, ErrEmptyQuery
	}

	records := make([]domain.PlanetRecord, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			record, err := s.score(gctx, name, "name")
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			records[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// Analyze runs the scoring pipeline and asks the language model for a
// narrative assessment.
func (s *Service) Analyze(ctx context.Context, query string) (domain.PlanetRecord, ollama.Result, error) {
	if query == "" {
		return domain.PlanetRecord{}, ollama.Result{}, ErrEmptyQuery
	}

	record, err := s.score(ctx, query, "name")
	if err != nil {
		return domain.PlanetRecord{}, ollama.Result{}, err
	}

	analysis := s.analyzer.Analyze(ctx, record)
	switch {
	case analysis.Available:
		s.metrics.AnalysisRequests.WithLabelValues("success").Inc()
	case analysis.Error != "":
		s.metrics.AnalysisRequests.WithLabelValues("unavailable").Inc()
	default:
		s.metrics.AnalysisRequests.WithLabelValues("error").Inc()
	}
	return record, analysis, nil
}

// History returns recent searches, newest first. Without a store it returns
// an empty list.
func (s *Service) History(ctx context.Context, limit int) ([]domain.PlanetRecord, error) {
	if s.store == nil {
		return []domain.PlanetRecord{}, nil
	}
	return s.store.RecentSearches(ctx, limit)
}

// CheckReadiness reports whether the service can take traffic. The upstream
// catalogs are probed lazily per request, so only the optional store gates
// readiness.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("history store not reachable: %w", err)
	}
	return nil
}

func (s *Service) score(ctx context.Context, query, searchType string) (domain.PlanetRecord, error) {
	record, err := s.fetcher.Fetch(ctx, query, searchType)
	if err != nil {
		return domain.PlanetRecord{}, err
	}

	score := domain.Score(record.PhysicalParams, record.OrbitalParams, record.HostStar)
	record.Habitability = &score
	s.metrics.ScoresComputed.WithLabelValues(score.Category).Inc()

	s.logger.Info("planet scored",
		"planet", record.Name,
		"total_score", score.TotalScore,
		"category", score.Category)
	return record, nil
}

// DefaultRenderer renders the full visualization set.
func DefaultRenderer(record domain.PlanetRecord) Visualizations {
	v := Visualizations{
		SyntheticStar:   viz.StarImage(record.HostStar),
		OrbitalDiagram:  viz.OrbitalDiagram(record.OrbitalParams, record.Name),
		MassRadiusChart: viz.MassRadiusChart(record.PhysicalParams, record.Name),
	}
	if record.Habitability != nil {
		v.Dashboard = viz.Dashboard(*record.Habitability, record.Name, record.HostStar)
	}
	return v
}
