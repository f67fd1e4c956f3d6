// Package aggregate assembles a planet record from the upstream catalogs. The
// NASA Exoplanet Archive is the primary source; SIMBAD supplements host-star
// identification. Both are queried concurrently and a failure in either one
// degrades the record instead of failing the search, as long as at least one
// source yields data.
package aggregate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
	"github.com/couchcryptid/exoplanet-habitability/internal/observability"
)

// ErrNotFound is returned when no upstream source has any data for the query.
var ErrNotFound = errors.New("planet not found in any source")

// Search types accepted by Fetch.
const (
	SearchByName = "name"
	SearchByTIC  = "tic"
)

// Source names recorded on assembled records.
const (
	SourceNASA   = "NASA Exoplanet Archive"
	SourceSimbad = "SIMBAD"
)

// ArchiveSource looks up a planet row in the NASA Exoplanet Archive.
type ArchiveSource interface {
	LookupByName(ctx context.Context, name string) (map[string]any, error)
	LookupByTIC(ctx context.Context, ticID string) (map[string]any, error)
}

// IdentSource resolves an astronomical object identifier, SIMBAD style.
type IdentSource interface {
	Lookup(ctx context.Context, ident string) (map[string]any, error)
}

// Coordinator fans a query out to the upstream catalogs and merges the
// responses into one domain.PlanetRecord.
type Coordinator struct {
	archive ArchiveSource
	ident   IdentSource
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Coordinator over the given sources.
func New(archive ArchiveSource, ident IdentSource, logger *slog.Logger, metrics *observability.Metrics) *Coordinator {
	return &Coordinator{
		archive: archive,
		ident:   ident,
		logger:  logger,
		metrics: metrics,
	}
}

// Fetch queries both catalogs concurrently and assembles the merged record.
// searchType is SearchByName or SearchByTIC; anything else falls back to a
// name search. Returns ErrNotFound when neither source knows the object.
func (c *Coordinator) Fetch(ctx context.Context, query, searchType string) (domain.PlanetRecord, error) {
	query = strings.TrimSpace(query)
	ticID := ""
	if searchType == SearchByTIC {
		ticID = normalizeTIC(query)
		query = "TIC " + ticID
	}

	var nasaRow, simbadRow map[string]any

	// Source errors are logged and counted, never propagated: a catalog
	// outage must not fail a search the other catalog can still serve.
	var g errgroup.Group
	g.Go(func() error {
		nasaRow = c.queryArchive(ctx, query, ticID)
		return nil
	})
	g.Go(func() error {
		simbadRow = c.queryIdent(ctx, query)
		return nil
	})
	_ = g.Wait()

	if nasaRow == nil && simbadRow == nil {
		return domain.PlanetRecord{}, ErrNotFound
	}

	name := query
	if v, ok := nasaRow["pl_name"].(string); ok && v != "" {
		name = v
	}

	var sources []string
	if nasaRow != nil {
		sources = append(sources, SourceNASA)
	}
	if simbadRow != nil {
		sources = append(sources, SourceSimbad)
	}

	now := domain.Clock().Now().UTC()
	record := domain.PlanetRecord{
		ID:             domain.NewRecordID(name, query, now),
		Name:           name,
		TICID:          ticID,
		Query:          query,
		SearchType:     searchType,
		NASAData:       nasaRow,
		SimbadData:     simbadRow,
		PhysicalParams: domain.ExtractPhysicalParams(nasaRow),
		OrbitalParams:  domain.ExtractOrbitalParams(nasaRow),
		HostStar:       domain.ExtractHostStar(nasaRow, simbadRow),
		DiscoveryInfo:  domain.ExtractDiscoveryInfo(nasaRow),
		SourcesUsed:    sources,
		Timestamp:      now,
	}

	c.logger.Info("record assembled",
		"planet", record.Name,
		"sources", record.SourcesUsed,
		"search_type", searchType)

	return record, nil
}

func (c *Coordinator) queryArchive(ctx context.Context, query, ticID string) map[string]any {
	start := time.Now()
	var row map[string]any
	var err error
	if ticID != "" {
		row, err = c.archive.LookupByTIC(ctx, ticID)
	} else {
		row, err = c.archive.LookupByName(ctx, query)
	}
	c.metrics.SourceDuration.WithLabelValues("nasa").Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.SourceRequests.WithLabelValues("nasa", "error").Inc()
		c.logger.Warn("archive lookup failed", "query", query, "error", err)
		return nil
	case row == nil:
		c.metrics.SourceRequests.WithLabelValues("nasa", "empty").Inc()
		return nil
	default:
		c.metrics.SourceRequests.WithLabelValues("nasa", "success").Inc()
		return row
	}
}

func (c *Coordinator) queryIdent(ctx context.Context, query string) map[string]any {
	start := time.Now()
	row, err := c.ident.Lookup(ctx, query)
	c.metrics.SourceDuration.WithLabelValues("simbad").Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.SourceRequests.WithLabelValues("simbad", "error").Inc()
		c.logger.Warn("ident lookup failed", "query", query, "error", err)
		return nil
	case row == nil:
		c.metrics.SourceRequests.WithLabelValues("simbad", "empty").Inc()
		return nil
	default:
		c.metrics.SourceRequests.WithLabelValues("simbad", "success").Inc()
		return row
	}
}

// normalizeTIC strips an optional "TIC" prefix so callers can pass either
// "TIC 307210830" or the bare catalog number.
func normalizeTIC(query string) string {
	id := strings.TrimSpace(query)
	upper := strings.ToUpper(id)
	if strings.HasPrefix(upper, "TIC") {
		id = strings.TrimSpace(id[3:])
	}
	return id
}
