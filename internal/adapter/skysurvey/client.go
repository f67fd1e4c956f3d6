// Package skysurvey locates real observations of a planet's host-star field
// across public sky surveys and space telescope archives.
package skysurvey

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
	"github.com/couchcryptid/exoplanet-habitability/internal/observability"
)

// Public endpoints, overridable in tests.
const (
	defaultEyesBaseURL     = "https://eyes.nasa.gov/apps/exo/"
	defaultHubbleSIAPURL   = "https://hla.stsci.edu/cgi-bin/hlaSIAP.cgi"
	defaultMASTSearchURL   = "https://mast.stsci.edu/api/v0.1/search"
	defaultSDSSCutoutURL   = "https://skyserver.sdss.org/dr16/SkyServerWS/ImgCutout/getjpeg"
	defaultPanSTARRSURL    = "https://ps1images.stsci.edu/cgi-bin/ps1cutouts"
	defaultSkyViewQueryURL = "https://skyview.gsfc.nasa.gov/current/cgi/query.pl"
)

// Locator implements domain.ImageLocator by probing each survey concurrently.
// Probes are best-effort: an unreachable survey is logged and skipped, and the
// remaining sources still contribute.
type Locator struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics

	eyesBaseURL     string
	hubbleSIAPURL   string
	mastSearchURL   string
	sdssCutoutURL   string
	panstarrsURL    string
	skyviewQueryURL string
}

// NewLocator creates a survey locator with the given probe timeout.
func NewLocator(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Locator {
	return &Locator{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,

		eyesBaseURL:     defaultEyesBaseURL,
		hubbleSIAPURL:   defaultHubbleSIAPURL,
		mastSearchURL:   defaultMASTSearchURL,
		sdssCutoutURL:   defaultSDSSCutoutURL,
		panstarrsURL:    defaultPanSTARRSURL,
		skyviewQueryURL: defaultSkyViewQueryURL,
	}
}

// LocateImages probes every survey concurrently and returns the available
// observations in a fixed source order: NASA Eyes, Hubble, JWST, SDSS,
// Pan-STARRS, SkyView.
func (l *Locator) LocateImages(ctx context.Context, planetName string, star domain.HostStar) []domain.ImageRef {
	starName := star.Name
	if starName == "" {
		starName = planetName
	}

	// Slots keep the output order stable regardless of probe completion order.
	slots := make([]*domain.ImageRef, 6)

	var g errgroup.Group
	g.Go(func() error {
		slots[0] = l.eyesLink(planetName)
		return nil
	})
	g.Go(func() error {
		slots[1] = l.probeHubble(ctx, starName)
		return nil
	})
	g.Go(func() error {
		slots[2] = l.probeJWST(ctx, planetName)
		return nil
	})
	g.Go(func() error {
		slots[3] = l.probeSDSS(ctx, star.Coordinates)
		return nil
	})
	g.Go(func() error {
		slots[4] = l.probePanSTARRS(ctx, star.Coordinates)
		return nil
	})
	g.Go(func() error {
		slots[5] = l.probeSkyView(ctx, star.Coordinates)
		return nil
	})
	_ = g.Wait()

	images := make([]domain.ImageRef, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			images = append(images, *s)
		}
	}
	return images
}

// eyesLink builds a deep link into NASA Eyes on Exoplanets. No probe: the app
// resolves unknown planets itself.
func (l *Locator) eyesLink(planetName string) *domain.ImageRef {
	l.metrics.ImageLookups.WithLabelValues("eyes", "found").Inc()
	return &domain.ImageRef{
		Source:      "NASA Eyes on Exoplanets",
		URL:         l.eyesBaseURL + "#/planet/" + strings.ReplaceAll(planetName, " ", "_"),
		Description: "Interactive 3D visualization",
	}
}

func (l *Locator) probeHubble(ctx context.Context, starName string) *domain.ImageRef {
	params := url.Values{
		"target":    {starName},
		"format":    {"json"},
		"imagetype": {"best"},
	}
	body, err := l.get(ctx, l.hubbleSIAPURL+"?"+params.Encode())
	if err != nil {
		l.miss("hubble", "error", err)
		return nil
	}

	// The SIAP service answers some targets with VOTable XML despite the
	// format parameter; only a JSON array is usable.
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		l.metrics.ImageLookups.WithLabelValues("hubble", "missing").Inc()
		return nil
	}

	var results []struct {
		AccessReference string `json:"AccessReference"`
	}
	if err := json.Unmarshal(trimmed, &results); err != nil || len(results) == 0 || results[0].AccessReference == "" {
		l.metrics.ImageLookups.WithLabelValues("hubble", "missing").Inc()
		return nil
	}

	l.metrics.ImageLookups.WithLabelValues("hubble", "found").Inc()
	return &domain.ImageRef{
		Source:      "Hubble Space Telescope",
		URL:         results[0].AccessReference,
		Description: "Host star observation",
	}
}

func (l *Locator) probeJWST(ctx context.Context, planetName string) *domain.ImageRef {
	params := url.Values{
		"q":       {planetName},
		"t":       {"observations"},
		"mission": {"JWST"},
	}
	body, err := l.get(ctx, l.mastSearchURL+"?"+params.Encode())
	if err != nil {
		l.miss("jwst", "error", err)
		return nil
	}

	var resp struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Results) == 0 {
		l.metrics.ImageLookups.WithLabelValues("jwst", "missing").Inc()
		return nil
	}

	l.metrics.ImageLookups.WithLabelValues("jwst", "found").Inc()
	return &domain.ImageRef{
		Source:      "James Webb Space Telescope",
		URL:         l.mastSearchURL + "?" + params.Encode(),
		Description: "Recent observation",
	}
}

func (l *Locator) probeSDSS(ctx context.Context, coords *domain.Coordinates) *domain.ImageRef {
	if coords == nil || coords.RA == nil || coords.Dec == nil {
		l.metrics.ImageLookups.WithLabelValues("sdss", "missing").Inc()
		return nil
	}

	cutout := fmt.Sprintf("%s?ra=%g&dec=%g&scale=0.4&width=512&height=512",
		l.sdssCutoutURL, *coords.RA, *coords.Dec)
	if !l.head(ctx, cutout) {
		l.metrics.ImageLookups.WithLabelValues("sdss", "missing").Inc()
		return nil
	}

	l.metrics.ImageLookups.WithLabelValues("sdss", "found").Inc()
	return &domain.ImageRef{
		Source:      "SDSS",
		URL:         cutout,
		Description: "Wide-field observation",
	}
}

func (l *Locator) probePanSTARRS(ctx context.Context, coords *domain.Coordinates) *domain.ImageRef {
	if coords == nil || coords.RA == nil || coords.Dec == nil {
		l.metrics.ImageLookups.WithLabelValues("panstarrs", "missing").Inc()
		return nil
	}

	cutout := fmt.Sprintf("%s?pos=%g+%g&filter=color&size=240", l.panstarrsURL, *coords.RA, *coords.Dec)
	if !l.head(ctx, cutout) {
		l.metrics.ImageLookups.WithLabelValues("panstarrs", "missing").Inc()
		return nil
	}

	l.metrics.ImageLookups.WithLabelValues("panstarrs", "found").Inc()
	return &domain.ImageRef{
		Source:      "Pan-STARRS",
		URL:         cutout,
		Description: "Deep sky survey",
	}
}

func (l *Locator) probeSkyView(ctx context.Context, coords *domain.Coordinates) *domain.ImageRef {
	if coords == nil || coords.RA == nil || coords.Dec == nil {
		l.metrics.ImageLookups.WithLabelValues("skyview", "missing").Inc()
		return nil
	}

	query := fmt.Sprintf("%s?survey=2MASS-J&coordinates=%g+%g&pixels=512&size=0.5",
		l.skyviewQueryURL, *coords.RA, *coords.Dec)
	if !l.head(ctx, query) {
		l.metrics.ImageLookups.WithLabelValues("skyview", "missing").Inc()
		return nil
	}

	l.metrics.ImageLookups.WithLabelValues("skyview", "found").Inc()
	return &domain.ImageRef{
		Source:      "NASA SkyView (2MASS)",
		URL:         query,
		Description: "Infrared image of host star field",
	}
}

func (l *Locator) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// head reports whether the URL answers 200 to a HEAD probe.
func (l *Locator) head(ctx context.Context, fullURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, fullURL, nil)
	if err != nil {
		return false
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (l *Locator) miss(source, result string, err error) {
	l.metrics.ImageLookups.WithLabelValues(source, result).Inc()
	l.logger.Debug("survey probe failed", "source", source, "error", err)
}
