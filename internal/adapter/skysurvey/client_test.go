package skysurvey

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
	"github.com/couchcryptid/exoplanet-habitability/internal/observability"
)

func fptr(v float64) *float64 { return &v }

func testLocator(srvURL string) *Locator {
	return &Locator{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    observability.NewMetricsForTesting(),

		eyesBaseURL:     "https://eyes.nasa.gov/apps/exo/",
		hubbleSIAPURL:   srvURL + "/hubble",
		mastSearchURL:   srvURL + "/mast",
		sdssCutoutURL:   srvURL + "/sdss",
		panstarrsURL:    srvURL + "/panstarrs",
		skyviewQueryURL: srvURL + "/skyview",
	}
}

func starWithCoords() domain.HostStar {
	return domain.HostStar{
		Name:        "Kepler-452",
		Coordinates: &domain.Coordinates{RA: fptr(291.0637), Dec: fptr(44.2775)},
	}
}

func TestLocateImages_AllSourcesAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/hubble":
			_, _ = w.Write([]byte(`[{"AccessReference":"https://hla.stsci.edu/img/kepler452.fits"}]`))
		case "/mast":
			_, _ = w.Write([]byte(`{"results":[{"obs_id":"jw01234"}]}`))
		default:
			// Cutout probes are HEAD requests; 200 with no body.
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	images := testLocator(srv.URL).LocateImages(context.Background(), "Kepler-452 b", starWithCoords())

	require.Len(t, images, 6)
	sources := make([]string, 0, len(images))
	for _, img := range images {
		sources = append(sources, img.Source)
		assert.NotEmpty(t, img.URL, img.Source)
	}
	assert.Equal(t, []string{
		"NASA Eyes on Exoplanets",
		"Hubble Space Telescope",
		"James Webb Space Telescope",
		"SDSS",
		"Pan-STARRS",
		"NASA SkyView (2MASS)",
	}, sources)

	assert.Equal(t, "https://eyes.nasa.gov/apps/exo/#/planet/Kepler-452_b", images[0].URL)
	assert.Equal(t, "https://hla.stsci.edu/img/kepler452.fits", images[1].URL)
}

func TestLocateImages_NoCoordinatesSkipsCutouts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/hubble", "/mast":
			_, _ = w.Write([]byte(`[]`))
		default:
			t.Errorf("unexpected probe without coordinates: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	images := testLocator(srv.URL).LocateImages(context.Background(), "Kepler-452 b", domain.HostStar{Name: "Kepler-452"})

	// Only the deep link survives.
	require.Len(t, images, 1)
	assert.Equal(t, "NASA Eyes on Exoplanets", images[0].Source)
}

func TestLocateImages_HubbleNonJSONSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/hubble":
			_, _ = w.Write([]byte(`<?xml version="1.0"?><VOTABLE/>`))
		case "/mast":
			_, _ = w.Write([]byte(`{"results":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	images := testLocator(srv.URL).LocateImages(context.Background(), "HD 209458 b", starWithCoords())

	require.Len(t, images, 1)
	assert.Equal(t, "NASA Eyes on Exoplanets", images[0].Source)
}

func TestLocateImages_SurveyOutageDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sdss":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	images := testLocator(srv.URL).LocateImages(context.Background(), "Kepler-452 b", starWithCoords())

	require.Len(t, images, 2)
	assert.Equal(t, "NASA Eyes on Exoplanets", images[0].Source)
	assert.Equal(t, "SDSS", images[1].Source)
}

func TestLocateImages_StarNameFallsBackToPlanet(t *testing.T) {
	var hubbleTarget string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/hubble" {
			hubbleTarget = r.URL.Query().Get("target")
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	testLocator(srv.URL).LocateImages(context.Background(), "PSR B1257+12 b", domain.HostStar{})

	assert.Equal(t, "PSR B1257+12 b", hubbleTarget)
}
