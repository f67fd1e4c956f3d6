package viz

import (
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func decodeDataURI(t *testing.T, uri, prefix string) []byte {
	t.Helper()
	require.True(t, strings.HasPrefix(uri, prefix), "uri prefix, got %q", uri[:min(len(uri), 40)])
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)
	return data
}

func TestStarImage_ValidPNG(t *testing.T) {
	star := domain.HostStar{Name: "Kepler-452", Temperature: fptr(5757), Radius: fptr(1.11)}

	uri := StarImage(star)
	data := decodeDataURI(t, uri, "data:image/png;base64,")

	img, err := png.Decode(strings.NewReader(string(data)))
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, 600, bounds.Dx())
	assert.Equal(t, 600, bounds.Dy())
}

func TestStarImage_Deterministic(t *testing.T) {
	star := domain.HostStar{Name: "TRAPPIST-1", Temperature: fptr(2566), Radius: fptr(0.12)}

	assert.Equal(t, StarImage(star), StarImage(star))
}

func TestStarImage_MissingFieldsDefaultToSun(t *testing.T) {
	uri := StarImage(domain.HostStar{})
	data := decodeDataURI(t, uri, "data:image/png;base64,")
	assert.NotEmpty(t, data)
}

func TestBlackbody_Bands(t *testing.T) {
	tests := []struct {
		temp  float64
		wantR uint8
	}{
		{40000, 155}, // O class, blue
		{5778, 255},  // G class, warm white
		{3000, 255},  // M class, red-orange
	}
	for _, tt := range tests {
		c := blackbody(tt.temp)
		assert.Equal(t, tt.wantR, c.R, "temp %g", tt.temp)
	}
	// Cooler stars shift redder: blue channel drops monotonically.
	assert.Greater(t, blackbody(40000).B, blackbody(5778).B)
	assert.Greater(t, blackbody(5778).B, blackbody(3000).B)
}

func TestOrbitalDiagram_ContainsOrbitElements(t *testing.T) {
	orbital := domain.OrbitalParams{
		SemiMajorAxis: fptr(1.046),
		Eccentricity:  fptr(0.02),
		Period:        fptr(384.84),
	}

	uri := OrbitalDiagram(orbital, "Kepler-452 b")
	svg := string(decodeDataURI(t, uri, "data:image/svg+xml;base64,"))

	assert.Contains(t, svg, "Kepler-452 b")
	assert.Contains(t, svg, "e=0.020")
	assert.Contains(t, svg, "P=384.84 d")
	assert.Contains(t, svg, "Perihelion")
	assert.Contains(t, svg, "Aphelion")
	assert.Contains(t, svg, "polyline")
}

func TestOrbitalDiagram_DefaultsForMissingElements(t *testing.T) {
	uri := OrbitalDiagram(domain.OrbitalParams{}, "Mystery b")
	svg := string(decodeDataURI(t, uri, "data:image/svg+xml;base64,"))

	// Circular one-AU orbit: perihelion and aphelion coincide.
	assert.Contains(t, svg, "e=0.000")
	assert.Contains(t, svg, "Perihelion 1.000 AU")
	assert.Contains(t, svg, "Aphelion 1.000 AU")
}

func TestMassRadiusChart_PlacesTargetAndReferences(t *testing.T) {
	physical := domain.PhysicalParams{Mass: fptr(5), Radius: fptr(1.63)}

	uri := MassRadiusChart(physical, "Kepler-452 b")
	svg := string(decodeDataURI(t, uri, "data:image/svg+xml;base64,"))

	for _, name := range []string{"Mercury", "Earth", "Jupiter", "Neptune"} {
		assert.Contains(t, svg, name)
	}
	assert.Contains(t, svg, "Kepler-452 b")
	// density = 5 / 1.63^3
	assert.Contains(t, svg, "1.15x Earth density")
}

func TestMassRadiusChart_NoDataNoChart(t *testing.T) {
	assert.Empty(t, MassRadiusChart(domain.PhysicalParams{}, "Mystery b"))
}

func TestMassRadiusChart_JupiterUnitsResolved(t *testing.T) {
	physical := domain.PhysicalParams{MassJupiter: fptr(1), RadiusJupiter: fptr(1)}

	uri := MassRadiusChart(physical, "HD 209458 b")
	assert.NotEmpty(t, uri)
}

func TestDashboard_SummarizesScore(t *testing.T) {
	score := domain.HabitabilityScore{
		TotalScore:     78.5,
		SurvivalChance: 86.33,
		Category:       domain.CategoryPromising,
		Factors: map[string]domain.Factor{
			"temperature": {Score: 25, Status: "Optimal"},
			"gravity":     {Score: 20, Status: "Comfortable"},
			"radiation":   {Score: 12, Status: "Moderate"},
			"orbit":       {Score: 15, Status: "Stable"},
			"type":        {Score: 12, Status: "Potentially habitable"},
		},
		Recommendations: []string{"Viable with standard equipment"},
		Risks:           []string{},
	}

	uri := Dashboard(score, "Kepler-452 b", domain.HostStar{Name: "Kepler-452", Temperature: fptr(5757)})
	svg := string(decodeDataURI(t, uri, "data:image/svg+xml;base64,"))

	assert.Contains(t, svg, "Habitability Analysis: Kepler-452 b")
	assert.Contains(t, svg, "78.5/100")
	assert.Contains(t, svg, "86.3%")
	assert.Contains(t, svg, "Promising")
	assert.Contains(t, svg, "Temperature")
	assert.Contains(t, svg, "Viable with standard equipment")
}

func TestDashboard_EscapesMarkup(t *testing.T) {
	score := domain.HabitabilityScore{
		Category: domain.CategoryHostile,
		Factors:  map[string]domain.Factor{},
		Risks:    []string{`Temperature <1000K> & rising`},
	}

	uri := Dashboard(score, `Planet "X" <b>`, domain.HostStar{})
	svg := string(decodeDataURI(t, uri, "data:image/svg+xml;base64,"))

	assert.Contains(t, svg, "Planet &quot;X&quot; &lt;b&gt;")
	assert.Contains(t, svg, "&lt;1000K&gt; &amp; rising")
	assert.NotContains(t, svg, "<b>")
}
