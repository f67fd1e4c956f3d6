package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Unit conversion factors between Jupiter and Earth units.
const (
	JupiterMassEarth   = 317.8 // 1 M_Jup in Earth masses
	JupiterRadiusEarth = 11.2  // 1 R_Jup in Earth radii
)

// PhysicalParams holds a planet's bulk physical measurements. Every field is
// optional; nil means the archive has no value, which is distinct from zero.
type PhysicalParams struct {
	Mass            *float64 `json:"mass,omitempty"`             // Earth masses
	MassJupiter     *float64 `json:"mass_jupiter,omitempty"`     // Jupiter masses
	Radius          *float64 `json:"radius,omitempty"`           // Earth radii
	RadiusJupiter   *float64 `json:"radius_jupiter,omitempty"`   // Jupiter radii
	Density         *float64 `json:"density,omitempty"`          // g/cm³
	Gravity         *float64 `json:"gravity,omitempty"`          // m/s²
	EquilibriumTemp *float64 `json:"equilibrium_temp,omitempty"` // Kelvin
}

// OrbitalParams holds a planet's orbital elements.
type OrbitalParams struct {
	Period        *float64 `json:"period,omitempty"`          // days
	SemiMajorAxis *float64 `json:"semi_major_axis,omitempty"` // AU
	Eccentricity  *float64 `json:"eccentricity,omitempty"`
	Inclination   *float64 `json:"inclination,omitempty"` // degrees
	Periastron    *float64 `json:"periastron,omitempty"`  // argument of periastron, degrees
}

// Coordinates is a sky position in the ICRS frame.
type Coordinates struct {
	RA  *float64 `json:"ra,omitempty"`  // degrees
	Dec *float64 `json:"dec,omitempty"` // degrees
}

// HostStar describes the planet's host star, merged from the NASA archive
// and SIMBAD. Coordinates and ObjectType come from SIMBAD when the archive
// lacks them.
type HostStar struct {
	Name         string       `json:"name,omitempty"`
	Mass         *float64     `json:"mass,omitempty"`        // solar masses
	Radius       *float64     `json:"radius,omitempty"`      // solar radii
	Temperature  *float64     `json:"temperature,omitempty"` // effective temperature, Kelvin
	Luminosity   *float64     `json:"luminosity,omitempty"`  // log solar luminosity
	Metallicity  *float64     `json:"metallicity,omitempty"` // [Fe/H]
	Age          *float64     `json:"age,omitempty"`         // Gyr
	Distance     *float64     `json:"distance,omitempty"`    // parsecs
	SpectralType string       `json:"spectral_type,omitempty"`
	ObjectType   string       `json:"object_type,omitempty"` // SIMBAD otype
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
}

// DiscoveryInfo records how and when the planet was found.
type DiscoveryInfo struct {
	Method    string   `json:"discovery_method,omitempty"`
	Year      *float64 `json:"discovery_year,omitempty"`
	Facility  string   `json:"discovery_facility,omitempty"`
	Telescope string   `json:"discovery_telescope,omitempty"`
}

// Habitability categories, from worst to best.
const (
	CategoryHostile     = "Hostile"
	CategoryChallenging = "Challenging"
	CategoryModerate    = "Moderate"
	CategoryPromising   = "Promising"
	CategoryEarthLike   = "Earth-like"
)

// Factor is one evaluated sub-score. The value fields vary by factor:
// temperature carries Value (Kelvin), gravity carries GravityG, radiation
// carries RelativeToEarth, orbit carries Eccentricity, and type carries
// Classification.
type Factor struct {
	Score           float64  `json:"score"`
	Value           *float64 `json:"value,omitempty"`
	GravityG        *float64 `json:"gravity_g,omitempty"`
	RelativeToEarth *float64 `json:"relative_to_earth,omitempty"`
	Eccentricity    *float64 `json:"eccentricity,omitempty"`
	Classification  string   `json:"classification,omitempty"`
	Status          string   `json:"status"`
}

// HabitabilityScore is the scoring engine's output. It is immutable once
// computed: TotalScore is always the sum of the five factor scores and both
// percentages are bounded to [0,100] by construction.
type HabitabilityScore struct {
	TotalScore      float64           `json:"total_score"`
	SurvivalChance  float64           `json:"survival_chance"`
	Factors         map[string]Factor `json:"factors"`
	Category        string            `json:"category"`
	Recommendations []string          `json:"recommendations"`
	Risks           []string          `json:"risks"`
}

// ImageRef points at a real observation of the planet's neighborhood from a
// sky-survey archive.
type ImageRef struct {
	Source      string `json:"source"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// PlanetRecord is the merged, scored snapshot persisted for each search.
// Params are extracted once from the raw archive payloads and never mutated
// afterwards.
type PlanetRecord struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	TICID          string             `json:"tic_id,omitempty"`
	Query          string             `json:"query"`
	SearchType     string             `json:"search_type"`
	NASAData       map[string]any     `json:"nasa_data,omitempty"`
	SimbadData     map[string]any     `json:"simbad_data,omitempty"`
	PhysicalParams PhysicalParams     `json:"physical_params"`
	OrbitalParams  OrbitalParams      `json:"orbital_params"`
	HostStar       HostStar           `json:"host_star"`
	DiscoveryInfo  DiscoveryInfo      `json:"discovery_info"`
	Habitability   *HabitabilityScore `json:"habitability_score,omitempty"`
	SourcesUsed    []string           `json:"sources_used"`
	Timestamp      time.Time          `json:"timestamp"`
}

// NewRecordID produces a deterministic ID from a record's key fields.
// Reprocessing the same query at the same instant produces the same ID, so
// downstream inserts stay idempotent.
func NewRecordID(name, query string, ts time.Time) string {
	input := fmt.Sprintf("%s|%s|%d", name, query, ts.UnixNano())
	hash := sha256.Sum256([]byte(input))
	return "exo-" + hex.EncodeToString(hash[:8])
}
