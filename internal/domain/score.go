package domain

import (
	"fmt"
	"math"
)

// Maximum score for each factor. The factor maxima sum to 100, so the total
// is bounded without any clamping.
const (
	maxTemperatureScore = 25
	maxGravityScore     = 20
	maxRadiationScore   = 20
	maxOrbitScore       = 15
	maxTypeScore        = 20
)

// Fallback scores applied when a factor's inputs are missing.
const (
	unknownTemperatureScore = 10
	unknownGravityScore     = 10
	unknownRadiationScore   = 10
	unknownOrbitScore       = 8
	unknownTypeScore        = 10
)

// solarEffectiveTemp is the Sun's effective temperature in Kelvin, the
// reference point for the stellar luminosity estimate.
const solarEffectiveTemp = 5778

// scoreBand is one row of an ordered scoring table. Bands are evaluated in
// order and the first match wins, so each table documents its fallback as the
// terminal entry. A band may append a risk or a recommendation when selected.
type scoreBand struct {
	matches        func(v float64) bool
	score          float64
	status         string
	risk           func(v float64) string
	recommendation string
}

// typeBand is the planet-type analogue of scoreBand, keyed on radius and mass
// together.
type typeBand struct {
	matches        func(radius, mass float64) bool
	score          float64
	classification string
	status         string
	risk           string
	recommendation string
}

var temperatureBands = []scoreBand{
	{
		matches: func(t float64) bool { return t >= 273 && t <= 373 },
		score:   25,
		status:  "Optimal",
	},
	{
		matches: func(t float64) bool { return t >= 200 && t <= 400 },
		score:   15,
		status:  "Survivable with protection",
		risk:    func(t float64) string { return fmt.Sprintf("Temperature %gK requires environmental suits", t) },
	},
	{
		matches: func(t float64) bool { return t >= 150 && t <= 500 },
		score:   5,
		status:  "Extreme",
		risk:    func(t float64) string { return fmt.Sprintf("Extreme temperature %gK - high risk", t) },
	},
	{
		matches: func(float64) bool { return true },
		score:   0,
		status:  "Lethal",
		risk:    func(t float64) string { return fmt.Sprintf("Lethal temperature %gK", t) },
	},
}

var gravityBands = []scoreBand{
	{
		matches: func(g float64) bool { return g >= 0.5 && g <= 2.0 },
		score:   20,
		status:  "Comfortable",
	},
	{
		matches:        func(g float64) bool { return g >= 0.3 && g <= 3.0 },
		score:          12,
		status:         "Adaptable",
		recommendation: "Gravity adaptation training required",
	},
	{
		matches: func(g float64) bool { return g > 3.0 },
		score:   3,
		status:  "Crushing",
		risk: func(g float64) string {
			return fmt.Sprintf("High gravity (%.1fx Earth) - extreme physical stress", g)
		},
	},
	{
		matches: func(float64) bool { return true },
		score:   5,
		status:  "Low",
		risk:    func(float64) string { return "Low gravity - long-term health risks" },
	},
}

var radiationBands = []scoreBand{
	{
		matches: func(r float64) bool { return r >= 0.8 && r <= 1.2 },
		score:   20,
		status:  "Safe",
	},
	{
		matches:        func(r float64) bool { return r >= 0.5 && r <= 1.8 },
		score:          12,
		status:         "Moderate",
		recommendation: "Enhanced UV protection needed",
	},
	{
		matches: func(r float64) bool { return r > 2.0 },
		score:   3,
		status:  "Dangerous",
		risk:    func(float64) string { return "High radiation levels - shielding critical" },
	},
	// Terminal band also absorbs the (1.8, 2.0] gap left by the previous
	// entries; the gap is scored as low-flux on purpose.
	{
		matches: func(float64) bool { return true },
		score:   8,
		status:  "Low",
		risk:    func(float64) string { return "Insufficient stellar energy - heating required" },
	},
}

var orbitBands = []scoreBand{
	{
		matches: func(e float64) bool { return e < 0.1 },
		score:   15,
		status:  "Stable",
	},
	{
		matches:        func(e float64) bool { return e < 0.3 },
		score:          10,
		status:         "Moderate variation",
		recommendation: "Seasonal temperature variations expected",
	},
	{
		matches: func(float64) bool { return true },
		score:   3,
		status:  "Highly elliptical",
		risk: func(e float64) string {
			return fmt.Sprintf("High orbital eccentricity (%g) - extreme seasons", e)
		},
	},
}

var planetTypeBands = []typeBand{
	{
		matches:        func(r, m float64) bool { return r >= 0.8 && r <= 1.5 && m >= 0.5 && m <= 2.0 },
		score:          20,
		classification: "Rocky/Terrestrial",
		status:         "Earth-like",
	},
	{
		matches:        func(r, m float64) bool { return r < 2.0 && m < 10 },
		score:          12,
		classification: "Super-Earth",
		status:         "Potentially habitable",
		recommendation: "Super-Earth environment - enhanced structural support needed",
	},
	{
		matches:        func(r, m float64) bool { return r > 3.0 || m > 50 },
		score:          1,
		classification: "Gas Giant",
		status:         "No solid surface",
		risk:           "Gas giant - no solid surface for habitation",
	},
	{
		matches:        func(r, m float64) bool { return true },
		score:          8,
		classification: "Uncertain",
		status:         "Unknown composition",
	},
}

// Score computes the habitability score for one planet. It is deterministic,
// side-effect-free, and total: missing inputs route to defined fallback
// sub-scores, and a failure in one factor never disturbs another.
func Score(physical PhysicalParams, orbital OrbitalParams, star HostStar) HabitabilityScore {
	result := HabitabilityScore{
		Factors:         make(map[string]Factor, 5),
		Recommendations: []string{},
		Risks:           []string{},
	}

	mass := ResolveMass(physical)
	radius := ResolveRadius(physical)

	total := scoreTemperature(physical.EquilibriumTemp, &result)
	total += scoreGravity(mass, radius, &result)
	total += scoreRadiation(star, orbital.SemiMajorAxis, &result)
	total += scoreOrbit(orbital.Eccentricity, &result)
	total += scorePlanetType(radius, mass, &result)

	result.TotalScore = round2(total)
	result.Category, result.SurvivalChance = categorize(total, &result)

	// Atmospheric composition is unconstrained without a bulk density.
	if physical.Density == nil || *physical.Density == 0 {
		result.Risks = append(result.Risks, "Unknown atmospheric composition")
	}

	return result
}

func scoreTemperature(temp *float64, out *HabitabilityScore) float64 {
	if temp == nil {
		out.Factors["temperature"] = Factor{Score: unknownTemperatureScore, Status: "Unknown"}
		return unknownTemperatureScore
	}
	t := *temp
	band := firstMatch(temperatureBands, t)
	applyBand(band, t, out)
	out.Factors["temperature"] = Factor{Score: band.score, Value: &t, Status: band.status}
	return band.score
}

func scoreGravity(mass, radius *float64, out *HabitabilityScore) float64 {
	if mass == nil {
		out.Factors["gravity"] = Factor{Score: unknownGravityScore, Status: "Unknown"}
		return unknownGravityScore
	}

	// Surface gravity relative to Earth: g = m/r². Without a radius the mass
	// itself is the best available proxy.
	ratio := *mass
	if radius != nil && *radius > 0 {
		ratio = *mass / (*radius * *radius)
	}

	band := firstMatch(gravityBands, ratio)
	applyBand(band, ratio, out)
	rounded := round2(ratio)
	out.Factors["gravity"] = Factor{Score: band.score, GravityG: &rounded, Status: band.status}
	return band.score
}

func scoreRadiation(star HostStar, distance *float64, out *HabitabilityScore) float64 {
	if star.Temperature == nil || star.Radius == nil || distance == nil || *distance <= 0 {
		out.Factors["radiation"] = Factor{Score: unknownRadiationScore, Status: "Unknown"}
		return unknownRadiationScore
	}

	// Stefan-Boltzmann estimate relative to the Sun, diluted by the square of
	// the orbital distance in AU.
	tRatio := *star.Temperature / solarEffectiveTemp
	luminosity := tRatio * tRatio * tRatio * tRatio * (*star.Radius * *star.Radius)
	received := luminosity / (*distance * *distance)

	if math.IsNaN(received) || math.IsInf(received, 0) {
		out.Factors["radiation"] = Factor{Score: unknownRadiationScore, Status: "Calculation error"}
		return unknownRadiationScore
	}

	band := firstMatch(radiationBands, received)
	applyBand(band, received, out)
	rounded := round3(received)
	out.Factors["radiation"] = Factor{Score: band.score, RelativeToEarth: &rounded, Status: band.status}
	return band.score
}

func scoreOrbit(eccentricity *float64, out *HabitabilityScore) float64 {
	if eccentricity == nil {
		out.Factors["orbit"] = Factor{Score: unknownOrbitScore, Status: "Unknown"}
		return unknownOrbitScore
	}
	e := *eccentricity
	band := firstMatch(orbitBands, e)
	applyBand(band, e, out)
	out.Factors["orbit"] = Factor{Score: band.score, Eccentricity: &e, Status: band.status}
	return band.score
}

func scorePlanetType(radius, mass *float64, out *HabitabilityScore) float64 {
	// Classification needs both quantities and a physically meaningful mass.
	if radius == nil || mass == nil || *mass <= 0 {
		out.Factors["type"] = Factor{Score: unknownTypeScore, Classification: "Unknown", Status: "Insufficient data"}
		return unknownTypeScore
	}

	for _, band := range planetTypeBands {
		if !band.matches(*radius, *mass) {
			continue
		}
		if band.risk != "" {
			out.Risks = append(out.Risks, band.risk)
		}
		if band.recommendation != "" {
			out.Recommendations = append(out.Recommendations, band.recommendation)
		}
		out.Factors["type"] = Factor{Score: band.score, Classification: band.classification, Status: band.status}
		return band.score
	}

	// Unreachable: the terminal band matches everything.
	out.Factors["type"] = Factor{Score: unknownTypeScore, Classification: "Unknown", Status: "Insufficient data"}
	return unknownTypeScore
}

// categorize maps the total score to its category band and interpolates the
// survival chance linearly within the band. The category message lands on the
// recommendation list for survivable bands and on the risk list for Hostile.
func categorize(total float64, out *HabitabilityScore) (string, float64) {
	var category string
	var survival float64

	switch {
	case total >= 85:
		survival = 95 + (total-85)/15*5
		category = CategoryEarthLike
		out.Recommendations = append(out.Recommendations, "Excellent colonization candidate!")
	case total >= 70:
		survival = 75 + (total-70)/15*20
		category = CategoryPromising
		out.Recommendations = append(out.Recommendations, "Viable with standard equipment")
	case total >= 50:
		survival = 45 + (total-50)/20*30
		category = CategoryModerate
		out.Recommendations = append(out.Recommendations, "Advanced life support required")
	case total >= 30:
		survival = 15 + (total-30)/20*30
		category = CategoryChallenging
		out.Recommendations = append(out.Recommendations, "Extreme survival conditions - expert team only")
	default:
		survival = math.Max(1, total/30*15)
		category = CategoryHostile
		out.Risks = append(out.Risks, "Extremely hostile environment - not recommended for colonization")
	}

	return category, round2(survival)
}

func firstMatch(bands []scoreBand, v float64) scoreBand {
	for _, b := range bands {
		if b.matches(v) {
			return b
		}
	}
	return bands[len(bands)-1]
}

func applyBand(band scoreBand, v float64, out *HabitabilityScore) {
	if band.risk != nil {
		out.Risks = append(out.Risks, band.risk(v))
	}
	if band.recommendation != "" {
		out.Recommendations = append(out.Recommendations, band.recommendation)
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
