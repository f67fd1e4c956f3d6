package viz

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"

	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
)

const (
	chartBackground = "#0a0e27"
	chartAccent     = "#00ffff"
	panelFill       = "#1a1e3a"
)

// referencePlanet anchors the mass-radius chart to the Solar System.
type referencePlanet struct {
	name   string
	mass   float64 // Earth masses
	radius float64 // Earth radii
	color  string
}

var solarSystem = []referencePlanet{
	{"Mercury", 0.055, 0.383, "#8C7853"},
	{"Venus", 0.815, 0.949, "#FFC649"},
	{"Earth", 1.0, 1.0, "#4169E1"},
	{"Mars", 0.107, 0.532, "#CD5C5C"},
	{"Jupiter", 317.8, 11.2, "#DAA520"},
	{"Saturn", 95.2, 9.4, "#F4A460"},
	{"Uranus", 14.5, 4.0, "#4FD0E0"},
	{"Neptune", 17.1, 3.9, "#4169E1"},
}

// scoreColor maps a total score to the dashboard traffic-light palette.
func scoreColor(score float64) string {
	switch {
	case score >= 70:
		return "#00ff00"
	case score >= 50:
		return "#ffff00"
	case score >= 30:
		return "#ff8800"
	default:
		return "#ff0000"
	}
}

// OrbitalDiagram renders the planet's orbit around its star as an SVG data
// URI: the orbital ellipse with the star at a focus, the conservative
// habitable zone, distance rings, and perihelion and aphelion markers.
// Missing elements default to a circular one-AU orbit.
func OrbitalDiagram(orbital domain.OrbitalParams, planetName string) string {
	semiMajor := 1.0
	if orbital.SemiMajorAxis != nil && *orbital.SemiMajorAxis > 0 {
		semiMajor = *orbital.SemiMajorAxis
	}
	ecc := 0.0
	if orbital.Eccentricity != nil && *orbital.Eccentricity >= 0 && *orbital.Eccentricity < 1 {
		ecc = *orbital.Eccentricity
	}

	perihelion := semiMajor * (1 - ecc)
	aphelion := semiMajor * (1 + ecc)

	const (
		size        = 700
		hzInner     = 0.95
		hzOuter     = 1.37
	)
	maxDist := math.Max(aphelion, hzOuter) * 1.3
	scale := float64(size) / 2 / maxDist
	center := float64(size) / 2

	// Project an AU-space point into pixel space.
	px := func(x, y float64) (float64, float64) {
		return center + x*scale, center - y*scale
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, size, size, size, size)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`, size, size, chartBackground)

	// Habitable zone annulus.
	hx, hy := px(0, 0)
	fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="green" fill-opacity="0.2"/>`, hx, hy, hzOuter*scale)
	fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`, hx, hy, hzInner*scale, chartBackground)

	// Distance rings.
	for _, dist := range []float64{0.5, 1.0, 1.5, 2.0} {
		if dist > maxDist {
			break
		}
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="white" stroke-opacity="0.2" stroke-dasharray="4 4"/>`,
			hx, hy, dist*scale)
		rx, ry := px(dist, 0)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="white" font-size="10">%g AU</text>`, rx+3, ry-3, dist)
	}

	// Orbit polyline from the polar conic, star at the focus.
	b.WriteString(`<polyline fill="none" stroke="` + chartAccent + `" stroke-width="2" points="`)
	for i := 0; i <= 200; i++ {
		theta := 2 * math.Pi * float64(i) / 200
		r := semiMajor * (1 - ecc*ecc) / (1 + ecc*math.Cos(theta))
		ox, oy := px(r*math.Cos(theta), r*math.Sin(theta))
		fmt.Fprintf(&b, "%.1f,%.1f ", ox, oy)
	}
	b.WriteString(`"/>`)

	// Star and planet.
	fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="12" fill="#ffff00" stroke="white" stroke-width="2"/>`, hx, hy)
	plx, ply := px(perihelion, 0)
	fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="7" fill="#00aaff" stroke="white" stroke-width="2"/>`, plx, ply)

	// Perihelion and aphelion markers.
	apx, apy := px(-aphelion, 0)
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="red" font-size="10" text-anchor="middle">Perihelion %.3f AU</text>`, plx, ply+20, perihelion)
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="#6699ff" font-size="10" text-anchor="middle">Aphelion %.3f AU</text>`, apx, apy+20, aphelion)

	title := fmt.Sprintf("Orbital Diagram: %s (e=%.3f)", planetName, ecc)
	if orbital.Period != nil {
		title = fmt.Sprintf("Orbital Diagram: %s (P=%g d, e=%.3f)", planetName, *orbital.Period, ecc)
	}
	fmt.Fprintf(&b, `<text x="%.1f" y="24" fill="white" font-size="16" text-anchor="middle">%s</text>`, center, escapeXML(title))
	b.WriteString(`</svg>`)

	return svgDataURI(b.String())
}

// MassRadiusChart renders the planet against the Solar System on log-log
// axes as an SVG data URI. Returns an empty string when the planet has
// neither mass nor radius, since there is nothing to place.
func MassRadiusChart(physical domain.PhysicalParams, planetName string) string {
	mass := domain.ResolveMass(physical)
	radius := domain.ResolveRadius(physical)
	if mass == nil && radius == nil {
		return ""
	}

	const (
		width  = 700
		height = 560
		left   = 70.0
		top    = 50.0
		right  = 660.0
		bottom = 500.0
	)

	// Log-log axes covering Mercury through super-Jupiters.
	minMass, maxMass := 0.01, 1000.0
	minRadius, maxRadius := 0.1, 20.0

	x := func(m float64) float64 {
		return left + (math.Log10(m)-math.Log10(minMass))/(math.Log10(maxMass)-math.Log10(minMass))*(right-left)
	}
	y := func(r float64) float64 {
		return bottom - (math.Log10(r)-math.Log10(minRadius))/(math.Log10(maxRadius)-math.Log10(minRadius))*(bottom-top)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, width, height, width, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`, width, height, chartBackground)

	// Composition bands by radius.
	bands := []struct {
		lo, hi float64
		fill   string
		label  string
	}{
		{0.3, 2.0, "#8b5a2b", "Rocky/Terrestrial"},
		{2.0, 6.0, "#2b4a8b", "Ice Giant"},
		{6.0, 20.0, "#b8742b", "Gas Giant"},
	}
	for _, band := range bands {
		yTop := y(band.hi)
		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.12"/>`,
			left, yTop, right-left, y(band.lo)-yTop, band.fill)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="white" fill-opacity="0.5" font-size="10">%s</text>`, left+6, yTop+14, band.label)
	}

	// Axes.
	fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="white"/>`, left, bottom, right, bottom)
	fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="white"/>`, left, top, left, bottom)
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="white" font-size="12" text-anchor="middle">Mass (Earth masses, log)</text>`, (left+right)/2, bottom+36)
	fmt.Fprintf(&b, `<text x="18" y="%.1f" fill="white" font-size="12" transform="rotate(-90 18 %.1f)">Radius (Earth radii, log)</text>`, (top+bottom)/2, (top+bottom)/2)

	for _, p := range solarSystem {
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="6" fill="%s" fill-opacity="0.7" stroke="white"/>`, x(p.mass), y(p.radius), p.color)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="white" font-size="9">%s</text>`, x(p.mass)+8, y(p.radius)-4, p.name)
	}

	// Target planet: fall back to Earth values on the missing axis so the
	// marker still lands near its known quantity.
	tm, tr := 1.0, 1.0
	if mass != nil {
		tm = clamp(*mass, minMass, maxMass)
	}
	if radius != nil {
		tr = clamp(*radius, minRadius, maxRadius)
	}
	tx, ty := x(tm), y(tr)
	fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="white" stroke-dasharray="5 5" stroke-opacity="0.5"/>`, x(1), y(1), tx, ty)
	fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="10" fill="%s" stroke="white" stroke-width="2"/>`, tx, ty, chartAccent)

	label := escapeXML(planetName)
	if mass != nil && radius != nil && *radius > 0 {
		density := *mass / math.Pow(*radius, 3)
		label = fmt.Sprintf("%s (%.2fx Earth density)", escapeXML(planetName), density)
	}
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="%s" font-size="11" text-anchor="middle">%s</text>`, tx, ty-16, chartAccent, label)

	fmt.Fprintf(&b, `<text x="%.1f" y="28" fill="white" font-size="16" text-anchor="middle">Mass vs Radius: Planet Classification</text>`, float64(width)/2)
	b.WriteString(`</svg>`)

	return svgDataURI(b.String())
}

// Dashboard renders the habitability summary as an SVG data URI: a score
// gauge, a survival donut, the factor breakdown bars, and the top risks and
// recommendations.
func Dashboard(score domain.HabitabilityScore, planetName string, star domain.HostStar) string {
	const (
		width  = 900
		height = 640
	)
	tone := scoreColor(score.TotalScore)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, width, height, width, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`, width, height, chartBackground)
	fmt.Fprintf(&b, `<text x="450" y="34" fill="white" font-size="20" text-anchor="middle">Habitability Analysis: %s</text>`, escapeXML(planetName))
	fmt.Fprintf(&b, `<text x="450" y="56" fill="white" fill-opacity="0.6" font-size="12" text-anchor="middle">%s</text>`, escapeXML(starLabel(star)))

	// Score gauge: a half arc at the top left.
	gaugeCX, gaugeCY, gaugeR := 230.0, 230.0, 120.0
	b.WriteString(gaugeArc(gaugeCX, gaugeCY, gaugeR, 100, "gray", 0.3))
	b.WriteString(gaugeArc(gaugeCX, gaugeCY, gaugeR, score.TotalScore, tone, 1))
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="white" font-size="30" text-anchor="middle">%.1f/100</text>`, gaugeCX, gaugeCY+10, score.TotalScore)
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="%s" font-size="15" text-anchor="middle">%s</text>`, gaugeCX, gaugeCY+36, tone, escapeXML(score.Category))

	// Survival donut at the top right.
	donutCX, donutCY, donutR := 670.0, 200.0, 95.0
	fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="gray" stroke-opacity="0.3" stroke-width="26"/>`, donutCX, donutCY, donutR)
	circumference := 2 * math.Pi * donutR
	fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="26" stroke-dasharray="%.1f %.1f" transform="rotate(-90 %.1f %.1f)"/>`,
		donutCX, donutCY, donutR, tone, circumference*score.SurvivalChance/100, circumference, donutCX, donutCY)
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="white" font-size="28" text-anchor="middle">%.1f%%</text>`, donutCX, donutCY+8, score.SurvivalChance)
	fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="white" font-size="11" text-anchor="middle">Survival Rate</text>`, donutCX, donutCY+30)

	// Factor breakdown bars, fixed order.
	maxScores := []struct {
		key string
		max float64
	}{
		{"temperature", 25},
		{"gravity", 20},
		{"radiation", 20},
		{"orbit", 15},
		{"type", 20},
	}
	barTop := 400.0
	for i, f := range maxScores {
		factor, ok := score.Factors[f.key]
		if !ok {
			continue
		}
		yPos := barTop + float64(i)*34
		frac := factor.Score / f.max
		fmt.Fprintf(&b, `<text x="60" y="%.1f" fill="white" font-size="12">%s</text>`, yPos+12, capitalize(f.key))
		fmt.Fprintf(&b, `<rect x="160" y="%.1f" width="240" height="16" fill="gray" fill-opacity="0.3"/>`, yPos)
		fmt.Fprintf(&b, `<rect x="160" y="%.1f" width="%.1f" height="16" fill="%s" fill-opacity="0.85"/>`, yPos, 240*frac, scoreColor(frac*100))
		fmt.Fprintf(&b, `<text x="408" y="%.1f" fill="white" font-size="11">%g/%g</text>`, yPos+12, factor.Score, f.max)
	}

	// Mission planning panel: top risks and recommendations.
	fmt.Fprintf(&b, `<rect x="470" y="390" width="390" height="220" rx="8" fill="%s" stroke="%s"/>`, panelFill, chartAccent)
	fmt.Fprintf(&b, `<text x="486" y="414" fill="white" font-size="13">KEY RISKS</text>`)
	lineY := 434.0
	for i, risk := range truncateList(score.Risks, 3) {
		fmt.Fprintf(&b, `<text x="486" y="%.1f" fill="#ff8888" font-size="11">%d. %s</text>`, lineY, i+1, escapeXML(risk))
		lineY += 18
	}
	lineY += 10
	fmt.Fprintf(&b, `<text x="486" y="%.1f" fill="white" font-size="13">RECOMMENDATIONS</text>`, lineY)
	lineY += 20
	for i, rec := range truncateList(score.Recommendations, 3) {
		fmt.Fprintf(&b, `<text x="486" y="%.1f" fill="#88ff88" font-size="11">%d. %s</text>`, lineY, i+1, escapeXML(rec))
		lineY += 18
	}

	b.WriteString(`</svg>`)
	return svgDataURI(b.String())
}

// gaugeArc draws a half-circle arc filled proportionally to value out of 100.
func gaugeArc(cx, cy, r, value float64, stroke string, opacity float64) string {
	// Sweep from 180deg (left) toward 0deg (right).
	endAngle := math.Pi * (1 - value/100)
	x1, y1 := cx-r, cy
	x2 := cx + r*math.Cos(endAngle)
	y2 := cy - r*math.Sin(endAngle)
	large := 0
	if value > 50 {
		large = 1
	}
	return fmt.Sprintf(`<path d="M %.1f %.1f A %.1f %.1f 0 %d 1 %.1f %.1f" fill="none" stroke="%s" stroke-opacity="%.2f" stroke-width="22" stroke-linecap="round"/>`,
		x1, y1, r, r, large, x2, y2, stroke, opacity)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncateList(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

func svgDataURI(svg string) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
