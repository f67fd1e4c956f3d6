// Package viz renders the visualization set for a planet record: a synthetic
// host-star portrait, an orbital diagram, a mass-radius comparison chart, and
// a habitability dashboard. Every renderer is deterministic for a given input
// and returns a self-contained data URI.
package viz

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"math/rand"

	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
)

const (
	starImageSize = 600
	starfieldSeed = 42
	starfieldDots = 200
)

// blackbody approximates the apparent color of a star from its effective
// temperature, banded by spectral class.
func blackbody(temp float64) color.RGBA {
	switch {
	case temp > 30000:
		return color.RGBA{155, 176, 255, 255} // O
	case temp > 10000:
		return color.RGBA{202, 215, 255, 255} // B
	case temp > 7500:
		return color.RGBA{248, 247, 255, 255} // A
	case temp > 6000:
		return color.RGBA{255, 244, 234, 255} // F
	case temp > 5200:
		return color.RGBA{255, 237, 210, 255} // G
	case temp > 3700:
		return color.RGBA{255, 204, 111, 255} // K
	default:
		return color.RGBA{255, 121, 63, 255} // M
	}
}

// StarImage renders a synthetic portrait of the host star: a starfield
// background, a layered glow, the stellar disc, and a brighter core. Output
// is a PNG data URI. The starfield seed is fixed, so identical inputs produce
// identical bytes.
func StarImage(star domain.HostStar) string {
	img := image.NewRGBA(image.Rect(0, 0, starImageSize, starImageSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0, 0, 8, 255}), image.Point{}, draw.Src)

	temp := 5778.0
	if star.Temperature != nil {
		temp = *star.Temperature
	}
	tint := blackbody(temp)

	// Disc radius scales with the stellar radius, capped so giants still fit.
	starRadius := 100.0
	if star.Radius != nil {
		if *star.Radius < 3 {
			starRadius = *star.Radius * 100
		} else {
			starRadius = 180
		}
	}

	rng := rand.New(rand.NewSource(starfieldSeed))
	for i := 0; i < starfieldDots; i++ {
		x := rng.Intn(starImageSize)
		y := rng.Intn(starImageSize)
		brightness := uint8(50 + rng.Intn(150))
		fillCircle(img, x, y, 1, color.RGBA{brightness, brightness, brightness, 255})
	}

	cx, cy := starImageSize/2, starImageSize/2

	// Glow layers, outermost first so inner layers paint over them.
	for i := 8; i >= 1; i-- {
		glowRadius := starRadius + float64(i)*25
		fade := 1 - float64(i)*0.08
		glow := color.RGBA{
			R: uint8(float64(tint.R) * fade),
			G: uint8(float64(tint.G) * fade),
			B: uint8(float64(tint.B) * fade),
			A: 255,
		}
		fillCircle(img, cx, cy, int(glowRadius), glow)
	}

	fillCircle(img, cx, cy, int(starRadius), tint)

	core := color.RGBA{
		R: brighten(tint.R),
		G: brighten(tint.G),
		B: brighten(tint.B),
		A: 255,
	}
	fillCircle(img, cx, cy, int(starRadius)/3, core)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// Encoding an in-memory RGBA image cannot fail; keep the signature simple.
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func brighten(c uint8) uint8 {
	v := float64(c) * 1.3
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	if r < 1 {
		r = 1
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			x, y := cx+dx, cy+dy
			if x < 0 || y < 0 || x >= starImageSize || y >= starImageSize {
				continue
			}
			img.SetRGBA(x, y, c)
		}
	}
}

// starLabel is the overlay text for the portrait, exposed for the dashboard.
func starLabel(star domain.HostStar) string {
	name := star.Name
	if name == "" {
		name = "Unknown Star"
	}
	if star.Temperature == nil {
		return name
	}
	return fmt.Sprintf("%s %gK", name, math.Round(*star.Temperature))
}
