// Package color holds the small color model shared by the pipeline stages:
// 8-bit RGB triples, their floating-point counterparts and palettes.
package color

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a color with 8-bit components in R, G, B order.
type RGB struct {
	R, G, B uint8
}

// Float is an RGB color with floating-point components on the 0-255 scale.
type Float struct {
	R, G, B float64
}

// Palette is an ordered list of colors, most dominant first.
type Palette []RGB

// FromStdColor converts a standard library color to RGB, dropping alpha.
func FromStdColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// ToStdColor converts RGB to an opaque standard library color.
func (c RGB) ToStdColor() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Float widens the color to floating point.
func (c RGB) Float() Float {
	return Float{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

// String returns the channel values as "r,g,b".
func (c RGB) String() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// IsLight returns true if the color is perceptually light (relative luminance > 0.5).
func (c RGB) IsLight() bool {
	r, g, b := c.colorful().LinearRgb()
	return 0.2126*r+0.7152*g+0.0722*b > 0.5
}

// Quantize rounds each channel to the nearest integer, clamped to [0,255].
func (f Float) Quantize() RGB {
	return RGB{R: quantize(f.R), G: quantize(f.G), B: quantize(f.B)}
}

// Max returns the largest channel value.
func (f Float) Max() float64 {
	return math.Max(f.R, math.Max(f.G, f.B))
}

func quantize(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// DistanceRGB computes the Euclidean distance in RGB space between two colors.
func DistanceRGB(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// MaxRGBDistance is the maximum possible Euclidean distance in RGB space.
var MaxRGBDistance = math.Sqrt(255 * 255 * 3)

// Floats widens every palette entry.
func (p Palette) Floats() []Float {
	out := make([]Float, len(p))
	for i, c := range p {
		out[i] = c.Float()
	}
	return out
}

// Drift returns the largest per-slot distance between two palettes of equal
// length, as a percentage of MaxRGBDistance. Slots are compared by rank.
func Drift(a, b Palette) float64 {
	n := min(len(a), len(b))
	worst := 0.0
	for i := 0; i < n; i++ {
		worst = math.Max(worst, DistanceRGB(a[i], b[i]))
	}
	return worst / MaxRGBDistance * 100
}

func (p Palette) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = c.Hex()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
