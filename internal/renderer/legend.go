// Package renderer draws the swatch legend under the synthesized field.
package renderer

import (
	"fmt"
	"image"
	stdcolor "image/color"
	"image/draw"

	"github.com/maax3v3/colormood/internal/color"
)

// Config holds legend layout configuration.
type Config struct {
	StripHeight int // height of the strip appended under the field
	SwatchSize  int // side of each filled swatch
	Margin      int // left margin and gap between the field and the swatches
	Pitch       int // horizontal distance between consecutive swatches
	TextGap     int // space between a swatch and its label
	TextSize    int // approximate text height for scalable fonts
	TextColor   stdcolor.RGBA
	Background  stdcolor.RGBA
}

// DefaultConfig returns the default legend layout.
func DefaultConfig() Config {
	return Config{
		StripHeight: 80,
		SwatchSize:  60,
		Margin:      10,
		Pitch:       240,
		TextGap:     5,
		TextSize:    14,
		TextColor:   stdcolor.RGBA{255, 255, 255, 255},
		Background:  stdcolor.RGBA{0, 0, 0, 255},
	}
}

// FitConfig tightens the pitch so n swatches fit into width, never going
// below one swatch plus margin.
func FitConfig(cfg Config, width, n int) Config {
	if n <= 0 || cfg.Margin+n*cfg.Pitch <= width {
		return cfg
	}
	pitch := (width - cfg.Margin) / n
	if floor := cfg.SwatchSize + cfg.Margin; pitch < floor {
		pitch = floor
	}
	cfg.Pitch = pitch
	return cfg
}

// Legend overlays the palette strip. It never modifies its inputs.
type Legend struct {
	font FontRenderer
	cfg  Config
}

// NewLegend creates a Legend. A nil font falls back to the face font.
func NewLegend(font FontRenderer, cfg Config) *Legend {
	if font == nil {
		font = NewFaceFont()
	}
	return &Legend{font: font, cfg: cfg}
}

// Label returns the text drawn next to a swatch.
func Label(c color.RGB) string {
	return fmt.Sprintf("RGB: %s", c)
}

// Render returns a new image: the field on top, the legend strip below.
func (l *Legend) Render(field *image.RGBA, p color.Palette) *image.RGBA {
	fb := field.Bounds()
	w, h := fb.Dx(), fb.Dy()
	cfg := FitConfig(l.cfg, w, len(p))

	out := image.NewRGBA(image.Rect(0, 0, w, h+cfg.StripHeight))
	draw.Draw(out, image.Rect(0, 0, w, h), field, fb.Min, draw.Src)
	draw.Draw(out, image.Rect(0, h, w, h+cfg.StripHeight), image.NewUniform(cfg.Background), image.Point{}, draw.Src)

	x := cfg.Margin
	y := h + cfg.Margin
	for _, c := range p {
		swatch := image.Rect(x, y, x+cfg.SwatchSize, y+cfg.SwatchSize).Intersect(out.Bounds())
		draw.Draw(out, swatch, image.NewUniform(c.ToStdColor()), image.Point{}, draw.Src)

		text := Label(c)
		tw, _ := l.font.MeasureString(text, cfg.TextSize)
		tx := x + cfg.SwatchSize + cfg.TextGap
		l.font.DrawString(out, text, tx+tw/2, y+cfg.SwatchSize/2, cfg.TextColor, cfg.TextSize)

		x += cfg.Pitch
	}
	return out
}
