package source

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// barColors are the seven SMPTE bars at 75% intensity.
var barColors = [7]color.RGBA{
	{192, 192, 192, 255}, // Gray
	{192, 192, 0, 255},   // Yellow
	{0, 192, 192, 255},   // Cyan
	{0, 192, 0, 255},     // Green
	{192, 0, 192, 255},   // Magenta
	{192, 0, 0, 255},     // Red
	{0, 0, 192, 255},     // Blue
}

// Pattern generates color bars that scroll sideways and whose widths vary
// from frame to frame, so the dominant colors keep changing.
type Pattern struct {
	width, height int
	limit         int
	frame         int
	closed        bool
}

// NewPattern creates a pattern source of the given size. limit > 0 stops the
// stream after that many frames.
func NewPattern(width, height, limit int) (*Pattern, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrUnavailable, "invalid pattern size %dx%d", width, height)
	}
	return &Pattern{width: width, height: height, limit: limit}, nil
}

func (p *Pattern) Read() (image.Image, error) {
	if p.closed {
		return nil, errors.Wrap(ErrNoFrame, "pattern source closed")
	}
	if p.limit > 0 && p.frame >= p.limit {
		return nil, errors.Wrapf(ErrNoFrame, "pattern ended after %d frames", p.limit)
	}

	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	edges := p.edges()
	shift := p.frame * p.width / 97
	for x := 0; x < p.width; x++ {
		pos := (x + shift) % p.width
		bar := 0
		for bar < len(edges)-1 && pos >= edges[bar+1] {
			bar++
		}
		c := barColors[bar]
		for y := 0; y < p.height; y++ {
			off := img.PixOffset(x, y)
			img.Pix[off] = c.R
			img.Pix[off+1] = c.G
			img.Pix[off+2] = c.B
			img.Pix[off+3] = 255
		}
	}
	p.frame++
	return img, nil
}

// edges returns the left edge of each bar. The first bar grows and shrinks
// with the frame counter and the rest share the remaining width.
func (p *Pattern) edges() []int {
	n := len(barColors)
	phase := p.frame % 60
	if phase > 30 {
		phase = 60 - phase
	}
	first := p.width/n + phase*p.width/90
	rest := (p.width - first) / (n - 1)

	edges := make([]int, n)
	for i := 1; i < n; i++ {
		edges[i] = first + (i-1)*rest
	}
	return edges
}

func (p *Pattern) Close() error {
	p.closed = true
	return nil
}
