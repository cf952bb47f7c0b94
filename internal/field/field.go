// Package field synthesizes the animated color field from a smoothed palette.
//
// Every palette entry contributes a plane wave whose direction rotates with
// time; the weighted sum is normalised by its global maximum and passed
// through a gamma curve.
package field

import (
	"image"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/maax3v3/colormood/internal/color"
)

const (
	DefaultSpeed = 0.2
	DefaultGamma = 0.7
)

// Synthesizer holds the wave parameters. The zero value is not usable; start
// from New.
type Synthesizer struct {
	// Speed is the angular frequency applied to t, both for the direction
	// rotation and for the shared phase term.
	Speed float64
	// Gamma is applied after normalisation; values below 1 brighten midtones.
	Gamma float64
	// Workers is the number of goroutines computing rows.
	Workers int
}

// New returns a Synthesizer with the default parameters.
func New() *Synthesizer {
	return &Synthesizer{
		Speed:   DefaultSpeed,
		Gamma:   DefaultGamma,
		Workers: runtime.NumCPU(),
	}
}

// Synthesize renders a w x h field at time t. An all-black palette yields an
// all-black field.
func (s *Synthesizer) Synthesize(p []color.Float, w, h int, t float64) *image.RGBA {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	buf := s.accumulate(p, w, h, t)
	return s.quantize(buf, w, h)
}

// wave is the per-entry direction at a given time.
type wave struct {
	px, py float64
	col    color.Float
}

func (s *Synthesizer) waves(p []color.Float, t float64) []wave {
	k := float64(len(p))
	out := make([]wave, len(p))
	for i, c := range p {
		theta := s.Speed*t + 2*math.Pi*float64(i)/k
		out[i] = wave{px: math.Sin(theta), py: math.Cos(theta), col: c}
	}
	return out
}

// accumulate returns the un-normalised field as interleaved RGB float64.
func (s *Synthesizer) accumulate(p []color.Float, w, h int, t float64) []float64 {
	buf := make([]float64, w*h*3)
	ws := s.waves(p, t)
	shift := s.Speed * t

	xs := linspace(w)
	ys := linspace(h)

	s.parallelRows(h, func(y int) {
		row := buf[y*w*3 : (y+1)*w*3]
		for _, wv := range ws {
			for x := 0; x < w; x++ {
				v := 0.5 + 0.5*math.Sin(2*math.Pi*(xs[x]*wv.px+ys[y]*wv.py)+shift)
				row[x*3] += v * wv.col.R
				row[x*3+1] += v * wv.col.G
				row[x*3+2] += v * wv.col.B
			}
		}
	})
	return buf
}

// quantize normalises buf by its global maximum, applies gamma and converts
// to 8-bit. A zero maximum leaves the field black.
func (s *Synthesizer) quantize(buf []float64, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	peak := floats.Max(buf)
	if peak > 0 && !math.IsInf(peak, 0) {
		floats.Scale(1/peak, buf)
	} else {
		for i := range buf {
			buf[i] = 0
		}
	}

	s.parallelRows(h, func(y int) {
		for x := 0; x < w; x++ {
			src := (y*w + x) * 3
			dst := img.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				img.Pix[dst+c] = toByte(math.Pow(buf[src+c], s.Gamma))
			}
			img.Pix[dst+3] = 255
		}
	})
	return img
}

func toByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// linspace returns n evenly spaced values over [0,1].
func linspace(n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		return out
	}
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}

// parallelRows calls fn for every row in [0,h), spread over Workers goroutines.
func (s *Synthesizer) parallelRows(h int, fn func(y int)) {
	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > h {
		workers = h
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(start int) {
			defer wg.Done()
			for y := start; y < h; y += workers {
				fn(y)
			}
		}(i)
	}
	wg.Wait()
}
