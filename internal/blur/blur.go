// Package blur implements the separable Gaussian blur applied to the
// synthesized field.
package blur

import (
	"image"
	"math"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// DefaultSize is the kernel width and height in pixels.
const DefaultSize = 15

// Gaussian is an immutable, normalised 1-d kernel applied horizontally then
// vertically.
type Gaussian struct {
	size   int
	sigma  float64
	kernel []float64
}

// NewGaussian builds a size x size kernel. size must be odd and positive. A
// non-positive sigma is derived from the size as 0.3*((size-1)/2 - 1) + 0.8.
func NewGaussian(size int, sigma float64) (*Gaussian, error) {
	if size < 1 || size%2 == 0 {
		return nil, errors.Errorf("kernel size must be a positive odd number, got %d", size)
	}
	if sigma <= 0 {
		sigma = 0.3*(float64(size-1)*0.5-1) + 0.8
	}

	half := size / 2
	kernel := make([]float64, size)
	for i := range kernel {
		d := float64(i - half)
		kernel[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(kernel), kernel)

	return &Gaussian{size: size, sigma: sigma, kernel: kernel}, nil
}

// Size returns the kernel width.
func (g *Gaussian) Size() int { return g.size }

// Sigma returns the standard deviation in pixels.
func (g *Gaussian) Sigma() float64 { return g.sigma }

// Kernel returns a copy of the 1-d weights.
func (g *Gaussian) Kernel() []float64 {
	return append([]float64(nil), g.kernel...)
}

// Apply returns a blurred copy of src with the same bounds. Borders are
// reflected without repeating the edge pixel. Alpha is copied unchanged.
func (g *Gaussian) Apply(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(b)
	if w == 0 || h == 0 {
		return dst
	}
	if g.size == 1 {
		copyPix(dst, src)
		return dst
	}

	half := g.size / 2
	tmp := make([]float64, w*h*3)

	// Horizontal pass into tmp.
	rows(h, func(y int) {
		for x := 0; x < w; x++ {
			var r, gg, bb float64
			for i, k := range g.kernel {
				sx := reflect101(x+i-half, w)
				off := src.PixOffset(b.Min.X+sx, b.Min.Y+y)
				r += k * float64(src.Pix[off])
				gg += k * float64(src.Pix[off+1])
				bb += k * float64(src.Pix[off+2])
			}
			t := (y*w + x) * 3
			tmp[t], tmp[t+1], tmp[t+2] = r, gg, bb
		}
	})

	// Vertical pass into dst.
	rows(h, func(y int) {
		for x := 0; x < w; x++ {
			var r, gg, bb float64
			for i, k := range g.kernel {
				sy := reflect101(y+i-half, h)
				t := (sy*w + x) * 3
				r += k * tmp[t]
				gg += k * tmp[t+1]
				bb += k * tmp[t+2]
			}
			off := dst.PixOffset(b.Min.X+x, b.Min.Y+y)
			dst.Pix[off] = clampByte(r)
			dst.Pix[off+1] = clampByte(gg)
			dst.Pix[off+2] = clampByte(bb)
			dst.Pix[off+3] = src.Pix[src.PixOffset(b.Min.X+x, b.Min.Y+y)+3]
		}
	})
	return dst
}

// reflect101 maps an out-of-range index back inside [0,n) as in dcb|abcd|cba.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

func copyPix(dst, src *image.RGBA) {
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		s := src.PixOffset(b.Min.X, y)
		d := dst.PixOffset(b.Min.X, y)
		copy(dst.Pix[d:d+b.Dx()*4], src.Pix[s:s+b.Dx()*4])
	}
}

func rows(h int, fn func(y int)) {
	workers := min(runtime.NumCPU(), h)
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
