// Package colormood turns the dominant colors of an image into an animated,
// blended color field with a swatch legend.
//
// The live loop lives in cmd/colormood. This package exposes the same
// processing for single images:
//
//	img, _ := colormood.LoadImage("photo.jpg")
//	field, palette, _ := colormood.Render(img, colormood.DefaultOptions())
//	colormood.SavePNG("mood.png", field)
//
// Or use the file-based convenience:
//
//	err := colormood.RenderFile("photo.jpg", "mood.png", colormood.DefaultOptions())
package colormood

import (
	"image"
	stdcolor "image/color"

	"github.com/pkg/errors"

	"github.com/maax3v3/colormood/internal/blur"
	"github.com/maax3v3/colormood/internal/cluster"
	"github.com/maax3v3/colormood/internal/imaging"
	"github.com/maax3v3/colormood/internal/pipeline"
	"github.com/maax3v3/colormood/internal/renderer"
)

// Clustering methods.
const (
	MethodKMeans    = string(cluster.MethodKMeans)
	MethodPartition = string(cluster.MethodPartition)
	MethodDominant  = string(cluster.MethodDominant)
)

// Options configures a rendering.
type Options struct {
	// Colors is the number of dominant colors extracted. Default: 3.
	Colors int

	// Method selects the palette extraction: "kmeans", "partition" or
	// "dominant". Default: "kmeans".
	Method string

	// Seed for k-means initialisation. 0 picks a time-based seed.
	Seed int64

	// Time is the animation time the field is rendered at. Default: 0.
	Time float64

	// BlurSize is the odd Gaussian kernel size. Default: 15.
	BlurSize int

	// Width and Height of the field. 0 uses the image size.
	Width, Height int

	// Legend appends the swatch strip under the field. Default: true.
	Legend bool

	// Font draws the legend labels. If nil, a 7x13 bitmap face is used.
	Font FontRenderer
}

// Color is an 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// FontRenderer is the interface for drawing text onto images.
// Implement this to provide a custom font (e.g., TTF rendering).
type FontRenderer interface {
	// DrawString draws text centered at (cx, cy) on the image with the
	// specified color and approximate height in pixels.
	DrawString(img *image.RGBA, text string, cx, cy int, col stdcolor.Color, size int)

	// MeasureString returns the approximate width and height of the text
	// at the given font size.
	MeasureString(text string, size int) (width, height int)
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Colors:   3,
		Method:   MethodKMeans,
		BlurSize: blur.DefaultSize,
		Legend:   true,
	}
}

// LoadImage reads an image from disk. Supports PNG, JPEG, and WEBP.
func LoadImage(path string) (image.Image, error) {
	return imaging.Load(path)
}

// SavePNG writes an image to disk as PNG.
func SavePNG(path string, img image.Image) error {
	return imaging.SavePNG(path, img)
}

// Render extracts the palette of img and returns the blurred color field for
// opts.Time, with the legend strip if requested, and the palette itself.
// A single image has no history, so the palette is used without smoothing.
func Render(img image.Image, opts Options) (*image.RGBA, []Color, error) {
	if img == nil {
		return nil, nil, errors.New("input image is nil")
	}
	method, err := cluster.ParseMethod(opts.Method)
	if err != nil {
		return nil, nil, err
	}

	cfg := pipeline.DefaultConfig()
	cfg.Colors = opts.Colors
	cfg.Alpha = 0
	cfg.BlurSize = opts.BlurSize
	cfg.Width, cfg.Height = opts.Width, opts.Height
	cfg.Cluster.Method = method
	cfg.Cluster.Seed = opts.Seed
	if opts.Font != nil {
		cfg.Font = &fontAdapter{opts.Font}
	}

	r, err := pipeline.NewRunner(cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	sess := pipeline.NewSession(cfg.Colors)
	sess.T = opts.Time
	_, out, err := r.Step(sess, img)
	if err != nil {
		return nil, nil, err
	}

	palette := make([]Color, len(out.Palette))
	for i, c := range out.Palette {
		palette[i] = Color{R: c.R, G: c.G, B: c.B}
	}
	if !opts.Legend {
		return out.Field, palette, nil
	}
	return out.Frame, palette, nil
}

// RenderFile is a convenience that loads an image from inPath, renders it,
// and saves the result as PNG to outPath.
func RenderFile(inPath, outPath string, opts Options) error {
	img, err := LoadImage(inPath)
	if err != nil {
		return errors.Wrap(err, "loading image")
	}

	result, _, err := Render(img, opts)
	if err != nil {
		return errors.Wrap(err, "rendering")
	}

	if err := SavePNG(outPath, result); err != nil {
		return errors.Wrap(err, "saving output")
	}

	return nil
}

// fontAdapter adapts the public FontRenderer interface to the internal one.
type fontAdapter struct {
	f FontRenderer
}

var _ renderer.FontRenderer = (*fontAdapter)(nil)

func (a *fontAdapter) DrawString(img *image.RGBA, text string, cx, cy int, col stdcolor.Color, size int) {
	a.f.DrawString(img, text, cx, cy, col, size)
}

func (a *fontAdapter) MeasureString(text string, size int) (int, int) {
	return a.f.MeasureString(text, size)
}
