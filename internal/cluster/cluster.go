// Package cluster reduces a frame to its k most dominant colors.
//
// The frame is first scaled down to a fixed working size so the cost of
// clustering does not depend on the input resolution. The default method is
// an explicit Lloyd k-means with random restarts; two library-backed methods
// are available for comparison.
package cluster

import (
	"image"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/muesli/clusters"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"github.com/maax3v3/colormood/internal/color"
)

// Method selects the clustering backend.
type Method string

const (
	MethodKMeans    Method = "kmeans"    // restarted Lloyd k-means, implemented here
	MethodPartition Method = "partition" // github.com/muesli/kmeans
	MethodDominant  Method = "dominant"  // github.com/cenkalti/dominantcolor
)

// ParseMethod validates a method name.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(s)); m {
	case MethodKMeans, MethodPartition, MethodDominant:
		return m, nil
	}
	return "", errors.Errorf("unknown clustering method %q (supported: kmeans, partition, dominant)", s)
}

// Options configures a Clusterer.
type Options struct {
	Method Method

	// WorkSize is the side of the square the frame is downsampled to.
	WorkSize int

	// MaxIterations bounds each k-means run.
	MaxIterations int

	// Epsilon stops a run once no center moves further than this, in channel units.
	Epsilon float64

	// Attempts is the number of random restarts; the lowest-distortion run wins.
	Attempts int

	// Seed for the random initialisation. 0 picks a time-based seed.
	Seed int64
}

// DefaultOptions returns the working parameters of the capture loop.
func DefaultOptions() Options {
	return Options{
		Method:        MethodKMeans,
		WorkSize:      64,
		MaxIterations: 200,
		Epsilon:       0.1,
		Attempts:      10,
	}
}

// Result is a palette ordered by descending population.
type Result struct {
	Palette color.Palette
	// Counts[i] is the number of working-size pixels claimed by Palette[i].
	Counts []int
	// Distortion is the sum of squared distances of the winning run.
	// Only the kmeans method reports it.
	Distortion float64
}

// Clusterer extracts dominant colors. It owns its random source and is not
// safe for concurrent use.
type Clusterer struct {
	opts Options
	rng  *rand.Rand
}

// New creates a Clusterer, filling unset options with defaults.
func New(opts Options) *Clusterer {
	def := DefaultOptions()
	if opts.Method == "" {
		opts.Method = def.Method
	}
	if opts.WorkSize <= 0 {
		opts.WorkSize = def.WorkSize
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = def.MaxIterations
	}
	if opts.Epsilon <= 0 {
		opts.Epsilon = def.Epsilon
	}
	if opts.Attempts <= 0 {
		opts.Attempts = def.Attempts
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Clusterer{
		opts: opts,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Extract returns exactly k colors from img, most populous first.
func (c *Clusterer) Extract(img image.Image, k int) (Result, error) {
	if img == nil {
		return Result{}, errors.New("input frame is nil")
	}
	if k < 1 {
		return Result{}, errors.Errorf("cluster count must be >= 1, got %d", k)
	}
	if img.Bounds().Empty() {
		return Result{}, errors.Errorf("input frame is empty (%v)", img.Bounds())
	}

	small := Downsample(img, c.opts.WorkSize)

	var (
		res Result
		err error
	)
	switch c.opts.Method {
	case MethodPartition:
		res, err = partition(Flatten(small), k)
	case MethodDominant:
		res, err = dominant(small, k)
	default:
		res = c.kmeans(Flatten(small), k)
	}
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Downsample scales img to size x size with nearest-neighbour sampling.
func Downsample(img image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Flatten turns every pixel into a 3-d point of channel values.
func Flatten(img *image.RGBA) []clusters.Coordinates {
	b := img.Bounds()
	points := make([]clusters.Coordinates, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			off := img.PixOffset(x, y)
			points = append(points, clusters.Coordinates{
				float64(img.Pix[off]),
				float64(img.Pix[off+1]),
				float64(img.Pix[off+2]),
			})
		}
	}
	return points
}

// rankByCount orders centers by descending count, keeping the original order
// among equal counts, and quantizes them.
func rankByCount(centers []color.Float, counts []int) Result {
	order := make([]int, len(centers))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return counts[b] - counts[a]
	})

	res := Result{
		Palette: make(color.Palette, len(order)),
		Counts:  make([]int, len(order)),
	}
	for i, idx := range order {
		res.Palette[i] = centers[idx].Quantize()
		res.Counts[i] = counts[idx]
	}
	return res
}

// padTo repeats the last entry with a zero count until the result holds k colors.
func padTo(res Result, k int) Result {
	if len(res.Palette) == 0 {
		res.Palette = color.Palette{{}}
		res.Counts = []int{0}
	}
	for len(res.Palette) < k {
		res.Palette = append(res.Palette, res.Palette[len(res.Palette)-1])
		res.Counts = append(res.Counts, 0)
	}
	res.Palette = res.Palette[:k]
	res.Counts = res.Counts[:k]
	return res
}
