package cluster

import (
	"image"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/pkg/errors"

	"github.com/maax3v3/colormood/internal/color"
)

// partition clusters the points with github.com/muesli/kmeans.
func partition(points []clusters.Coordinates, k int) (Result, error) {
	dataset := make(clusters.Observations, len(points))
	for i, p := range points {
		dataset[i] = p
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil {
		return Result{}, errors.Wrap(err, "partitioning colors")
	}

	centers := make([]color.Float, 0, len(cc))
	counts := make([]int, 0, len(cc))
	for _, cl := range cc {
		if len(cl.Center) < 3 {
			continue
		}
		centers = append(centers, color.Float{R: cl.Center[0], G: cl.Center[1], B: cl.Center[2]})
		counts = append(counts, len(cl.Observations))
	}
	return padTo(rankByCount(centers, counts), k), nil
}

// dominant asks github.com/cenkalti/dominantcolor for k weighted colors.
// Weights are converted to pixel counts of the working image.
func dominant(img *image.RGBA, k int) (Result, error) {
	found := dominantcolor.FindWeight(img, k)
	if len(found) == 0 {
		return Result{}, errors.New("dominantcolor returned no colors")
	}
	slices.SortStableFunc(found, func(a, b dominantcolor.Color) int {
		switch {
		case a.Weight > b.Weight:
			return -1
		case a.Weight < b.Weight:
			return 1
		}
		return 0
	})

	total := img.Bounds().Dx() * img.Bounds().Dy()
	res := Result{}
	for _, f := range found {
		res.Palette = append(res.Palette, color.FromStdColor(f.RGBA))
		res.Counts = append(res.Counts, int(f.Weight*float64(total)+0.5))
	}
	return padTo(res, k), nil
}
