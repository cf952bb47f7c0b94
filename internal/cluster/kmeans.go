package cluster

import (
	"math"

	"github.com/muesli/clusters"

	"github.com/maax3v3/colormood/internal/color"
)

// run is the outcome of a single k-means attempt.
type run struct {
	centers    []clusters.Coordinates
	labels     []int
	distortion float64
	iterations int
}

// kmeans runs Attempts restarts of Lloyd's algorithm and keeps the run with
// the lowest distortion.
func (c *Clusterer) kmeans(points []clusters.Coordinates, k int) Result {
	var best *run
	for attempt := 0; attempt < c.opts.Attempts; attempt++ {
		r := c.lloyd(points, k)
		if best == nil || r.distortion < best.distortion {
			best = &r
		}
	}

	counts := make([]int, k)
	for _, l := range best.labels {
		counts[l]++
	}
	centers := make([]color.Float, k)
	for i, ctr := range best.centers {
		centers[i] = color.Float{R: ctr[0], G: ctr[1], B: ctr[2]}
	}

	res := rankByCount(centers, counts)
	res.Distortion = best.distortion
	return res
}

// lloyd performs one k-means run from a random initialisation. It stops after
// MaxIterations or once no center moves further than Epsilon.
func (c *Clusterer) lloyd(points []clusters.Coordinates, k int) run {
	centers := c.initCenters(points, k)
	labels := make([]int, len(points))
	sums := make([]clusters.Coordinates, k)
	sizes := make([]int, k)

	iterations := 0
	for iterations < c.opts.MaxIterations {
		iterations++
		assign(points, centers, labels)

		for j := range sums {
			sums[j] = clusters.Coordinates{0, 0, 0}
			sizes[j] = 0
		}
		for i, p := range points {
			l := labels[i]
			sizes[l]++
			for d := range p {
				sums[l][d] += p[d]
			}
		}

		movement := 0.0
		for j := range centers {
			// An empty cluster keeps its previous center.
			if sizes[j] == 0 {
				continue
			}
			next := make(clusters.Coordinates, len(sums[j]))
			for d := range next {
				next[d] = sums[j][d] / float64(sizes[j])
			}
			movement = math.Max(movement, math.Sqrt(squaredDistance(centers[j], next)))
			centers[j] = next
		}

		if movement <= c.opts.Epsilon {
			break
		}
	}

	// Labels must reflect the final centers.
	distortion := assign(points, centers, labels)
	return run{
		centers:    centers,
		labels:     labels,
		distortion: distortion,
		iterations: iterations,
	}
}

// initCenters draws k points from the set. Duplicates are allowed, which is
// what happens when the frame holds fewer distinct colors than k.
func (c *Clusterer) initCenters(points []clusters.Coordinates, k int) []clusters.Coordinates {
	centers := make([]clusters.Coordinates, k)
	for i := range centers {
		p := points[c.rng.Intn(len(points))]
		centers[i] = append(clusters.Coordinates(nil), p...)
	}
	return centers
}

// assign labels every point with its nearest center and returns the total
// squared distance.
func assign(points []clusters.Coordinates, centers []clusters.Coordinates, labels []int) float64 {
	total := 0.0
	for i, p := range points {
		bestDist := math.Inf(1)
		bestCluster := 0
		for j, ctr := range centers {
			if d := p.Distance(ctr); d < bestDist {
				bestDist = d
				bestCluster = j
			}
		}
		labels[i] = bestCluster
		total += squaredDistance(p, centers[bestCluster])
	}
	return total
}

func squaredDistance(a, b clusters.Coordinates) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
