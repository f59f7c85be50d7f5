package kmeans

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"cartoonify/internal/worker"
)

// Channels is the number of components per pixel (R, G, B, A).
const Channels = 4

// DefaultMaxIterations caps the number of assign/update passes.
const DefaultMaxIterations = 75

var (
	// ErrInvalidK is returned when k is not in [1, len(dataset)].
	ErrInvalidK = errors.New("invalid palette size")
	// ErrEmptyDataset is returned when there is nothing to cluster.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrInvalidIterations is returned for a negative iteration cap.
	ErrInvalidIterations = errors.New("iteration cap must not be negative")
	// ErrInvalidBuffer is returned when a flat buffer is not made of whole
	// RGBA tuples or does not match its stated size.
	ErrInvalidBuffer = errors.New("invalid pixel buffer")
)

// Pixel is one RGBA sample.
type Pixel [Channels]uint8

// Centroid is a cluster center. Means may be fractional.
type Centroid [Channels]float64

// ToCentroid widens a pixel into a centroid.
func ToCentroid(p Pixel) Centroid {
	return Centroid{float64(p[0]), float64(p[1]), float64(p[2]), float64(p[3])}
}

// Source supplies uniform indexes in [0, n). *prng.LCG satisfies it.
type Source interface {
	Intn(n int) int
}

// Options tunes a clustering run. The zero value stops after a single pass;
// use DefaultOptions for the usual cap.
type Options struct {
	// MaxIterations stops the loop once the pass count exceeds it.
	MaxIterations int
	// DistanceChannels is how many leading channels count towards the
	// distance. 0 means all four; 3 ignores alpha.
	DistanceChannels int
	// Workers parallelizes the assign step. Values below 2 run serially.
	Workers int
	// OnIteration, when set, receives a copy of the centroids after every
	// update step.
	OnIteration func(iteration int, centroids []Centroid)
}

// DefaultOptions returns options with the standard iteration cap.
func DefaultOptions() Options {
	return Options{MaxIterations: DefaultMaxIterations}
}

func (o Options) dims() int {
	if o.DistanceChannels <= 0 || o.DistanceChannels > Channels {
		return Channels
	}
	return o.DistanceChannels
}

// Result is the outcome of a clustering run.
type Result struct {
	Centroids  []Centroid
	Iterations int
	// Converged is false when the run was cut off by the iteration cap.
	Converged bool
}

// Cluster groups dataset into k clusters with Lloyd's algorithm.
//
// Initial centroids are k independent draws from rng (with replacement).
// A cluster left empty after assignment is reseeded with another draw from
// the whole dataset. The loop stops when every centroid equals its value
// from the previous pass or when the pass count exceeds MaxIterations. The
// centroids from the last update are returned without a final assignment.
func Cluster(dataset []Pixel, k int, rng Source, opts Options) (Result, error) {
	if len(dataset) == 0 {
		return Result{}, ErrEmptyDataset
	}
	if k < 1 || k > len(dataset) {
		return Result{}, fmt.Errorf("%w: k=%d for %d pixels", ErrInvalidK, k, len(dataset))
	}
	if opts.MaxIterations < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidIterations, opts.MaxIterations)
	}

	dims := opts.dims()
	centroids := initCenters(dataset, k, rng)
	assignments := make([]int, len(dataset))

	var previous []Centroid
	iterations := 0
	converged := false

	for {
		converged = previous != nil && slices.Equal(centroids, previous)
		if iterations > opts.MaxIterations || converged {
			break
		}

		previous = slices.Clone(centroids)
		iterations++

		// Assign pixels to nearest centroid
		worker.ForEach(len(dataset), opts.Workers, func(r worker.Range) {
			for i := r.Start; i < r.End; i++ {
				assignments[i] = Nearest(dataset[i], centroids, dims)
			}
		})

		// Recompute centroids
		centroids = recompute(dataset, assignments, k, rng)

		if opts.OnIteration != nil {
			opts.OnIteration(iterations, slices.Clone(centroids))
		}
	}

	return Result{
		Centroids:  centroids,
		Iterations: iterations,
		Converged:  converged,
	}, nil
}

func initCenters(dataset []Pixel, k int, rng Source) []Centroid {
	centers := make([]Centroid, 0, k)
	for i := 0; i < k; i++ {
		centers = append(centers, ToCentroid(dataset[rng.Intn(len(dataset))]))
	}
	return centers
}

// recompute averages each cluster. Every pixel contributes p/count so the
// floating point result matches an incremental per-cluster mean.
func recompute(dataset []Pixel, assignments []int, k int, rng Source) []Centroid {
	counts := make([]int, k)
	for _, a := range assignments {
		counts[a]++
	}

	means := make([]Centroid, k)
	for i, a := range assignments {
		n := float64(counts[a])
		for c := 0; c < Channels; c++ {
			means[a][c] += float64(dataset[i][c]) / n
		}
	}

	for i := range means {
		if counts[i] == 0 {
			means[i] = ToCentroid(dataset[rng.Intn(len(dataset))])
		}
	}
	return means
}

// Nearest returns the index of the centroid closest to px by squared
// Euclidean distance over the first dims channels. Ties go to the lowest
// index.
func Nearest(px Pixel, centroids []Centroid, dims int) int {
	best := 0
	minDist := math.MaxFloat64
	for i, c := range centroids {
		d := 0.0
		for j := 0; j < dims; j++ {
			delta := float64(px[j]) - c[j]
			d += delta * delta
		}
		if d < minDist {
			minDist = d
			best = i
		}
	}
	return best
}

// NearestCentroid is Nearest over all four channels.
func NearestCentroid(px Pixel, centroids []Centroid) int {
	return Nearest(px, centroids, Channels)
}
