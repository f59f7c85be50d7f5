// Package cartoonify reduces an image to a small palette with k-means and
// remaps every pixel to its nearest palette color.
//
// The pipeline samples the image down to a pixel budget, clusters the
// sample, then remaps the full-resolution pixels. Runs are deterministic
// for a given seed: each call owns its generator, so concurrent calls do
// not influence each other.
package cartoonify

import (
	"fmt"
	"image"
	"time"

	"cartoonify/internal/kmeans"
	"cartoonify/internal/prng"
	"cartoonify/internal/quantizer"
	"cartoonify/internal/sampler"
)

// Surface provides decoded pixels. Pixels must return row-major,
// non-premultiplied RGBA bytes for the requested size.
type Surface interface {
	Size() (width, height int)
	Pixels(width, height int) ([]uint8, error)
}

// Result is a finished run.
type Result struct {
	Width  int
	Height int
	// Pix is the remapped RGBA buffer, same layout as the input.
	Pix []uint8

	// Centroids as learned, possibly fractional.
	Centroids []kmeans.Centroid
	// Palette is Centroids rounded to displayable colors.
	Palette []kmeans.Pixel
	// Counts is the number of output pixels per palette entry.
	Counts []int

	SampleWidth  int
	SampleHeight int
	Iterations   int
	Converged    bool
}

// Image wraps the output buffer as an image.
func (r *Result) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    r.Pix,
		Stride: r.Width * kmeans.Channels,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}

// Quantize learns a palette of cfg.K centroids from dataset.
func Quantize(dataset []kmeans.Pixel, cfg Config) ([]kmeans.Centroid, error) {
	res, err := cluster(dataset, cfg)
	if err != nil {
		return nil, err
	}
	return res.Centroids, nil
}

// Remap replaces every pixel of pix with its nearest centroid.
func Remap(pix []uint8, centroids []kmeans.Centroid, cfg Config) ([]uint8, error) {
	return quantizer.Remap(pix, centroids, quantizer.Options{
		IgnoreAlpha: cfg.IgnoreAlpha,
		Workers:     cfg.workers(),
	})
}

func cluster(dataset []kmeans.Pixel, cfg Config) (kmeans.Result, error) {
	if err := cfg.Validate(); err != nil {
		return kmeans.Result{}, err
	}

	log := cfg.logger()
	opts := kmeans.Options{
		MaxIterations:    cfg.MaxIterations,
		DistanceChannels: cfg.distanceChannels(),
		Workers:          cfg.workers(),
		OnIteration: func(iteration int, _ []kmeans.Centroid) {
			log.Debug("kmeans pass", "iteration", iteration)
		},
	}

	return kmeans.Cluster(dataset, cfg.K, prng.New(cfg.Seed), opts)
}

// readPixels fetches a width x height surface and checks that it holds
// exactly one RGBA tuple per pixel.
func readPixels(s Surface, width, height int) ([]uint8, error) {
	pix, err := s.Pixels(width, height)
	if err != nil {
		return nil, fmt.Errorf("%dx%d: %w", width, height, err)
	}
	if want := width * height * kmeans.Channels; len(pix) != want {
		return nil, fmt.Errorf("%w: %dx%d surface returned %d bytes, want %d",
			ErrInvalidBuffer, width, height, len(pix), want)
	}
	return pix, nil
}

// Run samples s, learns a palette and remaps the full-resolution pixels.
// Either a complete result or an error is returned.
func Run(s Surface, cfg Config) (*Result, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: no pixel source", ErrUnsupportedEnvironment)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := cfg.logger()
	start := time.Now()

	width, height := s.Size()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image is %dx%d", ErrEmptyDataset, width, height)
	}

	sw, sh, err := sampler.Dimensions(width, height, cfg.MaxSamplePixels)
	if err != nil {
		return nil, err
	}

	sample, err := readPixels(s, sw, sh)
	if err != nil {
		return nil, fmt.Errorf("reading sample: %w", err)
	}
	dataset, err := sampler.Dataset(sample)
	if err != nil {
		return nil, err
	}
	log.Debug("sampled image",
		"width", width, "height", height,
		"sample_width", sw, "sample_height", sh,
		"pixels", len(dataset))

	res, err := cluster(dataset, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("clustering finished",
		"k", cfg.K,
		"iterations", res.Iterations,
		"converged", res.Converged)

	full := sample
	if sw != width || sh != height {
		if full, err = readPixels(s, width, height); err != nil {
			return nil, fmt.Errorf("reading image: %w", err)
		}
	}

	out, counts, err := quantizer.RemapCounts(full, res.Centroids, quantizer.Options{
		IgnoreAlpha: cfg.IgnoreAlpha,
		Workers:     cfg.workers(),
	})
	if err != nil {
		return nil, err
	}

	log.Info("cartoonified image",
		"width", width, "height", height,
		"k", cfg.K,
		"iterations", res.Iterations,
		"elapsed", time.Since(start))

	return &Result{
		Width:        width,
		Height:       height,
		Pix:          out,
		Centroids:    res.Centroids,
		Palette:      quantizer.Palette(res.Centroids),
		Counts:       counts,
		SampleWidth:  sw,
		SampleHeight: sh,
		Iterations:   res.Iterations,
		Converged:    res.Converged,
	}, nil
}
