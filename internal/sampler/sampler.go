// Package sampler bounds the number of pixels fed to the clustering
// engine while keeping the aspect ratio of the source image.
package sampler

import (
	"errors"
	"fmt"
	"math"

	"cartoonify/internal/kmeans"
)

// DefaultMaxPixels is the sampling budget used when none is configured.
const DefaultMaxPixels = 50000

var (
	// ErrInvalidDimensions is returned for non-positive sizes or budgets.
	ErrInvalidDimensions = errors.New("invalid sampling dimensions")
	// ErrInvalidBuffer is returned when a buffer is not made of whole RGBA tuples.
	ErrInvalidBuffer = kmeans.ErrInvalidBuffer
)

// Dimensions returns the working resolution for a width x height image so
// that the sampled pixel count stays within maxPixels.
//
// The scaled width is derived from the unfloored scaled height, and only
// then is the height floored. A dimension that floors to zero (very wide or
// very tall images) is raised to one and the other side is clamped to the
// budget.
func Dimensions(width, height, maxPixels int) (int, int, error) {
	if width <= 0 || height <= 0 || maxPixels <= 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d with budget %d", ErrInvalidDimensions, width, height, maxPixels)
	}
	if width*height <= maxPixels {
		return width, height, nil
	}

	aspectRatio := float64(width) / float64(height)
	scaledHeight := math.Sqrt(float64(maxPixels) / aspectRatio)
	scaledWidth := int(math.Floor(float64(maxPixels) / scaledHeight))
	h := int(math.Floor(scaledHeight))

	switch {
	case h == 0:
		h = 1
		scaledWidth = min(width, maxPixels)
	case scaledWidth == 0:
		scaledWidth = 1
		h = min(height, maxPixels)
	}

	return min(scaledWidth, width), min(h, height), nil
}

// Dataset splits a flat row-major RGBA buffer into pixel tuples.
func Dataset(pix []uint8) ([]kmeans.Pixel, error) {
	if len(pix)%kmeans.Channels != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidBuffer, len(pix), kmeans.Channels)
	}
	dataset := make([]kmeans.Pixel, len(pix)/kmeans.Channels)
	for i := range dataset {
		base := i * kmeans.Channels
		dataset[i] = kmeans.Pixel{pix[base], pix[base+1], pix[base+2], pix[base+3]}
	}
	return dataset, nil
}
