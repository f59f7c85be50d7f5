// Package quantizer remaps a full-resolution RGBA buffer onto a learned
// palette.
package quantizer

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"cartoonify/internal/kmeans"
	"cartoonify/internal/worker"
)

var (
	// ErrInvalidBuffer is returned when a buffer is not made of whole RGBA tuples.
	ErrInvalidBuffer = kmeans.ErrInvalidBuffer
	// ErrEmptyPalette is returned when there are no centroids to map onto.
	ErrEmptyPalette = errors.New("empty palette")
)

// Options controls how pixels are matched against the palette.
type Options struct {
	// IgnoreAlpha matches on RGB only and keeps each source pixel's alpha.
	IgnoreAlpha bool
	// Workers splits the buffer across goroutines. Values below 2 run serially.
	Workers int
}

func (o Options) dims() int {
	if o.IgnoreAlpha {
		return kmeans.Channels - 1
	}
	return kmeans.Channels
}

// Palette converts centroids to displayable colors, clamping to [0, 255]
// and rounding halves to even.
func Palette(centroids []kmeans.Centroid) []kmeans.Pixel {
	palette := make([]kmeans.Pixel, len(centroids))
	for i, c := range centroids {
		for j, v := range c {
			palette[i][j] = clamp(v)
		}
	}
	return palette
}

func clamp(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}

// Remap returns a new buffer where every pixel of pix is replaced by its
// nearest centroid. pix is not modified.
func Remap(pix []uint8, centroids []kmeans.Centroid, opts Options) ([]uint8, error) {
	out, _, err := RemapCounts(pix, centroids, opts)
	return out, err
}

// RemapCounts is Remap that also reports how many pixels landed on each
// centroid.
func RemapCounts(pix []uint8, centroids []kmeans.Centroid, opts Options) ([]uint8, []int, error) {
	if len(pix)%kmeans.Channels != 0 {
		return nil, nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidBuffer, len(pix), kmeans.Channels)
	}
	if len(centroids) == 0 {
		return nil, nil, ErrEmptyPalette
	}

	palette := Palette(centroids)
	dims := opts.dims()
	out := make([]uint8, len(pix))
	counts := make([]int, len(centroids))
	var mu sync.Mutex

	worker.ForEach(len(pix)/kmeans.Channels, opts.Workers, func(r worker.Range) {
		local := make([]int, len(centroids))
		for i := r.Start; i < r.End; i++ {
			base := i * kmeans.Channels
			px := kmeans.Pixel{pix[base], pix[base+1], pix[base+2], pix[base+3]}
			idx := kmeans.Nearest(px, centroids, dims)
			local[idx]++

			color := palette[idx]
			out[base] = color[0]
			out[base+1] = color[1]
			out[base+2] = color[2]
			if opts.IgnoreAlpha {
				out[base+3] = px[3]
			} else {
				out[base+3] = color[3]
			}
		}

		mu.Lock()
		for j, n := range local {
			counts[j] += n
		}
		mu.Unlock()
	})

	return out, counts, nil
}
