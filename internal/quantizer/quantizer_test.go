package quantizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartoonify/internal/kmeans"
)

func TestPalette(t *testing.T) {
	tests := []struct {
		name     string
		centroid kmeans.Centroid
		expected kmeans.Pixel
	}{
		{"Integral", kmeans.Centroid{0, 128, 255, 255}, kmeans.Pixel{0, 128, 255, 255}},
		{"Fractional", kmeans.Centroid{1.4, 1.6, 254.7, 0.2}, kmeans.Pixel{1, 2, 255, 0}},
		{"HalfToEven", kmeans.Centroid{0.5, 1.5, 2.5, 127.5}, kmeans.Pixel{0, 2, 2, 128}},
		{"Clamped", kmeans.Centroid{-3, 300, math.NaN(), 255.4}, kmeans.Pixel{0, 255, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []kmeans.Pixel{tt.expected}, Palette([]kmeans.Centroid{tt.centroid}))
		})
	}
}

func TestRemapUnchangedForPalettePixels(t *testing.T) {
	pix := []uint8{
		0, 0, 0, 255,
		0, 0, 0, 255,
		255, 255, 255, 255,
		255, 255, 255, 255,
	}
	centroids := []kmeans.Centroid{{0, 0, 0, 255}, {255, 255, 255, 255}}

	out, counts, err := RemapCounts(pix, centroids, Options{})
	require.NoError(t, err)
	assert.Equal(t, pix, out)
	assert.Equal(t, []int{2, 2}, counts)
}

func TestRemapNearest(t *testing.T) {
	pix := []uint8{
		10, 10, 10, 255,
		200, 190, 180, 250,
		120, 120, 120, 255,
	}
	centroids := []kmeans.Centroid{{0, 0, 0, 255}, {220.4, 200.6, 190, 254.5}}

	out, err := Remap(pix, centroids, Options{})
	require.NoError(t, err)
	assert.Equal(t, []uint8{
		0, 0, 0, 255,
		220, 201, 190, 254,
		220, 201, 190, 254,
	}, out)
}

func TestRemapDoesNotMutateInput(t *testing.T) {
	pix := []uint8{1, 2, 3, 4, 250, 251, 252, 253}
	orig := append([]uint8(nil), pix...)
	centroids := []kmeans.Centroid{{0, 0, 0, 0}, {255, 255, 255, 255}}

	_, err := Remap(pix, centroids, Options{})
	require.NoError(t, err)
	assert.Equal(t, orig, pix)
	assert.Equal(t, kmeans.Centroid{0, 0, 0, 0}, centroids[0])
}

func TestRemapIdempotent(t *testing.T) {
	pix := make([]uint8, 64*64*kmeans.Channels)
	for i := range pix {
		pix[i] = uint8(i * 31 % 256)
	}
	centroids := []kmeans.Centroid{{12.5, 40, 99.9, 255}, {200, 10, 30, 128}, {90, 90, 90, 0}}

	first, err := Remap(pix, centroids, Options{})
	require.NoError(t, err)
	second, err := Remap(pix, centroids, Options{})
	require.NoError(t, err)
	parallel, err := Remap(pix, centroids, Options{Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first, parallel)
}

func TestRemapIgnoreAlpha(t *testing.T) {
	pix := []uint8{0, 0, 0, 17}
	centroids := []kmeans.Centroid{{0, 0, 0, 255}, {10, 0, 0, 17}}

	out, err := Remap(pix, centroids, Options{})
	require.NoError(t, err)
	assert.Equal(t, []uint8{10, 0, 0, 17}, out)

	out, err = Remap(pix, centroids, Options{IgnoreAlpha: true})
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0, 0, 17}, out)
}

func TestRemapErrors(t *testing.T) {
	_, err := Remap([]uint8{1, 2, 3}, []kmeans.Centroid{{}}, Options{})
	assert.ErrorIs(t, err, ErrInvalidBuffer)
	assert.ErrorIs(t, err, kmeans.ErrInvalidBuffer)

	_, err = Remap([]uint8{1, 2, 3, 4}, nil, Options{})
	assert.ErrorIs(t, err, ErrEmptyPalette)
}

func TestRemapCountsSumToPixels(t *testing.T) {
	pix := make([]uint8, 100*100*kmeans.Channels)
	for i := range pix {
		pix[i] = uint8(i % 253)
	}
	centroids := []kmeans.Centroid{{0, 0, 0, 0}, {128, 128, 128, 128}, {255, 255, 255, 255}}

	_, counts, err := RemapCounts(pix, centroids, Options{Workers: 3})
	require.NoError(t, err)

	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, 100*100, total)
}
