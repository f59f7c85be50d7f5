package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartoonify/internal/cartoonify"
	"cartoonify/internal/kmeans"
)

func uniformImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestSurfaceNativeSize(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	img.SetNRGBA(1, 0, color.NRGBA{R: 5, G: 6, B: 7, A: 255})

	s := NewSurface(img, InterpolationLinear)
	w, h := s.Size()
	assert.Equal(t, 2, w)
	assert.Equal(t, 1, h)

	pix, err := s.Pixels(w, h)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2, 3, 4, 5, 6, 7, 255}, pix)
}

func TestSurfaceOffsetBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 20, 12, 21))
	img.SetNRGBA(10, 20, color.NRGBA{R: 9, A: 255})
	img.SetNRGBA(11, 20, color.NRGBA{G: 9, A: 255})

	pix, err := NewSurface(img, InterpolationLinear).Pixels(2, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint8{9, 0, 0, 255, 0, 9, 0, 255}, pix)
}

func TestSurfaceResample(t *testing.T) {
	c := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	img := uniformImage(40, 30, c)

	pix, err := NewSurface(img, InterpolationNearest).Pixels(8, 6)
	require.NoError(t, err)
	require.Len(t, pix, 8*6*4)
	for i := 0; i < len(pix); i += 4 {
		require.Equal(t, []uint8{10, 20, 30, 255}, pix[i:i+4])
	}

	pix, err = NewSurface(img, InterpolationLinear).Pixels(8, 6)
	require.NoError(t, err)
	require.Len(t, pix, 8*6*4)
	for i := 0; i < len(pix); i += 4 {
		assert.InDelta(t, 10, int(pix[i]), 1)
		assert.Equal(t, uint8(255), pix[i+3])
	}

	_, err = NewSurface(img, InterpolationLinear).Pixels(0, 6)
	assert.Error(t, err)
}

func TestParseInterpolation(t *testing.T) {
	tests := []struct {
		in   string
		want Interpolation
	}{
		{"", InterpolationLinear},
		{"linear", InterpolationLinear},
		{"Area", InterpolationArea},
		{"nearest", InterpolationNearest},
	}
	for _, tt := range tests {
		got, err := ParseInterpolation(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseInterpolation("lanczos")
	assert.Error(t, err)
	assert.Equal(t, "area", InterpolationArea.String())
}

func TestDecodeUnsupported(t *testing.T) {
	_, _, err := Decode(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.ErrorIs(t, err, cartoonify.ErrUnsupportedEnvironment)

	path := filepath.Join(t.TempDir(), "notes.png")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))
	_, err = LoadImage(path)
	assert.ErrorIs(t, err, cartoonify.ErrUnsupportedEnvironment)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	img := uniformImage(3, 2, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	require.NoError(t, SaveImage(img, path))

	loaded, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), loaded.Bounds())
	r, g, b, a := loaded.At(1, 1).RGBA()
	assert.Equal(t, []uint32{200, 100, 50, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})

	_, err = LoadImage(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeFormats(t *testing.T) {
	img := uniformImage(4, 4, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	for _, format := range []string{"png", "jpeg", "gif"} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, img, format))

		_, got, err := Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, format, got)
	}
}


func TestAnalyzePalette(t *testing.T) {
	palette := []kmeans.Pixel{{255, 0, 0, 255}, {0, 0, 0, 255}, {255, 255, 255, 255}}
	entries := AnalyzePalette(palette, []int{1, 6, 3})

	require.Len(t, entries, 3)
	assert.Equal(t, []int{1, 2, 0}, []int{entries[0].Index, entries[1].Index, entries[2].Index})
	assert.InDelta(t, 0.6, entries[0].Proportion, 1e-9)
	assert.Equal(t, "#000000", entries[0].Hex)
	assert.Equal(t, "#ff0000", entries[2].Hex)
	assert.InDelta(t, 1.0, entries[2].Saturation, 1e-9)
	assert.InDelta(t, 0.5, entries[2].Lightness, 1e-9)
	assert.InDelta(t, 1.0, entries[1].Lightness, 1e-9)
}

func TestAnalyzePaletteWithoutCounts(t *testing.T) {
	entries := AnalyzePalette([]kmeans.Pixel{{1, 1, 1, 255}, {2, 2, 2, 255}}, nil)
	require.Len(t, entries, 2)
	assert.Equal(t, 0, entries[0].Index)
	assert.Zero(t, entries[0].Proportion)
}

func TestSortByBrightness(t *testing.T) {
	palette := []kmeans.Pixel{{255, 255, 255, 255}, {0, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}}
	sorted := SortByBrightness(palette)

	assert.Equal(t, []kmeans.Pixel{{0, 0, 0, 255}, {0, 0, 255, 255}, {0, 255, 0, 255}, {255, 255, 255, 255}}, sorted)
	assert.Equal(t, kmeans.Pixel{255, 255, 255, 255}, palette[0])
}

func TestSwatch(t *testing.T) {
	img := Swatch([]kmeans.Pixel{{1, 2, 3, 255}, {4, 5, 6, 255}}, 8)
	assert.Equal(t, image.Rect(0, 0, 16, 8), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 4, G: 5, B: 6, A: 255}, img.NRGBAAt(12, 7))
}

func TestNewReport(t *testing.T) {
	res := &cartoonify.Result{
		Width:        4,
		Height:       2,
		SampleWidth:  4,
		SampleHeight: 2,
		Palette:      []kmeans.Pixel{{0, 0, 0, 255}, {255, 255, 255, 255}},
		Counts:       []int{2, 6},
		Iterations:   3,
		Converged:    true,
	}

	report := NewReport("in.png", res)
	assert.Equal(t, "in.png", report.Input)
	assert.Equal(t, 2, report.K)
	assert.Equal(t, 3, report.Iterations)
	require.Len(t, report.Palette, 2)
	assert.Equal(t, "#ffffff", report.Palette[0].Hex)
	assert.InDelta(t, 0.75, report.Palette[0].Proportion, 1e-9)
}
