package imageproc

import (
	"image"
	"image/color"
	"slices"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"cartoonify/internal/kmeans"
)

// PaletteEntry describes one palette color and how much of the output it
// covers.
type PaletteEntry struct {
	Index      int      `json:"index"`
	Color      [4]uint8 `json:"color"`
	Hex        string   `json:"hex"`
	Proportion float64  `json:"proportion"`
	Hue        float64  `json:"hue"`
	Saturation float64  `json:"saturation"`
	Lightness  float64  `json:"lightness"`
}

func toColorful(p kmeans.Pixel) colorful.Color {
	return colorful.Color{
		R: float64(p[0]) / 255.0,
		G: float64(p[1]) / 255.0,
		B: float64(p[2]) / 255.0,
	}
}

// AnalyzePalette describes each palette color, weighted by counts (pixels
// per palette index). Entries are sorted by proportion, largest first;
// equal proportions keep palette order.
func AnalyzePalette(palette []kmeans.Pixel, counts []int) []PaletteEntry {
	total := 0
	for _, n := range counts {
		total += n
	}

	entries := make([]PaletteEntry, len(palette))
	for i, p := range palette {
		col := toColorful(p)
		h, s, l := col.Hsl()

		entries[i] = PaletteEntry{
			Index:      i,
			Color:      p,
			Hex:        col.Hex(),
			Hue:        h,
			Saturation: s,
			Lightness:  l,
		}
		if total > 0 && i < len(counts) {
			entries[i].Proportion = float64(counts[i]) / float64(total)
		}
	}

	// Sort by proportion in descending order
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Proportion > entries[j].Proportion
	})
	return entries
}

// SortByBrightness returns the palette ordered from darkest to brightest
// by relative luminance.
func SortByBrightness(palette []kmeans.Pixel) []kmeans.Pixel {
	sorted := slices.Clone(palette)
	slices.SortStableFunc(sorted, func(a, b kmeans.Pixel) int {
		ya, yb := luminance(a), luminance(b)
		if ya < yb {
			return -1
		}
		if ya > yb {
			return 1
		}
		return 0
	})
	return sorted
}

func luminance(p kmeans.Pixel) float64 {
	r, g, b := toColorful(p).LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// Swatch renders the palette as a strip of tileSize x tileSize squares.
func Swatch(palette []kmeans.Pixel, tileSize int) *image.NRGBA {
	if tileSize <= 0 {
		tileSize = 64
	}

	img := image.NewNRGBA(image.Rect(0, 0, tileSize*len(palette), tileSize))
	for i, p := range palette {
		c := color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
		x0 := i * tileSize
		for y := 0; y < tileSize; y++ {
			for x := x0; x < x0+tileSize; x++ {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}
