package imageproc

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

// Interpolation specifies the scaler used when resampling.
type Interpolation int

const (
	// InterpolationLinear uses bilinear interpolation. This is close to what
	// a browser canvas does when drawing a scaled image.
	InterpolationLinear Interpolation = iota

	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	InterpolationArea

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality.
	InterpolationNearest
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationArea:
		return "area"
	case InterpolationNearest:
		return "nearest"
	default:
		return "linear"
	}
}

// ParseInterpolation maps a flag value to an Interpolation.
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(s) {
	case "", "linear", "bilinear":
		return InterpolationLinear, nil
	case "area", "catmullrom":
		return InterpolationArea, nil
	case "nearest":
		return InterpolationNearest, nil
	default:
		return 0, fmt.Errorf("unknown interpolation %q", s)
	}
}

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case InterpolationArea:
		return draw.CatmullRom
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.BiLinear
	}
}

// Surface reads non-premultiplied RGBA pixels from a decoded image at any
// requested size.
type Surface struct {
	img    image.Image
	interp Interpolation
}

// NewSurface wraps img.
func NewSurface(img image.Image, interp Interpolation) *Surface {
	return &Surface{img: img, interp: interp}
}

// Size returns the native dimensions of the image.
func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Pixels draws the image onto a width x height surface and returns its
// row-major RGBA bytes.
func (s *Surface) Pixels(width, height int) ([]uint8, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	sr := s.img.Bounds()
	if sr.Dx() != width || sr.Dy() != height {
		s.interp.scaler().Scale(dst, dst.Bounds(), s.img, sr, draw.Src, nil)
		return dst.Pix, nil
	}

	// Convert pixel by pixel so straight alpha survives untouched.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(s.img.At(sr.Min.X+x, sr.Min.Y+y)).(color.NRGBA)
			dst.SetNRGBA(x, y, c)
		}
	}
	return dst.Pix, nil
}
