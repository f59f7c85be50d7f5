package cartoonify

import (
	"errors"

	"cartoonify/internal/kmeans"
)

var (
	// ErrUnsupportedEnvironment is returned when the collaborator needed to
	// read pixels is missing. No clustering is attempted.
	ErrUnsupportedEnvironment = errors.New("unsupported environment")
	// ErrInvalidPaletteSize is returned when k is not in [1, dataset length].
	ErrInvalidPaletteSize = kmeans.ErrInvalidK
	// ErrEmptyDataset is returned when the image yields no pixels.
	ErrEmptyDataset = kmeans.ErrEmptyDataset
	// ErrInvalidConfig is returned for an unusable sampling budget or
	// iteration cap.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInvalidBuffer is returned when a Surface hands back a buffer whose
	// length does not match the requested size.
	ErrInvalidBuffer = kmeans.ErrInvalidBuffer
)
