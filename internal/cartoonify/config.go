package cartoonify

import (
	"fmt"
	"log/slog"

	"cartoonify/internal/kmeans"
	"cartoonify/internal/sampler"
	"cartoonify/internal/worker"
)

// DefaultK is the palette size used when none is chosen.
const DefaultK = 5

// Config holds the parameters for one run.
type Config struct {
	// Palette size. Must be at least 1 and at most the sampled pixel count.
	K int
	// Maximum number of pixels used for clustering.
	MaxSamplePixels int
	// Clustering stops once the pass count exceeds this value.
	MaxIterations int
	// Starting state of the generator that picks centroids.
	Seed int64
	// Match colors on RGB only. Source alpha is kept in the output.
	IgnoreAlpha bool
	// Goroutines used for the assign and remap passes. 0 means one per CPU.
	Workers int
	// Optional. Nil discards log output.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used by the CLI.
func DefaultConfig() Config {
	return Config{
		K:               DefaultK,
		MaxSamplePixels: sampler.DefaultMaxPixels,
		MaxIterations:   kmeans.DefaultMaxIterations,
	}
}

// Validate checks the settings that do not depend on the image.
func (c Config) Validate() error {
	if c.K < 1 {
		return fmt.Errorf("%w: k=%d", ErrInvalidPaletteSize, c.K)
	}
	if c.MaxSamplePixels <= 0 {
		return fmt.Errorf("%w: max sample pixels %d", ErrInvalidConfig, c.MaxSamplePixels)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: max iterations %d", ErrInvalidConfig, c.MaxIterations)
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c Config) workers() int {
	return worker.Workers(c.Workers)
}

func (c Config) distanceChannels() int {
	if c.IgnoreAlpha {
		return kmeans.Channels - 1
	}
	return kmeans.Channels
}
