package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"cartoonify/internal/cartoonify"
	"cartoonify/internal/ffmpeg"
	"cartoonify/internal/imageproc"
	"cartoonify/internal/kmeans"
	"cartoonify/internal/sampler"
)

var videoExts = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".mov":  true,
	".webm": true,
	".avi":  true,
}

type job struct {
	input  string
	output string
}

type options struct {
	cfg       cartoonify.Config
	interp    imageproc.Interpolation
	frameAt   string
	palette   bool
	swatch    bool
	swatchPix int
}

func main() {
	// Define command line flags
	k := flag.Int("k", cartoonify.DefaultK, "Number of palette colors")
	maxPixels := flag.Int("max-pixels", sampler.DefaultMaxPixels, "Maximum number of pixels used for clustering")
	maxIterations := flag.Int("max-iterations", kmeans.DefaultMaxIterations, "Maximum number of k-means passes")
	seed := flag.Int64("seed", 0, "Seed for centroid selection")
	ignoreAlpha := flag.Bool("ignore-alpha", false, "Match colors on RGB only and keep source alpha")
	workers := flag.Int("workers", 0, "Goroutines per image (0 = one per CPU)")
	jobs := flag.Int("jobs", 2, "Number of images processed concurrently")
	interp := flag.String("interp", "linear", "Sampling interpolation: linear, area or nearest")
	output := flag.String("output", "", "Output file (single input only)")
	outputDir := flag.String("output-dir", ".", "Directory for outputs when -output is not set")
	paletteJSON := flag.Bool("palette", false, "Write a JSON palette report next to each output")
	swatch := flag.Bool("swatch", false, "Write a palette swatch PNG next to each output")
	frameAt := flag.String("frame-at", "", "Timestamp of the frame to use from video inputs (seconds or HH:MM:SS)")
	verbose := flag.Bool("v", false, "Log clustering details")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <image|video>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Validate required arguments
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintf(os.Stderr, "Error: at least one input is required\n")
		flag.Usage()
		os.Exit(1)
	}
	if *output != "" && len(inputs) > 1 {
		fmt.Fprintf(os.Stderr, "Error: -output only works with a single input, use -output-dir\n")
		os.Exit(1)
	}

	mode, err := imageproc.ParseInterpolation(*interp)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := cartoonify.DefaultConfig()
	cfg.K = *k
	cfg.MaxSamplePixels = *maxPixels
	cfg.MaxIterations = *maxIterations
	cfg.Seed = *seed
	cfg.IgnoreAlpha = *ignoreAlpha
	cfg.Workers = *workers
	cfg.Logger = logger
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Error: %v", err)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Error creating output directory: %v", err)
	}

	// Create a context that can be canceled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle termination signals
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalChan
		log.Println("Received termination signal, shutting down...")
		cancel()
	}()

	opts := options{
		cfg:       cfg,
		interp:    mode,
		frameAt:   *frameAt,
		palette:   *paletteJSON,
		swatch:    *swatch,
		swatchPix: 64,
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, *jobs))

	for _, in := range inputs {
		j := job{input: in, output: *output}
		if j.output == "" {
			j.output = defaultOutput(*outputDir, in)
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return process(gctx, j, opts)
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("Error processing images: %v", err)
	}
	log.Printf("Done. Processed %d input(s) in %s.", len(inputs), time.Since(start).Round(time.Millisecond))
}

func defaultOutput(dir, input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, base+"_cartoon.png")
}

func loadSource(ctx context.Context, path, frameAt string) (image.Image, error) {
	if videoExts[strings.ToLower(filepath.Ext(path))] {
		frame, err := ffmpeg.GrabFrame(ctx, ffmpeg.FrameOptions{
			URL:     path,
			At:      frameAt,
			Timeout: 2 * time.Minute,
		})
		if err != nil {
			return nil, err
		}
		return frame, nil
	}
	return imageproc.LoadImage(path)
}

func process(ctx context.Context, j job, opts options) error {
	img, err := loadSource(ctx, j.input, opts.frameAt)
	if err != nil {
		return err
	}

	cfg := opts.cfg
	if cfg.Logger != nil {
		cfg.Logger = cfg.Logger.With("input", j.input)
	}

	log.Printf("Cartoonifying %s (%dx%d) with %d colors", j.input, img.Bounds().Dx(), img.Bounds().Dy(), cfg.K)
	res, err := cartoonify.Run(imageproc.NewSurface(img, opts.interp), cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", j.input, err)
	}

	if err := imageproc.SaveImage(res.Image(), j.output); err != nil {
		return err
	}
	log.Printf("Wrote %s (%d iterations, converged=%t)", j.output, res.Iterations, res.Converged)

	stem := strings.TrimSuffix(j.output, filepath.Ext(j.output))
	if opts.palette {
		if err := writeReport(stem+".palette.json", imageproc.NewReport(j.input, res)); err != nil {
			return err
		}
	}
	if opts.swatch {
		sw := imageproc.Swatch(imageproc.SortByBrightness(res.Palette), opts.swatchPix)
		if err := imageproc.SaveImage(sw, stem+".swatch.png"); err != nil {
			return err
		}
	}
	return nil
}

func writeReport(path string, report imageproc.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("error creating JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing palette report: %w", err)
	}
	return nil
}
