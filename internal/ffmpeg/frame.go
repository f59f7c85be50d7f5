// Package ffmpeg grabs still frames from video files by shelling out to
// ffmpeg and ffprobe.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"time"

	"cartoonify/internal/cartoonify"
)

// FrameOptions selects the frame to grab.
type FrameOptions struct {
	URL string
	// At is a timestamp in seconds or HH:MM:SS. Empty means the first frame.
	At string
	// Timeout bounds the whole grab. Zero means no timeout.
	Timeout time.Duration
}

func lookPath(bin string) error {
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("%w: %s not found in $PATH: %w", cartoonify.ErrUnsupportedEnvironment, bin, err)
	}
	return nil
}

// frameArgs disables autorotation so the frame keeps the coded size that
// ffprobe reports.
func frameArgs(opts FrameOptions) []string {
	args := []string{"-v", "error", "-noautorotate"}
	if opts.At != "" {
		args = append(args, "-ss", opts.At)
	}
	return append(args,
		"-i", opts.URL,
		"-frames:v", "1",
		"-an",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"pipe:1",
	)
}

// GrabFrame decodes a single frame of the video as straight-alpha RGBA.
func GrabFrame(ctx context.Context, opts FrameOptions) (*image.NRGBA, error) {
	if opts.At != "" {
		if _, err := ParseTimestamp(opts.At); err != nil {
			return nil, err
		}
	}
	if err := lookPath("ffmpeg"); err != nil {
		return nil, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	info, err := GetVideoInfo(ctx, opts.URL)
	if err != nil {
		return nil, fmt.Errorf("error getting video info: %w", err)
	}
	frameSize := info.Width * info.Height * 4

	cmd := exec.CommandContext(ctx, "ffmpeg", frameArgs(opts)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	// Read exactly one frame, then drain so ffmpeg can exit.
	pix := make([]byte, frameSize)
	n, readErr := io.ReadFull(stdout, pix)
	_, _ = io.Copy(io.Discard, stdout)
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("ffmpeg process canceled or timed out: %w", ctx.Err())
	}
	if waitErr != nil {
		return nil, fmt.Errorf("ffmpeg error: %w - stderr: %s", waitErr, stderr.String())
	}
	if readErr != nil {
		return nil, fmt.Errorf("short frame: got %d of %d bytes: %w", n, frameSize, readErr)
	}

	return &image.NRGBA{
		Pix:    pix,
		Stride: info.Width * 4,
		Rect:   image.Rect(0, 0, info.Width, info.Height),
	}, nil
}
