package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// VideoInfo is the subset of ffprobe output needed to read raw frames.
type VideoInfo struct {
	Width     int
	Height    int
	Framerate float64
}

type probeOutput struct {
	Streams []struct {
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
}

// GetVideoInfo extracts width, height, and framerate from the video
func GetVideoInfo(ctx context.Context, videoURL string) (VideoInfo, error) {
	if err := lookPath("ffprobe"); err != nil {
		return VideoInfo{}, err
	}

	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,avg_frame_rate",
		"-of", "json",
		videoURL,
	}

	cmd := exec.CommandContext(ctx, "ffprobe", args...)
	output, err := cmd.Output()
	if err != nil {
		return VideoInfo{}, fmt.Errorf("ffprobe error: %w", err)
	}
	return parseProbe(output)
}

func parseProbe(output []byte) (VideoInfo, error) {
	var data probeOutput
	if err := json.Unmarshal(output, &data); err != nil {
		return VideoInfo{}, fmt.Errorf("error parsing ffprobe output: %w", err)
	}
	if len(data.Streams) == 0 {
		return VideoInfo{}, fmt.Errorf("no video streams found")
	}

	stream := data.Streams[0]
	if stream.Width <= 0 || stream.Height <= 0 {
		return VideoInfo{}, fmt.Errorf("invalid video size %dx%d", stream.Width, stream.Height)
	}

	framerate, err := parseFramerate(stream.AvgFrameRate)
	if err != nil {
		return VideoInfo{}, err
	}

	return VideoInfo{
		Width:     stream.Width,
		Height:    stream.Height,
		Framerate: framerate,
	}, nil
}

// parseFramerate parses values like "24000/1001" (~23.976) or "25".
func parseFramerate(s string) (float64, error) {
	num, den, isFraction := strings.Cut(s, "/")
	if !isFraction {
		rate, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid framerate: %w", err)
		}
		return rate, nil
	}

	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil {
		return 0, fmt.Errorf("invalid framerate format %q", s)
	}
	// ffprobe reports 0/0 for streams without a fixed rate.
	if d == 0 {
		return 0, nil
	}
	return n / d, nil
}

// ParseTimestamp converts time strings like "00:05:10" or "12.5" to seconds
func ParseTimestamp(timeStr string) (float64, error) {
	// Handle simple seconds format
	if seconds, err := strconv.ParseFloat(timeStr, 64); err == nil {
		return seconds, nil
	}

	// Handle "HH:MM:SS" format
	parts := strings.Split(timeStr, ":")
	if len(parts) == 3 {
		h, errH := strconv.ParseFloat(parts[0], 64)
		m, errM := strconv.ParseFloat(parts[1], 64)
		s, errS := strconv.ParseFloat(parts[2], 64)

		if errH == nil && errM == nil && errS == nil {
			return h*3600 + m*60 + s, nil
		}
	}

	return 0, fmt.Errorf("invalid time format: %s", timeStr)
}
