package imageproc

import "cartoonify/internal/cartoonify"

// Report summarizes a run for JSON output.
type Report struct {
	Input        string         `json:"input,omitempty"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	SampleWidth  int            `json:"sample_width"`
	SampleHeight int            `json:"sample_height"`
	K            int            `json:"k"`
	Iterations   int            `json:"iterations"`
	Converged    bool           `json:"converged"`
	Palette      []PaletteEntry `json:"palette"`
}

// NewReport builds a report from a finished run.
func NewReport(input string, res *cartoonify.Result) Report {
	return Report{
		Input:        input,
		Width:        res.Width,
		Height:       res.Height,
		SampleWidth:  res.SampleWidth,
		SampleHeight: res.SampleHeight,
		K:            len(res.Palette),
		Iterations:   res.Iterations,
		Converged:    res.Converged,
		Palette:      AnalyzePalette(res.Palette, res.Counts),
	}
}
