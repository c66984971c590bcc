package viz

import (
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Series is a named sequence of values.
type Series struct {
	Name   string
	Values []float64
}

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Red,
	asciigraph.Blue,
	asciigraph.Green,
	asciigraph.Yellow,
}

// PlotOptions sizes a plot. Zero values use 80x12.
type PlotOptions struct {
	Width  int
	Height int
	// Points downsamples every series to at most this many values; zero
	// keeps Width points.
	Points int
}

// Plot draws all series on a shared axis. The caption lists the series
// names in drawing order.
func Plot(caption string, series []Series, opts PlotOptions) string {
	if len(series) == 0 {
		return ""
	}
	if opts.Width == 0 {
		opts.Width = 80
	}
	if opts.Height == 0 {
		opts.Height = 12
	}
	if opts.Points == 0 {
		opts.Points = opts.Width
	}

	data := make([][]float64, len(series))
	names := make([]string, len(series))
	colors := make([]asciigraph.AnsiColor, len(series))
	for i, s := range series {
		data[i] = Downsample(s.Values, opts.Points)
		names[i] = s.Name
		colors[i] = seriesColors[i%len(seriesColors)]
	}

	if len(series) > 1 {
		caption += " (" + strings.Join(names, ", ") + ")"
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)
}

// Downsample keeps at most n evenly spaced values, always including the
// first.
func Downsample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	step := float64(len(values)-1) / float64(n-1)
	for i := range out {
		out[i] = values[int(float64(i)*step+0.5)]
	}
	return out
}
