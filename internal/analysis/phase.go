package analysis

import (
	"strings"

	"github.com/san-kum/diatomic/internal/dynamo"
)

// Point is one (r, v) phase space sample.
type Point struct{ X, Y float64 }

// PhasePortrait holds the phase space trajectory of a run.
type PhasePortrait struct {
	Points []Point
}

// NewPhasePortrait collects the (r, v) pairs of traj.
func NewPhasePortrait(traj *dynamo.Trajectory) *PhasePortrait {
	p := &PhasePortrait{Points: make([]Point, len(traj.States))}
	for i, s := range traj.States {
		p.Points[i] = Point{X: s.R, Y: s.V}
	}
	return p
}

// ASCII renders the portrait on a width×height character grid with axes
// through (xOrigin, 0) when they are in view.
func (p *PhasePortrait) ASCII(width, height int, xOrigin float64) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	// 10% padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= xOrigin && maxX >= xOrigin {
		col := int((xOrigin - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Crossings returns the interpolated times at which r passes upward through
// threshold.
func Crossings(traj *dynamo.Trajectory, threshold float64) []float64 {
	var times []float64
	for i := 1; i < traj.Len(); i++ {
		prev, curr := traj.States[i-1].R, traj.States[i].R
		if prev < threshold && curr >= threshold {
			frac := (threshold - prev) / (curr - prev)
			times = append(times, traj.Times[i-1]+frac*(traj.Times[i]-traj.Times[i-1]))
		}
	}
	return times
}

// MeanPeriod is the mean spacing of upward crossings of threshold, or 0 when
// fewer than two crossings occur.
func MeanPeriod(traj *dynamo.Trajectory, threshold float64) float64 {
	c := Crossings(traj, threshold)
	if len(c) < 2 {
		return 0
	}
	return (c[len(c)-1] - c[0]) / float64(len(c)-1)
}
