// Package viz renders run summaries and trajectories for the terminal.
//
// Panels and labels are styled with lipgloss; time series are drawn with
// asciigraph:
//
//   - [Panel]: a titled box of aligned label/value rows
//   - [Plot]: one or more series on a shared axis
//   - [Sparkline]: a one-line overview of a series
package viz
