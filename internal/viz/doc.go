// Package viz renders simulation results for the terminal.
//
// Outcomes, metrics and ensemble summaries are laid out as label/value
// tables styled with lipgloss. Time series and confidence bands are drawn
// with asciigraph:
//
//   - [Outcome] and [Metrics]: a single trial
//   - [Summary]: the distribution of outcomes over an ensemble
//   - [Series] and [Bands]: per-day plots
package viz
