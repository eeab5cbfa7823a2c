package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/conflictsim/internal/aggregate"
	"github.com/san-kum/conflictsim/internal/montecarlo"
	"github.com/san-kum/conflictsim/internal/sim"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 12
)

// Outcome renders how a single trial ended.
func Outcome(title string, o sim.Outcome) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(title) + "\n")
	s.WriteString(labelStyle.Render("winner") + winnerStyle.Render(o.Winner) + "\n")
	s.WriteString(row("reason", string(o.Reason)))
	s.WriteString(row("length", fmt.Sprintf("%d days (%.2f years)", o.Length, o.Years())))
	return panelStyle.Render(s.String())
}

// Metrics renders metric values in name order.
func Metrics(values map[string]float64) string {
	if len(values) == 0 {
		return ""
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var s strings.Builder
	s.WriteString(headerStyle.Render("metrics") + "\n")
	for _, name := range names {
		s.WriteString(row(name, fmt.Sprintf("%.4g", values[name])))
	}
	return panelStyle.Render(s.String())
}

// Summary renders the distribution of outcomes over an ensemble.
func Summary(title string, sum montecarlo.Summary) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(title) + "\n")
	s.WriteString(row("trials", humanize.Comma(int64(sum.Trials))))
	if sum.Failed > 0 {
		s.WriteString(row("failed", humanize.Comma(int64(sum.Failed))))
	}
	if sum.Trials == 0 {
		s.WriteString(mutedStyle.Render("no completed trials") + "\n")
		return panelStyle.Render(s.String())
	}
	s.WriteString(row("mean length", fmt.Sprintf("%.1f days (%.2f years)", sum.MeanLength, sum.MeanYears)))
	s.WriteString(row("std length", fmt.Sprintf("%.1f days", sum.StdLength)))
	s.WriteString(row("range", fmt.Sprintf("%d to %d days", sum.MinLength, sum.MaxLength)))
	s.WriteString(labelStyle.Render("modal winner") + winnerStyle.Render(sum.ModalWinner) + "\n")
	s.WriteString(row("inconclusive", humanize.Comma(int64(sum.Inconclusive))))

	winners := make([]string, 0, len(sum.Wins))
	for w := range sum.Wins {
		winners = append(winners, w)
	}
	sort.Strings(winners)
	for _, w := range winners {
		share := 100 * float64(sum.Wins[w]) / float64(sum.Trials)
		s.WriteString(row("  "+w, fmt.Sprintf("%s (%.1f%%)", humanize.Comma(int64(sum.Wins[w])), share)))

		reasons := make([]string, 0, len(sum.Reasons[w]))
		for r := range sum.Reasons[w] {
			reasons = append(reasons, string(r))
		}
		sort.Strings(reasons)
		for _, r := range reasons {
			if sim.Reason(r) == sim.ReasonNone {
				continue
			}
			s.WriteString(mutedStyle.Render(fmt.Sprintf("      %s: %d", r, sum.Reasons[w][sim.Reason(r)])) + "\n")
		}
	}
	return panelStyle.Render(s.String())
}

// Series plots one per-day series.
func Series(caption string, data []float64, width, height int) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// Bands plots the lower bound, mean and upper bound of a confidence band.
func Bands(caption string, b aggregate.Bands, width, height int) string {
	if b.Len() == 0 {
		return ""
	}
	return asciigraph.PlotMany([][]float64{b.Lower, b.Mean, b.Upper},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.DarkGray, asciigraph.Green, asciigraph.DarkGray),
		asciigraph.Caption(caption+" (mean with confidence band)"),
	)
}
