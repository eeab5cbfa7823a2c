package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/conflictsim/internal/aggregate"
)

// Layer is one side's confidence band on a chart.
type Layer struct {
	Name  string
	Bands aggregate.Bands
	Color string
}

// BandsToSVG draws each layer as a shaded band between its lower and upper
// bounds with the mean as a line on top. Day 0 is at the left edge and all
// layers share the y axis.
func BandsToSVG(layers []Layer, width, height int) string {
	days := 0
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, l := range layers {
		days = max(days, l.Bands.Len())
		for i := 0; i < l.Bands.Len(); i++ {
			minY = math.Min(minY, l.Bands.Lower[i])
			maxY = math.Max(maxY, l.Bands.Upper[i])
		}
	}
	if days < 2 {
		return ""
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeY = maxY - minY

	x := func(i int) float64 { return float64(i) / float64(days-1) * float64(width) }
	y := func(v float64) float64 { return float64(height) - (v-minY)/rangeY*float64(height) }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, l := range layers {
		n := l.Bands.Len()
		if n < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf("<g id=%q>\n", l.Name))

		sb.WriteString(fmt.Sprintf(`<path fill="%s" fill-opacity="0.25" stroke="none" d="M`, l.Color))
		for i := 0; i < n; i++ {
			if i > 0 {
				sb.WriteString(" L")
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x(i), y(l.Bands.Upper[i])))
		}
		for i := n - 1; i >= 0; i-- {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x(i), y(l.Bands.Lower[i])))
		}
		sb.WriteString(" Z\"/>\n")

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, l.Color))
		for i := 0; i < n; i++ {
			if i > 0 {
				sb.WriteString(" L")
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x(i), y(l.Bands.Mean[i])))
		}
		sb.WriteString("\"/>\n</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
