// Package export renders lattices and stored series as standalone SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/spinlab/internal/lattice"
	"github.com/san-kum/spinlab/internal/stats"
)

const (
	background = "#0a0a0a"
	upColor    = "#f5f5f5"
	bandColor  = "#1f4f7f"
)

// LatticeToSVG draws one square of side scale per up spin on a dark
// background; down spins are left unpainted.
func LatticeToSVG(l *lattice.Lattice, scale float64) string {
	if l == nil || scale <= 0 {
		return ""
	}

	n := l.Size()
	side := float64(n) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s">
`, side, side, side, side, background, upColor)

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if l.At(x, y) != 1 {
				continue
			}
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>
`, float64(x)*scale, float64(y)*scale, scale, scale)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots the mean as a line over a mean ± stddev band.
func SeriesToSVG(series stats.Series, width, height int, strokeColor string) string {
	if len(series.Means) < 2 || len(series.Stddevs) != len(series.Means) {
		return ""
	}

	minY, maxY := series.Means[0], series.Means[0]
	for i, m := range series.Means {
		minY = min(minY, m-series.Stddevs[i])
		maxY = max(maxY, m+series.Stddevs[i])
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	last := float64(len(series.Means) - 1)
	px := func(t int) float64 { return float64(t) / last * float64(width) }
	py := func(v float64) float64 { return float64(height) - (v-minY)/rangeY*float64(height) }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	fmt.Fprintf(&sb, `<path fill="%s" stroke="none" d="M`, bandColor)
	for t, m := range series.Means {
		if t > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", px(t), py(m+series.Stddevs[t]))
	}
	for t := len(series.Means) - 1; t >= 0; t-- {
		fmt.Fprintf(&sb, " L%.1f,%.1f", px(t), py(series.Means[t]-series.Stddevs[t]))
	}
	sb.WriteString(" Z\"/>\n")

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for t, m := range series.Means {
		if t > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", px(t), py(m))
	}
	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}
