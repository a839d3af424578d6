// Package diagram renders line and path diagrams as images, terminal
// graphs and workbooks.
package diagram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alexiusacademia/gofd/internal/girder"
	"github.com/guptarohit/asciigraph"
)

// Terminal graph size in characters
const (
	graphWidth  = 60
	graphHeight = 12
)

// DrawLineGraph renders one series of a line diagram as a terminal graph.
// Samples are spaced evenly; stations are listed in the caption range.
func DrawLineGraph(d *girder.LineDiagram, s girder.Series, title string) string {
	if len(s.Values) == 0 {
		return fmt.Sprintf("\n  %s: no samples\n", title)
	}

	caption := fmt.Sprintf("%s  %s  station %.3g..%.3g",
		title, s.Pair, d.Stations[0], d.Stations[len(d.Stations)-1])

	graph := asciigraph.Plot(s.Values,
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Precision(2),
		asciigraph.Caption(caption),
	)
	return "\n" + graph + "\n"
}

// DrawPathGraph renders the node forces of every overlay, one series per
// group, as a terminal graph.
func DrawPathGraph(d *girder.PathDiagram, title string) string {
	var series [][]float64
	var names []string
	for _, o := range d.Overlays {
		if len(o.Forces) == 0 {
			continue
		}
		series = append(series, o.Forces)
		names = append(names, o.Group)
	}
	if len(series) == 0 {
		return fmt.Sprintf("\n  %s: no samples\n", title)
	}

	colors := make([]asciigraph.AnsiColor, len(series))
	palette := []asciigraph.AnsiColor{
		asciigraph.Blue, asciigraph.Red, asciigraph.Green, asciigraph.Yellow, asciigraph.Magenta, asciigraph.Cyan,
	}
	for i := range colors {
		colors[i] = palette[i%len(palette)]
	}

	graph := asciigraph.PlotMany(series,
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(fmt.Sprintf("%s  %s  [%s]", title, d.Kind.Pair, strings.Join(names, ", "))),
	)
	return "\n" + graph + "\n"
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	width := utf8.RuneCountInString(title)
	for _, line := range lines {
		width = max(width, utf8.RuneCountInString(line))
	}
	width += 4

	pad := func(s string) string {
		return s + strings.Repeat(" ", width-2-utf8.RuneCountInString(s))
	}

	border := strings.Repeat("═", width)
	fmt.Fprintf(&sb, "  ╔%s╗\n", border)
	fmt.Fprintf(&sb, "  ║  %s║\n", pad(title))
	fmt.Fprintf(&sb, "  ╠%s╣\n", border)
	for _, line := range lines {
		fmt.Fprintf(&sb, "  ║  %s║\n", pad(line))
	}
	fmt.Fprintf(&sb, "  ╚%s╝\n", border)

	return sb.String()
}
