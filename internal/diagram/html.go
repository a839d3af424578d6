package diagram

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexiusacademia/gofd/internal/girder"
	"github.com/alexiusacademia/gofd/internal/model"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// connectorSeries is the legend entry shared by all connector segments
const connectorSeries = "Connectors"

// ExportPathHTML writes d as an interactive 3D page. The displacement
// axis is the vertical axis of the chart.
func ExportPathHTML(d *girder.PathDiagram, title, filename string) error {
	a, b := ground(d.Axis)
	point := func(p model.Vec3) opts.Chart3DData {
		return opts.Chart3DData{Value: []interface{}{p.Get(a), p.Get(b), p.Get(d.Axis)}}
	}
	polyline := func(pts []model.Vec3) []opts.Chart3DData {
		data := make([]opts.Chart3DData, len(pts))
		for i, p := range pts {
			data[i] = point(p)
		}
		return data
	}

	chart := charts.NewLine3D()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1000px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%s, scale %g", d.Kind.Pair, d.Kind.Scale)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: strings.ToUpper(a.String())}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: strings.ToUpper(b.String())}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: strings.ToUpper(d.Axis.String()) + " (extrusion)"}),
	)

	for _, o := range d.Overlays {
		chart.AddSeries(o.Group+" frame", polyline(o.Base))
		chart.AddSeries(o.Group, polyline(o.Displaced))
		for _, c := range o.Connectors {
			chart.AddSeries(connectorSeries, []opts.Chart3DData{point(c.From), point(c.To)})
		}
	}

	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer f.Close()

	if err := chart.Render(f); err != nil {
		return fmt.Errorf("failed to render %s: %w", filename, err)
	}
	return nil
}
