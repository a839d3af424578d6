package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexiusacademia/gofd/internal/girder"
	"github.com/alexiusacademia/gofd/internal/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Canvas is the size of an exported image
type Canvas struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultCanvas is 8x6 inches
var DefaultCanvas = Canvas{Width: 8 * vg.Inch, Height: 6 * vg.Inch}

// Formats lists the supported image extensions
var Formats = []string{"png", "svg", "pdf"}

var (
	frameColor     = color.Gray{Y: 150}
	connectorColor = color.Gray{Y: 190}
	zeroColor      = color.Gray{Y: 128}
)

// Filename joins dir, base and format into an output path
func Filename(dir, base, format string) string {
	return filepath.Join(dir, base+"."+strings.TrimPrefix(format, "."))
}

// ExportLineSeries draws one series of a line diagram as a 2D plot with
// markers at every sample.
func ExportLineSeries(d *girder.LineDiagram, s girder.Series, title, filename string, c Canvas) error {
	if len(d.Stations) != len(s.Values) {
		return fmt.Errorf("%s: %d stations but %d values", s.Pair, len(d.Stations), len(s.Values))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = fmt.Sprintf("Station (%s)", d.Axis)
	p.Y.Label.Text = s.Pair.Quantity()
	p.Add(plotter.NewGrid())

	if len(d.Stations) > 0 {
		pts := make(plotter.XYs, len(d.Stations))
		for i := range d.Stations {
			pts[i] = plotter.XY{X: d.Stations[i], Y: s.Values[i]}
		}

		// Zero reference line
		zeroLine, err := plotter.NewLine(plotter.XYs{
			{X: d.Stations[0], Y: 0},
			{X: d.Stations[len(d.Stations)-1], Y: 0},
		})
		if err != nil {
			return err
		}
		zeroLine.LineStyle.Width = vg.Points(1)
		zeroLine.LineStyle.Color = zeroColor
		zeroLine.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
		p.Add(zeroLine)

		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = plotutil.Color(0)
		p.Add(line)

		markers, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		markers.GlyphStyle.Color = plotutil.Color(0)
		markers.GlyphStyle.Radius = vg.Points(3)
		markers.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(markers)

		p.Legend.Add(s.Pair.String(), line, markers)
		p.Legend.Top = true
	}

	return save(p, c, filename)
}

// ExportPathDiagram draws every overlay of a path diagram in an
// orthographic projection: the undisplaced frame, the displaced polyline
// with node markers, and connectors between them.
func ExportPathDiagram(d *girder.PathDiagram, title string, view View, filename string, c Canvas) error {
	p := plot.New()
	p.Title.Text = title
	p.HideAxes()

	var all plotter.XYs
	for i, o := range d.Overlays {
		base := view.ProjectAll(o.Base)
		displaced := view.ProjectAll(o.Displaced)
		all = append(all, base...)
		all = append(all, displaced...)

		frame, err := plotter.NewLine(base)
		if err != nil {
			return fmt.Errorf("%s: %w", o.Group, err)
		}
		frame.LineStyle.Width = vg.Points(1)
		frame.LineStyle.Color = frameColor
		p.Add(frame)

		for _, seg := range o.Connectors {
			conn, err := plotter.NewLine(plotter.XYs{view.Project(seg.From), view.Project(seg.To)})
			if err != nil {
				return fmt.Errorf("%s: %w", o.Group, err)
			}
			conn.LineStyle.Width = vg.Points(0.5)
			conn.LineStyle.Color = connectorColor
			p.Add(conn)
		}

		line, err := plotter.NewLine(displaced)
		if err != nil {
			return fmt.Errorf("%s: %w", o.Group, err)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)

		markers, err := plotter.NewScatter(displaced)
		if err != nil {
			return fmt.Errorf("%s: %w", o.Group, err)
		}
		markers.GlyphStyle.Color = plotutil.Color(i)
		markers.GlyphStyle.Radius = vg.Points(2.5)
		markers.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(markers)

		p.Legend.Add(o.Group, line, markers)
	}

	if len(all) > 0 {
		if err := addAxisTriad(p, view, d.Axis, all); err != nil {
			return err
		}
	}
	p.Legend.Top = true

	return save(p, c, filename)
}

// addAxisTriad draws labelled X, Y and Z arrows next to the drawing
func addAxisTriad(p *plot.Plot, view View, displacement model.Axis, pts plotter.XYs) error {
	xmin, xmax, ymin, ymax := plotter.XYRange(pts)
	size := 0.08 * max(xmax-xmin, ymax-ymin)
	if size == 0 {
		size = 1
	}
	origin := plotter.XY{X: xmin - 2*size, Y: ymin - 2*size}
	zero := view.Project(model.Vec3{})

	var labels plotter.XYLabels
	for _, axis := range []model.Axis{model.AxisX, model.AxisY, model.AxisZ} {
		tip := view.Project(model.Vec3{}.With(axis, 1))
		end := plotter.XY{X: origin.X + size*(tip.X-zero.X), Y: origin.Y + size*(tip.Y-zero.Y)}

		arrow, err := plotter.NewLine(plotter.XYs{origin, end})
		if err != nil {
			return err
		}
		arrow.LineStyle.Color = color.Black
		p.Add(arrow)

		name := strings.ToUpper(axis.String())
		if axis == displacement {
			name += " (extrusion)"
		}
		labels.XYs = append(labels.XYs, end)
		labels.Labels = append(labels.Labels, name)
	}

	l, err := plotter.NewLabels(labels)
	if err != nil {
		return err
	}
	p.Add(l)
	return nil
}

// save writes the plot, choosing the encoder from the file extension.
// Unknown extensions fall back to png.
func save(p *plot.Plot, c Canvas, filename string) error {
	if c.Width == 0 || c.Height == 0 {
		c = DefaultCanvas
	}

	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
		return p.Save(c.Width, c.Height, filename)
	default:
		return p.Save(c.Width, c.Height, filename+".png")
	}
}
