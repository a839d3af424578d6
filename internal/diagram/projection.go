package diagram

import (
	"math"

	"github.com/alexiusacademia/gofd/internal/model"
	"gonum.org/v1/plot/plotter"
)

// View is an orthographic camera looking at the model. Up is drawn
// vertically; the remaining two axes form the ground plane, rotated by
// Azimuth about Up and tilted towards the viewer by Elevation.
type View struct {
	Azimuth   float64 // degrees
	Elevation float64 // degrees
	Up        model.Axis
}

// DefaultView looks at the deck from the front-left, slightly from above
var DefaultView = View{Azimuth: -60, Elevation: 25, Up: model.AxisY}

// ground returns the two axes spanning the plane perpendicular to up,
// in right-handed order.
func ground(up model.Axis) (model.Axis, model.Axis) {
	switch up {
	case model.AxisX:
		return model.AxisY, model.AxisZ
	case model.AxisY:
		return model.AxisZ, model.AxisX
	default:
		return model.AxisX, model.AxisY
	}
}

// Project maps a model point to 2D drawing coordinates
func (v View) Project(p model.Vec3) plotter.XY {
	a, b := ground(v.Up)
	az := v.Azimuth * math.Pi / 180
	el := v.Elevation * math.Pi / 180

	pa, pb, pu := p.Get(a), p.Get(b), p.Get(v.Up)

	across := pa*math.Cos(az) - pb*math.Sin(az)
	depth := pa*math.Sin(az) + pb*math.Cos(az)

	return plotter.XY{
		X: across,
		Y: pu*math.Cos(el) + depth*math.Sin(el),
	}
}

// ProjectAll projects a polyline
func (v View) ProjectAll(pts []model.Vec3) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, p := range pts {
		out[i] = v.Project(p)
	}
	return out
}
