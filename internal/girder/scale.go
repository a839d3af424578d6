package girder

import "github.com/alexiusacademia/gofd/internal/model"

// minAutoForce is the magnitude below which forces are treated as zero
// when choosing an automatic scale.
const minAutoForce = 1e-7

// AutoScale returns the factor that draws the largest |force| of d as
// coef times the model span. It returns 1 when all forces are negligible.
func AutoScale(d *PathDiagram, m *model.Model, coef float64) float64 {
	maxAbs := d.MaxAbsForce()
	if maxAbs <= minAutoForce {
		return 1
	}
	return coef * m.Span() / maxAbs
}

// Rescale rebuilds the displaced paths and connectors of d for a new
// scale. Base paths and forces are reused as is.
func Rescale(d *PathDiagram, scale float64) PathDiagram {
	out := PathDiagram{Kind: d.Kind, Axis: d.Axis, Overlays: make([]Overlay, len(d.Overlays))}
	out.Kind.Scale = scale
	for i, o := range d.Overlays {
		displaced := Displace(o.Base, o.Forces, d.Axis, scale)
		o.Displaced = displaced
		o.Connectors = Connect(o.Base, displaced)
		out.Overlays[i] = o
	}
	return out
}
