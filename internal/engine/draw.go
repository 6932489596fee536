package engine

import (
	"github.com/gogpu/gg"
)

// drawLocked repaints the bound surface. Must be called with mu held.
func (e *Engine) drawLocked() {
	if e.surface == nil {
		return
	}
	routes := e.computeLocked(e.surfaceOriginLocked())
	e.surface.ReplaceContent(e.markup(routes))
	e.frames++
}

func (e *Engine) surfaceOriginLocked() gg.Point {
	if e.surface == nil {
		return gg.Pt(0, 0)
	}
	return e.surface.BoundingClientRect().Origin()
}

// computeLocked resolves every edge into a route in the coordinate space whose origin is
// the given viewport point. Must be called with mu held.
func (e *Engine) computeLocked(origin gg.Point) []Route {
	viewportHeight := e.host.ViewportHeight()

	routes := make([]Route, 0, len(e.edges))
	for _, edge := range e.edges {
		from, okFrom := e.nodes[edge.A]
		to, okTo := e.nodes[edge.B]
		if !okFrom || !okTo {
			continue
		}

		fromRect := from.BoundingClientRect()
		toRect := to.BoundingClientRect()
		if !fromRect.IntersectsViewport(viewportHeight) && !toRect.IntersectsViewport(viewportHeight) {
			continue
		}

		p0 := fromRect.Center().Sub(origin)
		p2 := toRect.Center().Sub(origin)
		if p0.Distance(p2) > e.maxDistance {
			e.logger.Debug("skipping long route", "edge", edge.String(), "distance", p0.Distance(p2))
			continue
		}

		routes = append(routes, Route{
			Edge:  edge,
			Curve: gg.NewQuadBez(p0, ControlPoint(p0, p2, e.curveOffset), p2),
			Pulse: !e.reducedMotion,
		})
	}
	return routes
}

// ControlPoint returns the quadratic control point for a connector from p0 to p2.
// It sits offset units from the chord midpoint along the chord direction rotated by 90
// degrees, so every connector bows to the same side of its direction of travel.
// A zero-length chord is treated as having length 1.
func ControlPoint(p0, p2 gg.Point, offset float64) gg.Point {
	mid := p0.Lerp(p2, 0.5)
	d := p2.Sub(p0)
	norm := d.Length()
	if norm == 0 {
		norm = 1
	}
	return gg.Pt(mid.X-d.Y/norm*offset, mid.Y+d.X/norm*offset)
}
