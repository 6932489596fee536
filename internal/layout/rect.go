// Package layout provides the rectangle type shared by the virtual page and the route engine.
package layout

import "github.com/gogpu/gg"

// Rect is an axis-aligned rectangle in CSS pixel space.
// Top grows downwards, matching DOM bounding rectangles.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// NewRect creates a rectangle from its two corners.
func NewRect(x1, y1, x2, y2 float64) Rect {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Rect{Left: x1, Top: y1, Width: x2 - x1, Height: y2 - y1}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.Left + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() gg.Point {
	return gg.Pt(r.Left+r.Width/2, r.Top+r.Height/2)
}

// Origin returns the top-left corner.
func (r Rect) Origin() gg.Point {
	return gg.Pt(r.Left, r.Top)
}

// Offset returns the rectangle moved by dx, dy.
func (r Rect) Offset(dx, dy float64) Rect {
	r.Left += dx
	r.Top += dy
	return r
}

// IntersectsViewport reports whether any part of the rectangle lies within a viewport of the
// given height. Touching an edge counts as intersecting.
func (r Rect) IntersectsViewport(viewportHeight float64) bool {
	return r.Bottom() >= 0 && r.Top <= viewportHeight
}
