package engine

import (
	"time"

	"github.com/gogpu/gg"
)

// Defaults for route geometry.
const (
	// DefaultMaxDistance is the longest connector drawn, in surface units.
	// Longer ones usually come from a layout caught mid-resize.
	DefaultMaxDistance = 940.0

	// DefaultCurveOffset is how far the control point sits from the chord midpoint
	DefaultCurveOffset = 20.0

	// DefaultPulseDuration is the period of the marker travelling along each route
	DefaultPulseDuration = 6800 * time.Millisecond
)

// Edge is a declared connection between two anchor identifiers.
type Edge struct {
	A string
	B string
}

// Key returns the de-duplication key of the edge.
// The pair is sorted so that (a, b) and (b, a) collide.
func (e Edge) Key() string {
	if e.B < e.A {
		return e.B + "->" + e.A
	}
	return e.A + "->" + e.B
}

// String returns the edge in declared orientation.
func (e Edge) String() string {
	return e.A + "->" + e.B
}

// Route is one drawable connector computed by a redraw.
type Route struct {
	Edge  Edge
	Curve gg.QuadBez
	// Pulse is set when a travelling marker is attached
	Pulse bool
}

// Start returns the surface-local center of the first anchor.
func (r Route) Start() gg.Point {
	return r.Curve.P0
}

// End returns the surface-local center of the second anchor.
func (r Route) End() gg.Point {
	return r.Curve.P2
}

// Control returns the quadratic control point.
func (r Route) Control() gg.Point {
	return r.Curve.P1
}

// State is the frame loop state.
type State int

const (
	// StateIdle means no frame callback is scheduled
	StateIdle State = iota
	// StateRunning means the ticker is delivering frames
	StateRunning
)

// String returns the state name.
func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}
