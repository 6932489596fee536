package engine

import "portfolio.dev/portfolio/internal/layout"

// Element is a mounted page element whose position anchors a route endpoint.
type Element interface {
	// BoundingClientRect returns the element rectangle in viewport coordinates
	BoundingClientRect() layout.Rect
}

// Surface is the vector drawing container owned by the engine.
// Its whole content is replaced on every redraw.
type Surface interface {
	Element

	// ReplaceContent swaps the current markup for the given markup
	ReplaceContent(markup string)
}

// Event identifies a page-level notification the engine listens to.
type Event int

const (
	// EventResize fires when the viewport changes size
	EventResize Event = iota
	// EventScroll fires when the viewport scrolls
	EventScroll
	// EventVisibilityChange fires when the page becomes hidden or visible
	EventVisibilityChange
)

// String returns the DOM event name.
func (e Event) String() string {
	switch e {
	case EventResize:
		return "resize"
	case EventScroll:
		return "scroll"
	case EventVisibilityChange:
		return "visibilitychange"
	default:
		return "unknown"
	}
}

// Host is the page the engine is attached to.
// Thread-safe: implementations must not hold locks while invoking subscribers.
type Host interface {
	// ViewportHeight returns the inner height of the viewport
	ViewportHeight() float64

	// Hidden reports whether the page is currently hidden
	Hidden() bool

	// Subscribe registers fn for the event and returns a function removing it
	Subscribe(event Event, fn func()) (unsubscribe func())
}

// Ticker schedules the per-frame callback.
// Start while already started and Stop while stopped are no-ops.
// Stop must not wait for an in-flight callback.
type Ticker interface {
	Start(fn func())
	Stop()
}
