package engine

import (
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// Engine tracks page anchors and paints connectors between them.
// Thread-safe: all methods are safe for concurrent use.
//
// INVARIANTS:
//   - edges holds no two entries with the same Edge.Key
//   - listeners are attached iff mounted is true
//   - state is StateRunning iff the ticker has been started and not stopped since
type Engine struct {
	mu sync.Mutex

	host   Host
	ticker Ticker
	logger *slog.Logger

	maxDistance   float64
	curveOffset   float64
	pulseDuration time.Duration

	nodes    map[string]Element
	edges    []Edge
	edgeKeys map[string]struct{}

	surface       Surface
	reducedMotion bool
	mounted       bool
	unsubscribe   []func()
	state         State
	frames        uint64
}

// New creates an engine attached to the given page host.
// Frames are delivered by ticker; nothing is scheduled until Render is called.
func New(host Host, ticker Ticker, opts ...Option) *Engine {
	e := &Engine{
		host:          host,
		ticker:        ticker,
		logger:        slog.New(slog.DiscardHandler),
		maxDistance:   DefaultMaxDistance,
		curveOffset:   DefaultCurveOffset,
		pulseDuration: DefaultPulseDuration,
		nodes:         make(map[string]Element),
		edgeKeys:      make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RegisterNode binds id to el. A nil element removes id from the registry.
// Removing an unknown id is a no-op. No redraw is triggered.
func (e *Engine) RegisterNode(id string, el Element) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if isNil(el) {
		delete(e.nodes, id)
		return
	}
	e.nodes[id] = el
}

// UnregisterNode removes id from the registry.
func (e *Engine) UnregisterNode(id string) {
	e.RegisterNode(id, nil)
}

// Node returns the element registered for id.
func (e *Engine) Node(id string) (Element, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	el, ok := e.nodes[id]
	return el, ok
}

// Connect declares a connection between two anchors.
// Anchors are resolved at draw time; an existing connection between the same pair,
// in either orientation, is left untouched.
func (e *Engine) Connect(a, b string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	edge := Edge{A: a, B: b}
	key := edge.Key()
	if _, exists := e.edgeKeys[key]; exists {
		return
	}
	e.edgeKeys[key] = struct{}{}
	e.edges = append(e.edges, edge)
}

// ClearConnections removes every declared connection.
func (e *Engine) ClearConnections() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.edges = nil
	e.edgeKeys = make(map[string]struct{})
}

// Edges returns a copy of the declared connections in declaration order.
func (e *Engine) Edges() []Edge {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Edge, len(e.edges))
	copy(out, e.edges)
	return out
}

// SetReducedMotion toggles travelling markers and the continuous loop.
// Enabling it stops a running loop at once. Disabling it restarts the loop when a
// surface is bound and the page is visible.
func (e *Engine) SetReducedMotion(reduced bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reducedMotion = reduced
	if reduced {
		e.stopLoopLocked()
		return
	}
	if e.surface != nil && !e.host.Hidden() {
		e.startLoopLocked()
	}
}

// ReducedMotion reports the current preference.
func (e *Engine) ReducedMotion() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reducedMotion
}

// Render binds the drawing surface, repaints it, and starts the frame loop unless reduced
// motion is requested or the page is hidden. Page listeners are attached on the first call
// only.
func (e *Engine) Render(surface Surface) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if isNil(surface) {
		return
	}
	e.surface = surface
	if !e.mounted {
		e.mounted = true
		e.unsubscribe = append(e.unsubscribe,
			e.host.Subscribe(EventResize, e.Redraw),
			e.host.Subscribe(EventScroll, e.Redraw),
			e.host.Subscribe(EventVisibilityChange, e.onVisibilityChange),
		)
	}
	e.drawLocked()
	if !e.reducedMotion && !e.host.Hidden() {
		e.startLoopLocked()
	}
}

// Destroy stops the loop, releases the surface and detaches page listeners.
// Safe to call at any time, repeatedly, and before Render.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLoopLocked()
	e.surface = nil
	if e.mounted {
		e.mounted = false
		for _, unsubscribe := range e.unsubscribe {
			unsubscribe()
		}
		e.unsubscribe = nil
	}
}

// Mounted reports whether page listeners are attached.
func (e *Engine) Mounted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mounted
}

// State returns the frame loop state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Frames returns the number of repaints performed so far.
func (e *Engine) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// Redraw performs one synchronous repaint if a surface is bound.
func (e *Engine) Redraw() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drawLocked()
}

// Routes computes the currently drawable routes without painting them.
func (e *Engine) Routes() []Route {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.computeLocked(e.surfaceOriginLocked())
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
