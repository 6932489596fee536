// Package page models a browser page in process: a scrollable viewport, mounted elements with
// document-space rectangles, a visibility state and event listeners. It implements the host
// side of the route engine so layouts can be drawn without a browser.
package page

import (
	"sort"
	"sync"

	"portfolio.dev/portfolio/internal/engine"
	"portfolio.dev/portfolio/internal/layout"
)

// Page is a virtual page.
// Thread-safe: listeners are invoked without the page lock held.
type Page struct {
	mu sync.RWMutex

	width   float64
	height  float64
	scrollY float64
	hidden  bool

	elements  map[string]*Element
	listeners map[engine.Event]map[int]func()
	nextID    int
}

// New creates a visible page with a viewport of the given size, scrolled to the top.
func New(width, height float64) *Page {
	return &Page{
		width:     width,
		height:    height,
		elements:  make(map[string]*Element),
		listeners: make(map[engine.Event]map[int]func()),
	}
}

// ViewportHeight returns the inner height of the viewport.
func (p *Page) ViewportHeight() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.height
}

// ViewportWidth returns the inner width of the viewport.
func (p *Page) ViewportWidth() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.width
}

// ScrollY returns the current vertical scroll offset.
func (p *Page) ScrollY() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scrollY
}

// Hidden reports whether the page is hidden.
func (p *Page) Hidden() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hidden
}

// Subscribe registers fn for event.
func (p *Page) Subscribe(event engine.Event, fn func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	if p.listeners[event] == nil {
		p.listeners[event] = make(map[int]func())
	}
	p.listeners[event][id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners[event], id)
	}
}

// ListenerCount returns the number of subscribers for event.
func (p *Page) ListenerCount(event engine.Event) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.listeners[event])
}

// Mount places an element at the given document-space rectangle, replacing any element
// mounted under the same id.
func (p *Page) Mount(id string, rect layout.Rect) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()

	el := &Element{page: p, id: id, rect: rect}
	p.elements[id] = el
	return el
}

// Unmount removes the element with the given id.
func (p *Page) Unmount(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if el, ok := p.elements[id]; ok {
		el.detached = true
		delete(p.elements, id)
	}
}

// Element returns the mounted element with the given id.
func (p *Page) Element(id string) (*Element, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	el, ok := p.elements[id]
	return el, ok
}

// ElementIDs returns the ids of all mounted elements, sorted.
func (p *Page) ElementIDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make([]string, 0, len(p.elements))
	for id := range p.elements {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DocumentHeight returns the bottom of the lowest mounted element.
func (p *Page) DocumentHeight() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var bottom float64
	for _, el := range p.elements {
		if b := el.rect.Bottom(); b > bottom {
			bottom = b
		}
	}
	return bottom
}

// NewSurface creates a drawing surface at the given document-space rectangle.
func (p *Page) NewSurface(rect layout.Rect) *Surface {
	return &Surface{Element: Element{page: p, id: "surface", rect: rect}}
}

// ScrollTo moves the viewport and notifies scroll listeners.
func (p *Page) ScrollTo(y float64) {
	p.mu.Lock()
	p.scrollY = y
	p.mu.Unlock()

	p.dispatch(engine.EventScroll)
}

// Resize changes the viewport size and notifies resize listeners.
func (p *Page) Resize(width, height float64) {
	p.mu.Lock()
	p.width = width
	p.height = height
	p.mu.Unlock()

	p.dispatch(engine.EventResize)
}

// SetHidden changes the visibility state and notifies visibility listeners when it changed.
func (p *Page) SetHidden(hidden bool) {
	p.mu.Lock()
	changed := p.hidden != hidden
	p.hidden = hidden
	p.mu.Unlock()

	if changed {
		p.dispatch(engine.EventVisibilityChange)
	}
}

func (p *Page) dispatch(event engine.Event) {
	p.mu.RLock()
	ids := make([]int, 0, len(p.listeners[event]))
	for id := range p.listeners[event] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, p.listeners[event][id])
	}
	p.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}
