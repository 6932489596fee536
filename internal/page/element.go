package page

import (
	"sync"

	"portfolio.dev/portfolio/internal/layout"
)

// Element is a mounted page element.
type Element struct {
	page     *Page
	id       string
	rect     layout.Rect
	detached bool
}

// ID returns the element id.
func (e *Element) ID() string {
	return e.id
}

// DocumentRect returns the element rectangle relative to the top of the document.
func (e *Element) DocumentRect() layout.Rect {
	e.page.mu.RLock()
	defer e.page.mu.RUnlock()
	return e.rect
}

// BoundingClientRect returns the element rectangle relative to the viewport.
func (e *Element) BoundingClientRect() layout.Rect {
	e.page.mu.RLock()
	defer e.page.mu.RUnlock()
	return e.rect.Offset(0, -e.page.scrollY)
}

// Move places the element at a new document-space rectangle.
func (e *Element) Move(rect layout.Rect) {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	e.rect = rect
}

// Detached reports whether the element has been unmounted.
func (e *Element) Detached() bool {
	e.page.mu.RLock()
	defer e.page.mu.RUnlock()
	return e.detached
}

// Surface is an element whose content is vector markup.
type Surface struct {
	Element

	contentMu    sync.Mutex
	content      string
	replacements int
}

// ReplaceContent swaps the surface markup.
func (s *Surface) ReplaceContent(markup string) {
	s.contentMu.Lock()
	defer s.contentMu.Unlock()
	s.content = markup
	s.replacements++
}

// Content returns the current markup.
func (s *Surface) Content() string {
	s.contentMu.Lock()
	defer s.contentMu.Unlock()
	return s.content
}

// Replacements returns how many times the content was replaced.
func (s *Surface) Replacements() int {
	s.contentMu.Lock()
	defer s.contentMu.Unlock()
	return s.replacements
}
