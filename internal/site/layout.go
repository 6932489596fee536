package site

import (
	"portfolio.dev/portfolio/internal/engine"
	"portfolio.dev/portfolio/internal/layout"
	"portfolio.dev/portfolio/internal/page"
)

// Layout mounts every anchor onto p and returns the mounted elements keyed by id.
func (s *Site) Layout(p *page.Page) map[string]*page.Element {
	rects := s.AnchorRects()
	out := make(map[string]*page.Element, len(rects))
	for _, a := range s.Anchors {
		rect, ok := rects[a.ID]
		if !ok {
			continue
		}
		out[a.ID] = p.Mount(a.ID, rect)
	}
	return out
}

// Wire registers the mounted anchors with eng and declares the global connections.
func (s *Site) Wire(eng *engine.Engine, elements map[string]*page.Element) {
	for id, el := range elements {
		eng.RegisterNode(id, el)
	}
	for _, c := range s.Connections {
		eng.Connect(c[0], c[1])
	}
}

// Surface creates a drawing surface covering the whole document.
func (s *Site) Surface(p *page.Page) *page.Surface {
	return p.NewSurface(layout.Rect{Width: s.Viewport.Width, Height: s.Height()})
}
