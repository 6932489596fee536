// Package routemap renders the static decorative route maps: small topologies laid out in a
// 0-100 viewBox with per-edge curvature and intensity, where active edges glow.
package routemap

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/gogpu/gg"

	"portfolio.dev/portfolio/internal/engine"
)

// curvatureScale converts an edge curvature into viewBox units.
const curvatureScale = 18.0

const (
	defaultStroke = "#4EBFF5"
	defaultNeon   = "#61CEF7"
	defaultAccent = "#1C88E1"
)

// Node is a map vertex in viewBox coordinates.
type Node struct {
	ID     string  `yaml:"id"`
	Label  string  `yaml:"label"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Accent string  `yaml:"accent,omitempty"`
}

// Edge is a curved map connection.
type Edge struct {
	ID        string   `yaml:"id"`
	From      string   `yaml:"from"`
	To        string   `yaml:"to"`
	Curvature float64  `yaml:"curvature"`
	Intensity *float64 `yaml:"intensity,omitempty"`
	Color     string   `yaml:"color,omitempty"`
}

// Strength returns the edge intensity, defaulting to 1.
func (e Edge) Strength() float64 {
	if e.Intensity == nil {
		return 1
	}
	return *e.Intensity
}

// Map is a named topology.
type Map struct {
	Nodes  []Node `yaml:"nodes"`
	Routes []Edge `yaml:"routes"`
}

// Options control how a map is drawn.
type Options struct {
	ActiveRouteIDs []string
	ReducedMotion  bool
	ShowNodes      bool
	// DrawOnView marks paths for the reveal animation
	DrawOnView bool
	Class      string
}

// ResolvedEdge is an edge whose endpoints were found.
type ResolvedEdge struct {
	Edge
	Curve gg.QuadBez
}

// Resolve returns the edges whose endpoints exist, with their curves.
func (m Map) Resolve() []ResolvedEdge {
	index := make(map[string]Node, len(m.Nodes))
	for _, n := range m.Nodes {
		index[n.ID] = n
	}

	out := make([]ResolvedEdge, 0, len(m.Routes))
	for _, r := range m.Routes {
		from, ok := index[r.From]
		if !ok {
			continue
		}
		to, ok := index[r.To]
		if !ok {
			continue
		}
		out = append(out, ResolvedEdge{Edge: r, Curve: Curve(gg.Pt(from.X, from.Y), gg.Pt(to.X, to.Y), r.Curvature)})
	}
	return out
}

// Curve bows a connection by curvature along the left normal of its chord.
func Curve(from, to gg.Point, curvature float64) gg.QuadBez {
	d := to.Sub(from)
	norm := d.Length()
	if norm == 0 {
		norm = 1
	}
	mid := from.Lerp(to, 0.5)
	ctrl := gg.Pt(mid.X-d.Y/norm*curvature*curvatureScale, mid.Y+d.X/norm*curvature*curvatureScale)
	return gg.NewQuadBez(from, ctrl, to)
}

// Render returns the SVG element for the map.
func (m Map) Render(opts Options) string {
	active := make(map[string]bool, len(opts.ActiveRouteIDs))
	for _, id := range opts.ActiveRouteIDs {
		active[id] = true
	}

	var b strings.Builder
	class := "route-map"
	if opts.Class != "" {
		class += " " + opts.Class
	}
	fmt.Fprintf(&b, `<svg viewBox="0 0 100 100" preserveAspectRatio="none" aria-hidden="true" class="%s">`, html.EscapeString(class))
	b.WriteString(`<defs>`)
	writeBlurFilter(&b, "route-glow", "-80%", "260%", 1.2)
	writeBlurFilter(&b, "route-neon", "-100%", "300%", 1.9)
	b.WriteString(`</defs>`)

	for _, r := range m.Resolve() {
		d := pathData(r.Curve)
		intensity := r.Strength()
		isActive := active[r.ID]

		fmt.Fprintf(&b, `<g data-route="%s">`, html.EscapeString(r.ID))

		opacity := 0.2
		filter := ""
		if isActive {
			opacity = 0.44
			filter = ` filter="url(#route-glow)"`
		}
		drawClass := ""
		if opts.DrawOnView && !opts.ReducedMotion {
			drawClass = ` class="route-draw"`
		}
		fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="%s" opacity="%s"%s%s/>`,
			d, colorOr(r.Color, defaultStroke), num(0.14+intensity*0.11), num(opacity), filter, drawClass)

		if isActive && !opts.ReducedMotion {
			period := 1.25 + (1-math.Min(intensity, 1))*0.45
			fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" opacity="0.96" filter="url(#route-neon)" stroke-dasharray="1.2 2.8">`,
				d, colorOr(r.Color, defaultNeon), num(0.26+intensity*0.12))
			fmt.Fprintf(&b, `<animate attributeName="stroke-dashoffset" from="0" to="-18" dur="%ss" repeatCount="indefinite"/></path>`, num(period))
		}

		if isActive {
			fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="#DDF8FF" stroke-width="0.08" stroke-linecap="round" opacity="0.8" stroke-dasharray="0.8 3.2">`, d)
			if !opts.ReducedMotion {
				b.WriteString(`<animate attributeName="stroke-dashoffset" from="0" to="-16" dur="1.05s" repeatCount="indefinite"/>`)
			}
			b.WriteString(`</path>`)
		}
		b.WriteString(`</g>`)
	}

	if opts.ShowNodes {
		for _, n := range m.Nodes {
			fmt.Fprintf(&b, `<g data-node="%s"><circle cx="%s" cy="%s" r="1.15" fill="%s" stroke="#CFDEFC" stroke-width="0.16"/><circle cx="%s" cy="%s" r="1.8" fill="none" stroke="%s" opacity="0.25"/></g>`,
				html.EscapeString(n.ID), num(n.X), num(n.Y), colorOr(n.Accent, defaultAccent), num(n.X), num(n.Y), colorOr(n.Accent, defaultNeon))
		}
	}

	b.WriteString(`</svg>`)
	return b.String()
}

func writeBlurFilter(b *strings.Builder, id, offset, size string, deviation float64) {
	fmt.Fprintf(b, `<filter id="%s" x="%s" y="%s" width="%s" height="%s"><feGaussianBlur stdDeviation="%s" result="blur"/><feMerge><feMergeNode in="blur"/><feMergeNode in="SourceGraphic"/></feMerge></filter>`,
		id, offset, offset, size, size, num(deviation))
}

func pathData(q gg.QuadBez) string {
	return "M " + num(q.P0.X) + " " + num(q.P0.Y) +
		" Q " + num(q.P1.X) + " " + num(q.P1.Y) +
		" " + num(q.P2.X) + " " + num(q.P2.Y)
}

func num(v float64) string {
	return engine.FormatNumber(v)
}

func colorOr(c, fallback string) string {
	if c == "" {
		return fallback
	}
	return html.EscapeString(c)
}
