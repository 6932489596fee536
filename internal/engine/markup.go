package engine

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

const glowFilterID = "route-engine-glow"

const glowDefs = `<defs><filter id="` + glowFilterID + `" x="-80%" y="-80%" width="260%" height="260%">` +
	`<feGaussianBlur stdDeviation="1.3" result="blur"></feGaussianBlur>` +
	`<feMerge><feMergeNode in="blur"></feMergeNode><feMergeNode in="SourceGraphic"></feMergeNode></feMerge>` +
	`</filter></defs>`

// Markup returns the SVG markup the engine paints for routes.
func (e *Engine) Markup(routes []Route) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.markup(routes)
}

func (e *Engine) markup(routes []Route) string {
	var b strings.Builder
	b.WriteString(glowDefs)
	b.WriteByte('\n')
	for _, r := range routes {
		d := PathData(r)
		fmt.Fprintf(&b, `<g data-from="%s" data-to="%s">`, html.EscapeString(r.Edge.A), html.EscapeString(r.Edge.B))
		fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="#4EBFF5" stroke-width="0.85" opacity="0.28" filter="url(#%s)" stroke-dasharray="5 5" class="route-engine-line"/>`, d, glowFilterID)
		if r.Pulse {
			fmt.Fprintf(&b, `<circle r="1.7" fill="#61CEF7" opacity="0.52"><animateMotion dur="%ss" repeatCount="indefinite" path="%s"/></circle>`,
				FormatNumber(e.pulseDuration.Seconds()), d)
		}
		writeEndpoint(&b, r.Start().X, r.Start().Y)
		writeEndpoint(&b, r.End().X, r.End().Y)
		b.WriteString("</g>\n")
	}
	return b.String()
}

func writeEndpoint(b *strings.Builder, x, y float64) {
	fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="1.8" fill="#61CEF7" opacity="0.25" class="route-engine-pulse"/>`,
		FormatNumber(x), FormatNumber(y))
}

// PathData returns the SVG path data of a route.
func PathData(r Route) string {
	c := r.Curve
	return "M " + FormatNumber(c.P0.X) + " " + FormatNumber(c.P0.Y) +
		" Q " + FormatNumber(c.P1.X) + " " + FormatNumber(c.P1.Y) +
		" " + FormatNumber(c.P2.X) + " " + FormatNumber(c.P2.Y)
}

// FormatNumber renders v rounded to two decimals without trailing zeros.
func FormatNumber(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
