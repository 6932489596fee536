// Package preview rasterizes route topologies into PNG images for social cards.
package preview

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gogpu/gg"

	"portfolio.dev/portfolio/internal/engine"
	"portfolio.dev/portfolio/internal/routemap"
)

const (
	DefaultWidth  = 1200
	DefaultHeight = 630
)

// Options control the rendered image.
type Options struct {
	Width      int
	Height     int
	Background string
	Stroke     string
	Marker     string
	LineWidth  float64
	// Dashed draws connectors with the engine's 5/5 dash pattern.
	Dashed bool
	Logger *slog.Logger
}

// DefaultOptions returns the social card palette.
func DefaultOptions() Options {
	return Options{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: "#0B1220",
		Stroke:     "#4EBFF5",
		Marker:     "#61CEF7",
		LineWidth:  3,
		Dashed:     true,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Background == "" {
		o.Background = d.Background
	}
	if o.Stroke == "" {
		o.Stroke = d.Stroke
	}
	if o.Marker == "" {
		o.Marker = d.Marker
	}
	if o.LineWidth <= 0 {
		o.LineWidth = d.LineWidth
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Render draws routes onto a new context. The caller owns the returned context and must
// Close it.
func Render(routes []engine.Route, opts Options) (*gg.Context, error) {
	opts = opts.withDefaults()

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.ClearWithColor(gg.Hex(opts.Background))

	stroke := gg.Hex(opts.Stroke)
	marker := gg.Hex(opts.Marker)

	var errs []error
	for _, r := range routes {
		dc.SetRGBA(stroke.R, stroke.G, stroke.B, 0.55)
		dc.SetLineWidth(opts.LineWidth)
		if opts.Dashed {
			dc.SetDash(opts.LineWidth*5, opts.LineWidth*5)
		} else {
			dc.ClearDash()
		}
		start, ctrl, end := r.Start(), r.Control(), r.End()
		dc.MoveTo(start.X, start.Y)
		dc.QuadraticTo(ctrl.X, ctrl.Y, end.X, end.Y)
		if err := dc.Stroke(); err != nil {
			errs = append(errs, fmt.Errorf("stroke %s: %w", r.Edge, err))
			continue
		}

		dc.ClearDash()
		dc.SetRGBA(marker.R, marker.G, marker.B, 0.9)
		for _, p := range []gg.Point{start, end} {
			dc.DrawCircle(p.X, p.Y, opts.LineWidth*2)
			if err := dc.Fill(); err != nil {
				errs = append(errs, fmt.Errorf("marker %s: %w", r.Edge, err))
			}
		}
	}
	_ = dc.FlushGPU()

	if err := errors.Join(errs...); err != nil {
		_ = dc.Close()
		return nil, err
	}
	opts.Logger.Debug("preview rendered", "routes", len(routes), "width", opts.Width, "height", opts.Height)
	return dc, nil
}

// WritePNG renders routes and encodes the result as PNG to w.
func WritePNG(w io.Writer, routes []engine.Route, opts Options) error {
	dc, err := Render(routes, opts)
	if err != nil {
		return err
	}
	defer func() { _ = dc.Close() }()
	return dc.EncodePNG(w)
}

// FromMap scales a percent-coordinate route map onto a width x height canvas.
func FromMap(m routemap.Map, width, height int) []engine.Route {
	sx, sy := float64(width)/100, float64(height)/100
	scale := func(p gg.Point) gg.Point { return gg.Pt(p.X*sx, p.Y*sy) }

	resolved := m.Resolve()
	out := make([]engine.Route, 0, len(resolved))
	for _, r := range resolved {
		out = append(out, engine.Route{
			Edge:  engine.Edge{A: r.From, B: r.To},
			Curve: gg.NewQuadBez(scale(r.Curve.P0), scale(r.Curve.P1), scale(r.Curve.P2)),
		})
	}
	return out
}
