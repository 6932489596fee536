package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"strings"

	"portfolio.dev/portfolio/internal/engine"
	"portfolio.dev/portfolio/internal/frame"
	"portfolio.dev/portfolio/internal/page"
	"portfolio.dev/portfolio/internal/routemap"
)

//go:embed templates/*.tmpl
var templates embed.FS

// RenderOptions select what a render produces.
type RenderOptions struct {
	Path          string
	Lang          string
	ReducedMotion bool
}

// Renderer produces the static app markup.
type Renderer struct {
	site   *Site
	tmpl   *template.Template
	logger *slog.Logger
}

// NewRenderer parses the app template for s.
func NewRenderer(s *Site, logger *slog.Logger) (*Renderer, error) {
	tmpl, err := template.ParseFS(templates, "templates/app.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse app template: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Renderer{site: s, tmpl: tmpl, logger: logger}, nil
}

type sectionView struct {
	ID      string
	Height  float64
	Anchors []Anchor
}

type appView struct {
	Lang     string
	Path     string
	Width    float64
	Height   float64
	Overlay  template.HTML
	Sections []sectionView
	Maps     map[string]template.HTML
	Links    map[string]string
	Copy     Copy
	Site     *Site
}

// Render writes the app markup for one route.
func (r *Renderer) Render(w io.Writer, opts RenderOptions) error {
	lang := opts.Lang
	if lang == "" {
		lang = "pt"
	}

	view := appView{
		Lang:    lang,
		Path:    opts.Path,
		Width:   r.site.Viewport.Width,
		Height:  r.site.Height(),
		Overlay: template.HTML(r.Overlay(opts.ReducedMotion)),
		Maps:    r.maps(opts.ReducedMotion),
		Links:   r.site.Links,
		Copy:    r.site.CopyFor(lang),
		Site:    r.site,
	}
	for _, sec := range r.site.Sections {
		sv := sectionView{ID: sec.ID, Height: sec.Height}
		for _, a := range r.site.Anchors {
			if a.Section == sec.ID {
				sv.Anchors = append(sv.Anchors, a)
			}
		}
		view.Sections = append(view.Sections, sv)
	}

	if err := r.tmpl.ExecuteTemplate(w, "app.html.tmpl", view); err != nil {
		return fmt.Errorf("failed to render %s: %w", opts.Path, err)
	}
	return nil
}

// RenderString is Render into a string.
func (r *Renderer) RenderString(opts RenderOptions) (string, error) {
	var b strings.Builder
	if err := r.Render(&b, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Overlay runs the route engine once over the site layout and returns what it painted.
func (r *Renderer) Overlay(reducedMotion bool) string {
	markup, _ := r.Trace(reducedMotion)
	return markup
}

// Trace is Overlay that also returns the routes behind the markup.
// The page viewport spans the whole document so every anchor is on screen.
func (r *Renderer) Trace(reducedMotion bool) (string, []engine.Route) {
	p := page.New(r.site.Viewport.Width, r.site.Height())
	elements := r.site.Layout(p)

	eng := engine.New(p, frame.NewManual(), engine.WithLogger(r.logger))
	eng.SetReducedMotion(reducedMotion)
	r.site.Wire(eng, elements)

	surface := r.site.Surface(p)
	eng.Render(surface)
	defer eng.Destroy()

	return surface.Content(), eng.Routes()
}

func (r *Renderer) maps(reducedMotion bool) map[string]template.HTML {
	out := make(map[string]template.HTML, len(r.site.Maps)+1)
	for _, name := range r.site.MapNames() {
		m := r.site.Maps[name]
		out[name] = template.HTML(m.Render(routemap.Options{
			ActiveRouteIDs: activeRoutes(name, m),
			ReducedMotion:  reducedMotion,
			ShowNodes:      true,
			DrawOnView:     true,
			Class:          name,
		}))
	}
	out["lab"] = template.HTML(r.site.IdeaMap().Render(routemap.Options{
		ReducedMotion: reducedMotion,
		ShowNodes:     true,
		Class:         "lab",
	}))
	return out
}

// activeRoutes returns the routes highlighted before any interaction: every hero route and
// the first route of the other maps.
func activeRoutes(name string, m routemap.Map) []string {
	if len(m.Routes) == 0 {
		return nil
	}
	if name == "hero" {
		ids := make([]string, 0, len(m.Routes))
		for _, r := range m.Routes {
			ids = append(ids, r.ID)
		}
		return ids
	}
	return []string{m.Routes[0].ID}
}
