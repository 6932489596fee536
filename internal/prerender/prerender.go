// Package prerender writes static HTML for each site route by injecting the rendered app
// markup into the built index.html template.
package prerender

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	perrors "portfolio.dev/portfolio/internal/errors"
)

// Placeholder is the empty mount point the app markup replaces.
const Placeholder = `<div id="root"></div>`

// Route maps a URL path to its output file, relative to the dist directory.
type Route struct {
	Path   string
	Output string
}

// DefaultRoutes are the pages the site serves.
var DefaultRoutes = []Route{
	{Path: "/", Output: "index.html"},
	{Path: "/portfolio/", Output: filepath.Join("portfolio", "index.html")},
}

// AppRenderer renders the app markup for a route path.
type AppRenderer interface {
	RenderRoute(ctx context.Context, path string) (string, error)
}

// RenderFunc adapts a function to AppRenderer.
type RenderFunc func(ctx context.Context, path string) (string, error)

func (f RenderFunc) RenderRoute(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// Prerenderer writes one HTML file per route.
type Prerenderer struct {
	DistDir  string
	Template string
	Routes   []Route
	Renderer AppRenderer
	Logger   *slog.Logger
}

// Inject places markup inside the first root placeholder of template.
func Inject(template, markup string) (string, error) {
	if !strings.Contains(template, Placeholder) {
		return "", perrors.ErrPlaceholderMissing
	}
	return strings.Replace(template, Placeholder, `<div id="root">`+markup+`</div>`, 1), nil
}

// Run renders every route. The first failure aborts the run with a RouteError.
// It returns the paths written.
func (p *Prerenderer) Run(ctx context.Context) ([]string, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	routes := p.Routes
	if routes == nil {
		routes = DefaultRoutes
	}
	templatePath := p.Template
	if templatePath == "" {
		templatePath = filepath.Join(p.DistDir, "index.html")
	}

	data, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	template := string(data)

	written := make([]string, 0, len(routes))
	for _, route := range routes {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		out := filepath.Join(p.DistDir, route.Output)
		if err := p.renderRoute(ctx, template, route, out); err != nil {
			return written, perrors.NewRouteError(route.Path, out, err)
		}
		logger.Debug("prerendered route", "route", route.Path, "output", out)
		written = append(written, out)
	}
	return written, nil
}

func (p *Prerenderer) renderRoute(ctx context.Context, template string, route Route, out string) error {
	markup, err := p.Renderer.RenderRoute(ctx, route.Path)
	if err != nil {
		return err
	}
	page, err := Inject(template, markup)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(out, []byte(page), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Paths returns the route paths, for reporting.
func Paths(routes []Route) []string {
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.Path)
	}
	return out
}
