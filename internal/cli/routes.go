package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"portfolio.dev/portfolio/internal/engine"
	"portfolio.dev/portfolio/internal/output"
	"portfolio.dev/portfolio/internal/routemap"
	"portfolio.dev/portfolio/internal/runtime"
)

type routeJSON struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Path  string `json:"path"`
	Pulse bool   `json:"pulse"`
}

// newRoutesCmd creates the routes command
func newRoutesCmd(opts *rootOptions) *cobra.Command {
	var (
		reducedMotion bool
		asJSON        bool
		svg           bool
		mapName       string
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the connector routes drawn over the site layout",
		Long: `Routes runs the route engine once over the site layout and prints every connector
it draws. Connections whose anchors are too far apart are left out, exactly as on the page.
With --map, prints the SVG of a static route map instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(rc *runtime.Context) error {
				if mapName != "" {
					m, ok := rc.Site.Maps[mapName]
					if mapName == "lab" {
						m, ok = rc.Site.IdeaMap(), true
					}
					if !ok {
						return fmt.Errorf("unknown route map %q (have %v and lab)", mapName, rc.Site.MapNames())
					}
					rc.Splog.Page(m.Render(routemap.Options{ReducedMotion: reducedMotion, ShowNodes: true, Class: mapName}) + "\n")
					return nil
				}

				renderer, err := rc.Renderer()
				if err != nil {
					return err
				}
				markup, routes := renderer.Trace(reducedMotion)

				switch {
				case svg:
					rc.Splog.Page(markup)
				case asJSON:
					out := make([]routeJSON, 0, len(routes))
					for _, r := range routes {
						out = append(out, routeJSON{From: r.Edge.A, To: r.Edge.B, Path: engine.PathData(r), Pulse: r.Pulse})
					}
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(out)
				default:
					for _, r := range routes {
						rc.Splog.Info("%s %s %s", output.ColorCyan(r.Edge.String()), output.ColorDim("·"), engine.PathData(r))
					}
					rc.Splog.Info("%d of %d connections drawn", len(routes), len(rc.Site.Connections))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&reducedMotion, "reduced-motion", false, "draw without travelling markers")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&svg, "svg", false, "print the painted SVG markup")
	cmd.Flags().StringVar(&mapName, "map", "", "print a static route map (hero, universe, projects, lab)")

	return cmd
}
