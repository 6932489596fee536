package cli

import (
	"context"

	"github.com/spf13/cobra"

	"portfolio.dev/portfolio/internal/prerender"
	"portfolio.dev/portfolio/internal/runtime"
	"portfolio.dev/portfolio/internal/site"
)

// newPrerenderCmd creates the prerender command
func newPrerenderCmd(opts *rootOptions) *cobra.Command {
	var (
		distDir       string
		templatePath  string
		reducedMotion bool
	)

	cmd := &cobra.Command{
		Use:   "prerender",
		Short: "Write one static HTML file per route into the dist directory",
		Long: `Prerender renders the app markup for every route, injects it into the built
index.html in place of <div id="root"></div>, and writes the result. Any failure aborts the
run and exits non-zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(rc *runtime.Context) error {
				if distDir == "" {
					distDir = rc.Config.DistDir
				}

				renderer, err := rc.Renderer()
				if err != nil {
					return err
				}

				p := &prerender.Prerenderer{
					DistDir:  distDir,
					Template: templatePath,
					Renderer: prerender.RenderFunc(func(_ context.Context, path string) (string, error) {
						return renderer.RenderString(site.RenderOptions{
							Path:          path,
							Lang:          rc.Lang,
							ReducedMotion: reducedMotion,
						})
					}),
					Logger: rc.Logger(),
				}

				written, err := p.Run(cmd.Context())
				if err != nil {
					rc.Splog.Error("Prerender failed: %v", err)
					return err
				}
				for _, path := range written {
					rc.Splog.Success("%s", path)
				}
				rc.Splog.Info("Prerendered %d routes", len(written))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&distDir, "dist", "", "dist directory (default from config)")
	cmd.Flags().StringVar(&templatePath, "template", "", "template path (default <dist>/index.html)")
	cmd.Flags().BoolVar(&reducedMotion, "reduced-motion", false, "render without animations")

	return cmd
}
