package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"portfolio.dev/portfolio/internal/preview"
	"portfolio.dev/portfolio/internal/runtime"
)

// newPreviewCmd creates the preview command
func newPreviewCmd(opts *rootOptions) *cobra.Command {
	var (
		out     string
		mapName string
		width   int
		height  int
		solid   bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Rasterize a route map to PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(rc *runtime.Context) error {
				m, ok := rc.Site.Maps[mapName]
				if mapName == "lab" {
					m, ok = rc.Site.IdeaMap(), true
				}
				if !ok {
					return fmt.Errorf("unknown route map %q", mapName)
				}

				popts := preview.DefaultOptions()
				popts.Width, popts.Height = width, height
				popts.Dashed = !solid
				popts.Logger = rc.Logger()

				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				if err := preview.WritePNG(f, preview.FromMap(m, width, height), popts); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				rc.Splog.Success("Wrote %s (%dx%d)", out, width, height)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "og.png", "output file")
	cmd.Flags().StringVar(&mapName, "map", "hero", "route map to draw (hero, universe, projects, lab)")
	cmd.Flags().IntVar(&width, "width", preview.DefaultWidth, "image width")
	cmd.Flags().IntVar(&height, "height", preview.DefaultHeight, "image height")
	cmd.Flags().BoolVar(&solid, "solid", false, "draw solid instead of dashed lines")

	return cmd
}
