package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"portfolio.dev/portfolio/internal/preview"
	"portfolio.dev/portfolio/internal/runtime"
	"portfolio.dev/portfolio/internal/server"
)

// newServeCmd creates the serve command
func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr    string
		distDir string
		noDist  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the statistics API, the preview image and the prerendered site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(rc *runtime.Context) error {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				collector, err := rc.Collector(ctx)
				if err != nil {
					return err
				}

				if addr == "" {
					addr = rc.Config.Addr
				}
				if distDir == "" && !noDist {
					distDir = rc.Config.DistDir
				}
				if noDist {
					distDir = ""
				}

				srv := server.New(server.Options{
					Addr:          addr,
					DistDir:       distDir,
					Social:        collector.Social,
					Visits:        collector.Visits,
					PreviewRoutes: preview.FromMap(rc.Site.Maps["hero"], preview.DefaultWidth, preview.DefaultHeight),
					Preview:       preview.DefaultOptions(),
					Logger:        rc.Logger(),
				})

				rc.Splog.Info("Listening on %s", addr)
				if distDir != "" {
					rc.Splog.Debug("Serving static files from %s", distDir)
				}
				return srv.ListenAndServe(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :3000)")
	cmd.Flags().StringVar(&distDir, "dist", "", "directory of prerendered files (default dist)")
	cmd.Flags().BoolVar(&noDist, "api-only", false, "do not serve static files")

	return cmd
}
