package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"portfolio.dev/portfolio/internal/i18n"
	"portfolio.dev/portfolio/internal/output"
	"portfolio.dev/portfolio/internal/runtime"
	"portfolio.dev/portfolio/internal/stats"
	"portfolio.dev/portfolio/internal/tui/statspanel"
)

// statsJSON is the machine readable form of a dashboard
type statsJSON struct {
	Visits        stats.VisitSnapshot `json:"visits"`
	Social        socialJSON          `json:"social"`
	CombinedAll   int64               `json:"combinedAll"`
	CombinedToday int64               `json:"combinedToday"`
}

type socialJSON struct {
	GitHubFollowers   stats.Count   `json:"githubFollowers"`
	LinkedInFollowers stats.Count   `json:"linkedinFollowers"`
	GitHubToday       stats.Count   `json:"githubToday"`
	LinkedInToday     stats.Count   `json:"linkedinToday"`
	Source            stats.Sources `json:"source"`
}

// newStatsCmd creates the stats command
func newStatsCmd(opts *rootOptions) *cobra.Command {
	var (
		watch    bool
		asJSON   bool
		path     string
		interval string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show visitor and follower counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(rc *runtime.Context) error {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()

				collector, err := rc.Collector(ctx)
				if err != nil {
					return err
				}
				req := stats.VisitRequest{Path: path, Title: "CLI"}

				if watch {
					if !output.IsTTY() {
						return errors.New("--watch needs an interactive terminal")
					}
					every, err := parseInterval(interval)
					if err != nil {
						return err
					}
					m := statspanel.New(func(ctx context.Context) stats.Dashboard {
						return collector.Collect(ctx, req)
					}, statspanel.Options{Lang: rc.Lang, Interval: every})

					rc.Splog.SetQuiet(true)
					defer rc.Splog.SetQuiet(false)
					if err := statspanel.Run(ctx, m); err != nil && !errors.Is(ctx.Err(), context.Canceled) {
						return err
					}
					return nil
				}

				d := collector.Collect(ctx, req)
				if asJSON {
					return writeStatsJSON(cmd, d)
				}

				p := i18n.NewPrinter(rc.Lang)
				rc.Splog.Info("%s  %s", output.Bold(p.T(i18n.LabelVisits)), p.Status(d.Visits))
				rc.Splog.Newline()
				rc.Splog.Page(statspanel.Summary(p, d, nil, nil))
				if d.Visits.HasError {
					rc.Splog.Warn("%s", p.T(i18n.StatusUnavailable))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep refreshing in an interactive panel")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().StringVar(&path, "path", "/", "page path recorded as the visit")
	cmd.Flags().StringVar(&interval, "interval", statspanel.DefaultInterval.String(), "refresh period for --watch")

	return cmd
}

func writeStatsJSON(cmd *cobra.Command, d stats.Dashboard) error {
	out := statsJSON{
		Visits: d.Visits,
		Social: socialJSON{
			GitHubFollowers:   d.Social.GitHubFollowers,
			LinkedInFollowers: d.Social.LinkedInFollowers,
			GitHubToday:       d.Social.GitHubToday,
			LinkedInToday:     d.Social.LinkedInToday,
			Source:            d.Social.Sources,
		},
		CombinedAll:   d.CombinedTotal(),
		CombinedToday: d.CombinedToday(),
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	return nil
}
