// Package cli implements the portfolio command line.
package cli

import (
	"github.com/spf13/cobra"

	"portfolio.dev/portfolio/internal/cli/helpers"
	"portfolio.dev/portfolio/internal/output"
	"portfolio.dev/portfolio/internal/runtime"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	configPath string
	logFile    string
	verbose    bool
	lang       string
}

func (o *rootOptions) runtimeOptions() runtime.Options {
	logFile := o.logFile
	if logFile == "" {
		logFile = output.GetLogFilePath()
	}
	return runtime.Options{
		ConfigPath: o.configPath,
		LogFile:    logFile,
		Verbose:    o.verbose,
		Lang:       o.lang,
	}
}

func (o *rootOptions) run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	return helpers.Run(cmd, o.runtimeOptions(), fn)
}

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Build, serve and inspect the portfolio site",
		Long: `Portfolio renders the static site with its route overlay, serves the statistics API,
and shows live visitor and follower counts in the terminal.`,
		Version:       version + " (" + commit + ", " + date + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			output.ConfigureColor()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a JSON config file")
	flags.StringVar(&opts.logFile, "log-file", "", "log file path (default ~/.portfolio/logs/portfolio.log)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "show debug output")
	flags.StringVar(&opts.lang, "lang", "", "output language (pt or en)")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newPrerenderCmd(opts),
		newStatsCmd(opts),
		newRoutesCmd(opts),
		newPreviewCmd(opts),
	)

	return rootCmd
}
