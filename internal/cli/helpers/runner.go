// Package helpers provides shared plumbing for CLI commands.
package helpers

import (
	"github.com/spf13/cobra"

	"portfolio.dev/portfolio/internal/runtime"
)

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, opts runtime.Options, fn func(ctx *runtime.Context) error) error {
	if opts.Writer == nil {
		opts.Writer = cmd.OutOrStdout()
	}
	ctx, err := runtime.GetContext(opts)
	if err != nil {
		return err
	}
	defer ctx.Close()
	return fn(ctx)
}
