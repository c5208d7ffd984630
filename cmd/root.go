// Package cmd implements the CLI commands for postpipe using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "postpipe",
	Short: "postpipe: collect social posts into a gemtext log",
	Long: `postpipe is a deterministic pipeline that collects recent posts from
Bluesky, Kibun and Mastodon accounts and renders them into one gemtext
file per day.

Usage:
  postpipe collect --output <dir> [flags]`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
