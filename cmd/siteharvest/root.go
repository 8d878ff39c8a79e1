// Package main provides the entry point for the siteharvest CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for siteharvest.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "siteharvest",
		Short: "Polite single-site crawler with structured content extraction",
		Long: `siteharvest crawls one website starting from a seed URL, staying within
the seed's host. Each page is parsed into structured content (main text,
headings, paragraphs, lists, metadata) and the accumulated dataset is
checkpointed to disk at regular intervals.

When the site is exhausted, the complete dataset is written as JSON
together with a flattened spreadsheet summary.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
