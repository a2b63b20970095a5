package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for quotegrab.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotegrab",
		Short: "Scrape paired text/attribution records from paginated listings",
		Long: `quotegrab crawls paginated listing pages, extracts paired text and
attribution records, deduplicates them across pages, and writes the
results to CSV, JSON, and SQLite along with a summary report.

Pagination is followed automatically via an ordered list of next-link
strategies, so heterogeneous pagination markup works out of the box.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewInitCmd())
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
