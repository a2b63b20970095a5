package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quotegrab/quotegrab/internal/config"
	"github.com/quotegrab/quotegrab/internal/database"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics from the scrape database",
		Long: `Stats reports on the records accumulated in the local SQLite database:
total record count, distinct attributions, the most frequent
attributions, and recent crawl runs.

Examples:
  # Show database statistics
  quotegrab stats

  # Show the 20 most frequent attributions
  quotegrab stats --top 20`,
		Args: cobra.NoArgs,
		RunE: runStatsCmd,
	}

	cmd.Flags().IntP("top", "n", 10, "Number of top attributions to show")
	cmd.Flags().Int("runs", 5, "Number of recent crawl runs to show")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory for the SQLite database")

	return cmd
}

// runStatsCmd executes the stats command.
func runStatsCmd(cmd *cobra.Command, _ []string) error {
	topN, err := cmd.Flags().GetInt("top")
	if err != nil {
		return err
	}

	runN, err := cmd.Flags().GetInt("runs")
	if err != nil {
		return err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	store, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open database (run a scrape first): %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()

	total, err := store.CountRecords(ctx)
	if err != nil {
		return err
	}

	attributions, err := store.CountAttributions(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Scrape Database Statistics")
	fmt.Fprintln(out, "==========================")
	fmt.Fprintf(out, "Total records:        %d\n", total)
	fmt.Fprintf(out, "Unique attributions:  %d\n", attributions)

	top, err := store.TopAttributions(ctx, topN)
	if err != nil {
		return err
	}
	if len(top) > 0 {
		fmt.Fprintf(out, "\nTop attributions:\n")
		for i, ac := range top {
			fmt.Fprintf(out, "  %2d. %s (%d)\n", i+1, ac.Attribution, ac.Count)
		}
	}

	runs, err := store.RecentRuns(ctx, runN)
	if err != nil {
		return err
	}
	if len(runs) > 0 {
		fmt.Fprintf(out, "\nRecent crawl runs:\n")
		for _, run := range runs {
			fmt.Fprintf(out, "  %s  %s  pages=%d found=%d new=%d\n",
				run.Timestamp.Format("2006-01-02 15:04:05"),
				run.StartURL,
				run.PagesFetched,
				run.RecordsFound,
				run.RecordsInserted,
			)
		}
	}

	return nil
}
