package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quotegrab/quotegrab/internal/config"
	"github.com/quotegrab/quotegrab/internal/crawler"
	"github.com/quotegrab/quotegrab/internal/database"
	"github.com/quotegrab/quotegrab/internal/log"
	"github.com/quotegrab/quotegrab/internal/model"
	"github.com/quotegrab/quotegrab/internal/report"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [start-url]...",
		Short: "Crawl listing pages and extract text/attribution records",
		Long: `Scrape crawls one or more paginated listings starting from the given URLs.

Each crawl fetches pages sequentially, extracts paired text/attribution
records, deduplicates them across pages, and follows next-page links
until the listing is exhausted or a page limit is reached. Results are
written to CSV and JSON files, persisted to a SQLite database, and
summarized on the terminal.

Examples:
  # Scrape a whole paginated listing
  quotegrab scrape https://quotes.toscrape.com

  # Stop after five pages
  quotegrab scrape --max-pages 5 https://quotes.toscrape.com

  # Only the start page, no pagination
  quotegrab scrape --single-page https://quotes.toscrape.com

  # Markdown summary written to a file
  quotegrab scrape -m -o report.md https://quotes.toscrape.com

  # Custom selectors from a configuration file
  quotegrab scrape -c mysite.yaml https://example.com/catalog

Configuration file (.quotegrab) example:
  defaults:
    text:
      tag: span
      attrs: {class: text}
    attribution:
      tag: small
      attrs: {class: author}
  sites:
    quotes.toscrape.com:
      maxPages: 10`,
		Args: cobra.ArbitraryArgs,
		RunE: runScrapeCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to crawl per start URL (0 = unlimited)")
	cmd.Flags().BoolP("single-page", "s", false,
		"Scrape only the start page, without following pagination")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Fetch timeout for each request")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with each request")

	// Batch scraping flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent crawls when multiple start URLs are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .quotegrab in current or home directory)")

	// Output flags
	cmd.Flags().String("csv", config.DefaultCSVFile,
		"CSV output file path (empty to disable)")
	cmd.Flags().String("json-out", config.DefaultJSONFile,
		"JSON output file path (empty to disable)")
	cmd.Flags().String("summary", config.DefaultSummaryFile,
		"JSON summary output file path (empty to disable)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the summary as Markdown instead of plain text")
	cmd.Flags().StringP("output", "o", "",
		"Write the printed summary to the specified file instead of stdout")

	// Database flags
	cmd.Flags().Bool("no-db", false,
		"Disable persisting records to the SQLite database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory for the SQLite database")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScrape(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.SinglePage, err = cmd.Flags().GetBool("single-page")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load selector configuration from the config file.
	// If the user explicitly specified a path, error if not found.
	// If no path was specified, silently fall back to built-in selectors.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Sites, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.CSVFile, err = cmd.Flags().GetString("csv")
	if err != nil {
		return nil, err
	}

	cfg.JSONFile, err = cmd.Flags().GetString("json-out")
	if err != nil {
		return nil, err
	}

	cfg.SummaryFile, err = cmd.Flags().GetString("summary")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownSummary, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.SummaryOutput, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are the start URLs
	cfg.StartURLs = args

	return cfg, nil
}

// runScrape executes the crawls and writes all outputs.
func runScrape(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scrape",
		"startURLs", cfg.StartURLs,
		"maxPages", cfg.MaxPages,
		"singlePage", cfg.SinglePage,
		"saveToDB", cfg.SaveToDB,
	)

	// Open the database if persistence is enabled
	var store *database.Store
	if cfg.SaveToDB {
		var err error
		store, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	var (
		combined     []model.Record
		seen         = make(map[model.Key]bool)
		pagesFetched int
	)
	collect := func(startURL string, result *crawler.Result, err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Scrape error for %s: %v\n", startURL, err)
			return
		}

		fmt.Printf("Scraped %d records from %d page(s): %s\n",
			len(result.Records), result.PagesFetched, startURL)

		if err := saveRun(ctx, store, startURL, result, logger); err != nil {
			logger.Error("failed to save records", "startURL", startURL, "error", err)
		}

		pagesFetched += result.PagesFetched
		for _, rec := range result.Records {
			key := rec.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			combined = append(combined, rec)
		}
	}

	startTime := time.Now()

	if len(cfg.StartURLs) > 1 && cfg.BatchSize > 1 {
		if err := runBatchScrape(ctx, cfg, logger, collect); err != nil {
			return err
		}
	} else {
		if err := runSequentialScrape(ctx, cfg, logger, collect); err != nil {
			return err
		}
	}

	fmt.Printf("Scrape completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))

	if len(combined) == 0 {
		fmt.Println("No records scraped.")
		return nil
	}

	return writeOutputs(cfg, combined, pagesFetched)
}

// runSequentialScrape crawls the start URLs one at a time, applying
// per-site selector configuration.
func runSequentialScrape(ctx context.Context, cfg *config.Config, logger *slog.Logger, collect func(string, *crawler.Result, error)) error {
	for _, startURL := range cfg.StartURLs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		engine, err := newEngineForTarget(cfg, logger, startURL)
		if err != nil {
			return err
		}

		result, err := engine.Crawl(ctx, startURL)
		collect(startURL, result, err)
	}
	return nil
}

// runBatchScrape crawls multiple start URLs concurrently.
// Batch mode applies the defaults section only; site-specific selector
// overrides require sequential mode.
func runBatchScrape(ctx context.Context, cfg *config.Config, logger *slog.Logger, collect func(string, *crawler.Result, error)) error {
	if cfg.Sites != nil && len(cfg.Sites.Sites) > 0 {
		logger.Warn("batch mode uses default selectors only; site-specific configs are ignored",
			"siteCount", len(cfg.Sites.Sites))
		fmt.Fprintf(os.Stderr, "Warning: Site-specific configurations are ignored in batch mode. Use --batch 1 to apply per-site settings.\n\n")
	}

	engine, err := newEngineForTarget(cfg, logger, "")
	if err != nil {
		return err
	}

	batch := crawler.NewBatch(engine,
		crawler.WithBatchConcurrency(cfg.BatchSize),
		crawler.WithBatchLogger(logger),
	)
	return batch.Run(ctx, cfg.StartURLs, collect)
}

// newEngineForTarget builds a crawl engine for the given start URL,
// applying the site-specific configuration for its host. An empty
// startURL applies the defaults section only.
func newEngineForTarget(cfg *config.Config, logger *slog.Logger, startURL string) (*crawler.Engine, error) {
	var site config.SiteConfig
	if cfg.Sites != nil {
		host := ""
		if startURL != "" {
			if u, err := url.Parse(startURL); err == nil {
				host = u.Hostname()
			}
		}
		site = cfg.Sites.GetSiteConfig(host)
	}

	resolver, err := crawler.NewResolver(site.Strategies())
	if err != nil {
		return nil, fmt.Errorf("invalid next-link configuration: %w", err)
	}

	fetcher := crawler.NewFetcher(cfg.Timeout,
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	)

	maxPages := cfg.MaxPages
	if site.MaxPages > 0 {
		maxPages = site.MaxPages
	}

	return crawler.NewEngine(
		fetcher,
		crawler.NewExtractor(site.SelectorConfig()),
		resolver,
		crawler.WithMaxPages(maxPages),
		crawler.WithPagination(!cfg.SinglePage),
		crawler.WithLogger(logger),
	), nil
}

// saveRun persists a crawl's records and run statistics.
// If store is nil, this function is a no-op.
func saveRun(ctx context.Context, store *database.Store, startURL string, result *crawler.Result, logger *slog.Logger) error {
	if store == nil {
		return nil
	}

	inserted, err := store.InsertRecords(ctx, result.Records)
	if err != nil {
		return fmt.Errorf("failed to insert records: %w", err)
	}

	run := &database.Run{
		StartURL:        startURL,
		PagesFetched:    result.PagesFetched,
		RecordsFound:    len(result.Records),
		RecordsInserted: inserted,
	}
	if err := store.SaveRun(ctx, run); err != nil {
		return err
	}

	logger.Info("records saved to database",
		"startURL", startURL,
		"found", len(result.Records),
		"inserted", inserted,
	)
	return nil
}

// writeOutputs writes the combined result sequence to every configured
// destination: CSV and JSON files, the JSON summary file, and the printed
// summary.
func writeOutputs(cfg *config.Config, records []model.Record, pagesFetched int) error {
	startURL := ""
	if len(cfg.StartURLs) == 1 {
		startURL = cfg.StartURLs[0]
	}
	summary := model.NewSummary(startURL, records, pagesFetched)

	if cfg.CSVFile != "" {
		if err := writeToFile(cfg.CSVFile, func(f *os.File) error {
			_, err := report.NewCSVWriter(f).Write(records)
			return err
		}); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		fmt.Printf("CSV saved: %s\n", cfg.CSVFile)
	}

	if cfg.JSONFile != "" {
		if err := writeToFile(cfg.JSONFile, func(f *os.File) error {
			_, err := report.NewJSONWriter(f, report.WithPrettyPrint()).Write(records)
			return err
		}); err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}
		fmt.Printf("JSON saved: %s\n", cfg.JSONFile)
	}

	if cfg.SummaryFile != "" {
		if err := writeToFile(cfg.SummaryFile, func(f *os.File) error {
			_, err := report.NewJSONWriter(f, report.WithPrettyPrint()).WriteSummary(summary)
			return err
		}); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		fmt.Printf("Summary saved: %s\n", cfg.SummaryFile)
	}

	return printSummary(cfg, records, summary)
}

// printSummary writes the human-facing summary to stdout or the
// configured output file, as plain text or Markdown.
func printSummary(cfg *config.Config, records []model.Record, summary *model.Summary) error {
	output := os.Stdout
	if cfg.SummaryOutput != "" {
		dir := filepath.Dir(cfg.SummaryOutput)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.Create(cfg.SummaryOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		fmt.Println()
	}

	if cfg.MarkdownSummary {
		_, err := report.NewMarkdownWriter(output).Write(records)
		return err
	}

	_, err := report.NewSimpleWriter(output).WriteSummary(summary)
	return err
}

// writeToFile creates the file (and any parent directories) and hands it
// to fn, closing it afterwards.
func writeToFile(path string, fn func(*os.File) error) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return fn(f)
}
