package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Output file names follow the conventional
// scraper defaults so results land in predictable places.
const (
	// DefaultTimeout bounds each page fetch. Listing sites respond quickly;
	// anything slower than this is treated as a fetch failure.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxPages of 0 means the crawl is bounded only by the site's
	// own pagination (and the visited set). Users can cap it with --max-pages.
	DefaultMaxPages = 0

	// DefaultBatchSize is the number of concurrent crawls when scraping
	// multiple start URLs. Individual crawls are always sequential.
	DefaultBatchSize = 4

	// DefaultUserAgent identifies quotegrab in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows operators
	// to identify scraper traffic in their logs.
	DefaultUserAgent = "Mozilla/5.0 (compatible; quotegrab/1.0; +https://github.com/quotegrab/quotegrab)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for any HTML listing page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths.
	AppName = "quotegrab"

	// DefaultCSVFile is the default CSV output path.
	DefaultCSVFile = "scraped_data.csv"

	// DefaultJSONFile is the default JSON output path.
	DefaultJSONFile = "scraped_data.json"

	// DefaultSummaryFile is the default JSON summary output path.
	DefaultSummaryFile = "scrape_summary.json"
)

// Config holds all configuration options for quotegrab.
// It is populated from CLI flags and passed through the application via
// dependency injection rather than global state.
type Config struct {
	// StartURLs are the listing pages to start crawling from.
	// Each must include a scheme and host.
	StartURLs []string

	// MaxPages limits the number of pages fetched per crawl.
	// 0 means unlimited.
	MaxPages int

	// SinglePage disables pagination following, reducing each crawl to
	// its start page.
	SinglePage bool

	// Timeout is the per-request fetch timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// 0 means use the default.
	MaxBodySize int64

	// BatchSize is the number of concurrent crawls when multiple start
	// URLs are given. Each crawl remains strictly sequential internally.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .quotegrab in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// Sites holds selector and strategy configurations loaded from the
	// config file. Nil means built-in defaults apply everywhere.
	Sites *File

	// CSVFile is the CSV output path. Empty disables CSV output.
	CSVFile string

	// JSONFile is the JSON output path. Empty disables JSON output.
	JSONFile string

	// SummaryFile is the JSON summary output path. Empty disables it.
	SummaryFile string

	// MarkdownSummary switches the printed summary from plain text to
	// Markdown with a top-attributions chart.
	MarkdownSummary bool

	// SummaryOutput is an optional file path for the printed summary.
	// Empty means stdout.
	SummaryOutput string

	// DBDir is the directory holding the SQLite database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether records are persisted to the database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (timeout, output paths).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxPages:    DefaultMaxPages,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		BatchSize:   DefaultBatchSize,
		CSVFile:     DefaultCSVFile,
		JSONFile:    DefaultJSONFile,
		SummaryFile: DefaultSummaryFile,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for quotegrab.
// On Linux: ~/.local/share/quotegrab
// On macOS: ~/Library/Application Support/quotegrab
// On Windows: %LOCALAPPDATA%\quotegrab
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.StartURLs) == 0 {
		return ErrNoStartURL
	}

	for _, raw := range c.StartURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ErrInvalidStartURL
		}
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
