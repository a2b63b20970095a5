package crawler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/quotegrab/quotegrab/internal/model"
)

// ErrInvalidStartURL is returned when the start URL is missing a scheme or
// host. This is caught before any fetching happens.
var ErrInvalidStartURL = errors.New("start URL must include scheme and host")

// Engine orchestrates one crawl: fetch page, parse, extract, accumulate
// with dedup, resolve the next link, loop.
//
// The crawl is strictly sequential, one page in flight at a time. All
// mutable crawl state (visited URLs, seen keys, result sequence) is local
// to a single Crawl call, so one Engine can serve concurrent invocations.
type Engine struct {
	// fetcher retrieves raw page bodies.
	fetcher *Fetcher

	// extractor produces each page's record sequence.
	extractor *Extractor

	// resolver discovers the next page's URL.
	resolver *Resolver

	// maxPages limits how many pages one crawl fetches. 0 means unlimited.
	maxPages int

	// followPagination disables the next-link step when false, reducing
	// the crawl to the start page alone. Single-page mode reuses the full
	// engine so extraction behavior cannot diverge between modes.
	followPagination bool

	// logger receives per-page progress and failure events.
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMaxPages limits the number of pages fetched per crawl.
// The limit includes the page being processed when it is reached.
// Zero means no limit.
func WithMaxPages(n int) EngineOption {
	return func(e *Engine) {
		e.maxPages = n
	}
}

// WithPagination enables or disables following next-page links.
func WithPagination(follow bool) EngineOption {
	return func(e *Engine) {
		e.followPagination = follow
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine from its three collaborators.
func NewEngine(fetcher *Fetcher, extractor *Extractor, resolver *Resolver, opts ...EngineOption) *Engine {
	e := &Engine{
		fetcher:          fetcher,
		extractor:        extractor,
		resolver:         resolver,
		followPagination: true,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Result is the outcome of one crawl invocation.
type Result struct {
	// Records is the deduplicated result sequence in first-seen order.
	Records []model.Record

	// PagesFetched counts pages successfully fetched and parsed.
	PagesFetched int
}

// Crawl runs the engine from startURL until a terminal condition: the next
// link is exhausted, a page fails to fetch or parse, the page limit is
// reached, or a previously visited URL comes up again.
//
// In every terminal case the accumulated records are returned; a fetch or
// parse failure yields partial results, not an error. The only errors are
// an invalid start URL and context cancellation between iterations, and
// cancellation still returns whatever was accumulated.
func (e *Engine) Crawl(ctx context.Context, startURL string) (*Result, error) {
	if u, err := url.Parse(startURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, ErrInvalidStartURL
	}

	visited := make(map[string]bool)
	seen := make(map[model.Key]bool)
	result := &Result{Records: make([]model.Record, 0)}

	current := startURL
	for current != "" && !visited[current] {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		// Mark before fetching so a page linking back to itself or an
		// ancestor terminates instead of re-fetching.
		visited[current] = true
		e.logger.Debug("fetching page", "url", current)

		body, err := e.fetcher.Fetch(ctx, current)
		if err != nil {
			e.logger.Warn("fetch failed, stopping crawl", "url", current, "error", err)
			return result, nil
		}

		doc, err := ParseDocument(bytes.NewReader(body))
		if err != nil {
			e.logger.Warn("malformed document, stopping crawl", "url", current, "error", err)
			return result, nil
		}

		// First occurrence wins across the whole crawl, not just within
		// this page.
		pageRecords := e.extractor.Extract(doc)
		kept := 0
		for _, rec := range pageRecords {
			key := rec.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			result.Records = append(result.Records, rec)
			kept++
		}

		result.PagesFetched++
		e.logger.Debug("page processed",
			"url", current,
			"extracted", len(pageRecords),
			"kept", kept,
			"pages", result.PagesFetched,
		)

		if e.maxPages > 0 && result.PagesFetched >= e.maxPages {
			e.logger.Debug("page limit reached", "maxPages", e.maxPages)
			break
		}

		if !e.followPagination {
			break
		}

		next, ok := e.resolver.Resolve(doc, current)
		if !ok {
			break
		}
		current = next
	}

	return result, nil
}
