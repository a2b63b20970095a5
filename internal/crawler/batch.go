package crawler

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Batch runs independent crawls for several start URLs concurrently.
// Each crawl remains strictly sequential internally; only whole crawls run
// in parallel, bounded by the concurrency limit.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and handles the concurrency correctly.
type Batch struct {
	// engine runs the individual crawls. Crawl state is per-invocation,
	// so a single engine is safe to share across goroutines.
	engine *Engine

	// concurrency is the maximum number of crawls in flight.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithBatchConcurrency sets the maximum number of concurrent crawls.
// Default is 4 if not specified.
func WithBatchConcurrency(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) {
		b.logger = logger
	}
}

// NewBatch creates a Batch around the given engine.
func NewBatch(engine *Engine, opts ...BatchOption) *Batch {
	b := &Batch{
		engine:      engine,
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Run crawls every start URL and invokes fn with each outcome. Calls to fn
// are serialized. A failed crawl is reported through fn and does not stop
// the remaining crawls; Run itself returns an error only when the context
// is cancelled.
func (b *Batch) Run(ctx context.Context, startURLs []string, fn func(startURL string, result *Result, err error)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	var mu sync.Mutex
	for _, startURL := range startURLs {
		g.Go(func() error {
			result, err := b.engine.Crawl(ctx, startURL)
			if err != nil {
				b.logger.Warn("crawl failed", "url", startURL, "error", err)
			}

			mu.Lock()
			defer mu.Unlock()
			fn(startURL, result, err)
			return nil
		})
	}

	return g.Wait()
}
