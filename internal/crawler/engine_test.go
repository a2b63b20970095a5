package crawler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// quotePage renders a minimal listing page. nextHref may be empty for the
// last page of a sequence.
func quotePage(nextHref string, pairs ...[2]string) string {
	page := `<html><body>`
	for _, p := range pairs {
		page += `<div class="quote"><span class="text">` + p[0] + `</span>` +
			`<small class="author">` + p[1] + `</small></div>`
	}
	if nextHref != "" {
		page += `<ul class="pager"><li class="next"><a href="` + nextHref + `">Next</a></li></ul>`
	}
	page += `</body></html>`
	return page
}

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()

	resolver, err := NewResolver(DefaultStrategies())
	if err != nil {
		t.Fatalf("failed to create resolver: %v", err)
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]EngineOption{WithLogger(quiet)}, opts...)

	return NewEngine(
		NewFetcher(5*time.Second),
		NewExtractor(DefaultSelectorConfig()),
		resolver,
		opts...,
	)
}

// TestEngineCrawl tests the crawl loop's accumulation and termination behavior.
func TestEngineCrawl(t *testing.T) {
	t.Parallel()

	t.Run("follows pagination and deduplicates across pages", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/page/1", func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, quotePage("/page/2",
				[2]string{"First.", "Alice"},
				[2]string{"Second.", "Bob"},
			))
		})
		mux.HandleFunc("/page/2", func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, quotePage("",
				[2]string{"First.", "Alice"}, // duplicate from page 1
				[2]string{"Third.", "Carol"},
			))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		result, err := newTestEngine(t).Crawl(context.Background(), srv.URL+"/page/1")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		if result.PagesFetched != 2 {
			t.Errorf("expected 2 pages fetched, got %d", result.PagesFetched)
		}
		if len(result.Records) != 3 {
			t.Fatalf("expected 3 deduplicated records, got %d: %v", len(result.Records), result.Records)
		}
		// First occurrence wins, insertion order preserved.
		want := []string{"First.", "Second.", "Third."}
		for i, text := range want {
			if result.Records[i].Text != text {
				t.Errorf("record %d: expected %q, got %q", i, text, result.Records[i].Text)
			}
		}
	})

	t.Run("terminates on cyclic next links", func(t *testing.T) {
		t.Parallel()

		fetches := make(map[string]int)
		mux := http.NewServeMux()
		mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
			fetches[r.URL.Path]++
			io.WriteString(w, quotePage("/b", [2]string{"From A.", "Alice"}))
		})
		mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
			fetches[r.URL.Path]++
			io.WriteString(w, quotePage("/a", [2]string{"From B.", "Bob"}))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		result, err := newTestEngine(t).Crawl(context.Background(), srv.URL+"/a")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		if result.PagesFetched != 2 {
			t.Errorf("expected exactly 2 pages fetched, got %d", result.PagesFetched)
		}
		if fetches["/a"] != 1 || fetches["/b"] != 1 {
			t.Errorf("expected each page fetched once, got %v", fetches)
		}
		if len(result.Records) != 2 {
			t.Errorf("expected 2 records, got %v", result.Records)
		}
	})

	t.Run("max pages bound includes the page just processed", func(t *testing.T) {
		t.Parallel()

		var secondPageFetched bool
		mux := http.NewServeMux()
		mux.HandleFunc("/page/1", func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, quotePage("/page/2", [2]string{"Only this.", "Alice"}))
		})
		mux.HandleFunc("/page/2", func(w http.ResponseWriter, _ *http.Request) {
			secondPageFetched = true
			io.WriteString(w, quotePage("", [2]string{"Never seen.", "Bob"}))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		result, err := newTestEngine(t, WithMaxPages(1)).Crawl(context.Background(), srv.URL+"/page/1")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		if secondPageFetched {
			t.Error("second page must not be fetched with maxPages=1")
		}
		if len(result.Records) != 1 || result.Records[0].Text != "Only this." {
			t.Errorf("expected only the first page's records, got %v", result.Records)
		}
	})

	t.Run("fetch failure returns partial results without error", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/page/1", func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, quotePage("/page/2", [2]string{"Kept.", "Alice"}))
		})
		mux.HandleFunc("/page/2", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		result, err := newTestEngine(t).Crawl(context.Background(), srv.URL+"/page/1")
		if err != nil {
			t.Fatalf("expected graceful termination, got error: %v", err)
		}

		if result.PagesFetched != 1 {
			t.Errorf("expected 1 page fetched, got %d", result.PagesFetched)
		}
		if len(result.Records) != 1 || result.Records[0].Text != "Kept." {
			t.Errorf("expected first page's records, got %v", result.Records)
		}
	})

	t.Run("pagination disabled reduces crawl to the start page", func(t *testing.T) {
		t.Parallel()

		var secondPageFetched bool
		mux := http.NewServeMux()
		mux.HandleFunc("/page/1", func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, quotePage("/page/2", [2]string{"Single.", "Alice"}))
		})
		mux.HandleFunc("/page/2", func(w http.ResponseWriter, _ *http.Request) {
			secondPageFetched = true
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		result, err := newTestEngine(t, WithPagination(false)).Crawl(context.Background(), srv.URL+"/page/1")
		if err != nil {
			t.Fatalf("crawl failed: %v", err)
		}

		if secondPageFetched {
			t.Error("pagination disabled must not follow next links")
		}
		if result.PagesFetched != 1 || len(result.Records) != 1 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("invalid start URL", func(t *testing.T) {
		t.Parallel()

		if _, err := newTestEngine(t).Crawl(context.Background(), "not-a-url"); !errors.Is(err, ErrInvalidStartURL) {
			t.Errorf("expected ErrInvalidStartURL, got %v", err)
		}
	})

	t.Run("cancelled context returns partial results and ctx error", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, quotePage(""))
		}))
		defer srv.Close()

		result, err := newTestEngine(t).Crawl(ctx, srv.URL)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if result == nil || len(result.Records) != 0 {
			t.Errorf("expected empty partial result, got %+v", result)
		}
	})
}
