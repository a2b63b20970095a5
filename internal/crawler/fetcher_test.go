package crawler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestFetcher tests HTTP transport behavior.
func TestFetcher(t *testing.T) {
	t.Parallel()

	t.Run("sends identifying user agent", func(t *testing.T) {
		t.Parallel()

		var gotUA string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			io.WriteString(w, "<html></html>")
		}))
		defer srv.Close()

		f := NewFetcher(5*time.Second, WithUserAgent("quotegrab-test/1.0"))
		if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if gotUA != "quotegrab-test/1.0" {
			t.Errorf("expected custom user agent, got %q", gotUA)
		}
	})

	t.Run("non-2xx status is a fetch error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not here", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewFetcher(5 * time.Second).Fetch(context.Background(), srv.URL)

		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected *FetchError, got %T: %v", err, err)
		}
		if fetchErr.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", fetchErr.StatusCode)
		}
	})

	t.Run("network error is a fetch error", func(t *testing.T) {
		t.Parallel()

		// Server closed before the request is made.
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		_, err := NewFetcher(time.Second).Fetch(context.Background(), srv.URL)

		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("expected *FetchError, got %T: %v", err, err)
		}
		if fetchErr.Err == nil {
			t.Error("expected wrapped network error")
		}
	})

	t.Run("body is capped at max size", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, strings.Repeat("x", 1024))
		}))
		defer srv.Close()

		body, err := NewFetcher(5*time.Second, WithMaxBodySize(100)).Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if len(body) != 100 {
			t.Errorf("expected body capped at 100 bytes, got %d", len(body))
		}
	})
}
