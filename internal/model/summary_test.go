package model

import "testing"

// TestNewSummary tests summary statistics computation.
func TestNewSummary(t *testing.T) {
	t.Parallel()

	t.Run("counts records and distinct attributions", func(t *testing.T) {
		t.Parallel()

		records := []Record{
			{Text: "First.", Attribution: "Alice"},
			{Text: "Second.", Attribution: "Bob"},
			{Text: "Third.", Attribution: "Alice"},
		}

		s := NewSummary("https://example.com", records, 2)

		if s.TotalRecords != 3 {
			t.Errorf("expected 3 total records, got %d", s.TotalRecords)
		}
		if s.UniqueAttributions != 2 {
			t.Errorf("expected 2 unique attributions, got %d", s.UniqueAttributions)
		}
		if s.PagesFetched != 2 {
			t.Errorf("expected 2 pages fetched, got %d", s.PagesFetched)
		}
		if s.StartURL != "https://example.com" {
			t.Errorf("unexpected start URL %q", s.StartURL)
		}
	})

	t.Run("sample is capped at SampleSize in first-seen order", func(t *testing.T) {
		t.Parallel()

		records := make([]Record, 0, 8)
		for _, text := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
			records = append(records, Record{Text: text, Attribution: "X"})
		}

		s := NewSummary("", records, 1)

		if len(s.Sample) != SampleSize {
			t.Fatalf("expected sample of %d, got %d", SampleSize, len(s.Sample))
		}
		if s.Sample[0].Text != "a" || s.Sample[4].Text != "e" {
			t.Errorf("sample not in first-seen order: %v", s.Sample)
		}
	})

	t.Run("empty result sequence", func(t *testing.T) {
		t.Parallel()

		s := NewSummary("", nil, 0)

		if s.TotalRecords != 0 {
			t.Errorf("expected 0 total records, got %d", s.TotalRecords)
		}
		if s.UniqueAttributions != 0 {
			t.Errorf("expected 0 unique attributions, got %d", s.UniqueAttributions)
		}
		if len(s.Sample) != 0 {
			t.Errorf("expected empty sample, got %v", s.Sample)
		}
	})
}

// TestRecordKey tests deduplication key semantics.
func TestRecordKey(t *testing.T) {
	t.Parallel()

	a := Record{Text: "Be yourself.", Attribution: "Oscar Wilde"}
	b := Record{Text: "Be yourself.", Attribution: "Oscar Wilde"}
	c := Record{Text: "Be yourself.", Attribution: "Anonymous"}
	d := Record{Text: "Stay hungry.", Attribution: "Oscar Wilde"}

	if a.Key() != b.Key() {
		t.Error("identical records must share a key")
	}
	if a.Key() == c.Key() {
		t.Error("same text with different attribution must be distinct")
	}
	if a.Key() == d.Key() {
		t.Error("different text with same attribution must be distinct")
	}
}
