package model

import "time"

// SampleSize is the number of records included as a sample in a summary.
const SampleSize = 5

// Summary holds aggregate statistics for one crawl's result sequence.
// It is computed once from the final deduplicated records and consumed by
// the report writers.
type Summary struct {
	// StartURL is the URL the crawl started from.
	StartURL string `json:"start_url,omitempty"`

	// TotalRecords is the number of deduplicated records collected.
	TotalRecords int `json:"total_items"`

	// UniqueAttributions is the number of distinct attribution values.
	UniqueAttributions int `json:"unique_attributions"`

	// PagesFetched is the number of pages successfully fetched and parsed.
	PagesFetched int `json:"pages_fetched"`

	// Sample contains up to SampleSize records in first-seen order.
	Sample []Record `json:"sample"`

	// GeneratedAt is when the summary was computed.
	GeneratedAt time.Time `json:"generated_at"`
}

// NewSummary computes a Summary from a result sequence.
// The records are assumed to already be deduplicated and in first-seen order.
func NewSummary(startURL string, records []Record, pagesFetched int) *Summary {
	attributions := make(map[string]struct{}, len(records))
	for _, r := range records {
		attributions[r.Attribution] = struct{}{}
	}

	sample := records
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}
	// Copy so the summary does not alias the caller's slice.
	sampleCopy := make([]Record, len(sample))
	copy(sampleCopy, sample)

	return &Summary{
		StartURL:           startURL,
		TotalRecords:       len(records),
		UniqueAttributions: len(attributions),
		PagesFetched:       pagesFetched,
		Sample:             sampleCopy,
		GeneratedAt:        time.Now(),
	}
}
