package model

// Record is a single extracted text/attribution pair.
// Records are immutable once produced by the extractor; the crawl engine
// deduplicates them by Key across all pages of one crawl.
type Record struct {
	// Text is the extracted primary text, normalized (trimmed, internal
	// whitespace collapsed, curly quotes straightened).
	Text string `json:"text"`

	// Attribution is the author or source associated with the text,
	// normalized the same way.
	Attribution string `json:"attribution"`
}

// Key identifies a record for deduplication purposes.
// Two records are the same record exactly when both fields match.
//
// Design decision: We use a comparable struct rather than a joined string
// because it cannot collide (a separator character could legally appear in
// either field) and works directly as a map key.
type Key struct {
	Text        string
	Attribution string
}

// Key returns the deduplication key for the record.
func (r Record) Key() Key {
	return Key{Text: r.Text, Attribution: r.Attribution}
}
