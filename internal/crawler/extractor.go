package crawler

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/quotegrab/quotegrab/internal/model"
)

// SelectorConfig holds the two selectors the extractor pairs.
// It is injected via the constructor so selectors can vary per crawl and
// tests can use mock markup.
type SelectorConfig struct {
	// Text selects the nodes carrying the primary text.
	Text Selector

	// Attribution selects the nodes carrying the attribution.
	Attribution Selector
}

// DefaultSelectorConfig returns the selector configuration for the common
// quote-listing markup convention (span.text paired with small.author).
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		Text:        Selector{Tag: "span", Attrs: map[string]string{"class": "text"}},
		Attribution: Selector{Tag: "small", Attrs: map[string]string{"class": "author"}},
	}
}

// Extractor produces the ordered record sequence found on one page.
//
// The two selector queries run independently and their results are paired
// positionally: the i-th text node with the i-th attribution node, stopping
// at the shorter sequence. This assumes text and attribution nodes appear in
// matched order on the page; a page violating that assumption mis-pairs
// records. Pairing by DOM proximity instead would change which records a
// malformed page yields, so the positional behavior is kept as-is.
type Extractor struct {
	text        Selector
	attribution Selector
}

// NewExtractor creates an Extractor with the given selector configuration.
func NewExtractor(cfg SelectorConfig) *Extractor {
	return &Extractor{
		text:        cfg.Text,
		attribution: cfg.Attribution,
	}
}

// Extract returns the records found on the page in document order.
// Pairs where either normalized value is empty are dropped. A page with no
// matching nodes yields an empty sequence, not an error.
func (e *Extractor) Extract(doc *Document) []model.Record {
	texts := doc.FindAll(e.text)
	attributions := doc.FindAll(e.attribution)

	n := len(texts)
	if len(attributions) < n {
		n = len(attributions)
	}

	records := make([]model.Record, 0, n)
	for i := 0; i < n; i++ {
		text := NormalizeText(nodeText(texts[i]))
		attribution := NormalizeText(nodeText(attributions[i]))
		if text == "" || attribution == "" {
			continue
		}
		records = append(records, model.Record{
			Text:        text,
			Attribution: attribution,
		})
	}

	return records
}

// quoteReplacer maps curly quotation marks and apostrophes to their
// straight ASCII equivalents.
var quoteReplacer = strings.NewReplacer(
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
)

// NormalizeText cleans an extracted text value: Unicode NFC form, curly
// quotes straightened, surrounding whitespace trimmed, and internal
// whitespace runs collapsed to a single space. The function is idempotent.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)
	s = quoteReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
