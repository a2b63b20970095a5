package crawler

import (
	"errors"
	"net/url"
	"strings"
)

// ErrNoStrategies is returned when a Resolver is constructed with an empty
// strategy list. This is a configuration error, not a per-crawl condition.
var ErrNoStrategies = errors.New("next-link resolver requires at least one strategy")

// Strategy is one named rule for locating the next-page link in a
// particular markup convention.
//
// A strategy first locates a parent node. If a child selector is present,
// the link is read from the first matching descendant of the parent;
// otherwise the parent node itself carries the link.
type Strategy struct {
	// Name identifies the strategy in logs.
	Name string

	// Parent selects the containing node.
	Parent Selector

	// Child optionally selects the link node within the parent's subtree.
	// Nil means the parent itself carries the link attribute.
	Child *Selector

	// Attr is the attribute holding the link, "href" when empty.
	Attr string
}

// DefaultStrategies returns the next-link strategies for common pagination
// markup: a "next" list item wrapping an anchor, then a bare anchor carrying
// rel="next".
func DefaultStrategies() []Strategy {
	anchor := Selector{Tag: "a"}
	return []Strategy{
		{
			Name:   "next-list-item",
			Parent: Selector{Tag: "li", Attrs: map[string]string{"class": "next"}},
			Child:  &anchor,
		},
		{
			Name:   "rel-next-anchor",
			Parent: Selector{Tag: "a", Attrs: map[string]string{"rel": "next"}},
		},
	}
}

// Resolver determines the absolute URL of the next page by trying an
// ordered, fixed list of strategies and returning the first success.
//
// Design decision: Strategies are data tried in a loop rather than
// conditional branches so the set stays extensible (e.g. from the config
// file) without touching the resolver's control flow.
type Resolver struct {
	strategies []Strategy
}

// NewResolver creates a Resolver with the given ordered strategy list.
// An empty list returns ErrNoStrategies.
func NewResolver(strategies []Strategy) (*Resolver, error) {
	if len(strategies) == 0 {
		return nil, ErrNoStrategies
	}
	return &Resolver{strategies: strategies}, nil
}

// Resolve returns the absolute URL of the next page, or ok=false when no
// strategy succeeds, which signals crawl termination. Relative links are
// resolved against pageURL.
func (r *Resolver) Resolve(doc *Document, pageURL string) (string, bool) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}

	for _, strat := range r.strategies {
		parent := doc.Find(strat.Parent)
		if parent == nil {
			continue
		}

		node := parent
		if strat.Child != nil {
			node = findWithin(parent, *strat.Child)
			if node == nil {
				continue
			}
		}

		attrName := strat.Attr
		if attrName == "" {
			attrName = "href"
		}

		ref := strings.TrimSpace(getAttr(node, attrName))
		if ref == "" {
			continue
		}

		u, err := url.Parse(ref)
		if err != nil {
			continue
		}
		return base.ResolveReference(u).String(), true
	}

	return "", false
}
