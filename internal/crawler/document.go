package crawler

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Selector identifies HTML elements by tag name and required attribute values.
// An empty Attrs map matches every element with the given tag.
//
// The "class" attribute is matched token-wise: an element with
// class="quote text" matches a selector requiring class "text". All other
// attributes are compared for exact equality. This mirrors how class lists
// behave in real markup, where elements routinely carry extra classes.
type Selector struct {
	// Tag is the element name, e.g. "span" or "a".
	Tag string

	// Attrs maps attribute names to required values.
	Attrs map[string]string
}

// matches reports whether the node satisfies the selector.
func (s Selector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Data != s.Tag {
		return false
	}
	for key, want := range s.Attrs {
		got := getAttr(n, key)
		if key == "class" {
			if !hasClassToken(got, want) {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

// hasClassToken reports whether the space-separated class list contains
// the given token.
func hasClassToken(classAttr, token string) bool {
	for _, t := range strings.Fields(classAttr) {
		if t == token {
			return true
		}
	}
	return false
}

// Document wraps a parsed HTML tree with selector-based lookup.
//
// Design decision: We use golang.org/x/net/html rather than regex or a
// heavier scraping framework because:
//  1. It correctly handles malformed HTML common on the web
//  2. Document order is preserved, which positional pairing depends on
//  3. Standard library extension, well-maintained
type Document struct {
	root *html.Node
}

// ParseDocument parses an HTML document body.
// The underlying parser is tolerant of malformed markup; an error here
// typically means the reader itself failed.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{root: root}, nil
}

// FindAll returns all nodes matching the selector in document order.
func (d *Document) FindAll(sel Selector) []*html.Node {
	return findAll(d.root, sel)
}

// Find returns the first node matching the selector in document order,
// or nil if no node matches.
func (d *Document) Find(sel Selector) *html.Node {
	return findFirst(d.root, sel)
}

// findAll collects matching nodes in the subtree rooted at n, in document
// order, including n itself.
func findAll(n *html.Node, sel Selector) []*html.Node {
	var matched []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if sel.matches(n) {
			matched = append(matched, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return matched
}

// findFirst returns the first matching node in the subtree rooted at n,
// including n itself, or nil.
func findFirst(n *html.Node, sel Selector) *html.Node {
	if sel.matches(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, sel); found != nil {
			return found
		}
	}
	return nil
}

// findWithin returns the first matching descendant of n, excluding n itself.
// Used for child queries scoped to an already-matched parent.
func findWithin(n *html.Node, sel Selector) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, sel); found != nil {
			return found
		}
	}
	return nil
}

// nodeText returns the concatenated text content of the node's subtree.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
