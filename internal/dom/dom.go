// Package dom wraps HTML parsing and the tree-level query primitives the
// analyzer and extraction engine are built on. A Document is parsed once
// per page and treated as immutable afterwards.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Common errors returned by the dom package.
var (
	// ErrUnparsableHTML is returned when the input cannot be parsed into a
	// document tree. Nothing downstream is meaningful in that case.
	ErrUnparsableHTML = errors.New("unparsable HTML")
)

// Document is a parsed HTML page plus the query helpers used by the
// analyzer and the extraction engine.
type Document struct {
	doc     *goquery.Document
	baseURL *url.URL
	size    int
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparsableHTML, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnparsableHTML, err)
	}
	if len(doc.Selection.Nodes) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrUnparsableHTML)
	}
	return &Document{doc: doc, size: len(data)}, nil
}

// ParseString parses an HTML document held in a string.
func ParseString(content string) (*Document, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty input", ErrUnparsableHTML)
	}
	return Parse(strings.NewReader(content))
}

// SetBaseURL sets the base URL used to resolve relative hrefs and image
// sources. An unparsable URL is rejected.
func (d *Document) SetBaseURL(raw string) error {
	if raw == "" {
		d.baseURL = nil
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	d.baseURL = u
	return nil
}

// Selection returns the underlying goquery document for CSS queries.
func (d *Document) Selection() *goquery.Document {
	return d.doc
}

// Root returns the root node of the parsed tree.
func (d *Document) Root() *html.Node {
	return d.doc.Selection.Nodes[0]
}

// Find runs a CSS query against the whole document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// EachElement walks every element node in document order.
func (d *Document) EachElement(fn func(n *html.Node)) {
	walkElements(d.Root(), fn)
}

// Text returns the aggregated text of the whole document.
func (d *Document) Text() string {
	return d.doc.Text()
}

// Size returns the byte length of the parsed input.
func (d *Document) Size() int {
	return d.size
}

// ResolveURL resolves a possibly relative reference against the document's
// base URL. Without a base URL the reference is returned unchanged.
func (d *Document) ResolveURL(ref string) string {
	if d.baseURL == nil || ref == "" {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return d.baseURL.ResolveReference(u).String()
}

// walkElements visits n and all its descendant element nodes depth first.
func walkElements(n *html.Node, fn func(n *html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, fn)
	}
}
