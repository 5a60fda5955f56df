// Package analyze discovers the structure of an e-commerce page: repeated
// DOM shapes, candidate product containers, per-field extraction hints,
// text-pattern evidence, and a page-shape confidence estimate. Its output
// feeds an external selector-proposal step; it never extracts final data.
package analyze

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/jonesrussell/pagesift/internal/dom"
)

const (
	// textBucketWidth is the text-length quantization step for signatures.
	textBucketWidth = 30
	// maxTextBucket caps the text-length bucket.
	maxTextBucket = 8
)

// Signature is the equivalence key grouping structurally similar elements:
// tag, sorted class tokens, immediate child element count, and a bucketed
// descendant text length. It carries no node identity.
type Signature struct {
	Tag        string   `json:"tag"`
	Classes    []string `json:"classes"`
	ChildCount int      `json:"child_count"`
	TextBucket int      `json:"text_bucket"`
}

// NewSignature computes the signature of an element node.
func NewSignature(n *html.Node) Signature {
	classes := dom.Classes(n)
	sort.Strings(classes)
	textLen := len(dom.Text(n))
	bucket := textLen / textBucketWidth
	if bucket > maxTextBucket {
		bucket = maxTextBucket
	}
	return Signature{
		Tag:        strings.ToLower(n.Data),
		Classes:    classes,
		ChildCount: dom.ChildElementCount(n),
		TextBucket: bucket,
	}
}

// Key returns a stable string form of the signature for map grouping.
func (s Signature) Key() string {
	var sb strings.Builder
	sb.WriteString(s.Tag)
	sb.WriteByte('|')
	sb.WriteString(strings.Join(s.Classes, ","))
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(s.ChildCount))
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(s.TextBucket))
	return sb.String()
}

// SuggestedCSS returns the group's selector hint: the tag plus its first
// class token, when one exists.
func (s Signature) SuggestedCSS() string {
	if len(s.Classes) > 0 {
		return s.Tag + "." + s.Classes[0]
	}
	return s.Tag
}

// Group holds all elements sharing one signature, in document order.
type Group struct {
	Signature Signature
	Members   []*html.Node
}

// Count returns the number of members in the group.
func (g *Group) Count() int {
	return len(g.Members)
}

// Index groups every element of a document by signature, preserving
// first-encounter order for stable tie-breaking.
type Index struct {
	groups map[string]*Group
	order  []string
	total  int
}

// BuildIndex computes a signature for every element in the document and
// groups them. One pass, document order.
func BuildIndex(doc *dom.Document) *Index {
	idx := &Index{groups: make(map[string]*Group)}
	doc.EachElement(func(n *html.Node) {
		idx.total++
		sig := NewSignature(n)
		key := sig.Key()
		g, ok := idx.groups[key]
		if !ok {
			g = &Group{Signature: sig}
			idx.groups[key] = g
			idx.order = append(idx.order, key)
		}
		g.Members = append(g.Members, n)
	})
	return idx
}

// TotalElements returns the number of elements indexed.
func (idx *Index) TotalElements() int {
	return idx.total
}

// Repeated returns the groups with more than one member, sorted by count
// descending. Ties keep first-encounter order.
func (idx *Index) Repeated() []*Group {
	repeated := make([]*Group, 0, len(idx.order))
	for _, key := range idx.order {
		if g := idx.groups[key]; g.Count() > 1 {
			repeated = append(repeated, g)
		}
	}
	sort.SliceStable(repeated, func(i, j int) bool {
		return repeated[i].Count() > repeated[j].Count()
	})
	return repeated
}
