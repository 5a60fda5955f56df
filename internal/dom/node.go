package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Attr returns the value of the named attribute on an element node.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Classes returns the element's class tokens in attribute order.
func Classes(n *html.Node) []string {
	raw, ok := Attr(n, "class")
	if !ok {
		return nil
	}
	return strings.Fields(raw)
}

// ChildElementCount counts the immediate child elements of a node.
func ChildElementCount(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			count++
		}
	}
	return count
}

// Text returns the concatenated descendant text of a node, trimmed.
func Text(n *html.Node) string {
	var sb strings.Builder
	collectText(n, &sb)
	return strings.TrimSpace(sb.String())
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	// Script and style bodies are markup, not page text.
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// Render serializes a node back to HTML. Serialization failures yield an
// empty string; callers treat samples as best effort.
func Render(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}

// NodePath returns the document-order structural path of an element, in
// the form /html/body/div[2]/span. Positions count same-tag siblings and
// are omitted when the element is the only one of its tag.
func NodePath(n *html.Node) string {
	var parts []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		parts = append(parts, pathSegment(cur))
	}
	// Reverse into root-first order.
	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteString("/")
		sb.WriteString(parts[i])
	}
	return sb.String()
}

// pathSegment renders one element as tag or tag[pos] among same-tag siblings.
func pathSegment(n *html.Node) string {
	pos, total := 1, 0
	if n.Parent != nil {
		for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || c.Data != n.Data {
				continue
			}
			total++
			if c == n {
				pos = total
			}
		}
	}
	if total > 1 {
		return n.Data + "[" + strconv.Itoa(pos) + "]"
	}
	return n.Data
}

// MaxDepth returns the deepest element nesting level under n, counting
// from the root element. Non-element wrappers such as the document node
// and doctype do not add a level.
func MaxDepth(n *html.Node) int {
	deepest := 0
	var walk func(cur *html.Node, depth int)
	walk = func(cur *html.Node, depth int) {
		if cur.Type != html.ElementNode {
			for c := cur.FirstChild; c != nil; c = c.NextSibling {
				walk(c, depth)
			}
			return
		}
		if depth > deepest {
			deepest = depth
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				walk(c, depth+1)
			}
		}
	}
	walk(n, 0)
	return deepest
}

// FindByText scans descendant text nodes of root for a case-insensitive
// substring match and returns the nearest ancestor element of the first
// hit. It backs the :contains() pseudo-selector.
func FindByText(root *html.Node, needle string) *html.Node {
	needle = strings.ToLower(needle)
	var found *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.TextNode && strings.Contains(strings.ToLower(n.Data), needle) {
			found = nearestElement(n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

// nearestElement walks up from a text node to its enclosing element.
func nearestElement(n *html.Node) *html.Node {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode {
			return cur
		}
	}
	return nil
}
