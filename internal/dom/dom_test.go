package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/pagesift/internal/dom"
)

func TestParseString_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := dom.ParseString("")
	require.ErrorIs(t, err, dom.ErrUnparsableHTML)

	_, err = dom.ParseString("   \n\t ")
	require.ErrorIs(t, err, dom.ErrUnparsableHTML)
}

func TestParseString_RecordsSize(t *testing.T) {
	t.Parallel()

	html := "<html><body><p>hello</p></body></html>"
	doc, err := dom.ParseString(html)
	require.NoError(t, err)
	assert.Equal(t, len(html), doc.Size())
}

func TestNodePath(t *testing.T) {
	t.Parallel()

	html := `<html><body><div>first</div><div><span>target</span></div></body></html>`
	doc, err := dom.ParseString(html)
	require.NoError(t, err)

	sel := doc.Find("span")
	require.Len(t, sel.Nodes, 1)
	assert.Equal(t, "/html/body/div[2]/span", dom.NodePath(sel.Nodes[0]))
}

func TestText_SkipsScriptAndStyle(t *testing.T) {
	t.Parallel()

	html := `<html><body><div>visible<script>var hidden = 1;</script><style>.x{}</style></div></body></html>`
	doc, err := dom.ParseString(html)
	require.NoError(t, err)

	div := doc.Find("div").Nodes[0]
	assert.Equal(t, "visible", dom.Text(div))
}

func TestFindByText(t *testing.T) {
	t.Parallel()

	html := `<html><body><div><p>Currently <b>OUT of stock</b></p></div></body></html>`
	doc, err := dom.ParseString(html)
	require.NoError(t, err)

	n := dom.FindByText(doc.Root(), "out of stock")
	require.NotNil(t, n)
	assert.Equal(t, "b", n.Data)

	assert.Nil(t, dom.FindByText(doc.Root(), "back in stock"))
}

func TestResolveURL(t *testing.T) {
	t.Parallel()

	doc, err := dom.ParseString("<html><body></body></html>")
	require.NoError(t, err)

	// Without a base URL references pass through untouched.
	assert.Equal(t, "/img/x.jpg", doc.ResolveURL("/img/x.jpg"))

	require.NoError(t, doc.SetBaseURL("https://shop.example.com/deals"))
	assert.Equal(t, "https://shop.example.com/img/x.jpg", doc.ResolveURL("/img/x.jpg"))
	assert.Equal(t, "https://cdn.example.com/a.png", doc.ResolveURL("https://cdn.example.com/a.png"))
}

func TestChildElementCount(t *testing.T) {
	t.Parallel()

	html := `<html><body><ul>text<li>a</li><li>b</li>more text</ul></body></html>`
	doc, err := dom.ParseString(html)
	require.NoError(t, err)

	ul := doc.Find("ul").Nodes[0]
	assert.Equal(t, 2, dom.ChildElementCount(ul))
}

func TestMaxDepth(t *testing.T) {
	t.Parallel()

	html := `<html><body><div><p><b>deep</b></p></div></body></html>`
	doc, err := dom.ParseString(html)
	require.NoError(t, err)

	// html -> body -> div -> p -> b
	assert.Equal(t, 4, dom.MaxDepth(doc.Root()))

	// The document node and doctype wrap the root element without
	// adding nesting levels.
	doc, err = dom.ParseString(`<!DOCTYPE html><html><body><span>x</span></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, 2, dom.MaxDepth(doc.Root()))
}
