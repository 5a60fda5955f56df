package analyze

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jonesrussell/pagesift/internal/dom"
)

// Extraction confidences are fixed per strategy kind.
const (
	// confStructural is the confidence of a structural-path match.
	confStructural = 0.9
	// confRegex is the confidence of a regex fallback match.
	confRegex = 0.6
	// confLongestText is the confidence of the longest-text title fallback.
	confLongestText = 0.5
	// minTitleTextLen is the shortest descendant text usable as a title.
	minTitleTextLen = 8
)

// StrategyKind tags how a field-hint strategy resolves a value.
type StrategyKind int

const (
	// KindCSS queries a selector relative to the container.
	KindCSS StrategyKind = iota
	// KindAttr reads an attribute off the first selector match.
	KindAttr
	// KindRegex matches a pattern against the container's full text.
	KindRegex
	// KindLongestText falls back to the longest descendant text node.
	KindLongestText
)

// Strategy is one hint for extracting a field from a container sample.
type Strategy struct {
	Kind StrategyKind
	Expr string
	Attr string
}

// String renders a strategy the way the report exposes it.
func (s Strategy) String() string {
	switch s.Kind {
	case KindAttr:
		return "css:" + s.Expr + "/@" + s.Attr
	case KindRegex:
		return "regex:" + s.Expr
	case KindLongestText:
		return "largest_text_in_container"
	default:
		return "css:" + s.Expr
	}
}

// HintFields is the fixed target field set, in report order.
var HintFields = []string{"title", "price", "image", "link", "rating"}

// fieldHints maps each target field to its ordered strategy chain.
var fieldHints = map[string][]Strategy{
	"title": {
		{Kind: KindCSS, Expr: "h1"},
		{Kind: KindCSS, Expr: "h2 a span"},
		{Kind: KindCSS, Expr: "h2"},
		{Kind: KindCSS, Expr: "h3"},
		{Kind: KindLongestText},
	},
	"price": {
		{Kind: KindCSS, Expr: "span[class*='a-offscreen']"},
		{Kind: KindCSS, Expr: "span[class*='price']"},
		{Kind: KindRegex, Expr: currencyPattern.String()},
	},
	"image": {
		{Kind: KindAttr, Expr: "img", Attr: "src"},
		{Kind: KindAttr, Expr: "img", Attr: "data-src"},
		{Kind: KindAttr, Expr: "img", Attr: "data-image"},
	},
	"link": {
		{Kind: KindAttr, Expr: "a", Attr: "href"},
	},
	"rating": {
		{Kind: KindCSS, Expr: "span[class*='rating']"},
		{Kind: KindCSS, Expr: "span[class*='a-icon-alt']"},
		{Kind: KindRegex, Expr: ratingPattern.String()},
	},
}

// FieldHints returns the hint map in its report form, field name to the
// ordered strategy strings an external selector proposer consumes.
func FieldHints() map[string][]string {
	out := make(map[string][]string, len(HintFields))
	for _, field := range HintFields {
		for _, s := range fieldHints[field] {
			out[field] = append(out[field], s.String())
		}
	}
	return out
}

// FieldValue is one extracted sample value with its confidence.
type FieldValue struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// SampleExtraction is the result of running the field hints against one
// container sample node.
type SampleExtraction struct {
	ContainerSignature Signature             `json:"container_signature"`
	SamplePath         string                `json:"sample_path"`
	Fields             map[string]FieldValue `json:"extraction"`
}

// sampleExtractionGroups caps how many top groups feed sample extraction.
const sampleExtractionGroups = 3

// extractSamples runs the field hints against the sample nodes of the top
// container-candidate groups.
func extractSamples(doc *dom.Document, patterns *Patterns) []SampleExtraction {
	groups := patterns.Groups
	if len(groups) > sampleExtractionGroups {
		groups = groups[:sampleExtractionGroups]
	}

	var out []SampleExtraction
	for gi := range groups {
		for _, n := range groups[gi].sampleNodes {
			out = append(out, SampleExtraction{
				ContainerSignature: groups[gi].Signature,
				SamplePath:         dom.NodePath(n),
				Fields:             extractFieldsFromNode(doc, n),
			})
		}
	}
	return out
}

// extractFieldsFromNode tries each field's strategies in order against one
// container node; the first nonempty result wins with its kind's fixed
// confidence.
func extractFieldsFromNode(doc *dom.Document, n *html.Node) map[string]FieldValue {
	sel := goquery.NewDocumentFromNode(n).Selection
	text := dom.Text(n)

	fields := make(map[string]FieldValue, len(HintFields))
	for _, field := range HintFields {
		fields[field] = applyStrategies(doc, sel, n, text, fieldHints[field])
	}
	return fields
}

// applyStrategies walks one field's strategy chain, first match wins.
func applyStrategies(doc *dom.Document, sel *goquery.Selection, n *html.Node, text string, strategies []Strategy) FieldValue {
	for _, s := range strategies {
		switch s.Kind {
		case KindCSS:
			if v := strings.TrimSpace(sel.Find(s.Expr).First().Text()); v != "" {
				return FieldValue{Value: v, Confidence: confStructural}
			}
		case KindAttr:
			if v, ok := sel.Find(s.Expr).First().Attr(s.Attr); ok {
				v = strings.TrimSpace(v)
				if v != "" {
					return FieldValue{Value: doc.ResolveURL(v), Confidence: confStructural}
				}
			}
		case KindRegex:
			if re := compiledHintPattern(s.Expr); re != nil {
				if m := re.FindStringSubmatch(text); m != nil {
					return FieldValue{Value: capturedOrWhole(m), Confidence: confRegex}
				}
			}
		case KindLongestText:
			if v := longestTextIn(n); len(v) >= minTitleTextLen {
				return FieldValue{Value: v, Confidence: confLongestText}
			}
		}
	}
	return FieldValue{}
}

// longestTextIn returns the longest trimmed descendant text of a node.
func longestTextIn(n *html.Node) string {
	longest := ""
	var walk func(cur *html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			if t := strings.TrimSpace(cur.Data); len(t) > len(longest) {
				longest = t
			}
			return
		}
		if cur.Type == html.ElementNode && (cur.Data == "script" || cur.Data == "style") {
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return longest
}
