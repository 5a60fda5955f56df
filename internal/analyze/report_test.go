package analyze_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/pagesift/internal/analyze"
	"github.com/jonesrussell/pagesift/internal/dom"
)

// productPage builds a small listing page with n product cards.
func productPage(n int) string {
	var sb strings.Builder
	sb.WriteString(`<html><head><meta charset="utf-8"><title>Deals of the Day</title></head><body><h1>Deals</h1><ul>`)
	for _i := 0; _i < n; _i++ {
		sb.WriteString(`<li class="product-card">` +
			`<h3><a href="/item">Wireless Headphones Pro</a></h3>` +
			`<span class="price">₹2,499</span>` +
			`<span class="rating">4.3 out of 5</span>` +
			`<img src="/img/item.jpg" alt="headphones">` +
			`</li>`)
	}
	sb.WriteString(`</ul><script>window.x=1;</script></body></html>`)
	return sb.String()
}

func TestAnalyze_ProductListing(t *testing.T) {
	t.Parallel()

	doc, err := dom.ParseString(productPage(5))
	require.NoError(t, err)

	report, err := analyze.New(analyze.DefaultOptions(), nil).Analyze(doc)
	require.NoError(t, err)

	assert.Equal(t, "Deals of the Day", report.Title)
	assert.Equal(t, "utf-8", report.Charset)
	assert.Positive(t, report.TotalNodes)
	assert.Equal(t, 1, report.Headings["h1"])
	assert.Positive(t, report.MaxDepth)

	require.NotNil(t, report.Patterns)
	require.NotNil(t, report.Patterns.Container)
	assert.Equal(t, "li.product-card", report.Patterns.Container.SuggestedCSS)
	assert.Equal(t, 5, report.Patterns.Container.Count)

	assert.Equal(t, 5, report.Links.Total)
	assert.Equal(t, 5, report.Images.Total)
	assert.Equal(t, 1, report.Scripts.Inline)

	// Text evidence should pick up the prices and ratings.
	assert.NotEmpty(t, report.TextPatterns.Examples["currency"])
	assert.NotEmpty(t, report.TextPatterns.Examples["rating"])

	// Field hints are static and always present.
	require.Contains(t, report.FieldHints, "title")
	require.Contains(t, report.FieldHints, "price")
	assert.NotEmpty(t, report.SampleExtractions)
}

func TestAnalyze_SampleExtractionConfidences(t *testing.T) {
	t.Parallel()

	doc, err := dom.ParseString(productPage(4))
	require.NoError(t, err)

	report, err := analyze.New(analyze.DefaultOptions(), nil).Analyze(doc)
	require.NoError(t, err)
	require.NotEmpty(t, report.SampleExtractions)

	var sawContainerSample bool
	for _, sample := range report.SampleExtractions {
		if sample.ContainerSignature.Tag != "li" {
			continue
		}
		sawContainerSample = true
		title := sample.Fields["title"]
		assert.Equal(t, "Wireless Headphones Pro", title.Value)
		assert.InDelta(t, 0.9, title.Confidence, 0.0001)

		price := sample.Fields["price"]
		assert.Equal(t, "₹2,499", price.Value)
		assert.InDelta(t, 0.9, price.Confidence, 0.0001)

		image := sample.Fields["image"]
		assert.Equal(t, "/img/item.jpg", image.Value)
	}
	require.True(t, sawContainerSample)
}

func TestAnalyze_RegexFallbackConfidence(t *testing.T) {
	t.Parallel()

	// Price carried only in plain text, so the structural strategies miss
	// and the regex fallback fires at its lower confidence.
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _i := 0; _i < 3; _i++ {
		sb.WriteString(`<div class="deal"><b>Steel Water Bottle 1L</b> now at $14.99 only</div>`)
	}
	sb.WriteString("</body></html>")

	doc, err := dom.ParseString(sb.String())
	require.NoError(t, err)

	report, err := analyze.New(analyze.DefaultOptions(), nil).Analyze(doc)
	require.NoError(t, err)
	require.NotEmpty(t, report.SampleExtractions)

	price := report.SampleExtractions[0].Fields["price"]
	assert.Equal(t, "$14.99", price.Value)
	assert.InDelta(t, 0.6, price.Confidence, 0.0001)
}

func TestAnalyze_PageShapeFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		html       string
		wantScript bool
	}{
		{
			name: "script-free page is not flagged",
			html: `<html><body><ul>` +
				strings.Repeat(`<li class="product-card"><a href="/item">Item name</a></li>`, 5) +
				`</ul></body></html>`,
			wantScript: false,
		},
		{
			name: "script shell is flagged",
			html: `<html><body><div id="root"></div>` +
				strings.Repeat("<script>app();</script>", 6) +
				`<a href="">x</a><a href="">y</a></body></html>`,
			wantScript: true,
		},
	}

	for i := range tests {
		test := &tests[i]
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			doc, err := dom.ParseString(test.html)
			require.NoError(t, err)

			report, err := analyze.New(analyze.DefaultOptions(), nil).Analyze(doc)
			require.NoError(t, err)
			assert.Equal(t, test.wantScript, report.PageShape.LikelyScriptRendered)
		})
	}
}

func TestAnalyze_PreviewKeepsRuneBoundaries(t *testing.T) {
	t.Parallel()

	// 450 three-byte runes force truncation inside multibyte territory.
	body := strings.Repeat("本", 450)
	doc, err := dom.ParseString("<html><body><p>" + body + "</p></body></html>")
	require.NoError(t, err)

	report, err := analyze.New(analyze.DefaultOptions(), nil).Analyze(doc)
	require.NoError(t, err)

	preview := report.Text.LongestPreview
	assert.True(t, utf8.ValidString(preview))
	assert.True(t, strings.HasSuffix(preview, "..."))
	assert.Equal(t, 403, utf8.RuneCountInString(preview))
}

func TestDetectTextPatterns_Categories(t *testing.T) {
	t.Parallel()

	text := "Contact sales@example.com or +91 98765 43210. " +
		"Listed at Rs. 1,299 on 2024-03-15, rated 4.2/5."

	tp := analyze.DetectTextPatterns(text, 30)
	assert.Contains(t, tp.Examples["emails"], "sales@example.com")
	assert.NotEmpty(t, tp.Examples["currency"])
	// Rating examples carry just the numeric value, not the trailing
	// "/5" qualifier.
	assert.Equal(t, []string{"4.2"}, tp.Examples["rating"])
	assert.NotEmpty(t, tp.Examples["dates"])
	assert.Equal(t, len(tp.Examples["emails"]), tp.Counts["emails"])
}

func TestDetectTextPatterns_ExampleCap(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for _i := 0; _i < 50; _i++ {
		sb.WriteString("$9.99 ")
	}

	tp := analyze.DetectTextPatterns(sb.String(), 30)
	assert.Len(t, tp.Examples["currency"], 30)
}
