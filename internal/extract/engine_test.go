package extract_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/pagesift/internal/dom"
	"github.com/jonesrussell/pagesift/internal/extract"
)

const listingHTML = `<html><body>
<div class="present">
  <h3 class="title">Wireless Headphones Pro</h3>
  <span class="price"> 12,999
	</span>
  <span class="mrp">MRP: 15,999 only</span>
  <p>Rated 4.3 out of 5 by buyers</p>
  <span class="offer">Bank offer</span>
  <span class="offer">No-cost EMI</span>
</div>
<div class="present">
  <h3 class="title">Steel Water Bottle 1L</h3>
  <span class="price">499</span>
  <span class="mrp">MRP: 799 only</span>
  <p>Rated 4.0 out of 5 by buyers</p>
</div>
<div class="present">
  <h3 class="title">USB-C Charging Cable</h3>
  <span class="price">299</span>
</div>
</body></html>`

// parse is a test helper for building documents.
func parse(t *testing.T, html string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(html)
	require.NoError(t, err)
	return doc
}

func baseSpec() extract.Spec {
	return extract.Spec{
		extract.ContainerField: {Type: extract.TypeCSS, Selectors: []string{"div.missing", "div.present"}},
		"name":                 {Type: extract.TypeCSS, Selectors: []string{"h3.title"}},
		"current_price":        {Type: extract.TypeCSS, Selectors: []string{"span.price"}},
	}
}

func TestExtract_ContainerFallback(t *testing.T) {
	t.Parallel()

	records, err := extract.NewEngine().Extract(parse(t, listingHTML), baseSpec(), "shopsite")
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i, r := range records {
		assert.Equal(t, i+1, r.Index)
		assert.Equal(t, "shopsite", r.Site)
	}
}

func TestExtract_NoContainerMatchIsEmptyNotError(t *testing.T) {
	t.Parallel()

	spec := baseSpec()
	spec[extract.ContainerField] = extract.FieldSelector{
		Type:      extract.TypeCSS,
		Selectors: []string{"div.missing", "section.also-missing"},
	}

	records, err := extract.NewEngine().Extract(parse(t, listingHTML), spec, "shopsite")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExtract_FallbackDeterminism(t *testing.T) {
	t.Parallel()

	// Both selectors match; the first declared one must win.
	spec := baseSpec()
	spec["name"] = extract.FieldSelector{
		Type:      extract.TypeCSS,
		Selectors: []string{"h3.title", "span.price"},
	}

	records, err := extract.NewEngine().Extract(parse(t, listingHTML), spec, "shopsite")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Wireless Headphones Pro", records[0].Name)
}

func TestExtract_Normalization(t *testing.T) {
	t.Parallel()

	records, err := extract.NewEngine().Extract(parse(t, listingHTML), baseSpec(), "shopsite")
	require.NoError(t, err)
	require.Len(t, records, 3)

	// The raw price carries a newline, a tab, and padding.
	assert.Equal(t, "12,999", records[0].CurrentPrice)
}

func TestExtract_SentinelForUnresolvedFields(t *testing.T) {
	t.Parallel()

	spec := baseSpec()
	spec["rating"] = extract.FieldSelector{Type: extract.TypeCSS, Selectors: []string{"span.stars"}}

	records, err := extract.NewEngine().Extract(parse(t, listingHTML), spec, "shopsite")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, extract.Sentinel, records[0].Rating)
	assert.Equal(t, extract.Sentinel, records[0].Delivery)
}

func TestExtract_RegexSelector(t *testing.T) {
	t.Parallel()

	spec := baseSpec()
	spec["rating"] = extract.FieldSelector{
		Type:      extract.TypeRegex,
		Selectors: []string{`rated\s+([0-9.]+)\s+out of 5`},
	}

	records, err := extract.NewEngine().Extract(parse(t, listingHTML), spec, "shopsite")
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Capture group wins over the whole match; matching is
	// case-insensitive.
	assert.Equal(t, "4.3", records[0].Rating)
	assert.Equal(t, "4.0", records[1].Rating)
	assert.Equal(t, extract.Sentinel, records[2].Rating)
}

func TestExtract_CleanupRegex(t *testing.T) {
	t.Parallel()

	spec := baseSpec()
	spec["original_price"] = extract.FieldSelector{
		Type:      extract.TypeCSS,
		Selectors: []string{"span.mrp"},
		Regex:     `([\d,]+)`,
	}

	records, err := extract.NewEngine().Extract(parse(t, listingHTML), spec, "shopsite")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "15,999", records[0].OriginalPrice)
}

func TestExtract_UnsupportedSelectorIsSkipped(t *testing.T) {
	t.Parallel()

	spec := baseSpec()
	spec["name"] = extract.FieldSelector{
		Type:      extract.TypeCSS,
		Selectors: []string{"h3[[broken", "h3.title"},
	}

	records, err := extract.NewEngine().Extract(parse(t, listingHTML), spec, "shopsite")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Wireless Headphones Pro", records[0].Name)
}

func TestExtract_ContainsPseudoSelector(t *testing.T) {
	t.Parallel()

	spec := baseSpec()
	spec["availability"] = extract.FieldSelector{
		Type:      extract.TypeCSS,
		Selectors: []string{`p:contains("out of 5")`},
	}

	records, err := extract.NewEngine().Extract(parse(t, listingHTML), spec, "shopsite")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Rated 4.3 out of 5 by buyers", records[0].Availability)
}

func TestExtract_XPathSelector(t *testing.T) {
	t.Parallel()

	spec := baseSpec()
	spec["name"] = extract.FieldSelector{
		Type:      extract.TypeXPath,
		Selectors: []string{"//h3[@class='title']"},
	}

	records, err := extract.NewEngine().Extract(parse(t, listingHTML), spec, "shopsite")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Steel Water Bottle 1L", records[1].Name)
}

func TestExtract_OffersCollectAllMatches(t *testing.T) {
	t.Parallel()

	spec := baseSpec()
	spec["offers"] = extract.FieldSelector{Type: extract.TypeCSS, Selectors: []string{"span.offer"}}

	records, err := extract.NewEngine().Extract(parse(t, listingHTML), spec, "shopsite")
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Bank offer", "No-cost EMI"}, records[0].Offers)
	assert.Equal(t, "Bank offer; No-cost EMI", records[0].OffersFlat())
	assert.Equal(t, extract.Sentinel, records[1].OffersFlat())
}

func TestExtract_QualityGate(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<div class="item"><h3>Named Product Here</h3></div>
<div class="item"><span class="p">499</span></div>
<div class="item"><em>no name, no price</em></div>
<div class="item"><h3>X</h3><span class="p">99</span></div>
<div class="item"><h3>本</h3><span class="p">199</span></div>
</body></html>`

	spec := extract.Spec{
		extract.ContainerField: {Selectors: []string{"div.item"}},
		"name":                 {Selectors: []string{"h3"}},
		"current_price":        {Selectors: []string{"span.p"}},
	}

	records, err := extract.NewEngine().Extract(parse(t, html), spec, "shopsite")
	require.NoError(t, err)

	// Name-only and price-only records pass; the empty record and the
	// one-character names are dropped, counting characters rather
	// than bytes.
	require.Len(t, records, 2)
	assert.Equal(t, "Named Product Here", records[0].Name)
	assert.Equal(t, 1, records[0].Index)
	assert.Equal(t, "499", records[1].CurrentPrice)
	assert.Equal(t, 2, records[1].Index)
}

func TestExtract_Idempotence(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	engine := extract.NewEngine(extract.WithClock(func() time.Time { return fixed }))
	doc := parse(t, listingHTML)

	first, err := engine.Extract(doc, baseSpec(), "shopsite")
	require.NoError(t, err)
	second, err := engine.Extract(doc, baseSpec(), "shopsite")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, fixed, first[0].ScrapedAt)
}

func TestExtract_InvalidSpec(t *testing.T) {
	t.Parallel()

	_, err := extract.NewEngine().Extract(parse(t, listingHTML), extract.Spec{}, "shopsite")
	require.ErrorIs(t, err, extract.ErrMissingContainer)
}
