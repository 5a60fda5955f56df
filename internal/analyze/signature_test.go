package analyze_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/pagesift/internal/analyze"
	"github.com/jonesrussell/pagesift/internal/dom"
)

// groupByTag finds the first repeated group with the given tag.
func groupByTag(t *testing.T, idx *analyze.Index, tag string) []*analyze.Group {
	t.Helper()
	var groups []*analyze.Group
	for _, g := range idx.Repeated() {
		if g.Signature.Tag == tag {
			groups = append(groups, g)
		}
	}
	return groups
}

func TestBuildIndex_TextBuckets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		textA      string
		textB      string
		wantGroups int
	}{
		{
			name:       "lengths 10 and 40 land in different buckets",
			textA:      strings.Repeat("a", 10),
			textB:      strings.Repeat("b", 40),
			wantGroups: 0, // neither shape repeats
		},
		{
			name:       "lengths 10 and 15 land in the same bucket",
			textA:      strings.Repeat("a", 10),
			textB:      strings.Repeat("b", 15),
			wantGroups: 1,
		},
	}

	for i := range tests {
		test := &tests[i]
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			html := `<html><body><p class="x">` + test.textA + `</p><p class="x">` + test.textB + `</p></body></html>`
			doc, err := dom.ParseString(html)
			require.NoError(t, err)

			idx := analyze.BuildIndex(doc)
			require.Len(t, groupByTag(t, idx, "p"), test.wantGroups)
		})
	}
}

func TestBuildIndex_ClassOrderInsensitive(t *testing.T) {
	t.Parallel()

	html := `<html><body><div class="a b">x</div><div class="b a">x</div></body></html>`
	doc, err := dom.ParseString(html)
	require.NoError(t, err)

	idx := analyze.BuildIndex(doc)
	groups := groupByTag(t, idx, "div")
	require.Len(t, groups, 1)
	require.Equal(t, 2, groups[0].Count())
	require.Equal(t, []string{"a", "b"}, groups[0].Signature.Classes)
}

func TestRepeated_SortedByCountDescending(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _i := 0; _i < 5; _i++ {
		sb.WriteString(`<li class="item">item text</li>`)
	}
	for _i := 0; _i < 2; _i++ {
		sb.WriteString(`<p class="note">note text</p>`)
	}
	sb.WriteString("</body></html>")

	doc, err := dom.ParseString(sb.String())
	require.NoError(t, err)

	repeated := analyze.BuildIndex(doc).Repeated()
	require.NotEmpty(t, repeated)
	for i := 1; i < len(repeated); i++ {
		require.GreaterOrEqual(t, repeated[i-1].Count(), repeated[i].Count())
	}
	require.Equal(t, "li", repeated[0].Signature.Tag)
	require.Equal(t, 5, repeated[0].Count())
}

func TestDetectPatterns_SuggestsContainer(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("<html><body><ul>")
	for _i := 0; _i < 4; _i++ {
		sb.WriteString(`<li class="product-card"><span>Widget name here</span></li>`)
	}
	sb.WriteString("</ul></body></html>")

	doc, err := dom.ParseString(sb.String())
	require.NoError(t, err)

	patterns := analyze.DetectPatterns(analyze.BuildIndex(doc), 60, 3)
	require.NotNil(t, patterns.Container)
	require.Equal(t, "li", patterns.Container.Signature.Tag)
	require.Equal(t, 4, patterns.Container.Count)
	require.Equal(t, "li.product-card", patterns.Container.SuggestedCSS)
	require.LessOrEqual(t, len(patterns.Container.Samples), 3)
}

func TestDetectPatterns_NoContainerIsValid(t *testing.T) {
	t.Parallel()

	// Repeated spans exist, but spans are not container material.
	html := `<html><body><span class="t">one</span><span class="t">two</span><span class="t">ten</span></body></html>`
	doc, err := dom.ParseString(html)
	require.NoError(t, err)

	patterns := analyze.DetectPatterns(analyze.BuildIndex(doc), 60, 3)
	require.Nil(t, patterns.Container)
	require.NotZero(t, patterns.TotalRepeated)
}

func TestDetectPatterns_GroupCap(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 10; i++ {
		tag := `<div class="g` + strings.Repeat("x", i+1) + `">`
		sb.WriteString(tag + "a</div>" + tag + "a</div>")
	}
	sb.WriteString("</body></html>")

	doc, err := dom.ParseString(sb.String())
	require.NoError(t, err)

	patterns := analyze.DetectPatterns(analyze.BuildIndex(doc), 4, 3)
	require.Len(t, patterns.Groups, 4)
	require.Equal(t, 10, patterns.TotalRepeated)
}
