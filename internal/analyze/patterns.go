package analyze

import (
	"golang.org/x/net/html"

	"github.com/jonesrussell/pagesift/internal/dom"
)

// minContainerCount is the smallest repeat count a group needs before it
// can be suggested as the product container.
const minContainerCount = 3

// containerTags are the element tags eligible as a product container.
var containerTags = map[string]bool{
	"div":     true,
	"li":      true,
	"article": true,
	"section": true,
	"a":       true,
}

// PatternGroup describes one repeated signature group in the report.
type PatternGroup struct {
	// Signature is the group's equivalence key.
	Signature Signature `json:"signature"`
	// Count is the number of elements sharing the signature.
	Count int `json:"count"`
	// SuggestedCSS is the tag-plus-first-class selector hint.
	SuggestedCSS string `json:"suggested_css"`
	// SamplePath is the document-order path of the first member.
	SamplePath string `json:"sample_path"`
	// Samples holds serialized member nodes drawn from the start, middle
	// and end of the group for diversity.
	Samples []string `json:"sample_nodes"`

	// sampleNodes keeps the live nodes behind Samples for hint extraction.
	sampleNodes []*html.Node
}

// Patterns is the repeated-shape section of the structural report.
type Patterns struct {
	// TotalRepeated counts every signature with more than one member.
	TotalRepeated int `json:"total_repeated_signatures"`
	// Groups holds the top repeated groups, count descending.
	Groups []PatternGroup `json:"top_repeated"`
	// Container is the suggested product container, if any group
	// qualified. Absence is a valid outcome, not an error.
	Container *PatternGroup `json:"suggested_container,omitempty"`
}

// DetectPatterns ranks the repeated signature groups and proposes a
// container candidate. maxGroups caps the emitted groups; sampleSize caps
// serialized samples per group.
func DetectPatterns(idx *Index, maxGroups, sampleSize int) *Patterns {
	repeated := idx.Repeated()
	patterns := &Patterns{TotalRepeated: len(repeated)}

	if len(repeated) > maxGroups {
		repeated = repeated[:maxGroups]
	}

	for _, g := range repeated {
		nodes := sampleMembers(g.Members, sampleSize)
		pg := PatternGroup{
			Signature:    g.Signature,
			Count:        g.Count(),
			SuggestedCSS: g.Signature.SuggestedCSS(),
			SamplePath:   dom.NodePath(g.Members[0]),
			sampleNodes:  nodes,
		}
		for _, n := range nodes {
			pg.Samples = append(pg.Samples, dom.Render(n))
		}
		patterns.Groups = append(patterns.Groups, pg)
	}

	for i := range patterns.Groups {
		pg := &patterns.Groups[i]
		if pg.Count >= minContainerCount && containerTags[pg.Signature.Tag] {
			patterns.Container = pg
			break
		}
	}

	return patterns
}

// sampleMembers picks up to size member nodes spread across the start,
// middle and end of the group, topping up from the front if needed.
func sampleMembers(members []*html.Node, size int) []*html.Node {
	if len(members) == 0 || size <= 0 {
		return nil
	}

	picked := make([]*html.Node, 0, size)
	seen := make(map[*html.Node]bool)
	for _, i := range []int{0, len(members) / 2, len(members) - 1} {
		n := members[i]
		if !seen[n] && len(picked) < size {
			picked = append(picked, n)
			seen[n] = true
		}
	}
	for _, n := range members {
		if len(picked) >= size {
			break
		}
		if !seen[n] {
			picked = append(picked, n)
			seen[n] = true
		}
	}
	return picked
}
