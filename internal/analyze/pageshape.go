package analyze

// Page-shape flag thresholds.
const (
	// scriptScoreThreshold flags script-heavy pages.
	scriptScoreThreshold = 0.05
	// emptyHrefThreshold flags pages whose anchors are mostly placeholders.
	emptyHrefThreshold = 0.2
	// distinctClassThreshold flags generated class-name explosions.
	distinctClassThreshold = 100
	// maxScriptScore caps the combined script score.
	maxScriptScore = 1.0
	// scriptRatioWeight scales the script-to-node ratio into the score.
	scriptRatioWeight = 10
)

// PageShape estimates whether a page likely needs script execution to
// render its content. Advisory only; it never blocks extraction.
type PageShape struct {
	// ScriptScore combines the script-to-node and inline-script ratios.
	ScriptScore float64 `json:"js_score"`
	// EmptyHrefRatio is the share of anchors with an empty href.
	EmptyHrefRatio float64 `json:"empty_anchor_ratio"`
	// ManyClasses reports a distinct class-name count over the threshold.
	ManyClasses bool `json:"lots_of_classes"`
	// LikelyScriptRendered is the aggregate flag.
	LikelyScriptRendered bool `json:"is_likely_js_heavy"`
}

// assessPageShape derives the confidence flags from the report aggregates.
func assessPageShape(totalNodes, scriptsTotal, inlineScripts, totalAnchors, emptyHrefs, distinctClasses int) PageShape {
	nodes := totalNodes
	if nodes < 1 {
		nodes = 1
	}
	anchors := totalAnchors
	if anchors < 1 {
		anchors = 1
	}

	score := float64(scriptsTotal)/float64(nodes)*scriptRatioWeight +
		float64(inlineScripts)/float64(scriptsTotal+1)
	if score > maxScriptScore {
		score = maxScriptScore
	}
	emptyRatio := float64(emptyHrefs) / float64(anchors)

	return PageShape{
		ScriptScore:    score,
		EmptyHrefRatio: emptyRatio,
		ManyClasses:    distinctClasses > distinctClassThreshold,
		LikelyScriptRendered: score > scriptScoreThreshold ||
			emptyRatio > emptyHrefThreshold ||
			distinctClasses > distinctClassThreshold,
	}
}
