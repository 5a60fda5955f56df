package analyze

import "regexp"

// Pre-compiled text evidence patterns. These sweep the page's aggregated
// text for advisory signals; none of them is authoritative for extraction.
var (
	currencyPattern = regexp.MustCompile(`(?i)(?:₹|Rs\.?|INR|USD|\$|€)\s?[0-9][0-9,]*(?:\.\d+)?`)
	ratingPattern   = regexp.MustCompile(`(?i)([0-9](?:\.[0-9])?)\s*(?:out of\s*5|/5|★|stars?)`)
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern    = regexp.MustCompile(`(?:\+?\d{1,4}[\s-]?)?\d{3,4}[\s-]?\d{3,4}[\s-]?\d{3,4}`)
	datePattern     = regexp.MustCompile(`(?i)\b(?:\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2}|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4})\b`)
	tokenPattern    = regexp.MustCompile(`\b[A-Za-z0-9_-]{40,}\b`)
)

// patternCategories fixes the sweep order and report keys.
var patternCategories = []struct {
	name string
	re   *regexp.Regexp
}{
	{"currency", currencyPattern},
	{"rating", ratingPattern},
	{"emails", emailPattern},
	{"phones", phonePattern},
	{"dates", datePattern},
	{"token_like", tokenPattern},
}

// TextPatterns is the advisory text-evidence section of the report.
type TextPatterns struct {
	// Examples holds up to the configured number of matches per category.
	Examples map[string][]string `json:"examples"`
	// Counts is the number of retained examples per category.
	Counts map[string]int `json:"counts"`
}

// DetectTextPatterns sweeps the page text with the fixed pattern set,
// keeping at most maxExamples matches per category.
func DetectTextPatterns(text string, maxExamples int) TextPatterns {
	tp := TextPatterns{
		Examples: make(map[string][]string, len(patternCategories)),
		Counts:   make(map[string]int, len(patternCategories)),
	}
	for _, cat := range patternCategories {
		var examples []string
		for _, m := range cat.re.FindAllStringSubmatch(text, maxExamples) {
			examples = append(examples, capturedOrWhole(m))
		}
		tp.Examples[cat.name] = examples
		tp.Counts[cat.name] = len(examples)
	}
	return tp
}

// capturedOrWhole prefers the first capture group of a match when the
// pattern defines one, so categories like rating report just the value.
func capturedOrWhole(m []string) string {
	if len(m) > 1 && m[1] != "" {
		return m[1]
	}
	return m[0]
}

// compiledHintPattern resolves a hint strategy's pattern string back to a
// compiled regexp, reusing the shared patterns when they match.
func compiledHintPattern(expr string) *regexp.Regexp {
	switch expr {
	case currencyPattern.String():
		return currencyPattern
	case ratingPattern.String():
		return ratingPattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil
	}
	return re
}
