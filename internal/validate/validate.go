package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonesrussell/pagesift/internal/extract"
)

// Data-quality bounds and sample caps.
const (
	ratingMin         = 0
	ratingMax         = 5
	nameMinLength     = 5
	nameMaxLength     = 200
	maxSampleData     = 5
	maxSampleFailures = 3
	lowPriorityBelow  = 95
)

// numericPattern finds the first numeric token in a raw value.
var numericPattern = regexp.MustCompile(`\d+\.?\d*`)

// suggestionFields are the fields the suggestion pass covers. Delivery
// and availability are too free-form to template advice for.
var suggestionFields = []string{
	"name",
	"current_price",
	"original_price",
	"rating",
	"reviews",
	"discount",
	"offers",
}

// Option configures a validation run.
type Option func(*runConfig)

type runConfig struct {
	thresholds Thresholds
	fields     []string
	now        func() time.Time
}

// WithThresholds overrides the status cut-offs.
func WithThresholds(t Thresholds) Option {
	return func(c *runConfig) { c.thresholds = t }
}

// WithFields restricts which fields contribute to performance and the
// overall score. The default is every record data field.
func WithFields(fields []string) Option {
	return func(c *runConfig) {
		if len(fields) > 0 {
			c.fields = fields
		}
	}
}

// WithClock overrides the report timestamp source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *runConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// Run validates an extraction run and returns the scored report. An
// empty record list returns ErrNoRecords.
func Run(records []extract.Record, opts ...Option) (*Report, error) {
	cfg := &runConfig{
		thresholds: DefaultThresholds(),
		fields:     extract.RecordFields,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	total := len(records)
	performance := make(map[string]FieldStats, len(cfg.fields))
	var fieldRates []float64
	var criticalIssues, recommendations []string

	for _, field := range cfg.fields {
		valid := countValid(records, field)
		rate := successRate(valid, total)
		fieldRates = append(fieldRates, rate)

		performance[field] = FieldStats{
			SuccessRate:       formatRate(rate),
			ValidExtractions:  valid,
			TotalAttempts:     total,
			FailedExtractions: total - valid,
			Status:            fieldStatus(rate, cfg.thresholds),
		}

		switch {
		case rate < cfg.thresholds.FieldNeedsWork:
			criticalIssues = append(criticalIssues,
				fmt.Sprintf("%s selector is failing (%.1f%% success rate)", field, rate))
		case rate < cfg.thresholds.FieldGood:
			recommendations = append(recommendations,
				fmt.Sprintf("Consider improving %s selectors (%.1f%% success rate)", field, rate))
		}
	}

	overall := mean(fieldRates)

	return &Report{
		OverallHealth: OverallHealth{
			Score:         formatRate(overall),
			Status:        overallStatus(overall, cfg.thresholds),
			TotalProducts: total,
			Site:          records[0].Site,
		},
		FieldPerformance: performance,
		Detailed:         detailedValidations(records, cfg.thresholds),
		CriticalIssues:   criticalIssues,
		Recommendations:  recommendations,
		Suggestions:      improvementSuggestions(records, cfg.thresholds),
		Timestamp:        cfg.now(),
	}, nil
}

// detailedValidations runs the data-quality checks for the fields with
// known value shapes.
func detailedValidations(records []extract.Record, t Thresholds) Detailed {
	return Detailed{
		CurrentPrice:  numericValidation(records, "current_price", t),
		OriginalPrice: numericValidation(records, "original_price", t),
		Rating:        ratingValidation(records, t),
		Reviews:       numericValidation(records, "reviews", t),
		Name:          nameValidation(records, t),
	}
}

// numericValidation scores a field that should carry a numeric token.
func numericValidation(records []extract.Record, field string, t Thresholds) NumericValidation {
	total := len(records)
	valid, numeric := 0, 0
	var samples []string

	for _, r := range records {
		v := r.Field(field)
		if !isValid(v) {
			continue
		}
		valid++
		if _, ok := firstNumber(v); ok {
			numeric++
		}
		if len(samples) < maxSampleData {
			samples = append(samples, v)
		}
	}

	rate := successRate(valid, total)
	return NumericValidation{
		SuccessRate:        formatRate(rate),
		ValidExtractions:   valid,
		NumericExtractions: numeric,
		Status:             fieldStatus(rate, t),
		SampleData:         samples,
		Recommendation:     recommendation(field, rate, t),
	}
}

// ratingValidation additionally checks that numeric ratings fall inside
// the 0 to 5 range.
func ratingValidation(records []extract.Record, t Thresholds) RatingValidation {
	base := numericValidation(records, "rating", t)

	inRange := 0
	for _, r := range records {
		v := r.Field("rating")
		if !isValid(v) {
			continue
		}
		if n, ok := firstNumber(v); ok && n >= ratingMin && n <= ratingMax {
			inRange++
		}
	}
	return RatingValidation{NumericValidation: base, ValidRangeExtractions: inRange}
}

// nameValidation additionally checks that names have a plausible length.
func nameValidation(records []extract.Record, t Thresholds) NameValidation {
	total := len(records)
	valid, reasonable := 0, 0
	var samples []string

	for _, r := range records {
		if !isValid(r.Name) {
			continue
		}
		valid++
		if n := utf8.RuneCountInString(r.Name); n >= nameMinLength && n <= nameMaxLength {
			reasonable++
		}
		if len(samples) < maxSampleData {
			samples = append(samples, r.Name)
		}
	}

	rate := successRate(valid, total)
	return NameValidation{
		SuccessRate:                 formatRate(rate),
		ValidExtractions:            valid,
		ReasonableLengthExtractions: reasonable,
		Status:                      fieldStatus(rate, t),
		SampleData:                  samples,
		Recommendation:              recommendation("name", rate, t),
	}
}

// improvementSuggestions buckets the suggestion fields by how badly their
// selectors perform and keeps a few raw failing values each.
func improvementSuggestions(records []extract.Record, t Thresholds) Suggestions {
	s := Suggestions{SampleFailures: make(map[string][]string, len(suggestionFields))}
	total := len(records)

	for _, field := range suggestionFields {
		valid := countValid(records, field)
		rate := successRate(valid, total)

		var failures []string
		for _, r := range records {
			if len(failures) >= maxSampleFailures {
				break
			}
			if v := r.Field(field); !isValid(v) {
				failures = append(failures, v)
			}
		}
		s.SampleFailures[field] = failures

		switch {
		case rate < t.FieldNeedsWork:
			s.HighPriority = append(s.HighPriority, Suggestion{
				Field:      field,
				Issue:      fmt.Sprintf("Only %.1f%% success rate", rate),
				Suggestion: fmt.Sprintf("Review and update %s selectors - consider adding more fallback selectors or changing selector strategy", field),
			})
		case rate < t.FieldGood:
			s.MediumPriority = append(s.MediumPriority, Suggestion{
				Field:      field,
				Issue:      fmt.Sprintf("%.1f%% success rate", rate),
				Suggestion: fmt.Sprintf("Consider adding fallback selectors for %s to improve reliability", field),
			})
		case rate < lowPriorityBelow:
			s.LowPriority = append(s.LowPriority, Suggestion{
				Field:      field,
				Issue:      fmt.Sprintf("%.1f%% success rate", rate),
				Suggestion: fmt.Sprintf("Minor improvements possible for %s selectors", field),
			})
		}
	}
	return s
}

// isValid reports whether an extracted value carries data.
func isValid(v string) bool {
	return v != extract.Sentinel && strings.TrimSpace(v) != ""
}

// countValid counts records whose field carries data.
func countValid(records []extract.Record, field string) int {
	count := 0
	for _, r := range records {
		if isValid(r.Field(field)) {
			count++
		}
	}
	return count
}

// firstNumber parses the first numeric token in a raw value.
func firstNumber(v string) (float64, bool) {
	m := numericPattern.FindString(v)
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// successRate returns valid/total as a percentage.
func successRate(valid, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(valid) / float64(total) * 100
}

// formatRate renders a percentage the way reports present it.
func formatRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}

// mean averages the per-field rates for the overall score.
func mean(rates []float64) float64 {
	if len(rates) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range rates {
		sum += r
	}
	return sum / float64(len(rates))
}

// fieldStatus grades one field's success rate.
func fieldStatus(rate float64, t Thresholds) Status {
	switch {
	case rate >= t.FieldGood:
		return StatusGood
	case rate >= t.FieldNeedsWork:
		return StatusNeedsImprovement
	default:
		return StatusPoor
	}
}

// overallStatus grades the run-level score.
func overallStatus(score float64, t Thresholds) Status {
	switch {
	case score >= t.OverallExcellent:
		return StatusExcellent
	case score >= t.OverallGood:
		return StatusGood
	case score >= t.OverallNeedsWork:
		return StatusNeedsImprovement
	default:
		return StatusPoor
	}
}

// recommendation templates the per-field advice line.
func recommendation(field string, rate float64, t Thresholds) string {
	if rate >= t.FieldGood {
		return "Selector working well"
	}
	return fmt.Sprintf("Consider improving %s selectors", field)
}
