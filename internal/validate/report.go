// Package validate scores an extraction run: per-field success rates,
// data-quality checks for prices, ratings, reviews, and names, an overall
// health score, and prioritized improvement suggestions. It is a pure
// function of a record list and safe to re-run after every selector spec
// revision.
package validate

import (
	"errors"
	"time"
)

// Status grades a field or the whole run.
type Status string

// Field and overall statuses, from best to worst.
const (
	StatusExcellent        Status = "EXCELLENT"
	StatusGood             Status = "GOOD"
	StatusNeedsImprovement Status = "NEEDS_IMPROVEMENT"
	StatusPoor             Status = "POOR"
)

// ErrNoRecords is returned when there is nothing to validate. An empty
// record list is an expected steady state during iterative selector
// tuning, not a failure.
var ErrNoRecords = errors.New("no data available")

// Thresholds are the status cut-offs, in percent.
type Thresholds struct {
	// FieldGood is the minimum field success rate for GOOD.
	FieldGood float64
	// FieldNeedsWork is the minimum field success rate for
	// NEEDS_IMPROVEMENT.
	FieldNeedsWork float64
	// OverallExcellent is the minimum overall score for EXCELLENT.
	OverallExcellent float64
	// OverallGood is the minimum overall score for GOOD.
	OverallGood float64
	// OverallNeedsWork is the minimum overall score for
	// NEEDS_IMPROVEMENT.
	OverallNeedsWork float64
}

// DefaultThresholds returns the standard cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FieldGood:        80,
		FieldNeedsWork:   50,
		OverallExcellent: 90,
		OverallGood:      80,
		OverallNeedsWork: 60,
	}
}

// FieldStats is one field's extraction performance.
type FieldStats struct {
	SuccessRate       string `json:"success_rate"`
	ValidExtractions  int    `json:"valid_extractions"`
	TotalAttempts     int    `json:"total_attempts"`
	FailedExtractions int    `json:"failed_extractions"`
	Status            Status `json:"status"`
}

// NumericValidation is the detailed check for fields expected to carry a
// numeric token (prices, ratings, review counts).
type NumericValidation struct {
	SuccessRate        string   `json:"success_rate"`
	ValidExtractions   int      `json:"valid_extractions"`
	NumericExtractions int      `json:"numeric_extractions"`
	Status             Status   `json:"status"`
	SampleData         []string `json:"sample_data"`
	Recommendation     string   `json:"recommendation"`
}

// RatingValidation additionally counts values inside the 0 to 5 range.
type RatingValidation struct {
	NumericValidation
	ValidRangeExtractions int `json:"valid_range_extractions"`
}

// NameValidation additionally counts names of plausible length.
type NameValidation struct {
	SuccessRate                 string   `json:"success_rate"`
	ValidExtractions            int      `json:"valid_extractions"`
	ReasonableLengthExtractions int      `json:"reasonable_length_extractions"`
	Status                      Status   `json:"status"`
	SampleData                  []string `json:"sample_data"`
	Recommendation              string   `json:"recommendation"`
}

// Detailed groups the per-field data-quality validations.
type Detailed struct {
	CurrentPrice  NumericValidation `json:"current_price_selector"`
	OriginalPrice NumericValidation `json:"original_price_selector"`
	Rating        RatingValidation  `json:"rating_selector"`
	Reviews       NumericValidation `json:"review_selector"`
	Name          NameValidation    `json:"name_selector"`
}

// OverallHealth is the run-level summary.
type OverallHealth struct {
	Score         string `json:"score"`
	Status        Status `json:"status"`
	TotalProducts int    `json:"total_products"`
	Site          string `json:"site"`
}

// Suggestion is one templated improvement hint for a field.
type Suggestion struct {
	Field      string `json:"field"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
}

// Suggestions buckets improvement hints by priority and carries a few raw
// failing values per field for inspection.
type Suggestions struct {
	HighPriority   []Suggestion        `json:"high_priority"`
	MediumPriority []Suggestion        `json:"medium_priority"`
	LowPriority    []Suggestion        `json:"low_priority"`
	SampleFailures map[string][]string `json:"sample_failures"`
}

// Report is the complete validation result for one extraction run.
type Report struct {
	OverallHealth    OverallHealth         `json:"overall_selector_health"`
	FieldPerformance map[string]FieldStats `json:"field_performance"`
	Detailed         Detailed              `json:"detailed_validations"`
	CriticalIssues   []string              `json:"critical_issues"`
	Recommendations  []string              `json:"recommendations"`
	Suggestions      Suggestions           `json:"improvement_suggestions"`
	Timestamp        time.Time             `json:"analysis_timestamp"`
}
