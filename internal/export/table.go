package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonesrussell/pagesift/internal/analyze"
	"github.com/jonesrussell/pagesift/internal/extract"
	"github.com/jonesrussell/pagesift/internal/validate"
)

// nameColumnWidth truncates long product names in terminal tables.
const nameColumnWidth = 60

// newWriter builds a table writer with the shared output style.
func newWriter(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// RenderRecords prints extracted records as a terminal table.
func RenderRecords(w io.Writer, records []extract.Record) {
	t := newWriter(w)
	t.AppendHeader(table.Row{"#", "Name", "Price", "Rating", "Reviews", "Availability"})
	for _, r := range records {
		t.AppendRow(table.Row{
			r.Index,
			truncate(r.Name, nameColumnWidth),
			r.CurrentPrice,
			r.Rating,
			r.Reviews,
			r.Availability,
		})
	}
	t.Render()
}

// RenderPatterns prints the top repeated signature groups.
func RenderPatterns(w io.Writer, patterns *analyze.Patterns) {
	t := newWriter(w)
	t.AppendHeader(table.Row{"Count", "Suggested Selector", "First Member Path"})
	for _, g := range patterns.Groups {
		t.AppendRow(table.Row{g.Count, g.SuggestedCSS, g.SamplePath})
	}
	t.Render()

	if patterns.Container != nil {
		fmt.Fprintf(w, "\nSuggested container: %s (%d matches)\n",
			patterns.Container.SuggestedCSS, patterns.Container.Count)
	} else {
		fmt.Fprintln(w, "\nNo container suggestion for this page.")
	}
}

// RenderValidation prints the validation report: overall health, the
// per-field table, and outstanding issues.
func RenderValidation(w io.Writer, report *validate.Report) {
	fmt.Fprintf(w, "Overall health: %s (%s) across %d products from %s\n\n",
		report.OverallHealth.Score,
		report.OverallHealth.Status,
		report.OverallHealth.TotalProducts,
		report.OverallHealth.Site,
	)

	t := newWriter(w)
	t.AppendHeader(table.Row{"Field", "Success Rate", "Valid", "Failed", "Status"})
	for _, field := range extract.RecordFields {
		stats, ok := report.FieldPerformance[field]
		if !ok {
			continue
		}
		t.AppendRow(table.Row{
			field,
			stats.SuccessRate,
			strconv.Itoa(stats.ValidExtractions),
			strconv.Itoa(stats.FailedExtractions),
			string(stats.Status),
		})
	}
	t.Render()

	if len(report.CriticalIssues) > 0 {
		fmt.Fprintln(w, "\nCritical issues:")
		for _, issue := range report.CriticalIssues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	}
	if len(report.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}
	for _, s := range report.Suggestions.HighPriority {
		fmt.Fprintf(w, "\nHigh priority: %s: %s\n", strings.ToUpper(s.Field), s.Suggestion)
	}
}

// Summary returns a one-line overview of an extraction run.
func Summary(records []extract.Record, site string) string {
	withName, withPrice, withRating := 0, 0, 0
	for _, r := range records {
		if r.Name != extract.Sentinel {
			withName++
		}
		if r.CurrentPrice != extract.Sentinel {
			withPrice++
		}
		if r.Rating != extract.Sentinel {
			withRating++
		}
	}
	return fmt.Sprintf("Extracted %d products from %s: %d with names, %d with prices, %d with ratings",
		len(records), site, withName, withPrice, withRating)
}

// truncate shortens a value for table display without splitting a
// multibyte rune.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
