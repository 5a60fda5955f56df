// Package analyze implements the command that builds a structural report
// for a saved HTML page: repeated DOM shapes, a suggested product
// container, field hints, and page-shape confidence flags.
package analyze

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/pagesift/cmd/common"
	"github.com/jonesrussell/pagesift/internal/export"
)

var (
	site    string
	baseURL string
	output  string
	asJSON  bool
)

// Command returns the analyze command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [html-file]",
		Short: "Build a structural report for an HTML page",
		Long: `Analyze parses a saved HTML page, groups its elements by structural
signature, and reports the repeated shapes, a suggested product
container, field extraction hints, and page-shape confidence flags.`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVar(&site, "site", "unknown", "site label stamped on the report")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "base URL for resolving relative references")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full report as JSON instead of a summary table")

	return cmd
}

// runAnalyze executes the analyze command.
func runAnalyze(cmd *cobra.Command, args []string) error {
	deps, err := cmdcommon.DepsFromCommand(cmd)
	if err != nil {
		return err
	}

	session, err := cmdcommon.NewPageSession(deps, args[0], site, baseURL)
	if err != nil {
		return err
	}

	report, err := session.Analyze()
	if err != nil {
		return fmt.Errorf("analysis failed for %s: %w", args[0], err)
	}

	w, closeOutput, err := cmdcommon.OpenOutput(output)
	if err != nil {
		return err
	}
	defer func() { _ = closeOutput() }()

	if asJSON || output != "" {
		return export.WriteJSON(w, report)
	}

	fmt.Fprintf(w, "Analyzed %s: %d nodes, %d repeated signatures\n\n",
		args[0], report.TotalNodes, report.Patterns.TotalRepeated)
	export.RenderPatterns(w, report.Patterns)

	if report.PageShape.LikelyScriptRendered {
		fmt.Fprintln(w, "\nWarning: this page is likely script-rendered; the saved HTML may be incomplete.")
	}
	return nil
}
