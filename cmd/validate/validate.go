// Package validate implements the command that scores an extraction run:
// it applies a selector spec to a saved HTML page and reports per-field
// success rates, overall health, and improvement suggestions.
package validate

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/pagesift/cmd/common"
	"github.com/jonesrussell/pagesift/internal/export"
	"github.com/jonesrussell/pagesift/internal/extract"
	"github.com/jonesrussell/pagesift/internal/validate"
)

var (
	specFile string
	site     string
	baseURL  string
	output   string
	asJSON   bool
)

// Command returns the validate command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [html-file]",
		Short: "Score how well a selector spec extracts from an HTML page",
		Long: `Validate runs an extraction with the given selector spec, then scores
it: per-field success rates and statuses, an overall health score, and
prioritized suggestions for improving weak selectors.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}

	cmd.Flags().StringVarP(&specFile, "spec", "s", "", "selector spec file (JSON or YAML)")
	cmd.Flags().StringVar(&site, "site", "unknown", "site label stamped on each record")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "base URL for resolving relative references")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full report as JSON instead of a summary table")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}

// runValidate executes the validate command.
func runValidate(cmd *cobra.Command, args []string) error {
	deps, err := cmdcommon.DepsFromCommand(cmd)
	if err != nil {
		return err
	}

	spec, err := extract.LoadSpec(specFile)
	if err != nil {
		return err
	}

	session, err := cmdcommon.NewPageSession(deps, args[0], site, baseURL)
	if err != nil {
		return err
	}

	records, err := session.Extract(spec)
	if err != nil {
		return err
	}

	report, err := session.Validate(records)
	if err != nil {
		if errors.Is(err, validate.ErrNoRecords) {
			return fmt.Errorf("nothing to validate: the spec matched no products in %s", args[0])
		}
		return err
	}

	w, closeOutput, err := cmdcommon.OpenOutput(output)
	if err != nil {
		return err
	}
	defer func() { _ = closeOutput() }()

	if asJSON || output != "" {
		return export.WriteJSON(w, report)
	}
	export.RenderValidation(w, report)
	return nil
}
