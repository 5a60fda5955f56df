// Package extract implements the command that applies a selector spec to
// a saved HTML page and exports the resulting product records.
package extract

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/pagesift/cmd/common"
	"github.com/jonesrussell/pagesift/internal/export"
	"github.com/jonesrussell/pagesift/internal/extract"
)

// Output formats for extracted records.
const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

var (
	specFile string
	site     string
	baseURL  string
	output   string
	format   string
)

// Command returns the extract command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [html-file]",
		Short: "Extract product records from an HTML page using a selector spec",
		Long: `Extract applies a JSON or YAML selector spec to a saved HTML page.
Each spec field is an ordered fallback chain of CSS, XPath, or regex
selectors; the first match per field wins.`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}

	cmd.Flags().StringVarP(&specFile, "spec", "s", "", "selector spec file (JSON or YAML)")
	cmd.Flags().StringVar(&site, "site", "unknown", "site label stamped on each record")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "base URL for resolving relative references")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write records to a file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, csv, or json")
	_ = cmd.MarkFlagRequired("spec")

	return cmd
}

// runExtract executes the extract command.
func runExtract(cmd *cobra.Command, args []string) error {
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
	if len(records) == 0 {
		deps.Logger.Warn("no records extracted", "site", site, "file", args[0])
	}

	w, closeOutput, err := cmdcommon.OpenOutput(output)
	if err != nil {
		return err
	}
	defer func() { _ = closeOutput() }()

	switch format {
	case formatCSV:
		return export.WriteCSV(w, records)
	case formatJSON:
		return export.WriteJSON(w, records)
	case formatTable:
		export.RenderRecords(w, records)
		fmt.Fprintln(w, export.Summary(records, site))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
