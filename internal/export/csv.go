// Package export renders analysis and extraction results for files and
// terminals: CSV and JSON for downstream tooling, formatted tables for
// people.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jonesrussell/pagesift/internal/extract"
)

// WriteCSV writes records in the fixed column order, offers flattened.
func WriteCSV(w io.Writer, records []extract.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(extract.Columns()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Values()); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", r.Index, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
