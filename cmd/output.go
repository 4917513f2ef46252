package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sells-group/leads-cli/internal/export"
	"github.com/sells-group/leads-cli/internal/model"
)

// writeTable renders a result table in the requested format. For csv/xlsx an
// empty out path derives the filename from the form ID; "-" streams CSV to
// stdout.
func writeTable(t *model.Table, format, out, formID string) error {
	switch format {
	case "table", "":
		formatLeadsTable(os.Stdout, t)
		return nil
	case "csv":
		if out == "-" {
			return export.WriteCSV(os.Stdout, t)
		}
		if out == "" {
			out = export.CSVFilename(formID)
		}
		if err := export.WriteCSVFile(out, t); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(t.Rows), out)
		return nil
	case "xlsx":
		if out == "" {
			out = export.XLSXFilename(formID)
		}
		if err := export.WriteXLSXFile(out, t); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(t.Rows), out)
		return nil
	default:
		return &ValidationError{Field: "format", Reason: fmt.Sprintf("%q is not one of table, csv, xlsx", format)}
	}
}

// formatLeadsTable writes a tabular view to w, truncating wide cells.
func formatLeadsTable(out io.Writer, t *model.Table) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	for i, c := range t.Columns {
		if i > 0 {
			_, _ = fmt.Fprint(w, "\t")
		}
		_, _ = fmt.Fprint(w, c)
	}
	_, _ = fmt.Fprintln(w)

	for _, row := range t.Rows {
		for i, cell := range row {
			if i > 0 {
				_, _ = fmt.Fprint(w, "\t")
			}
			if len(cell) > 40 {
				cell = cell[:37] + "..."
			}
			_, _ = fmt.Fprint(w, cell)
		}
		_, _ = fmt.Fprintln(w)
	}
	_ = w.Flush()
}
