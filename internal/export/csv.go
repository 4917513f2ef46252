// Package export renders lead tables as downloadable artifacts.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leads-cli/internal/model"
)

// CSVFilename returns the artifact filename for a form's export. An empty
// form ID yields the generic name.
func CSVFilename(formID string) string {
	if formID == "" {
		return "leads.csv"
	}
	return fmt.Sprintf("leads_%s.csv", formID)
}

// WriteCSV renders the table as UTF-8 CSV with a header row of column names.
func WriteCSV(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteCSVFile writes the table to a CSV file at path.
func WriteCSVFile(path string, t *model.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, fmt.Sprintf("export: create %s", path))
	}
	defer f.Close() //nolint:errcheck

	if err := WriteCSV(f, t); err != nil {
		return err
	}
	return eris.Wrap(f.Close(), "export: close csv file")
}
