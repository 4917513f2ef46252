package export

import (
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leads-cli/internal/model"
)

// XLSXFilename returns the spreadsheet artifact filename for a form's export.
func XLSXFilename(formID string) string {
	if formID == "" {
		return "leads.xlsx"
	}
	return fmt.Sprintf("leads_%s.xlsx", formID)
}

// buildXLSX renders the table into a single-sheet workbook with a header
// row of column names.
func buildXLSX(t *model.Table) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("leads")
	if err != nil {
		return nil, eris.Wrap(err, "export: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, c := range t.Columns {
		header.AddCell().SetString(c)
	}
	for _, row := range t.Rows {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().SetString(cell)
		}
	}
	return f, nil
}

// WriteXLSX writes the table as a spreadsheet to w.
func WriteXLSX(w io.Writer, t *model.Table) error {
	f, err := buildXLSX(t)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Write(w), "export: write xlsx")
}

// WriteXLSXFile writes the table to an XLSX file at path.
func WriteXLSXFile(path string, t *model.Table) error {
	f, err := buildXLSX(t)
	if err != nil {
		return err
	}
	return eris.Wrap(f.Save(path), "export: save xlsx")
}
