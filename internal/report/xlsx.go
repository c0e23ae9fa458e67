package report

import (
	"fmt"
	"io"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/amimagid/ami-super-app/internal/parser"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the export writes to.
const SheetName = "Health Log"

// WriteXLSX writes entries as a workbook whose header row uses the CSV
// column names, so the file can be imported again.
func WriteXLSX(w io.Writer, entries []models.HealthEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(parser.Columns))
	for i, c := range parser.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		row := []any{
			e.Date, weightCell(e.Weight),
			str(e.BPAMRight), str(e.BPAMLeft), str(e.BPAMTime), str(e.BPAMNotes),
			str(e.BPPMRight), str(e.BPPMLeft), str(e.BPPMTime), str(e.BPPMNotes),
			str(e.Workout),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "K", 14); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func str(p *string) any {
	if p == nil {
		return ""
	}
	return *p
}

func weightCell(w *float64) any {
	if w == nil {
		return ""
	}
	return *w
}
