package batch

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/niksi-nova/swasthya-ai/internal/pipeline"
)

// xlsxSheet is the single worksheet name for exported results.
const xlsxSheet = "Results"

// WriteXLSX writes the batch summary as an XLSX workbook with one row
// per extracted field.
func WriteXLSX(summary *pipeline.BatchSummary, path string) error {
	f := excelize.NewFile()

	if index, _ := f.GetSheetIndex(xlsxSheet); index == -1 {
		if _, err := f.NewSheet(xlsxSheet); err != nil {
			return err
		}
	}
	activeIndex, _ := f.GetSheetIndex(xlsxSheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet excelize creates.
	if xlsxSheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{"Source", "Test Name", "Result", "Unit", "Ref Low", "Ref High"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(xlsxSheet, cell, h)
	}

	row := 2
	for _, doc := range summary.Documents {
		if !doc.Success {
			continue
		}
		for _, field := range doc.Fields {
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(xlsxSheet, cell, v)
			}

			write(1, doc.Source)
			write(2, field.TestName)
			write(3, field.Result)
			write(4, field.Unit)
			if field.RefLow != nil {
				write(5, *field.RefLow)
			}
			if field.RefHigh != nil {
				write(6, *field.RefHigh)
			}
			row++
		}
	}

	_ = f.SetColWidth(xlsxSheet, "A", "A", 40)
	_ = f.SetColWidth(xlsxSheet, "B", "B", 32)
	_ = f.SetColWidth(xlsxSheet, "C", "F", 12)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
