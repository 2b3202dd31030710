package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter renders tables as a single-sheet workbook.
type XLSXExporter struct {
	SheetName string
}

// NewXLSXExporter constructs an XLSX exporter writing to the given sheet.
func NewXLSXExporter(sheetName string) *XLSXExporter {
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	return &XLSXExporter{SheetName: sheetName}
}

// Render writes an optional title row, a styled header row and the body. Cells that parse as
// integers are stored as numbers.
func (e *XLSXExporter) Render(table Table) ([]byte, error) {
	if err := table.validate("xlsx"); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := e.SheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	row := 1
	if table.Title != "" {
		if err := f.SetCellValue(sheet, "A1", table.Title); err != nil {
			return nil, fmt.Errorf("write title: %w", err)
		}
		row = 3
	}

	for i, h := range table.Headers {
		name, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := f.SetCellValue(sheet, name, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(table.Headers), row)
	if err := f.SetCellStyle(sheet, first, last, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for _, values := range table.Rows {
		row++
		for i := range table.Headers {
			name, _ := excelize.CoordinatesToCellName(i+1, row)
			var value interface{} = cell(values, i)
			if n, err := strconv.Atoi(cell(values, i)); err == nil {
				value = n
			}
			if err := f.SetCellValue(sheet, name, value); err != nil {
				return nil, fmt.Errorf("write cell %s: %w", name, err)
			}
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(table.Headers))
	_ = f.SetColWidth(sheet, "A", lastCol, 18)

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
