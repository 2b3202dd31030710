package export

import "fmt"

// Table is a titled grid of string cells.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func (t Table) validate(format string) error {
	if len(t.Headers) == 0 {
		return fmt.Errorf("%s export requires at least one header", format)
	}
	for i, row := range t.Rows {
		if len(row) > len(t.Headers) {
			return fmt.Errorf("%s export: row %d has %d cells for %d headers", format, i, len(row), len(t.Headers))
		}
	}
	return nil
}

// cell returns the value at column i, or "" for short rows.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
