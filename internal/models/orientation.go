package models

// OrientationRow is one line of the orientation board.
type OrientationRow struct {
	StudentTotal
	Level string `json:"nivel"`
}

// OrientationSummary totals the rows currently displayed.
type OrientationSummary struct {
	Students     int `json:"alumnos"`
	WithDebt     int `json:"con_adeudo"`
	TotalHours   int `json:"total_horas"`
	TotalReports int `json:"total_reportes"`
	HighSeverity int `json:"nivel_alto"`
}

// ExportFormat names a download format of the orientation board.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportPDF  ExportFormat = "pdf"
	ExportXLSX ExportFormat = "xlsx"
)

// ContentType returns the MIME type of the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportPDF:
		return "application/pdf"
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// ParseExportFormat validates a requested format, defaulting to CSV.
func ParseExportFormat(raw string) (ExportFormat, bool) {
	switch ExportFormat(raw) {
	case "", ExportCSV:
		return ExportCSV, true
	case ExportPDF, ExportXLSX:
		return ExportFormat(raw), true
	}
	return "", false
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
