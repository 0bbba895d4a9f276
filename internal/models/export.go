package models

import "time"

// ExportFormat enumerates the supported schedule export renderings.
type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
)

// ContentType returns the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatCSV:
		return "text/csv; charset=utf-8"
	case ExportFormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

// ExportFile is a rendered export loaded back from storage.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	ExpiresAt   time.Time
}
