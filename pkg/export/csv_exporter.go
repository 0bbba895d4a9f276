package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter flattens a Dataset into CSV with the group label as first column.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	header := make([]string, 0, len(data.Headers)+1)
	header = append(header, data.GroupHeader)
	header = append(header, data.Headers...)
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}

	for _, group := range data.Groups {
		for _, row := range group.Rows {
			record := make([]string, 0, len(header))
			record = append(record, group.Label)
			for i := range data.Headers {
				record = append(record, cell(row, i))
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
