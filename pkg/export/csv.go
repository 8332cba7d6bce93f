package export

import (
	"context"
	"encoding/csv"
	"io"
)

// CSVExporter exports tables to CSV format.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{
		IncludeHeader: includeHeader,
	}
}

// Export writes the table cells. The footer is not written.
func (e *CSVExporter) Export(ctx context.Context, t *Table, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(t.Header); err != nil {
			return NewExportError(string(FormatCSV), t.Len(), err)
		}
	}

	for i, row := range t.Rows {
		// Check for cancellation every 100 rows
		if i%100 == 0 {
			if err := ctx.Err(); err != nil {
				return NewExportError(string(FormatCSV), t.Len(), err)
			}
		}
		if err := writer.Write(row); err != nil {
			return NewExportError(string(FormatCSV), t.Len(), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return NewExportError(string(FormatCSV), t.Len(), err)
	}
	return nil
}
