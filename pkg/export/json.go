package export

import (
	"context"
	"encoding/json"
	"io"
)

// JSONExporter exports tables to JSON format.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{
		Pretty: pretty,
	}
}

// Export writes the table records, or an array of objects keyed by column
// name when the table has none. An empty table is written as [].
func (e *JSONExporter) Export(ctx context.Context, t *Table, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return NewExportError(string(FormatJSON), t.Len(), err)
	}

	value := t.Records
	if value == nil {
		value = cellObjects(t)
	}

	encoder := json.NewEncoder(w)
	if e.Pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(value); err != nil {
		return NewExportError(string(FormatJSON), t.Len(), err)
	}
	return nil
}

// cellObjects maps each row to an object keyed by header.
func cellObjects(t *Table) []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		obj := make(map[string]string, len(t.Header))
		for i, col := range t.Header {
			if i < len(row) {
				obj[col] = row[i]
			}
		}
		out = append(out, obj)
	}
	return out
}
