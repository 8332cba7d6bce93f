package export

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Format is an output format.
type Format string

// Supported formats.
const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
)

// ParseFormat parses a format name. The empty string selects FormatText.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatCSV, FormatSQLite:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected text, json, csv or sqlite)", s)
	}
}

// Table is a rendered report.
type Table struct {
	// Name titles the table.
	Name string

	// Header holds the column names.
	Header []string

	// Rows holds the display cells, one slice per line.
	Rows [][]string

	// Footer holds an optional totals line.
	Footer []string

	// Records holds the typed values behind Rows for JSON output. When nil
	// the JSON exporter writes one object per row keyed by column name.
	Records any
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Exporter writes a table to a stream.
type Exporter interface {
	Export(ctx context.Context, t *Table, w io.Writer) error
}

// New returns the stream exporter for format. FormatSQLite writes to a
// database file and has no stream exporter; use NewSQLiteWriter.
func New(format Format) (Exporter, error) {
	switch format {
	case FormatText, "":
		return NewTextExporter(), nil
	case FormatJSON:
		return NewJSONExporter(true), nil
	case FormatCSV:
		return NewCSVExporter(true), nil
	default:
		return nil, fmt.Errorf("format %q cannot be written to a stream", format)
	}
}
