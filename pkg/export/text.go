package export

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// TextExporter renders tables for the terminal.
type TextExporter struct {
	// Title prints the table name above the table.
	Title bool
}

// NewTextExporter creates a text exporter that prints table titles.
func NewTextExporter() *TextExporter {
	return &TextExporter{Title: true}
}

// Export writes t as a bordered table. Columns whose cells all look numeric
// or monetary are right-aligned.
func (e *TextExporter) Export(ctx context.Context, t *Table, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return NewExportError(string(FormatText), t.Len(), err)
	}

	if e.Title && t.Name != "" {
		if _, err := fmt.Fprintf(w, "%s\n", t.Name); err != nil {
			return NewExportError(string(FormatText), t.Len(), err)
		}
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.Off}},
		})))

	table.Header(t.Header)

	alignments := make([]tw.Align, len(t.Header))
	for i := range alignments {
		if numericColumn(t.Rows, i) {
			alignments[i] = tw.AlignRight
		} else {
			alignments[i] = tw.AlignLeft
		}
	}
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.PerColumn = alignments
	})

	for _, row := range t.Rows {
		if err := table.Append(row); err != nil {
			return NewExportError(string(FormatText), t.Len(), err)
		}
	}
	if len(t.Footer) > 0 {
		table.Footer(t.Footer)
	}

	if err := table.Render(); err != nil {
		return NewExportError(string(FormatText), t.Len(), err)
	}
	return nil
}

// numericColumn reports whether every non-empty cell of column i is a number
// or a dollar amount.
func numericColumn(rows [][]string, i int) bool {
	seen := false
	for _, row := range rows {
		if i >= len(row) || row[i] == "" {
			continue
		}
		if !isNumeric(row[i]) {
			return false
		}
		seen = true
	}
	return seen
}

func isNumeric(s string) bool {
	if s[0] == '$' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	dot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot:
			dot = true
		case r == '-' && i == 0:
		default:
			return false
		}
	}
	return true
}
