// Package export writes report tables in text, JSON and CSV form and stores
// processing runs in a SQLite artifact.
//
// A Table carries display cells and, optionally, the typed records they were
// built from. The text and CSV exporters write cells; the JSON exporter
// prefers the records so that numbers keep their type:
//
//	exp, err := export.New(export.FormatCSV)
//	if err != nil {
//	    return err
//	}
//	return exp.Export(ctx, export.RowsTable(result.Rows, 2), os.Stdout)
//
// The SQLite artifact keeps one row per run in "runs" and one row per cost
// row in "cost_rows". Money columns are decimal strings.
package export
