// Package report orders cost rows and aggregates them by event subtype.
//
// SortRows never modifies its input; Summarize groups rows in order of first
// appearance:
//
//	summary := report.Summarize(result.Rows, report.Options{})
//	for _, g := range summary.Groups {
//	    fmt.Println(g.Subtype, g.Count, g.Sum.EventCost())
//	}
package report
