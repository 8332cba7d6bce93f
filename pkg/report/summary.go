package report

import (
	"github.com/shopspring/decimal"

	"mercator-hq/costlens/pkg/costs"
	"mercator-hq/costlens/pkg/processor"
)

// NullSubtype is the subtype value that is never summarized.
const NullSubtype = "null"

// Options controls which rows Summarize keeps.
type Options struct {
	// IncludeStale keeps rows marked "cache miss: outdated".
	IncludeStale bool
}

// Totals holds summed token counts and costs.
type Totals struct {
	CacheReadTokens     int64
	CacheCreationTokens int64
	CompletionTokens    int64
	Costs               costs.Breakdown
}

// add folds one row into the totals.
func (t *Totals) add(r processor.Row) {
	t.CacheReadTokens += r.CacheReadTokens
	t.CacheCreationTokens += r.CacheCreationTokens
	t.CompletionTokens += r.CompletionTokens
	t.Costs = t.Costs.Add(r.Costs)
}

// EventCost is the summed completion plus cache-creation cost.
func (t Totals) EventCost() decimal.Decimal {
	return t.Costs.EventCost()
}

// TotalCost is the summed event cost plus cache-read cost.
func (t Totals) TotalCost() decimal.Decimal {
	return t.Costs.TotalCost()
}

// Group is the aggregate of all kept rows of one subtype.
type Group struct {
	Subtype string
	Count   int
	Sum     Totals
}

// Average returns the per-row mean of every field. Token means are decimal
// because they are rarely whole numbers.
func (g Group) Average() Averages {
	if g.Count == 0 {
		return Averages{}
	}
	n := decimal.NewFromInt(int64(g.Count))
	return Averages{
		CacheReadTokens:     decimal.NewFromInt(g.Sum.CacheReadTokens).Div(n),
		CacheCreationTokens: decimal.NewFromInt(g.Sum.CacheCreationTokens).Div(n),
		CompletionTokens:    decimal.NewFromInt(g.Sum.CompletionTokens).Div(n),
		Costs: costs.Breakdown{
			CompletionCost:    g.Sum.Costs.CompletionCost.Div(n),
			CacheCreationCost: g.Sum.Costs.CacheCreationCost.Div(n),
			CacheReadCost:     g.Sum.Costs.CacheReadCost.Div(n),
		},
	}
}

// Averages holds per-row means of a group.
type Averages struct {
	CacheReadTokens     decimal.Decimal
	CacheCreationTokens decimal.Decimal
	CompletionTokens    decimal.Decimal
	Costs               costs.Breakdown
}

// Summary is the by-subtype aggregation of a run.
type Summary struct {
	// Groups in order of first appearance of their subtype.
	Groups []Group

	// Total sums every kept row.
	Total Totals

	// Kept and Excluded count the input rows.
	Kept     int
	Excluded int
}

// Summarize groups rows by subtype. Rows with the "null" subtype, a zero
// event cost, or a staleness mark (unless opts.IncludeStale) are excluded.
func Summarize(rows []processor.Row, opts Options) Summary {
	summary := Summary{Groups: make([]Group, 0)}
	index := make(map[string]int)

	for _, r := range rows {
		if !keep(r, opts) {
			summary.Excluded++
			continue
		}
		summary.Kept++
		summary.Total.add(r)

		i, ok := index[r.Subtype]
		if !ok {
			i = len(summary.Groups)
			index[r.Subtype] = i
			summary.Groups = append(summary.Groups, Group{Subtype: r.Subtype})
		}
		summary.Groups[i].Count++
		summary.Groups[i].Sum.add(r)
	}

	return summary
}

func keep(r processor.Row, opts Options) bool {
	if r.Subtype == NullSubtype {
		return false
	}
	if r.EventCost().IsZero() {
		return false
	}
	if r.IsStale() && !opts.IncludeStale {
		return false
	}
	return true
}

// EventCostShares returns each group's share of the summed event cost in
// percent, in group order. An all-zero summary yields zero shares.
func (s Summary) EventCostShares() []decimal.Decimal {
	values := make([]decimal.Decimal, len(s.Groups))
	for i, g := range s.Groups {
		values[i] = g.Sum.EventCost()
	}
	return Shares(values)
}

var hundred = decimal.NewFromInt(100)

// Shares converts values to percentages of their sum.
func Shares(values []decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(values))
	total := decimal.Sum(decimal.Zero, values...)
	if total.IsZero() {
		for i := range shares {
			shares[i] = decimal.Zero
		}
		return shares
	}
	for i, v := range values {
		shares[i] = v.Mul(hundred).Div(total)
	}
	return shares
}
