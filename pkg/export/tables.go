package export

import (
	"strconv"

	"github.com/shopspring/decimal"

	"mercator-hq/costlens/pkg/costs"
	"mercator-hq/costlens/pkg/processor"
	"mercator-hq/costlens/pkg/report"
)

// RowColumns are the cost table columns in display order.
var RowColumns = []string{
	"id", "timestamp", "source", "message", "subt",
	"cache_read_tokens", "cache_creation_tokens", "completion_tokens",
	"cache_read_cost", "cache_creation_cost", "completion_cost",
	"event_cost", "total_cost", "special",
}

// RowsTable renders cost rows with money at precision digits. The JSON form
// keeps the full decimal amounts.
func RowsTable(rows []processor.Row, precision int32) *Table {
	t := &Table{
		Name:    "Event Costs",
		Header:  RowColumns,
		Rows:    make([][]string, 0, len(rows)),
		Records: rows,
	}
	if rows == nil {
		t.Records = []processor.Row{}
	}

	var total costs.Breakdown
	var read, creation, completion int64
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.ID.String(),
			r.Timestamp,
			r.Source,
			r.Message,
			r.Subtype,
			itoa(r.CacheReadTokens),
			itoa(r.CacheCreationTokens),
			itoa(r.CompletionTokens),
			costs.FormatUSD(r.Costs.CacheReadCost, precision),
			costs.FormatUSD(r.Costs.CacheCreationCost, precision),
			costs.FormatUSD(r.Costs.CompletionCost, precision),
			costs.FormatUSD(r.EventCost(), precision),
			costs.FormatUSD(r.TotalCost(), precision),
			r.Special,
		})
		total = total.Add(r.Costs)
		read += r.CacheReadTokens
		creation += r.CacheCreationTokens
		completion += r.CompletionTokens
	}

	if len(rows) > 0 {
		t.Footer = []string{
			"total", "", "", "", "",
			itoa(read), itoa(creation), itoa(completion),
			costs.FormatUSD(total.CacheReadCost, precision),
			costs.FormatUSD(total.CacheCreationCost, precision),
			costs.FormatUSD(total.CompletionCost, precision),
			costs.FormatUSD(total.EventCost(), precision),
			costs.FormatUSD(total.TotalCost(), precision),
			"",
		}
	}
	return t
}

// SummaryColumns are the summary table columns in display order.
var SummaryColumns = []string{
	"subt", "count",
	"sum_cache_creation_tokens", "avg_cache_creation_tokens",
	"sum_completion_tokens", "avg_completion_tokens",
	"sum_cache_creation_cost", "avg_cache_creation_cost",
	"sum_completion_cost", "avg_completion_cost",
	"sum_event_cost", "avg_event_cost",
}

// summaryRecord is the JSON form of one summary group.
type summaryRecord struct {
	Subtype                string          `json:"subt"`
	Count                  int             `json:"count"`
	SumCacheReadTokens     int64           `json:"sum_cache_read_tokens"`
	AvgCacheReadTokens     decimal.Decimal `json:"avg_cache_read_tokens"`
	SumCacheCreationTokens int64           `json:"sum_cache_creation_tokens"`
	AvgCacheCreationTokens decimal.Decimal `json:"avg_cache_creation_tokens"`
	SumCompletionTokens    int64           `json:"sum_completion_tokens"`
	AvgCompletionTokens    decimal.Decimal `json:"avg_completion_tokens"`
	SumCacheReadCost       decimal.Decimal `json:"sum_cache_read_cost"`
	AvgCacheReadCost       decimal.Decimal `json:"avg_cache_read_cost"`
	SumCacheCreationCost   decimal.Decimal `json:"sum_cache_creation_cost"`
	AvgCacheCreationCost   decimal.Decimal `json:"avg_cache_creation_cost"`
	SumCompletionCost      decimal.Decimal `json:"sum_completion_cost"`
	AvgCompletionCost      decimal.Decimal `json:"avg_completion_cost"`
	SumEventCost           decimal.Decimal `json:"sum_event_cost"`
	AvgEventCost           decimal.Decimal `json:"avg_event_cost"`
}

// SummaryTable renders the by-subtype summary. Token averages use two
// fractional digits; money uses precision digits.
func SummaryTable(summary report.Summary, precision int32) *Table {
	t := &Table{
		Name:   "Summary by Type",
		Header: SummaryColumns,
		Rows:   make([][]string, 0, len(summary.Groups)),
	}
	records := make([]summaryRecord, 0, len(summary.Groups))

	for _, g := range summary.Groups {
		avg := g.Average()
		t.Rows = append(t.Rows, []string{
			g.Subtype,
			strconv.Itoa(g.Count),
			itoa(g.Sum.CacheCreationTokens),
			avg.CacheCreationTokens.StringFixed(2),
			itoa(g.Sum.CompletionTokens),
			avg.CompletionTokens.StringFixed(2),
			costs.FormatUSD(g.Sum.Costs.CacheCreationCost, precision),
			costs.FormatUSD(avg.Costs.CacheCreationCost, precision),
			costs.FormatUSD(g.Sum.Costs.CompletionCost, precision),
			costs.FormatUSD(avg.Costs.CompletionCost, precision),
			costs.FormatUSD(g.Sum.EventCost(), precision),
			costs.FormatUSD(avg.Costs.EventCost(), precision),
		})
		records = append(records, summaryRecord{
			Subtype:                g.Subtype,
			Count:                  g.Count,
			SumCacheReadTokens:     g.Sum.CacheReadTokens,
			AvgCacheReadTokens:     avg.CacheReadTokens,
			SumCacheCreationTokens: g.Sum.CacheCreationTokens,
			AvgCacheCreationTokens: avg.CacheCreationTokens,
			SumCompletionTokens:    g.Sum.CompletionTokens,
			AvgCompletionTokens:    avg.CompletionTokens,
			SumCacheReadCost:       g.Sum.Costs.CacheReadCost,
			AvgCacheReadCost:       avg.Costs.CacheReadCost,
			SumCacheCreationCost:   g.Sum.Costs.CacheCreationCost,
			AvgCacheCreationCost:   avg.Costs.CacheCreationCost,
			SumCompletionCost:      g.Sum.Costs.CompletionCost,
			AvgCompletionCost:      avg.Costs.CompletionCost,
			SumEventCost:           g.Sum.EventCost(),
			AvgEventCost:           avg.Costs.EventCost(),
		})
	}
	t.Records = records

	if len(summary.Groups) > 0 {
		t.Footer = []string{
			"total", strconv.Itoa(summary.Kept),
			itoa(summary.Total.CacheCreationTokens), "",
			itoa(summary.Total.CompletionTokens), "",
			costs.FormatUSD(summary.Total.Costs.CacheCreationCost, precision), "",
			costs.FormatUSD(summary.Total.Costs.CompletionCost, precision), "",
			costs.FormatUSD(summary.Total.EventCost(), precision), "",
		}
	}
	return t
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
