package charts

import (
	"sort"

	"github.com/shopspring/decimal"

	"mercator-hq/costlens/pkg/costs"
	"mercator-hq/costlens/pkg/events"
	"mercator-hq/costlens/pkg/processor"
	"mercator-hq/costlens/pkg/report"
)

// Distribution labels.
const (
	LabelCompletionTokens = "Completion Tokens"
	LabelCacheWriteTokens = "Cache Write Tokens"
	LabelCacheReadTokens  = "Cache Read Tokens"
	LabelCompletionCost   = "Completion Cost"
	LabelCacheWriteCost   = "Cache Write Cost"
	LabelCacheReadCost    = "Cache Read Cost"
)

// Point is one bar of the per-event stacks.
type Point struct {
	ID               events.ID       `json:"id"`
	CompletionTokens int64           `json:"completion_tokens"`
	CacheWriteTokens int64           `json:"cache_write_tokens"`
	CacheReadTokens  int64           `json:"cache_read_tokens"`
	CompletionCost   decimal.Decimal `json:"completion_cost"`
	CacheWriteCost   decimal.Decimal `json:"cache_write_cost"`
	CacheReadCost    decimal.Decimal `json:"cache_read_cost"`
}

// TotalTokens is the height of the token stack.
func (p Point) TotalTokens() int64 {
	return p.CompletionTokens + p.CacheWriteTokens + p.CacheReadTokens
}

// TotalCost is the height of the cost stack.
func (p Point) TotalCost() decimal.Decimal {
	return p.CompletionCost.Add(p.CacheWriteCost).Add(p.CacheReadCost)
}

// Slice is one segment of a distribution. Share is in percent.
type Slice struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
	Share decimal.Decimal `json:"share"`
}

// Dataset holds every chart series of one event log.
type Dataset struct {
	// Points are ordered by event id.
	Points []Point `json:"points"`

	// TokenDistribution splits the summed tokens by kind.
	TokenDistribution []Slice `json:"token_distribution"`

	// CostDistribution splits the summed cost by kind.
	CostDistribution []Slice `json:"cost_distribution"`

	// EventCostByType splits the summarized event cost by subtype.
	// Cache-read cost is excluded.
	EventCostByType []Slice `json:"event_cost_by_type"`
}

// Build assembles the dataset. Events without an accumulated usage record are
// skipped; rows feed only the by-subtype distribution.
func Build(evs []*events.Event, rows []processor.Row, calc *costs.Calculator, opts report.Options) *Dataset {
	if calc == nil {
		calc = costs.NewCalculator(costs.DefaultRates())
	}

	ds := &Dataset{
		Points: Points(evs, calc),
	}

	var completion, cacheWrite, cacheRead int64
	var completionCost, cacheWriteCost, cacheReadCost decimal.Decimal
	for _, p := range ds.Points {
		completion += p.CompletionTokens
		cacheWrite += p.CacheWriteTokens
		cacheRead += p.CacheReadTokens
		completionCost = completionCost.Add(p.CompletionCost)
		cacheWriteCost = cacheWriteCost.Add(p.CacheWriteCost)
		cacheReadCost = cacheReadCost.Add(p.CacheReadCost)
	}

	ds.TokenDistribution = distribution(
		[]string{LabelCompletionTokens, LabelCacheWriteTokens, LabelCacheReadTokens},
		[]decimal.Decimal{decimal.NewFromInt(completion), decimal.NewFromInt(cacheWrite), decimal.NewFromInt(cacheRead)},
	)
	ds.CostDistribution = distribution(
		[]string{LabelCompletionCost, LabelCacheWriteCost, LabelCacheReadCost},
		[]decimal.Decimal{completionCost, cacheWriteCost, cacheReadCost},
	)

	summary := report.Summarize(rows, opts)
	labels := make([]string, len(summary.Groups))
	values := make([]decimal.Decimal, len(summary.Groups))
	for i, g := range summary.Groups {
		labels[i] = g.Subtype
		values[i] = g.Sum.EventCost()
	}
	ds.EventCostByType = distribution(labels, values)

	return ds
}

// Points extracts the per-event stacks sorted by id.
func Points(evs []*events.Event, calc *costs.Calculator) []Point {
	points := make([]Point, 0, len(evs))
	for _, ev := range evs {
		usage, ok := ev.AccumulatedUsage()
		if !ok {
			continue
		}
		points = append(points, Point{
			ID:               ev.ID,
			CompletionTokens: usage.CompletionTokens,
			CacheWriteTokens: usage.CacheWriteTokens,
			CacheReadTokens:  usage.CacheReadTokens,
			CompletionCost:   calc.CompletionCost(usage.CompletionTokens),
			CacheWriteCost:   calc.CacheWriteCost(usage.CacheWriteTokens),
			CacheReadCost:    calc.CacheReadCost(usage.CacheReadTokens),
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].ID.Less(points[j].ID)
	})
	return points
}

func distribution(labels []string, values []decimal.Decimal) []Slice {
	shares := report.Shares(values)
	slices := make([]Slice, len(labels))
	for i := range labels {
		slices[i] = Slice{Label: labels[i], Value: values[i], Share: shares[i]}
	}
	return slices
}
