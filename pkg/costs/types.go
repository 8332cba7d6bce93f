package costs

import (
	"github.com/shopspring/decimal"
)

// perMillionExp converts a per-million rate to a per-token rate.
const perMillionExp = -6

// Rates is the USD price of one million tokens per usage component.
type Rates struct {
	// Completion is the price of one million completion tokens.
	Completion decimal.Decimal

	// CacheWrite is the price of one million cache-creation tokens.
	CacheWrite decimal.Decimal

	// CacheRead is the price of one million cache-read tokens.
	CacheRead decimal.Decimal
}

// DefaultRates returns the standard rate table.
func DefaultRates() Rates {
	return Rates{
		Completion: decimal.RequireFromString("15.00"),
		CacheWrite: decimal.RequireFromString("3.75"),
		CacheRead:  decimal.RequireFromString("0.30"),
	}
}

// RatesFromFloats builds a rate table from per-million prices as they appear
// in configuration files.
func RatesFromFloats(completion, cacheWrite, cacheRead float64) Rates {
	return Rates{
		Completion: decimal.NewFromFloat(completion),
		CacheWrite: decimal.NewFromFloat(cacheWrite),
		CacheRead:  decimal.NewFromFloat(cacheRead),
	}
}

// IsZero reports whether no rate was set.
func (r Rates) IsZero() bool {
	return r.Completion.IsZero() && r.CacheWrite.IsZero() && r.CacheRead.IsZero()
}

// TokenCounts holds the token counts that are billed for one event.
type TokenCounts struct {
	// Completion is the number of completion tokens.
	Completion int64

	// CacheCreation is the number of tokens written to the prompt cache.
	CacheCreation int64

	// CacheRead is the number of tokens read from the prompt cache.
	CacheRead int64
}

// Breakdown holds the cost of each usage component. Aggregate costs are
// derived from it and never stored.
type Breakdown struct {
	CompletionCost    decimal.Decimal
	CacheCreationCost decimal.Decimal
	CacheReadCost     decimal.Decimal
}

// EventCost is the cost attributable to the event itself: completion plus
// cache creation. Cache reads are excluded.
func (b Breakdown) EventCost() decimal.Decimal {
	return b.CompletionCost.Add(b.CacheCreationCost)
}

// TotalCost is EventCost plus the cache-read cost.
func (b Breakdown) TotalCost() decimal.Decimal {
	return b.EventCost().Add(b.CacheReadCost)
}

// Add returns the component-wise sum of two breakdowns.
func (b Breakdown) Add(other Breakdown) Breakdown {
	return Breakdown{
		CompletionCost:    b.CompletionCost.Add(other.CompletionCost),
		CacheCreationCost: b.CacheCreationCost.Add(other.CacheCreationCost),
		CacheReadCost:     b.CacheReadCost.Add(other.CacheReadCost),
	}
}
