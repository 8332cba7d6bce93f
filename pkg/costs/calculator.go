package costs

import (
	"github.com/shopspring/decimal"
)

// Calculator computes cost breakdowns from token counts. Its rate table is
// fixed at creation, so it is safe for concurrent use.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a calculator for the given rates. A zero rate table
// selects DefaultRates.
func NewCalculator(rates Rates) *Calculator {
	if rates.IsZero() {
		rates = DefaultRates()
	}
	return &Calculator{rates: rates}
}

// Calculate returns the cost breakdown for the given token counts.
func (c *Calculator) Calculate(counts TokenCounts) Breakdown {
	rates := c.rates
	return Breakdown{
		CompletionCost:    tokenCost(counts.Completion, rates.Completion),
		CacheCreationCost: tokenCost(counts.CacheCreation, rates.CacheWrite),
		CacheReadCost:     tokenCost(counts.CacheRead, rates.CacheRead),
	}
}

// CompletionCost prices completion tokens alone.
func (c *Calculator) CompletionCost(tokens int64) decimal.Decimal {
	return c.Calculate(TokenCounts{Completion: tokens}).CompletionCost
}

// CacheWriteCost prices cache-creation tokens alone.
func (c *Calculator) CacheWriteCost(tokens int64) decimal.Decimal {
	return c.Calculate(TokenCounts{CacheCreation: tokens}).CacheCreationCost
}

// CacheReadCost prices cache-read tokens alone.
func (c *Calculator) CacheReadCost(tokens int64) decimal.Decimal {
	return c.Calculate(TokenCounts{CacheRead: tokens}).CacheReadCost
}

// Rates returns the rate table.
func (c *Calculator) Rates() Rates {
	return c.rates
}

// tokenCost prices tokens at a per-million rate.
func tokenCost(tokens int64, perMillion decimal.Decimal) decimal.Decimal {
	if tokens == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(tokens).Mul(perMillion).Shift(perMillionExp)
}
