// Package costs provides cost calculation for agent event usage records.
//
// Costs are computed from three token counts and a fixed rate table:
//
//   - Completion tokens: $15.00 per million by default
//   - Cache-creation (write) tokens: $3.75 per million by default
//   - Cache-read tokens: $0.30 per million by default
//
// All amounts are held as decimal.Decimal values. They are formatted to a
// currency string only when presented, see FormatUSD.
//
// # Usage
//
//	calc := costs.NewCalculator(costs.DefaultRates())
//	b := calc.Calculate(costs.TokenCounts{Completion: 100, CacheRead: 50, CacheCreation: 20})
//
//	fmt.Println(costs.FormatUSD(b.CompletionCost, 6)) // $0.001500
//	fmt.Println(costs.FormatUSD(b.TotalCost(), 2))
//
// # Rate Updates
//
// Rates can be replaced while the calculator is shared, which the watch mode
// uses after a configuration reload. Access is guarded by a read-write lock.
package costs
