package costs

import (
	"github.com/shopspring/decimal"
)

// Precision values used by the reports.
const (
	// DefaultPrecision is the number of fractional digits of cost tables.
	DefaultPrecision int32 = 2

	// DetailPrecision is used by the completion and input cost views.
	DetailPrecision int32 = 6
)

// FormatUSD renders an amount as a dollar string with a fixed number of
// fractional digits, for example "$0.0015" at precision 4. Halves round away
// from zero: $0.315 at precision 2 is "$0.32".
func FormatUSD(amount decimal.Decimal, precision int32) string {
	return "$" + amount.StringFixed(precision)
}
