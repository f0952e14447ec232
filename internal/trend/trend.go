// Package trend compares a period's total against its comparison period.
package trend

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Unbounded is returned by PercentChange when growth starts from zero.
var Unbounded = math.Inf(1)

// UnboundedLabel is how an unbounded change is shown to users.
const UnboundedLabel = "∞"

var hundred = decimal.NewFromInt(100)

// PercentChange returns (current-previous)/previous*100. A zero previous value
// yields Unbounded when current is positive and 0 when current is also zero.
func PercentChange(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		switch current.Sign() {
		case 1:
			return Unbounded
		case 0:
			return 0
		default:
			return math.Inf(-1)
		}
	}
	change, _ := current.Sub(previous).Div(previous).Mul(hundred).Float64()
	return change
}

// IsUnbounded reports whether change is the unbounded sentinel.
func IsUnbounded(change float64) bool {
	return math.IsInf(change, 1)
}

// Format renders change as "+12.5%", "-3.0%" or the unbounded label.
func Format(change float64) string {
	switch {
	case math.IsInf(change, 1):
		return UnboundedLabel
	case math.IsInf(change, -1):
		return "-" + UnboundedLabel
	default:
		return fmt.Sprintf("%+.1f%%", change)
	}
}

// Nullable returns nil for infinite changes so they encode as JSON null.
func Nullable(change float64) *float64 {
	if math.IsInf(change, 0) || math.IsNaN(change) {
		return nil
	}
	return &change
}
