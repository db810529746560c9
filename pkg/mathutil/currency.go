// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"github.com/iwvelando/claim-settlement/pkg/constants"
	"github.com/shopspring/decimal"
)

var (
	currencyTolerance = decimal.NewFromFloat(constants.CurrencyTolerance)
	hundred           = decimal.NewFromFloat(constants.PercentageMultiplier)
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Only presentation code should call it; calculations keep full precision.
func Round(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.CurrencyPlaces)
}

// RoundFloat rounds a float to two decimals. Half values round away from zero.
func RoundFloat(val float64) float64 {
	rounded, _ := Round(decimal.NewFromFloat(val)).Float64()
	return rounded
}

// IsZero checks if a value is effectively zero (within one cent)
func IsZero(val decimal.Decimal) bool {
	return val.Abs().LessThanOrEqual(currencyTolerance)
}

// IsNegative checks if a value is negative beyond the currency tolerance
func IsNegative(val decimal.Decimal) bool {
	return val.LessThan(currencyTolerance.Neg())
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance decimal.Decimal) bool {
	return val1.Sub(val2).Abs().LessThanOrEqual(tolerance)
}

// InRange reports whether min <= val <= max.
func InRange(val, min, max decimal.Decimal) bool {
	return val.GreaterThanOrEqual(min) && val.LessThanOrEqual(max)
}

// Sum adds all values. An empty list sums to zero.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Percent renders a fractional rate as a percentage, e.g. 0.07 -> 7.
func Percent(rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(hundred)
}
