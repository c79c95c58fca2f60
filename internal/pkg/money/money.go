// Package money centralizes monetary rounding. Amounts live in the
// database as two-decimal values; unit prices as six-decimal ratios.
// Every amount is rounded exactly once, at the point of computation, and
// never re-rounded downstream. Computation happens in decimal space so
// that half-up ties resolve the same way regardless of float64
// representation (50 * 33.33 / 100 must round to 16.67, not 16.66).
package money

import "github.com/shopspring/decimal"

// Round2 rounds an amount to two decimals, half up. Idempotent.
func Round2(amount float64) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return f
}

// Round6 rounds a ratio (e.g. a unit price) to six decimals, half up.
func Round6(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(6).Float64()
	return f
}

// Percent returns base × pct / 100 rounded to two decimals.
func Percent(base, pct float64) float64 {
	d := decimal.NewFromFloat(base).
		Mul(decimal.NewFromFloat(pct)).
		Div(decimal.NewFromInt(100))
	f, _ := d.Round(2).Float64()
	return f
}

// ProRata returns pool × ownershipPct / 100 rounded to two decimals: one
// holder's slice of an already-rounded pool share.
func ProRata(pool, ownershipPct float64) float64 {
	return Percent(pool, ownershipPct)
}

// Mul returns units × price rounded to two decimals.
func Mul(units int64, price float64) float64 {
	d := decimal.NewFromInt(units).Mul(decimal.NewFromFloat(price))
	f, _ := d.Round(2).Float64()
	return f
}

// Sub returns a − b carried out in decimal space and rounded to two
// decimals. Used for the rounding remainder, where float64 subtraction of
// already-rounded amounts would reintroduce representation noise.
func Sub(a, b float64) float64 {
	d := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b))
	f, _ := d.Round(2).Float64()
	return f
}

// Add returns a + b in decimal space rounded to two decimals.
func Add(a, b float64) float64 {
	d := decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b))
	f, _ := d.Round(2).Float64()
	return f
}

// Ratio returns value / denom rounded to six decimals. Denominators are
// unit counts and never zero for a configured pool; a zero denom yields 0
// rather than a panic so a misconfigured pool surfaces as a zero price.
func Ratio(value float64, denom int64) float64 {
	if denom == 0 {
		return 0
	}
	d := decimal.NewFromFloat(value).Div(decimal.NewFromInt(denom))
	f, _ := d.Round(6).Float64()
	return f
}

// OwnershipPercent returns owned / total × 100 rounded to six decimals.
func OwnershipPercent(owned, total int64) float64 {
	if total == 0 {
		return 0
	}
	d := decimal.NewFromInt(owned).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total))
	f, _ := d.Round(6).Float64()
	return f
}
