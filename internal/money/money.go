// Package money represents BRL amounts as integer minor units (centavos).
// Monetary sums across line items and reports must not drift, so arithmetic
// never touches binary floating point except at the JSON boundary.
package money

import (
	"fmt"
	"math"
	"strconv"
)

// Money is an amount in centavos.
type Money int64

// FromFloat converts a decimal amount to centavos, rounding half-up.
// Negative, NaN and infinite inputs collapse to zero; form inputs arrive as
// "parse or zero" and the API keeps that contract instead of erroring.
func FromFloat(v float64) Money {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return Money(math.Floor(v*100 + 0.5))
}

// Float returns the amount as a decimal number of reais.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns m - other. Balances may legitimately go negative.
func (m Money) Sub(other Money) Money {
	return m - other
}

// Scale multiplies the amount by a decimal quantity, rounding half-up to the
// centavo. The quantity is clamped the same way FromFloat clamps amounts.
func (m Money) Scale(qty float64) Money {
	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty < 0 {
		return 0
	}
	return Money(math.Floor(qty*float64(m) + 0.5))
}

// String formats the amount with two decimal places, e.g. "211.80".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON emits the amount as a plain decimal number so the wire format
// matches what the console expects ("total": 211.8).
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float(), 'f', -1, 64)), nil
}

// UnmarshalJSON accepts any JSON number and clamps it via FromFloat.
func (m *Money) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("money: parse %q: %w", string(data), err)
	}
	*m = FromFloat(v)
	return nil
}
