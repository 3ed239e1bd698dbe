/*
money.go - Decimal-backed monetary amounts

PURPOSE:
  Wage computation multiplies rates by fractional hour counts and divides
  monthly rates by day counts. Doing that in float64 accumulates rounding
  drift, so all monetary values go through decimal.Decimal.

KEY OPERATIONS:
  - NewMoney: construction from float64
  - Add / Sub / Mul / Div: arithmetic (Money stays Money)
  - ClampZero: floor at zero - payable components are never negative

SEE ALSO:
  - payroll/wage.go: The only heavy consumer of this type
*/
package engine

import "github.com/shopspring/decimal"

// Money is a monetary amount. The zero value is zero money.
type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money { return Money{Value: decimal.NewFromFloat(value)} }

func (m Money) Add(o Money) Money           { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money           { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) Mul(s decimal.Decimal) Money { return Money{Value: m.Value.Mul(s)} }
func (m Money) Div(s decimal.Decimal) Money { return Money{Value: m.Value.Div(s)} }

// MulFloat scales by a float64 factor (hour counts arrive as float64).
func (m Money) MulFloat(f float64) Money { return m.Mul(decimal.NewFromFloat(f)) }

// ClampZero floors the amount at zero.
func (m Money) ClampZero() Money {
	if m.Value.IsNegative() {
		return Money{Value: decimal.Zero}
	}
	return m
}

// Float64 returns the amount as a float64 for serialization at the edge.
func (m Money) Float64() float64 {
	f, _ := m.Value.Float64()
	return f
}

// String renders with two decimal places.
func (m Money) String() string { return m.Value.StringFixed(2) }
