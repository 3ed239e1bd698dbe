/*
Package payroll converts aggregated shift hours into money.

PURPOSE:
  Given a wage model (type + base rate + optional overtime rate) and the
  period totals produced by the shift package, computes the monetary
  breakdown: base amount, overtime amount, discount amount, total payable.

WAGE MODELS:
  monthly: Fixed monthly rate regardless of days worked. Absences are
           discounted at baseRate/30 per absent day. Overtime pays at the
           explicit overtime rate when set, otherwise at an implied hourly
           rate (baseRate / theoretical monthly hours) with a 1.5x premium.

  jornal:  Per-day rate. Pay = fullDays * rate + halfDays * rate/2.
           Absences already fall out of the day counts, so there is no
           separate discount. No automatic overtime handling.

  hourly:  Pay = (workedHours - overtimeHours) * rate. Overtime pays at
           the explicit overtime rate when set, otherwise rate * 1.5.

  Any other type falls back to the monthly base-amount rule with no
  discount or overtime - a defensive behavior, not a business rule.

AMOUNT INVARIANTS:
  Every component is clamped to >= 0 before combination, and
  TotalPayable = max(0, base + overtime - discount). A nil or non-positive
  base rate short-circuits to an all-zero breakdown.

USAGE:
  model := payroll.WageModel{Type: payroll.WageMonthly, BaseRate: rate(30000)}
  pay := payroll.Calculate(model, totals)

SEE ALSO:
  - shift: Produces the PeriodTotals consumed here
  - payslip.go: Renders a breakdown as a PDF
*/
package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/comanda/shift-engine/engine"
	"github.com/comanda/shift-engine/shift"
)

// =============================================================================
// WAGE MODEL
// =============================================================================

// WageType selects the wage formula.
type WageType string

const (
	WageMonthly WageType = "monthly"
	WageJornal  WageType = "jornal"
	WageHourly  WageType = "hourly"
)

// WageModel is an employee's pay configuration. Nil rates mean
// "not configured".
type WageModel struct {
	Type         WageType
	BaseRate     *float64
	OvertimeRate *float64
}

// PayBreakdown is the monetary outcome for a period. All components are
// non-negative.
type PayBreakdown struct {
	BaseAmount     engine.Money
	OvertimeAmount engine.Money
	DiscountAmount engine.Money
	TotalPayable   engine.Money
}

// DefaultTheoreticalMonthlyHours is the assumed working-hour content of a
// month when deriving an implied hourly rate from a monthly salary.
const DefaultTheoreticalMonthlyHours = 160.0

// overtimePremium is the multiplier applied when no explicit overtime rate
// is configured.
var overtimePremium = decimal.NewFromFloat(1.5)

// monthlyDivisor prorates a monthly rate into a daily value for absence
// discounts, assuming a 30-day month.
var monthlyDivisor = decimal.NewFromInt(30)

// =============================================================================
// CALCULATION
// =============================================================================

// Calculate computes the pay breakdown with the default theoretical
// monthly hours.
func Calculate(model WageModel, totals shift.PeriodTotals) PayBreakdown {
	return CalculateWith(model, totals, DefaultTheoreticalMonthlyHours)
}

// CalculateWith computes the pay breakdown for the given totals. Pure
// function; it never returns an error. A missing or non-positive base rate
// yields an all-zero breakdown.
func CalculateWith(model WageModel, totals shift.PeriodTotals, theoreticalMonthlyHours float64) PayBreakdown {
	if model.BaseRate == nil || *model.BaseRate <= 0 {
		return PayBreakdown{}
	}
	if theoreticalMonthlyHours <= 0 {
		theoreticalMonthlyHours = DefaultTheoreticalMonthlyHours
	}

	baseRate := engine.NewMoney(*model.BaseRate)

	var baseAmount, overtimeAmount, discountAmount engine.Money

	switch model.Type {
	case WageMonthly:
		// Full fixed rate independent of days worked.
		baseAmount = baseRate
		if totals.Absences > 0 {
			discountAmount = baseRate.Div(monthlyDivisor).MulFloat(float64(totals.Absences))
		}
		overtimeAmount = overtimePay(model, baseRate, totals.OvertimeHours, theoreticalMonthlyHours)

	case WageJornal:
		full := baseRate.MulFloat(float64(totals.FullDays))
		half := baseRate.Div(decimal.NewFromInt(2)).MulFloat(float64(totals.HalfDays))
		baseAmount = full.Add(half)

	case WageHourly:
		normalHours := totals.WorkedHours - totals.OvertimeHours
		baseAmount = baseRate.MulFloat(normalHours)
		if totals.OvertimeHours > 0 {
			if model.OvertimeRate != nil {
				overtimeAmount = engine.NewMoney(*model.OvertimeRate).MulFloat(totals.OvertimeHours)
			} else {
				overtimeAmount = baseRate.Mul(overtimePremium).MulFloat(totals.OvertimeHours)
			}
		}

	default:
		// Unrecognized type: pay the base rate, nothing else.
		baseAmount = baseRate
	}

	baseAmount = baseAmount.ClampZero()
	overtimeAmount = overtimeAmount.ClampZero()
	discountAmount = discountAmount.ClampZero()

	total := baseAmount.Add(overtimeAmount).Sub(discountAmount).ClampZero()

	return PayBreakdown{
		BaseAmount:     baseAmount,
		OvertimeAmount: overtimeAmount,
		DiscountAmount: discountAmount,
		TotalPayable:   total,
	}
}

// overtimePay resolves monthly-model overtime: explicit rate when
// configured, otherwise an implied hourly rate with a premium.
func overtimePay(model WageModel, baseRate engine.Money, overtimeHours, theoreticalMonthlyHours float64) engine.Money {
	if overtimeHours <= 0 {
		return engine.Money{}
	}
	if model.OvertimeRate != nil {
		return engine.NewMoney(*model.OvertimeRate).MulFloat(overtimeHours)
	}
	implied := baseRate.Div(decimal.NewFromFloat(theoreticalMonthlyHours))
	return implied.Mul(overtimePremium).MulFloat(overtimeHours)
}
