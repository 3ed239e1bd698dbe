/*
aggregate.go - Date-range accumulation

PURPOSE:
  Walks a closed date interval day by day, resolves each day, and
  accumulates period totals: base hours, overtime, discounted hours,
  worked/full/half day counts, absences, and a per-day detail list.

ACCUMULATION RULES:
  falta      -> Absences++, contributes to no hour total and no detail
  hours > 0  -> BaseHours += decimal hours; day counted and detailed;
                overtime adjustments also add Minutes/60 to OvertimeHours;
                late_arrival / early_departure with POSITIVE Minutes add
                Minutes/60 to DiscountedHours
  otherwise  -> the day contributes nothing (e.g. a full rest day)

OVERTIME ACCOUNTING:
  An overtime adjustment already extended the shift inside ResolveDay, so
  its minutes sit inside BaseHours AND are reported again in OvertimeHours.
  The discount branch only fires on positive Minutes, so early departures
  recorded with negative Minutes reduce BaseHours without appearing in
  DiscountedHours. Both are the settled historical behavior; downstream
  wage math depends on them staying exactly as they are.

SEE ALSO:
  - resolver.go: Per-day resolution
  - payroll/wage.go: Consumes the totals produced here
*/
package shift

import "github.com/comanda/shift-engine/engine"

// AggregatePeriod iterates every calendar day in the period (closed
// interval, ascending) and accumulates totals. adjustments is keyed by
// YYYY-MM-DD local-date strings; at most one adjustment per date.
//
// An empty period (Start after End) yields zero totals. Cost is linear in
// the number of days; callers exposing the range to untrusted input are
// responsible for bounding it.
func AggregatePeriod(period engine.Period, schedule ScheduleConfig, rest RestDayConfig, adjustments map[string]DayAdjustment) PeriodTotals {
	var totals PeriodTotals

	for current := period.Start; current.BeforeOrEqual(period.End); current = current.AddDays(1) {
		weekday := current.Weekday()

		var adjustment *DayAdjustment
		if a, ok := adjustments[current.Key()]; ok {
			a := a
			adjustment = &a
		}

		result := ResolveDay(schedule, weekday, rest, adjustment)

		switch {
		case result.Type == DayAbsence:
			totals.Absences++

		case result.DecimalHours > 0:
			totals.BaseHours += result.DecimalHours

			if adjustment != nil && adjustment.Minutes != nil {
				switch adjustment.Kind {
				case AdjustOvertime:
					totals.OvertimeHours += float64(*adjustment.Minutes) / 60
				case AdjustLateArrival, AdjustEarlyDeparture:
					// Only positive values count as a discount.
					if *adjustment.Minutes > 0 {
						totals.DiscountedHours += float64(*adjustment.Minutes) / 60
					}
				}
			}

			totals.DaysWorked++
			if result.Type == DayHalf {
				totals.HalfDays++
			} else {
				totals.FullDays++
			}
			totals.Details = append(totals.Details, DayDetail{
				Date:    current,
				Weekday: weekday,
				Hours:   result.DecimalHours,
				Type:    result.Type,
			})
		}
		// Zero-hour, non-absent days (full rest days, unworkable shifts)
		// contribute nothing.
	}

	worked := totals.BaseHours + totals.OvertimeHours - totals.DiscountedHours
	if worked < 0 {
		worked = 0
	}
	totals.WorkedHours = worked

	return totals
}
