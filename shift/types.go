/*
Package shift implements the shift-hours calculation engine.

PURPOSE:
  Given an employee's standing schedule, a weekly rest configuration, and
  per-day manual adjustments, this package derives worked hours per day
  and aggregates them over an arbitrary date range.

KEY CONCEPTS IN THIS FILE (types.go):
  - ScheduleConfig: An employee's standing entry/exit times
  - RestDayConfig: Weekday -> rest mode (full day, half morning, half afternoon)
  - DayAdjustment: A one-day manual override (overtime, absence, late
    arrival, early departure, shift change)
  - DayResult: Hours worked on one day plus its classification
  - PeriodTotals: Accumulated hour totals and day counts for a date range

DAY CLASSIFICATION:
  completo  full working day
  medio     half day (a half-day rest mode applied)
  libre     day off or nothing to compute
  falta     unjustified absence

DESIGN PRINCIPLES:
  1. Purity: every function is a pure function of its inputs; the package
     holds no state across invocations
  2. Fail soft to zero: malformed schedules resolve to zero hours, never
     to an error - upstream layers validate, this package only computes

USAGE:
  result := shift.ResolveDay(schedule, engine.Lunes, rest, nil)
  totals := shift.AggregatePeriod(period, schedule, rest, adjustments)

SEE ALSO:
  - resolver.go: Single-day hour resolution
  - aggregate.go: Date-range accumulation
  - payroll: Converts PeriodTotals into money
*/
package shift

import "github.com/comanda/shift-engine/engine"

// =============================================================================
// SCHEDULE - Standing shift definition
// =============================================================================

// ScheduleConfig is an employee's standing shift. Times are HH:MM wall-clock
// strings (24h). An empty pair means no standing schedule.
type ScheduleConfig struct {
	EntryTime string
	ExitTime  string
}

// HasShift reports whether a standing schedule is configured.
func (s ScheduleConfig) HasShift() bool {
	return s.EntryTime != "" && s.ExitTime != ""
}

// =============================================================================
// REST DAYS - Weekly rest configuration
// =============================================================================

// RestMode describes how much of a weekday is rested.
type RestMode string

const (
	RestFullDay       RestMode = "completo"
	RestHalfMorning   RestMode = "medio-mañana"
	RestHalfAfternoon RestMode = "medio-tarde"
)

// IsHalf reports whether the mode rests only half of the shift.
func (m RestMode) IsHalf() bool {
	return m == RestHalfMorning || m == RestHalfAfternoon
}

// RestDayConfig maps weekdays to rest modes. Weekdays not present are
// normal working days.
type RestDayConfig map[engine.Weekday]RestMode

// =============================================================================
// ADJUSTMENTS - One-day manual overrides
// =============================================================================

// AdjustmentKind identifies the kind of manual override.
type AdjustmentKind string

const (
	AdjustOvertime       AdjustmentKind = "overtime"
	AdjustAbsence        AdjustmentKind = "absence"
	AdjustLateArrival    AdjustmentKind = "late_arrival"
	AdjustEarlyDeparture AdjustmentKind = "early_departure"
	AdjustShiftChange    AdjustmentKind = "shift_change"
)

// KnownAdjustmentKind reports whether the kind is one of the five the
// engine understands.
func KnownAdjustmentKind(k AdjustmentKind) bool {
	switch k {
	case AdjustOvertime, AdjustAbsence, AdjustLateArrival, AdjustEarlyDeparture, AdjustShiftChange:
		return true
	}
	return false
}

// DayAdjustment is a single-day override. At most one adjustment exists per
// (employee, date) pair; that precondition is enforced at the storage
// boundary, not here.
//
// Minutes semantics depend on Kind:
//   overtime:        added at the end of the shift (positive extends)
//   late_arrival:    added to the entry time (positive shrinks)
//   early_departure: added to the exit time (expected negative, shrinks)
//   absence:         ignored
//   shift_change:    ignored; the Note carries the custom shift elsewhere
type DayAdjustment struct {
	Kind    AdjustmentKind
	Minutes *int
	Note    string
}

// =============================================================================
// RESULTS
// =============================================================================

// DayType classifies a resolved day.
type DayType string

const (
	DayComplete DayType = "completo"
	DayHalf     DayType = "medio"
	DayOff      DayType = "libre"
	DayAbsence  DayType = "falta"
)

// DayResult is the outcome of resolving one calendar day.
type DayResult struct {
	Hours        int
	Minutes      int
	DecimalHours float64
	Type         DayType
}

// DayDetail is one entry in a period's per-day breakdown. Only days with
// positive worked hours appear.
type DayDetail struct {
	Date    engine.LocalDate
	Weekday engine.Weekday
	Hours   float64
	Type    DayType
}

// PeriodTotals accumulates a date range.
//
// WorkedHours = max(0, BaseHours + OvertimeHours - DiscountedHours).
//
// Note on overtime accounting: an overtime adjustment extends the shift, so
// its minutes are already inside BaseHours; they are additionally reported
// in OvertimeHours as a separate figure. That mirrors the historical
// behavior the rest of the system settles pay against.
type PeriodTotals struct {
	BaseHours       float64
	OvertimeHours   float64
	WorkedHours     float64
	DiscountedHours float64
	DaysWorked      int
	FullDays        int
	HalfDays        int
	Absences        int
	Details         []DayDetail
}
