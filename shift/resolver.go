/*
resolver.go - Single-day hour resolution

PURPOSE:
  Computes the hours worked on one calendar day and classifies the day.
  This is the innermost step of the pipeline: everything above it (period
  aggregation, wage calculation) builds on the DayResult it returns.

RESOLUTION ORDER (load-bearing, do not reorder):
  1. Absence adjustment wins over everything, including rest days
  2. No standing schedule -> libre
  3. Full rest day -> libre
  4. Parse entry/exit to minutes-since-midnight (parse failure -> libre)
  5. Half-day rest modes shrink the shift BEFORE adjustments apply
  6. Non-absence adjustments shift the entry/exit minutes
  7. Non-positive remaining span -> libre
  8. Classify: medio when a half-day mode applied, else completo

HALF-DAY ARITHMETIC:
  medio-mañana: entry += floor(span/2)   (only the afternoon is worked)
  medio-tarde:  exit = entry + floor(span/2)   (only the morning is worked)

SEE ALSO:
  - aggregate.go: Calls ResolveDay for every day of a period
*/
package shift

import "github.com/comanda/shift-engine/engine"

// ResolveDay computes worked hours for one calendar day. adjustment may be
// nil. Pure function of its four inputs; it never returns an error -
// malformed schedule strings fail soft to a zero-hour libre day.
func ResolveDay(schedule ScheduleConfig, weekday engine.Weekday, rest RestDayConfig, adjustment *DayAdjustment) DayResult {
	// Absence overrides schedule and rest-day status alike.
	if adjustment != nil && adjustment.Kind == AdjustAbsence {
		return DayResult{Type: DayAbsence}
	}

	if !schedule.HasShift() {
		return DayResult{Type: DayOff}
	}

	mode, hasRest := rest[weekday]
	if hasRest && mode == RestFullDay {
		return DayResult{Type: DayOff}
	}

	entryMin, okEntry := engine.MinutesOfDay(schedule.EntryTime)
	exitMin, okExit := engine.MinutesOfDay(schedule.ExitTime)
	if !okEntry || !okExit {
		return DayResult{Type: DayOff}
	}

	// Half-day rest shrinks the shift before any adjustment applies.
	halfDay := hasRest && mode.IsHalf()
	if halfDay {
		half := (exitMin - entryMin) / 2
		if mode == RestHalfMorning {
			entryMin += half
		} else {
			exitMin = entryMin + half
		}
	}

	if adjustment != nil && adjustment.Minutes != nil {
		switch adjustment.Kind {
		case AdjustOvertime:
			exitMin += *adjustment.Minutes
		case AdjustLateArrival:
			entryMin += *adjustment.Minutes
		case AdjustEarlyDeparture:
			// Minutes is expected negative here: it shrinks the shift
			// from the end.
			exitMin += *adjustment.Minutes
		case AdjustShiftChange:
			// No minute effect; custom-schedule handling is external.
		}
	}

	workedMinutes := exitMin - entryMin
	if workedMinutes <= 0 {
		return DayResult{Type: DayOff}
	}

	dayType := DayComplete
	if halfDay {
		dayType = DayHalf
	}
	return DayResult{
		Hours:        workedMinutes / 60,
		Minutes:      workedMinutes % 60,
		DecimalHours: float64(workedMinutes) / 60,
		Type:         dayType,
	}
}
