package engine

// =============================================================================
// PERIOD - Closed date interval for hour aggregation
// =============================================================================

// Period is a closed interval [Start, End] of calendar days. Hour totals
// are always computed for a period, never at a point in time.
//
// Examples:
//   - Pay month: Mar 1 - Mar 31
//   - Custom cut: Mar 10 - Apr 9
type Period struct {
	Start LocalDate
	End   LocalDate
}

// NewPeriod builds a period from two dates.
func NewPeriod(start, end LocalDate) Period {
	return Period{Start: start, End: end}
}

// MonthOf returns the calendar-month period containing the given date.
func MonthOf(d LocalDate) Period {
	return Period{Start: d.StartOfMonth(), End: d.EndOfMonth()}
}

// Contains returns true if the date is within [Start, End].
func (p Period) Contains(d LocalDate) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// IsEmpty reports whether the period spans no days (Start after End).
// An empty period is a documented boundary case: aggregation over it
// yields empty totals rather than an error.
func (p Period) IsEmpty() bool { return p.Start.After(p.End) }

// Days returns every calendar day in the period, ascending. Empty periods
// yield nil.
func (p Period) Days() []LocalDate {
	var days []LocalDate
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// Len returns the number of days in the period.
func (p Period) Len() int {
	if p.IsEmpty() {
		return 0
	}
	n := 0
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		n++
	}
	return n
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
