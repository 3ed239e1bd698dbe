/*
Package engine provides the core primitives for the shift-hours and
payroll calculation engine.

PURPOSE:
  This package contains domain-agnostic building blocks used by the
  calculation packages (shift, payroll): calendar dates, weekdays,
  wall-clock minute conversion, and monetary amounts.

KEY CONCEPTS IN THIS FILE (time.go):
  - LocalDate: A calendar day with local-date semantics (no time zone math)
  - Weekday: A closed seven-variant enum with canonical Spanish names
  - MinutesOfDay: HH:MM wall-clock string to minutes-since-midnight

DESIGN PRINCIPLES:
  1. Day granularity: the engine never reasons below a calendar day except
     through minutes-since-midnight within a single day
  2. Local-date arithmetic: date stepping uses calendar arithmetic, never
     24h durations, so daylight-saving transitions cannot skew a scan
  3. Fail soft: malformed wall-clock strings degrade to (0, false), never
     panic - upstream callers translate that into zero hours

USAGE:
  d := engine.NewLocalDate(2025, time.March, 10)
  d.Weekday()          // engine.Lunes
  d.Key()              // "2025-03-10"
  min, ok := engine.MinutesOfDay("08:30")  // 510, true

SEE ALSO:
  - period.go: Closed date intervals and day iteration
  - money.go: Decimal-backed monetary amounts
*/
package engine

import (
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// LOCAL DATE - Calendar day with local-date semantics
// =============================================================================

// LocalDate represents a calendar day. The wall-clock time component is
// always midnight; comparisons and arithmetic operate on the calendar day.
type LocalDate struct {
	Time time.Time
}

// NewLocalDate builds a LocalDate for the given calendar day.
func NewLocalDate(year int, month time.Month, day int) LocalDate {
	return LocalDate{Time: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// DateOf truncates an instant to its local calendar day.
func DateOf(t time.Time) LocalDate {
	lt := t.Local()
	return NewLocalDate(lt.Year(), lt.Month(), lt.Day())
}

// ParseLocalDate parses a YYYY-MM-DD string.
func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return LocalDate{}, err
	}
	return DateOf(t), nil
}

// Today returns the current local calendar day.
func Today() LocalDate {
	return DateOf(time.Now())
}

// Comparison
func (d LocalDate) Before(other LocalDate) bool        { return d.normalize().Before(other.normalize()) }
func (d LocalDate) Equal(other LocalDate) bool         { return d.normalize().Equal(other.normalize()) }
func (d LocalDate) After(other LocalDate) bool         { return d.normalize().After(other.normalize()) }
func (d LocalDate) BeforeOrEqual(other LocalDate) bool { return d.Before(other) || d.Equal(other) }
func (d LocalDate) AfterOrEqual(other LocalDate) bool  { return d.After(other) || d.Equal(other) }

func (d LocalDate) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.Local)
}

// Arithmetic. AddDate is calendar arithmetic: stepping one day always lands
// on the next calendar day even across daylight-saving transitions.
func (d LocalDate) AddDays(n int) LocalDate   { return LocalDate{Time: d.normalize().AddDate(0, 0, n)} }
func (d LocalDate) AddMonths(n int) LocalDate { return LocalDate{Time: d.normalize().AddDate(0, n, 0)} }

// Properties
func (d LocalDate) Year() int         { return d.Time.Year() }
func (d LocalDate) Month() time.Month { return d.Time.Month() }
func (d LocalDate) Day() int          { return d.Time.Day() }
func (d LocalDate) IsZero() bool      { return d.Time.IsZero() }
func (d LocalDate) Weekday() Weekday  { return Weekday(d.normalize().Weekday()) }

// Key returns the canonical YYYY-MM-DD form used to index adjustments.
func (d LocalDate) Key() string { return d.normalize().Format("2006-01-02") }

func (d LocalDate) String() string { return d.Key() }

// StartOfMonth returns the first day of the month containing d.
func (d LocalDate) StartOfMonth() LocalDate {
	return NewLocalDate(d.Year(), d.Month(), 1)
}

// EndOfMonth returns the last day of the month containing d.
func (d LocalDate) EndOfMonth() LocalDate {
	return NewLocalDate(d.Year(), d.Month(), 1).AddMonths(1).AddDays(-1)
}

// =============================================================================
// WEEKDAY - Closed seven-variant enum with canonical names
// =============================================================================

// Weekday identifies a day of the week. The numeric values match
// time.Weekday (Sunday = 0) so conversion is a cast.
type Weekday int

const (
	Domingo Weekday = iota
	Lunes
	Martes
	Miercoles
	Jueves
	Viernes
	Sabado
)

// weekdayNames holds the canonical names used in stored rest-day
// configuration and in period detail output.
var weekdayNames = [7]string{
	Domingo:   "domingo",
	Lunes:     "lunes",
	Martes:    "martes",
	Miercoles: "miércoles",
	Jueves:    "jueves",
	Viernes:   "viernes",
	Sabado:    "sábado",
}

func (w Weekday) String() string {
	if w < Domingo || w > Sabado {
		return "unknown"
	}
	return weekdayNames[w]
}

// ParseWeekday maps a canonical name back to its Weekday. Unaccented
// spellings are accepted since legacy records stored both forms.
func ParseWeekday(name string) (Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "domingo":
		return Domingo, true
	case "lunes":
		return Lunes, true
	case "martes":
		return Martes, true
	case "miércoles", "miercoles":
		return Miercoles, true
	case "jueves":
		return Jueves, true
	case "viernes":
		return Viernes, true
	case "sábado", "sabado":
		return Sabado, true
	default:
		return 0, false
	}
}

// =============================================================================
// WALL-CLOCK MINUTES
// =============================================================================

// MinutesOfDay converts an HH:MM wall-clock string (24h) to minutes since
// midnight. Returns ok=false when either component is not numeric; values
// outside the usual ranges are passed through untouched so that shift
// arithmetic stays a pure subtraction.
func MinutesOfDay(clock string) (int, bool) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return hours*60 + minutes, true
}
