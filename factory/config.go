/*
Package factory converts stored JSON configuration into the canonical
shapes the calculation engine consumes.

PURPOSE:
  Employee records persist schedules, rest days, and wage models as JSON.
  Older records use encodings the engine no longer understands, so this
  package is the single place where legacy data is normalized BEFORE the
  engine is called. The engine itself only ever sees canonical shapes.

LEGACY ENCODINGS HANDLED:
  Rest days:
    canonical  {"lunes": "completo", "sábado": "medio-tarde"}
    legacy     ["lunes", "domingo"]          every listed day -> completo
    legacy     {"lunes": "medio"}            "medio" -> "medio-mañana"

  Unknown weekday keys and unknown rest modes are dropped rather than
  rejected - a partially-configured record still computes.

ENCODING:
  EncodeRestDays always emits the canonical object form, so any write
  path migrates legacy records forward.

SEE ALSO:
  - shift: The canonical RestDayConfig shape
  - store/sqlite: Calls into this package when loading employee rows
*/
package factory

import (
	"encoding/json"

	"github.com/comanda/shift-engine/engine"
	"github.com/comanda/shift-engine/payroll"
	"github.com/comanda/shift-engine/shift"
)

// =============================================================================
// REST DAYS
// =============================================================================

// DecodeRestDays parses a stored rest-day document into the canonical
// config. Fail-soft: malformed JSON or unrecognized entries produce an
// empty (or partial) config, never an error.
func DecodeRestDays(raw []byte) shift.RestDayConfig {
	config := shift.RestDayConfig{}
	if len(raw) == 0 {
		return config
	}

	// Canonical / legacy-object form: weekday name -> mode.
	var byName map[string]string
	if err := json.Unmarshal(raw, &byName); err == nil {
		for name, mode := range byName {
			weekday, ok := engine.ParseWeekday(name)
			if !ok {
				continue
			}
			if normalized, ok := normalizeRestMode(mode); ok {
				config[weekday] = normalized
			}
		}
		return config
	}

	// Legacy list form: every listed day is a full rest day.
	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		for _, name := range names {
			if weekday, ok := engine.ParseWeekday(name); ok {
				config[weekday] = shift.RestFullDay
			}
		}
	}

	return config
}

// EncodeRestDays serializes a config in the canonical object form with
// canonical weekday names.
func EncodeRestDays(config shift.RestDayConfig) []byte {
	byName := make(map[string]string, len(config))
	for weekday, mode := range config {
		byName[weekday.String()] = string(mode)
	}
	raw, err := json.Marshal(byName)
	if err != nil {
		return []byte("{}")
	}
	return raw
}

// =============================================================================
// WAGE TYPE
// =============================================================================

// DecodeWageType normalizes stored wage-type strings. Legacy records used
// Spanish labels; anything unrecognized passes through so the calculator's
// defensive fallback decides what to do with it.
func DecodeWageType(stored string) payroll.WageType {
	switch stored {
	case "mensual", string(payroll.WageMonthly):
		return payroll.WageMonthly
	case "jornal":
		return payroll.WageJornal
	case "por_hora", "hora", string(payroll.WageHourly):
		return payroll.WageHourly
	}
	return payroll.WageType(stored)
}

// normalizeRestMode maps stored mode strings to canonical modes. The bare
// "medio" value predates the morning/afternoon split and reads as
// medio-mañana.
func normalizeRestMode(mode string) (shift.RestMode, bool) {
	switch shift.RestMode(mode) {
	case shift.RestFullDay, shift.RestHalfMorning, shift.RestHalfAfternoon:
		return shift.RestMode(mode), true
	}
	if mode == "medio" {
		return shift.RestHalfMorning, true
	}
	return "", false
}
