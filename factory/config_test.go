package factory_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comanda/shift-engine/engine"
	"github.com/comanda/shift-engine/factory"
	"github.com/comanda/shift-engine/payroll"
	"github.com/comanda/shift-engine/shift"
)

// =============================================================================
// REST DAY DECODING
// =============================================================================

func TestDecodeRestDays_CanonicalObject(t *testing.T) {
	raw := []byte(`{"lunes": "completo", "sábado": "medio-tarde"}`)

	config := factory.DecodeRestDays(raw)

	require.Len(t, config, 2)
	assert.Equal(t, shift.RestFullDay, config[engine.Lunes])
	assert.Equal(t, shift.RestHalfAfternoon, config[engine.Sabado])
}

func TestDecodeRestDays_LegacyList(t *testing.T) {
	// GIVEN the oldest encoding: a bare list of weekday names
	raw := []byte(`["lunes", "domingo"]`)

	// WHEN decoded
	config := factory.DecodeRestDays(raw)

	// THEN every listed day reads as a full rest day
	require.Len(t, config, 2)
	assert.Equal(t, shift.RestFullDay, config[engine.Lunes])
	assert.Equal(t, shift.RestFullDay, config[engine.Domingo])
}

func TestDecodeRestDays_LegacyMedioAlias(t *testing.T) {
	raw := []byte(`{"martes": "medio"}`)

	config := factory.DecodeRestDays(raw)

	assert.Equal(t, shift.RestHalfMorning, config[engine.Martes])
}

func TestDecodeRestDays_UnaccentedNames(t *testing.T) {
	raw := []byte(`{"sabado": "completo", "miercoles": "medio-mañana"}`)

	config := factory.DecodeRestDays(raw)

	assert.Equal(t, shift.RestFullDay, config[engine.Sabado])
	assert.Equal(t, shift.RestHalfMorning, config[engine.Miercoles])
}

func TestDecodeRestDays_DropsUnknownEntries(t *testing.T) {
	raw := []byte(`{"monday": "completo", "lunes": "triple", "viernes": "completo"}`)

	config := factory.DecodeRestDays(raw)

	// Unknown weekday and unknown mode both drop; the valid entry survives.
	require.Len(t, config, 1)
	assert.Equal(t, shift.RestFullDay, config[engine.Viernes])
}

func TestDecodeRestDays_FailSoft(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, []byte(`not json`), []byte(`42`)} {
		config := factory.DecodeRestDays(raw)
		assert.NotNil(t, config)
		assert.Empty(t, config)
	}
}

// =============================================================================
// REST DAY ENCODING
// =============================================================================

func TestEncodeRestDays_RoundTrip(t *testing.T) {
	config := shift.RestDayConfig{
		engine.Lunes:  shift.RestFullDay,
		engine.Sabado: shift.RestHalfAfternoon,
	}

	raw := factory.EncodeRestDays(config)

	var byName map[string]string
	require.NoError(t, json.Unmarshal(raw, &byName))
	assert.Equal(t, "completo", byName["lunes"])
	assert.Equal(t, "medio-tarde", byName["sábado"])

	assert.Equal(t, config, factory.DecodeRestDays(raw))
}

func TestEncodeRestDays_MigratesLegacyForward(t *testing.T) {
	// Decoding a legacy list and re-encoding yields the canonical object.
	config := factory.DecodeRestDays([]byte(`["domingo"]`))

	raw := factory.EncodeRestDays(config)

	var byName map[string]string
	require.NoError(t, json.Unmarshal(raw, &byName))
	assert.Equal(t, map[string]string{"domingo": "completo"}, byName)
}

// =============================================================================
// WAGE TYPE
// =============================================================================

func TestDecodeWageType(t *testing.T) {
	tests := []struct {
		stored   string
		expected payroll.WageType
	}{
		{"mensual", payroll.WageMonthly},
		{"monthly", payroll.WageMonthly},
		{"jornal", payroll.WageJornal},
		{"por_hora", payroll.WageHourly},
		{"hora", payroll.WageHourly},
		{"hourly", payroll.WageHourly},
		{"quincenal", payroll.WageType("quincenal")},
		{"", payroll.WageType("")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, factory.DecodeWageType(tt.stored), "stored %q", tt.stored)
	}
}
