/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the database with realistic
  data for testing and demos. Each scenario resets the database, then
  creates employees with schedules, rest days, wage models, and a month
  of adjustments.

AVAILABLE SCENARIOS:
  restaurant-crew:   Three employees covering the three wage models
  adjustment-heavy:  One employee with every adjustment kind in one month

NOTE:
  Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Shared helpers
  - server.go: /api/scenarios routes
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/comanda/shift-engine/engine"
	"github.com/comanda/shift-engine/payroll"
	"github.com/comanda/shift-engine/shift"
	"github.com/comanda/shift-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "restaurant-crew",
		Name:        "Restaurant Crew",
		Description: "Three employees: monthly-salaried cook, per-day (jornal) waiter, hourly dishwasher",
	},
	{
		ID:          "adjustment-heavy",
		Name:        "Adjustment Heavy",
		Description: "One employee with overtime, absence, late arrival, early departure and a shift change in one month",
	},
}

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the most recently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": h.currentScenario})
}

// LoadScenario resets the database and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.ResetAll(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "restaurant-crew":
		err = loadRestaurantCrew(ctx, h.Store)
	case "adjustment-heavy":
		err = loadAdjustmentHeavy(ctx, h.Store)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario %q", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": req.ScenarioID, "status": "loaded"})
}

// ResetDatabase wipes all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.ResetAll(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadRestaurantCrew(ctx context.Context, store *sqlite.Store) error {
	employees := []*sqlite.Employee{
		{
			ID:       "emp-cook",
			Name:     "Marta Velázquez",
			Role:     "cocinera",
			Schedule: shift.ScheduleConfig{EntryTime: "08:00", ExitTime: "16:00"},
			RestDays: shift.RestDayConfig{engine.Domingo: shift.RestFullDay},
			WageModel: payroll.WageModel{
				Type:     payroll.WageMonthly,
				BaseRate: rate(480000),
			},
		},
		{
			ID:       "emp-waiter",
			Name:     "Julio Benítez",
			Role:     "mozo",
			Schedule: shift.ScheduleConfig{EntryTime: "11:00", ExitTime: "19:00"},
			RestDays: shift.RestDayConfig{
				engine.Lunes:  shift.RestFullDay,
				engine.Sabado: shift.RestHalfAfternoon,
			},
			WageModel: payroll.WageModel{
				Type:     payroll.WageJornal,
				BaseRate: rate(18000),
			},
		},
		{
			ID:       "emp-dish",
			Name:     "Rosa Cabral",
			Role:     "bachera",
			Schedule: shift.ScheduleConfig{EntryTime: "17:00", ExitTime: "23:00"},
			WageModel: payroll.WageModel{
				Type:         payroll.WageHourly,
				BaseRate:     rate(3200),
				OvertimeRate: rate(5000),
			},
		},
	}
	for _, emp := range employees {
		if err := store.CreateEmployee(ctx, emp); err != nil {
			return err
		}
	}

	// A sprinkle of adjustments in the current month.
	month := engine.MonthOf(engine.Today())
	adjustments := []*sqlite.Adjustment{
		{EmployeeID: "emp-cook", Date: month.Start.AddDays(2), Kind: shift.AdjustOvertime, Minutes: minutes(90), Note: "banquete"},
		{EmployeeID: "emp-waiter", Date: month.Start.AddDays(4), Kind: shift.AdjustAbsence},
		{EmployeeID: "emp-dish", Date: month.Start.AddDays(8), Kind: shift.AdjustLateArrival, Minutes: minutes(30)},
	}
	for _, adj := range adjustments {
		if err := store.UpsertAdjustment(ctx, adj); err != nil {
			return err
		}
	}
	return nil
}

func loadAdjustmentHeavy(ctx context.Context, store *sqlite.Store) error {
	emp := &sqlite.Employee{
		ID:       "emp-adjusted",
		Name:     "Nicolás Ferreira",
		Role:     "encargado",
		Schedule: shift.ScheduleConfig{EntryTime: "09:00", ExitTime: "18:00"},
		RestDays: shift.RestDayConfig{engine.Domingo: shift.RestFullDay, engine.Miercoles: shift.RestHalfMorning},
		WageModel: payroll.WageModel{
			Type:     payroll.WageMonthly,
			BaseRate: rate(600000),
		},
	}
	if err := store.CreateEmployee(ctx, emp); err != nil {
		return err
	}

	month := engine.MonthOf(engine.Today())
	adjustments := []*sqlite.Adjustment{
		{EmployeeID: emp.ID, Date: month.Start.AddDays(1), Kind: shift.AdjustOvertime, Minutes: minutes(120), Note: "inventario"},
		{EmployeeID: emp.ID, Date: month.Start.AddDays(3), Kind: shift.AdjustLateArrival, Minutes: minutes(45)},
		{EmployeeID: emp.ID, Date: month.Start.AddDays(7), Kind: shift.AdjustEarlyDeparture, Minutes: minutes(-60), Note: "trámite"},
		{EmployeeID: emp.ID, Date: month.Start.AddDays(10), Kind: shift.AdjustAbsence},
		{EmployeeID: emp.ID, Date: month.Start.AddDays(14), Kind: shift.AdjustShiftChange, Note: "cubre turno noche"},
	}
	for _, adj := range adjustments {
		if err := store.UpsertAdjustment(ctx, adj); err != nil {
			return err
		}
	}
	return nil
}

func rate(v float64) *float64 { return &v }
func minutes(m int) *int      { return &m }
