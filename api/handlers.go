/*
handlers.go - HTTP API handlers for the shift-hours and payroll engine

PURPOSE:
  Exposes the calculation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the pure engine
  packages and the store.

ENDPOINTS:
  Employees:
    GET    /api/employees                       List all employees
    POST   /api/employees                       Create employee
    GET    /api/employees/{id}                  Get employee
    PUT    /api/employees/{id}                  Update employee
    DELETE /api/employees/{id}                  Delete employee

  Adjustments:
    GET    /api/employees/{id}/adjustments          List adjustments
    POST   /api/employees/{id}/adjustments          Upsert one-day adjustment
    DELETE /api/employees/{id}/adjustments/{date}   Remove adjustment

  Computation:
    GET    /api/employees/{id}/hours?from=&to=      Aggregated hours
    GET    /api/employees/{id}/payroll?from=&to=    Hours + pay breakdown
    POST   /api/employees/{id}/payroll/close        Compute and persist period
    GET    /api/employees/{id}/payslip?from=&to=    Payslip PDF
    GET    /api/periods                             Stored period results

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Load records from the store, run the pure engine
  4. Serialize (and for close, persist) the result

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid dates
  - 404: Employee / adjustment not found
  - 500: Internal errors
  A from > to range is NOT an error: it computes to empty totals, which is
  the documented boundary behavior of the aggregator.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/comanda/shift-engine/engine"
	"github.com/comanda/shift-engine/factory"
	"github.com/comanda/shift-engine/payroll"
	"github.com/comanda/shift-engine/shift"
	"github.com/comanda/shift-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, emp := range employees {
		dtos[i] = toEmployeeDTO(emp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req UpsertEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	emp := employeeFromRequest(req)
	if err := h.Store.CreateEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(*emp))
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// UpdateEmployee replaces an employee's configuration.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpsertEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	emp := employeeFromRequest(req)
	emp.ID = id
	if err := h.Store.UpdateEmployee(r.Context(), emp); err != nil {
		if errors.Is(err, sqlite.ErrEmployeeNotFound) {
			writeError(w, http.StatusNotFound, "Employee not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update employee", err)
		return
	}
	updated, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*updated))
}

// DeleteEmployee removes an employee.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		if errors.Is(err, sqlite.ErrEmployeeNotFound) {
			writeError(w, http.StatusNotFound, "Employee not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ADJUSTMENT HANDLERS
// =============================================================================

// ListAdjustments returns all adjustments for an employee.
func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}

	adjustments, err := h.Store.ListAdjustments(r.Context(), emp.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list adjustments", err)
		return
	}

	dtos := make([]AdjustmentDTO, len(adjustments))
	for i, adj := range adjustments {
		dtos[i] = toAdjustmentDTO(adj)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertAdjustment records the single adjustment for one date. Posting a
// second adjustment for the same date replaces the first - one adjustment
// per (employee, date) is the rule the engine computes under.
func (h *Handler) UpsertAdjustment(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}

	var req UpsertAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := engine.ParseLocalDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
		return
	}
	kind := shift.AdjustmentKind(req.Kind)
	if !shift.KnownAdjustmentKind(kind) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown adjustment kind %q", req.Kind), nil)
		return
	}

	adj := &sqlite.Adjustment{
		EmployeeID: emp.ID,
		Date:       date,
		Kind:       kind,
		Minutes:    req.Minutes,
		Note:       req.Note,
	}
	if err := h.Store.UpsertAdjustment(r.Context(), adj); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save adjustment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAdjustmentDTO(*adj))
}

// DeleteAdjustment removes the adjustment for (employee, date).
func (h *Handler) DeleteAdjustment(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}

	date, err := engine.ParseLocalDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
		return
	}

	if err := h.Store.DeleteAdjustment(r.Context(), emp.ID, date); err != nil {
		if errors.Is(err, sqlite.ErrAdjustmentNotFound) {
			writeError(w, http.StatusNotFound, "Adjustment not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete adjustment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// COMPUTATION HANDLERS
// =============================================================================

// GetHours aggregates worked hours for an employee over ?from=&to=.
func (h *Handler) GetHours(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	period, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	totals, err := h.computeTotals(r, emp, period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute hours", err)
		return
	}
	writeJSON(w, http.StatusOK, toTotalsDTO(period.Start.Key(), period.End.Key(), totals))
}

// GetPayroll aggregates hours and computes the pay breakdown.
func (h *Handler) GetPayroll(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	period, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	totals, err := h.computeTotals(r, emp, period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute hours", err)
		return
	}
	pay := payroll.Calculate(emp.WageModel, totals)

	writeJSON(w, http.StatusOK, PayrollResponseDTO{
		EmployeeID: emp.ID,
		Totals:     toTotalsDTO(period.Start.Key(), period.End.Key(), totals),
		Pay:        toPayDTO(pay),
	})
}

// ClosePayroll computes a period and persists the result verbatim.
func (h *Handler) ClosePayroll(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	period, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	totals, err := h.computeTotals(r, emp, period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute hours", err)
		return
	}
	pay := payroll.Calculate(emp.WageModel, totals)

	result := &sqlite.PeriodResult{
		EmployeeID: emp.ID,
		Period:     period,
		Totals:     totals,
		Pay:        pay,
	}
	if err := h.Store.SavePeriodResult(r.Context(), result); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save period result", err)
		return
	}

	writeJSON(w, http.StatusCreated, PeriodResultDTO{
		ID:         result.ID,
		EmployeeID: result.EmployeeID,
		Totals:     toTotalsDTO(period.Start.Key(), period.End.Key(), totals),
		Pay:        toPayDTO(pay),
	})
}

// GetPayslip streams a PDF payslip for the period.
func (h *Handler) GetPayslip(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	period, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	totals, err := h.computeTotals(r, emp, period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute hours", err)
		return
	}

	slip := payroll.Payslip{
		EmployeeName: emp.Name,
		Period:       period,
		Totals:       totals,
		Model:        emp.WageModel,
		Pay:          payroll.Calculate(emp.WageModel, totals),
	}

	var buf bytes.Buffer
	if err := slip.RenderPDF(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render payslip", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="payslip-%s-%s.pdf"`, emp.ID, period.Start.Key()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ListPeriodResults returns stored period results, optionally filtered by
// ?employee_id=.
func (h *Handler) ListPeriodResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.Store.ListPeriodResults(r.Context(), r.URL.Query().Get("employee_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list period results", err)
		return
	}

	dtos := make([]PeriodResultDTO, len(results))
	for i, result := range results {
		dtos[i] = PeriodResultDTO{
			ID:         result.ID,
			EmployeeID: result.EmployeeID,
			Totals:     toTotalsDTO(result.Period.Start.Key(), result.Period.End.Key(), result.Totals),
			Pay:        toPayDTO(result.Pay),
			CreatedAt:  result.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// computeTotals loads the period's adjustments and runs the aggregator.
func (h *Handler) computeTotals(r *http.Request, emp *sqlite.Employee, period engine.Period) (shift.PeriodTotals, error) {
	adjustments, err := h.Store.AdjustmentsInRange(r.Context(), emp.ID, period)
	if err != nil {
		return shift.PeriodTotals{}, err
	}
	return shift.AggregatePeriod(period, emp.Schedule, emp.RestDays, adjustments), nil
}

// loadEmployee resolves the {id} URL param, writing 404/500 on failure.
func (h *Handler) loadEmployee(w http.ResponseWriter, r *http.Request) (*sqlite.Employee, bool) {
	id := chi.URLParam(r, "id")
	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		if errors.Is(err, sqlite.ErrEmployeeNotFound) {
			writeError(w, http.StatusNotFound, "Employee not found", err)
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to load employee", err)
		}
		return nil, false
	}
	return emp, true
}

// parsePeriod reads ?from=&to=. A from after to is accepted: the aggregator
// documents that as the empty period.
func parsePeriod(w http.ResponseWriter, r *http.Request) (engine.Period, bool) {
	from, err := engine.ParseLocalDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD", err)
		return engine.Period{}, false
	}
	to, err := engine.ParseLocalDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD", err)
		return engine.Period{}, false
	}
	return engine.NewPeriod(from, to), true
}

func employeeFromRequest(req UpsertEmployeeRequest) *sqlite.Employee {
	return &sqlite.Employee{
		ID:       req.ID,
		Name:     req.Name,
		Role:     req.Role,
		Schedule: shift.ScheduleConfig{EntryTime: req.EntryTime, ExitTime: req.ExitTime},
		RestDays: factory.DecodeRestDays(req.RestDays),
		WageModel: payroll.WageModel{
			Type:         factory.DecodeWageType(req.WageType),
			BaseRate:     req.BaseRate,
			OvertimeRate: req.OvertimeRate,
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Error = fmt.Sprintf("%s: %v", message, err)
	}
	writeJSON(w, status, resp)
}
