/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's internal shapes from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - store/sqlite: The record types these map from
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/comanda/shift-engine/payroll"
	"github.com/comanda/shift-engine/shift"
	"github.com/comanda/shift-engine/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses. Rest days use the
// canonical weekday-name -> mode object form.
type EmployeeDTO struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Role         string            `json:"role,omitempty"`
	EntryTime    string            `json:"entry_time,omitempty"`
	ExitTime     string            `json:"exit_time,omitempty"`
	RestDays     map[string]string `json:"rest_days,omitempty"`
	WageType     string            `json:"wage_type,omitempty"`
	BaseRate     *float64          `json:"base_rate,omitempty"`
	OvertimeRate *float64          `json:"overtime_rate,omitempty"`
	CreatedAt    string            `json:"created_at,omitempty"`
}

// UpsertEmployeeRequest creates or updates an employee. RestDays accepts
// the canonical object form and both legacy encodings (list of weekday
// names, bare "medio" mode).
type UpsertEmployeeRequest struct {
	ID           string          `json:"id,omitempty"`
	Name         string          `json:"name"`
	Role         string          `json:"role,omitempty"`
	EntryTime    string          `json:"entry_time,omitempty"`
	ExitTime     string          `json:"exit_time,omitempty"`
	RestDays     json.RawMessage `json:"rest_days,omitempty"`
	WageType     string          `json:"wage_type,omitempty"`
	BaseRate     *float64        `json:"base_rate,omitempty"`
	OvertimeRate *float64        `json:"overtime_rate,omitempty"`
}

// AdjustmentDTO represents a one-day override in API responses.
type AdjustmentDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Kind       string `json:"kind"`
	Minutes    *int   `json:"minutes,omitempty"`
	Note       string `json:"note,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// UpsertAdjustmentRequest records the single adjustment for one date.
type UpsertAdjustmentRequest struct {
	Date    string `json:"date"`
	Kind    string `json:"kind"`
	Minutes *int   `json:"minutes,omitempty"`
	Note    string `json:"note,omitempty"`
}

// DayDetailDTO is one worked day inside a period breakdown.
type DayDetailDTO struct {
	Date    string  `json:"date"`
	Weekday string  `json:"weekday"`
	Hours   float64 `json:"hours"`
	Type    string  `json:"type"`
}

// PeriodTotalsDTO is the aggregated hour summary for a period.
type PeriodTotalsDTO struct {
	From            string         `json:"from"`
	To              string         `json:"to"`
	BaseHours       float64        `json:"base_hours"`
	OvertimeHours   float64        `json:"overtime_hours"`
	WorkedHours     float64        `json:"worked_hours"`
	DiscountedHours float64        `json:"discounted_hours"`
	DaysWorked      int            `json:"days_worked"`
	FullDays        int            `json:"full_days"`
	HalfDays        int            `json:"half_days"`
	Absences        int            `json:"absences"`
	Details         []DayDetailDTO `json:"details,omitempty"`
}

// PayBreakdownDTO is the monetary outcome for a period.
type PayBreakdownDTO struct {
	BaseAmount     float64 `json:"base_amount"`
	OvertimeAmount float64 `json:"overtime_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	TotalPayable   float64 `json:"total_payable"`
}

// PayrollResponseDTO bundles hours and pay for a period.
type PayrollResponseDTO struct {
	EmployeeID string          `json:"employee_id"`
	Totals     PeriodTotalsDTO `json:"totals"`
	Pay        PayBreakdownDTO `json:"pay"`
}

// PeriodResultDTO is a stored, already-computed period.
type PeriodResultDTO struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employee_id"`
	Totals     PeriodTotalsDTO `json:"totals"`
	Pay        PayBreakdownDTO `json:"pay"`
	CreatedAt  string          `json:"created_at,omitempty"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects the scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(emp sqlite.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:           emp.ID,
		Name:         emp.Name,
		Role:         emp.Role,
		EntryTime:    emp.Schedule.EntryTime,
		ExitTime:     emp.Schedule.ExitTime,
		WageType:     string(emp.WageModel.Type),
		BaseRate:     emp.WageModel.BaseRate,
		OvertimeRate: emp.WageModel.OvertimeRate,
		CreatedAt:    emp.CreatedAt.Format(time.RFC3339),
	}
	if len(emp.RestDays) > 0 {
		dto.RestDays = make(map[string]string, len(emp.RestDays))
		for weekday, mode := range emp.RestDays {
			dto.RestDays[weekday.String()] = string(mode)
		}
	}
	return dto
}

func toAdjustmentDTO(adj sqlite.Adjustment) AdjustmentDTO {
	return AdjustmentDTO{
		ID:         adj.ID,
		EmployeeID: adj.EmployeeID,
		Date:       adj.Date.Key(),
		Kind:       string(adj.Kind),
		Minutes:    adj.Minutes,
		Note:       adj.Note,
		CreatedAt:  adj.CreatedAt.Format(time.RFC3339),
	}
}

func toTotalsDTO(from, to string, totals shift.PeriodTotals) PeriodTotalsDTO {
	dto := PeriodTotalsDTO{
		From:            from,
		To:              to,
		BaseHours:       totals.BaseHours,
		OvertimeHours:   totals.OvertimeHours,
		WorkedHours:     totals.WorkedHours,
		DiscountedHours: totals.DiscountedHours,
		DaysWorked:      totals.DaysWorked,
		FullDays:        totals.FullDays,
		HalfDays:        totals.HalfDays,
		Absences:        totals.Absences,
	}
	for _, d := range totals.Details {
		dto.Details = append(dto.Details, DayDetailDTO{
			Date:    d.Date.Key(),
			Weekday: d.Weekday.String(),
			Hours:   d.Hours,
			Type:    string(d.Type),
		})
	}
	return dto
}

func toPayDTO(pay payroll.PayBreakdown) PayBreakdownDTO {
	return PayBreakdownDTO{
		BaseAmount:     pay.BaseAmount.Float64(),
		OvertimeAmount: pay.OvertimeAmount.Float64(),
		DiscountAmount: pay.DiscountAmount.Float64(),
		TotalPayable:   pay.TotalPayable.Float64(),
	}
}
