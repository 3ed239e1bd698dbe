package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comanda/shift-engine/api"
	"github.com/comanda/shift-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestRouter(t *testing.T) http.Handler {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return api.NewRouter(api.NewHandler(store))
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func createTestEmployee(t *testing.T, router http.Handler) string {
	rec := doRequest(t, router, http.MethodPost, "/api/employees", map[string]any{
		"name":       "Julio Benítez",
		"role":       "mozo",
		"entry_time": "08:00",
		"exit_time":  "16:00",
		"wage_type":  "jornal",
		"base_rate":  18000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &created)
	require.NotEmpty(t, created.ID)
	return created.ID
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestCreateAndGetEmployee(t *testing.T) {
	router := newTestRouter(t)

	id := createTestEmployee(t, router)

	rec := doRequest(t, router, http.MethodGet, "/api/employees/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var emp map[string]any
	decodeBody(t, rec, &emp)
	assert.Equal(t, "Julio Benítez", emp["name"])
	assert.Equal(t, "jornal", emp["wage_type"])
	assert.Equal(t, "08:00", emp["entry_time"])
}

func TestCreateEmployee_RequiresName(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/employees", map[string]any{"role": "mozo"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEmployee_LegacyRestDaysList(t *testing.T) {
	// GIVEN the legacy rest-day encoding: a bare list of weekday names
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodPost, "/api/employees", map[string]any{
		"name":      "Rosa Cabral",
		"rest_days": []string{"lunes", "domingo"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// THEN the response carries the canonical object form
	var emp struct {
		RestDays map[string]string `json:"rest_days"`
	}
	decodeBody(t, rec, &emp)
	assert.Equal(t, map[string]string{"lunes": "completo", "domingo": "completo"}, emp.RestDays)
}

func TestGetEmployee_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/employees/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateEmployee(t *testing.T) {
	router := newTestRouter(t)
	id := createTestEmployee(t, router)

	rec := doRequest(t, router, http.MethodPut, "/api/employees/"+id, map[string]any{
		"name":      "Julio B. Benítez",
		"wage_type": "mensual",
		"base_rate": 500000,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var emp map[string]any
	decodeBody(t, rec, &emp)
	assert.Equal(t, "Julio B. Benítez", emp["name"])
	// Legacy wage labels normalize on the way in.
	assert.Equal(t, "monthly", emp["wage_type"])
}

func TestDeleteEmployee(t *testing.T) {
	router := newTestRouter(t)
	id := createTestEmployee(t, router)

	rec := doRequest(t, router, http.MethodDelete, "/api/employees/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/employees/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

func TestUpsertAdjustment(t *testing.T) {
	router := newTestRouter(t)
	id := createTestEmployee(t, router)

	rec := doRequest(t, router, http.MethodPost, "/api/employees/"+id+"/adjustments", map[string]any{
		"date":    "2025-03-10",
		"kind":    "overtime",
		"minutes": 90,
		"note":    "banquete",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/employees/"+id+"/adjustments", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var adjustments []map[string]any
	decodeBody(t, rec, &adjustments)
	require.Len(t, adjustments, 1)
	assert.Equal(t, "overtime", adjustments[0]["kind"])
	assert.Equal(t, "2025-03-10", adjustments[0]["date"])
}

func TestUpsertAdjustment_Validation(t *testing.T) {
	router := newTestRouter(t)
	id := createTestEmployee(t, router)

	rec := doRequest(t, router, http.MethodPost, "/api/employees/"+id+"/adjustments", map[string]any{
		"date": "10/03/2025", "kind": "overtime",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/employees/"+id+"/adjustments", map[string]any{
		"date": "2025-03-10", "kind": "vacaciones",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAdjustment(t *testing.T) {
	router := newTestRouter(t)
	id := createTestEmployee(t, router)

	doRequest(t, router, http.MethodPost, "/api/employees/"+id+"/adjustments", map[string]any{
		"date": "2025-03-10", "kind": "absence",
	})

	rec := doRequest(t, router, http.MethodDelete, "/api/employees/"+id+"/adjustments/2025-03-10", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/api/employees/"+id+"/adjustments/2025-03-10", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// COMPUTATION
// =============================================================================

func TestGetHours(t *testing.T) {
	// GIVEN an 08:00-16:00 employee and a one-week range with one absence
	router := newTestRouter(t)
	id := createTestEmployee(t, router)
	doRequest(t, router, http.MethodPost, "/api/employees/"+id+"/adjustments", map[string]any{
		"date": "2025-03-12", "kind": "absence",
	})

	// WHEN hours are requested
	rec := doRequest(t, router, http.MethodGet,
		"/api/employees/"+id+"/hours?from=2025-03-10&to=2025-03-16", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN six 8-hour days and one falta come back
	var totals map[string]any
	decodeBody(t, rec, &totals)
	assert.InDelta(t, 48.0, totals["base_hours"], 1e-9)
	assert.InDelta(t, 48.0, totals["worked_hours"], 1e-9)
	assert.EqualValues(t, 6, totals["days_worked"])
	assert.EqualValues(t, 1, totals["absences"])
}

func TestGetHours_InvertedRangeIsEmpty(t *testing.T) {
	router := newTestRouter(t)
	id := createTestEmployee(t, router)

	rec := doRequest(t, router, http.MethodGet,
		"/api/employees/"+id+"/hours?from=2025-03-16&to=2025-03-10", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var totals map[string]any
	decodeBody(t, rec, &totals)
	assert.InDelta(t, 0.0, totals["worked_hours"], 1e-9)
}

func TestGetHours_InvalidRange(t *testing.T) {
	router := newTestRouter(t)
	id := createTestEmployee(t, router)

	rec := doRequest(t, router, http.MethodGet, "/api/employees/"+id+"/hours?from=bad&to=2025-03-16", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/employees/"+id+"/hours?from=2025-03-10", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPayroll(t *testing.T) {
	// Jornal employee over a full week: 7 full days at 18000.
	router := newTestRouter(t)
	id := createTestEmployee(t, router)

	rec := doRequest(t, router, http.MethodGet,
		"/api/employees/"+id+"/payroll?from=2025-03-10&to=2025-03-16", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		EmployeeID string `json:"employee_id"`
		Pay        struct {
			BaseAmount   float64 `json:"base_amount"`
			TotalPayable float64 `json:"total_payable"`
		} `json:"pay"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, id, resp.EmployeeID)
	assert.InDelta(t, 126000.0, resp.Pay.BaseAmount, 1e-6)
	assert.InDelta(t, 126000.0, resp.Pay.TotalPayable, 1e-6)
}

func TestClosePayrollPersistsPeriod(t *testing.T) {
	router := newTestRouter(t)
	id := createTestEmployee(t, router)

	rec := doRequest(t, router, http.MethodPost,
		"/api/employees/"+id+"/payroll/close?from=2025-03-01&to=2025-03-31", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/periods?employee_id="+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var results []map[string]any
	decodeBody(t, rec, &results)
	require.Len(t, results, 1)
	assert.Equal(t, id, results[0]["employee_id"])
}

func TestGetPayslip(t *testing.T) {
	router := newTestRouter(t)
	id := createTestEmployee(t, router)

	rec := doRequest(t, router, http.MethodGet,
		"/api/employees/"+id+"/payslip?from=2025-03-01&to=2025-03-31", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), fmt.Sprintf("payslip-%s", id))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestScenarioLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	decodeBody(t, rec, &list)
	require.Len(t, list, 2)

	rec = doRequest(t, router, http.MethodPost, "/api/scenarios/load", map[string]any{
		"scenario_id": "restaurant-crew",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/scenarios/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var current map[string]string
	decodeBody(t, rec, &current)
	assert.Equal(t, "restaurant-crew", current["scenario_id"])

	rec = doRequest(t, router, http.MethodGet, "/api/employees", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var employees []map[string]any
	decodeBody(t, rec, &employees)
	assert.Len(t, employees, 3)

	rec = doRequest(t, router, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/employees", nil)
	decodeBody(t, rec, &employees)
	assert.Empty(t, employees)
}

func TestLoadScenario_Unknown(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/scenarios/load", map[string]any{
		"scenario_id": "nope",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
