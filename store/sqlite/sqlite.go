/*
Package sqlite persists the data surrounding the calculation engine.

PURPOSE:
  The engine itself is pure and stateless; this package is the collaborator
  that feeds it. It stores employee records (schedule, rest days, wage
  model), per-day adjustments, and the computed period results the rest of
  the back office consumes.

KEY TABLES:
  employees:       Schedule strings, rest-day JSON, wage configuration
  day_adjustments: One row per (employee, date) - the uniqueness the engine
                   assumes as a precondition is enforced here by index
  period_results:  Computed PeriodTotals + PayBreakdown, stored verbatim

NORMALIZATION:
  Rest-day JSON is decoded through the factory package on every read, so
  legacy encodings (list of weekday names, bare "medio") are normalized
  before the engine ever sees them. Writes re-encode in canonical form.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode so
  readers don't block each other.

USAGE:
  store, err := sqlite.New("./data/comanda.db")   // ":memory:" for tests
  if err != nil { ... }
  defer store.Close()

SEE ALSO:
  - factory: Legacy-data normalization
  - api: The HTTP layer driving this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/comanda/shift-engine/engine"
	"github.com/comanda/shift-engine/factory"
	"github.com/comanda/shift-engine/payroll"
	"github.com/comanda/shift-engine/shift"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when the referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrAdjustmentNotFound is returned when no adjustment exists for the
	// requested (employee, date).
	ErrAdjustmentNotFound = errors.New("adjustment not found")
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// Employee is a persisted employee record: identity plus everything the
// engine needs to compute a period.
type Employee struct {
	ID        string
	Name      string
	Role      string
	Schedule  shift.ScheduleConfig
	RestDays  shift.RestDayConfig
	WageModel payroll.WageModel
	CreatedAt time.Time
}

// Adjustment is a persisted one-day override for an employee.
type Adjustment struct {
	ID         string
	EmployeeID string
	Date       engine.LocalDate
	Kind       shift.AdjustmentKind
	Minutes    *int
	Note       string
	CreatedAt  time.Time
}

// PeriodResult is a computed period stored verbatim: totals and pay
// breakdown exactly as the engine returned them.
type PeriodResult struct {
	ID         string
	EmployeeID string
	Period     engine.Period
	Totals     shift.PeriodTotals
	Pay        payroll.PayBreakdown
	CreatedAt  time.Time
}

// =============================================================================
// STORE
// =============================================================================

// Store is a SQLite-backed store for employees, adjustments, and results.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store at the given database path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT,
		entry_time TEXT,
		exit_time TEXT,
		rest_days_json TEXT,
		wage_type TEXT,
		base_rate REAL,
		overtime_rate REAL,
		created_at TEXT NOT NULL
	);

	-- One adjustment per (employee, date). The engine assumes this as a
	-- precondition; the index makes the boundary enforce it.
	CREATE TABLE IF NOT EXISTS day_adjustments (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		kind TEXT NOT NULL,
		minutes INTEGER,
		note TEXT,
		created_at TEXT NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_adjustments_employee_date
		ON day_adjustments(employee_id, date);
	CREATE INDEX IF NOT EXISTS idx_adjustments_employee
		ON day_adjustments(employee_id);

	CREATE TABLE IF NOT EXISTS period_results (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		totals_json TEXT NOT NULL,
		pay_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(employee_id, period_start, period_end)
	);
	CREATE INDEX IF NOT EXISTS idx_period_results_employee
		ON period_results(employee_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// CreateEmployee inserts an employee. A missing ID is generated.
func (s *Store) CreateEmployee(ctx context.Context, emp *Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	emp.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees
		(id, name, role, entry_time, exit_time, rest_days_json, wage_type, base_rate, overtime_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		emp.ID,
		emp.Name,
		emp.Role,
		emp.Schedule.EntryTime,
		emp.Schedule.ExitTime,
		string(factory.EncodeRestDays(emp.RestDays)),
		string(emp.WageModel.Type),
		nullFloat(emp.WageModel.BaseRate),
		nullFloat(emp.WageModel.OvertimeRate),
		emp.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// UpdateEmployee replaces the mutable fields of an employee record.
func (s *Store) UpdateEmployee(ctx context.Context, emp *Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE employees
		SET name = ?, role = ?, entry_time = ?, exit_time = ?, rest_days_json = ?,
		    wage_type = ?, base_rate = ?, overtime_rate = ?
		WHERE id = ?`,
		emp.Name,
		emp.Role,
		emp.Schedule.EntryTime,
		emp.Schedule.ExitTime,
		string(factory.EncodeRestDays(emp.RestDays)),
		string(emp.WageModel.Type),
		nullFloat(emp.WageModel.BaseRate),
		nullFloat(emp.WageModel.OvertimeRate),
		emp.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

// GetEmployee returns an employee by ID, or ErrEmployeeNotFound.
func (s *Store) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, role, entry_time, exit_time, rest_days_json,
		       wage_type, base_rate, overtime_rate, created_at
		FROM employees WHERE id = ?`, id)

	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return emp, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, role, entry_time, exit_time, rest_days_json,
		       wage_type, base_rate, overtime_rate, created_at
		FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee and their adjustments and results.
// All three deletes happen in one transaction so a failure never leaves
// orphaned rows behind a missing employee.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEmployeeNotFound
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM day_adjustments WHERE employee_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM period_results WHERE employee_id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*Employee, error) {
	var emp Employee
	var role, entryTime, exitTime, restJSON, wageType sql.NullString
	var baseRate, overtimeRate sql.NullFloat64
	var createdAt string

	err := row.Scan(&emp.ID, &emp.Name, &role, &entryTime, &exitTime, &restJSON,
		&wageType, &baseRate, &overtimeRate, &createdAt)
	if err != nil {
		return nil, err
	}

	emp.Role = role.String
	emp.Schedule = shift.ScheduleConfig{EntryTime: entryTime.String, ExitTime: exitTime.String}
	emp.RestDays = factory.DecodeRestDays([]byte(restJSON.String))
	emp.WageModel = payroll.WageModel{
		Type:         factory.DecodeWageType(wageType.String),
		BaseRate:     floatPtr(baseRate),
		OvertimeRate: floatPtr(overtimeRate),
	}
	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &emp, nil
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

// UpsertAdjustment inserts or replaces the adjustment for (employee, date).
// The replace keeps the one-adjustment-per-day invariant while letting
// managers correct a day without a separate delete.
func (s *Store) UpsertAdjustment(ctx context.Context, adj *Adjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if adj.ID == "" {
		adj.ID = uuid.NewString()
	}
	adj.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO day_adjustments (id, employee_id, date, kind, minutes, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			kind = excluded.kind,
			minutes = excluded.minutes,
			note = excluded.note`,
		adj.ID,
		adj.EmployeeID,
		adj.Date.Key(),
		string(adj.Kind),
		nullInt(adj.Minutes),
		adj.Note,
		adj.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert adjustment: %w", err)
	}
	return nil
}

// ListAdjustments returns all adjustments for an employee, ascending by date.
func (s *Store) ListAdjustments(ctx context.Context, employeeID string) ([]Adjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, date, kind, minutes, note, created_at
		FROM day_adjustments WHERE employee_id = ? ORDER BY date`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []Adjustment
	for rows.Next() {
		adj, err := scanAdjustment(rows)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, *adj)
	}
	return adjustments, rows.Err()
}

// AdjustmentsInRange returns the adjustments for an employee inside the
// period, keyed by YYYY-MM-DD - the exact shape the aggregator consumes.
func (s *Store) AdjustmentsInRange(ctx context.Context, employeeID string, period engine.Period) (map[string]shift.DayAdjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, date, kind, minutes, note, created_at
		FROM day_adjustments
		WHERE employee_id = ? AND date >= ? AND date <= ?`,
		employeeID, period.Start.Key(), period.End.Key())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDate := make(map[string]shift.DayAdjustment)
	for rows.Next() {
		adj, err := scanAdjustment(rows)
		if err != nil {
			return nil, err
		}
		byDate[adj.Date.Key()] = shift.DayAdjustment{
			Kind:    adj.Kind,
			Minutes: adj.Minutes,
			Note:    adj.Note,
		}
	}
	return byDate, rows.Err()
}

// DeleteAdjustment removes the adjustment for (employee, date).
func (s *Store) DeleteAdjustment(ctx context.Context, employeeID string, date engine.LocalDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM day_adjustments WHERE employee_id = ? AND date = ?",
		employeeID, date.Key())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAdjustmentNotFound
	}
	return nil
}

func scanAdjustment(row rowScanner) (*Adjustment, error) {
	var adj Adjustment
	var date, createdAt string
	var minutes sql.NullInt64
	var note sql.NullString

	err := row.Scan(&adj.ID, &adj.EmployeeID, &date, (*string)(&adj.Kind), &minutes, &note, &createdAt)
	if err != nil {
		return nil, err
	}

	parsed, err := engine.ParseLocalDate(date)
	if err != nil {
		return nil, fmt.Errorf("corrupt adjustment date %q: %w", date, err)
	}
	adj.Date = parsed
	if minutes.Valid {
		m := int(minutes.Int64)
		adj.Minutes = &m
	}
	adj.Note = note.String
	adj.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &adj, nil
}

// =============================================================================
// PERIOD RESULTS
// =============================================================================

// SavePeriodResult stores a computed period verbatim. Recomputing the same
// period replaces the stored row.
func (s *Store) SavePeriodResult(ctx context.Context, result *PeriodResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	result.CreatedAt = time.Now().UTC()

	totalsJSON, err := json.Marshal(totalsJSONFrom(result.Totals))
	if err != nil {
		return err
	}
	payJSON, err := json.Marshal(payJSONFrom(result.Pay))
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO period_results (id, employee_id, period_start, period_end, totals_json, pay_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, period_start, period_end) DO UPDATE SET
			totals_json = excluded.totals_json,
			pay_json = excluded.pay_json,
			created_at = excluded.created_at`,
		result.ID,
		result.EmployeeID,
		result.Period.Start.Key(),
		result.Period.End.Key(),
		string(totalsJSON),
		string(payJSON),
		result.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save period result: %w", err)
	}
	return nil
}

// ListPeriodResults returns stored periods, newest first. employeeID may be
// empty to list across employees.
func (s *Store) ListPeriodResults(ctx context.Context, employeeID string) ([]PeriodResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, period_start, period_end, totals_json, pay_json, created_at
		FROM period_results`
	args := []any{}
	if employeeID != "" {
		query += " WHERE employee_id = ?"
		args = append(args, employeeID)
	}
	query += " ORDER BY period_start DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []PeriodResult
	for rows.Next() {
		var result PeriodResult
		var start, end, totalsJSON, payJSON, createdAt string
		if err := rows.Scan(&result.ID, &result.EmployeeID, &start, &end, &totalsJSON, &payJSON, &createdAt); err != nil {
			return nil, err
		}

		startDate, err := engine.ParseLocalDate(start)
		if err != nil {
			return nil, err
		}
		endDate, err := engine.ParseLocalDate(end)
		if err != nil {
			return nil, err
		}
		result.Period = engine.NewPeriod(startDate, endDate)

		var tj totalsJSONDoc
		if err := json.Unmarshal([]byte(totalsJSON), &tj); err != nil {
			return nil, fmt.Errorf("corrupt totals for period %s: %w", result.ID, err)
		}
		result.Totals = tj.toTotals()

		var pj payBreakdownJSON
		if err := json.Unmarshal([]byte(payJSON), &pj); err != nil {
			return nil, fmt.Errorf("corrupt pay for period %s: %w", result.ID, err)
		}
		result.Pay = pj.toBreakdown()
		result.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		results = append(results, result)
	}
	return results, rows.Err()
}

// ResetAll wipes every table. Demo scenarios call this; never expose it
// outside development.
func (s *Store) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"employees", "day_adjustments", "period_results"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// JSON SHAPES - Stable storage encodings for engine output
// =============================================================================

// totalsJSONDoc stores PeriodTotals with date keys instead of LocalDate
// structs so the rows stay readable and portable.
type totalsJSONDoc struct {
	BaseHours       float64         `json:"base_hours"`
	OvertimeHours   float64         `json:"overtime_hours"`
	WorkedHours     float64         `json:"worked_hours"`
	DiscountedHours float64         `json:"discounted_hours"`
	DaysWorked      int             `json:"days_worked"`
	FullDays        int             `json:"full_days"`
	HalfDays        int             `json:"half_days"`
	Absences        int             `json:"absences"`
	Details         []dayDetailJSON `json:"details,omitempty"`
}

type dayDetailJSON struct {
	Date    string  `json:"date"`
	Weekday string  `json:"weekday"`
	Hours   float64 `json:"hours"`
	Type    string  `json:"type"`
}

func totalsJSONFrom(totals shift.PeriodTotals) totalsJSONDoc {
	doc := totalsJSONDoc{
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
		doc.Details = append(doc.Details, dayDetailJSON{
			Date:    d.Date.Key(),
			Weekday: d.Weekday.String(),
			Hours:   d.Hours,
			Type:    string(d.Type),
		})
	}
	return doc
}

func (doc totalsJSONDoc) toTotals() shift.PeriodTotals {
	totals := shift.PeriodTotals{
		BaseHours:       doc.BaseHours,
		OvertimeHours:   doc.OvertimeHours,
		WorkedHours:     doc.WorkedHours,
		DiscountedHours: doc.DiscountedHours,
		DaysWorked:      doc.DaysWorked,
		FullDays:        doc.FullDays,
		HalfDays:        doc.HalfDays,
		Absences:        doc.Absences,
	}
	for _, d := range doc.Details {
		date, err := engine.ParseLocalDate(d.Date)
		if err != nil {
			continue
		}
		totals.Details = append(totals.Details, shift.DayDetail{
			Date:    date,
			Weekday: date.Weekday(),
			Hours:   d.Hours,
			Type:    shift.DayType(d.Type),
		})
	}
	return totals
}

// payBreakdownJSON flattens Money into plain floats for storage.
type payBreakdownJSON struct {
	BaseAmount     float64 `json:"base_amount"`
	OvertimeAmount float64 `json:"overtime_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	TotalPayable   float64 `json:"total_payable"`
}

func payJSONFrom(pay payroll.PayBreakdown) payBreakdownJSON {
	return payBreakdownJSON{
		BaseAmount:     pay.BaseAmount.Float64(),
		OvertimeAmount: pay.OvertimeAmount.Float64(),
		DiscountAmount: pay.DiscountAmount.Float64(),
		TotalPayable:   pay.TotalPayable.Float64(),
	}
}

func (pj payBreakdownJSON) toBreakdown() payroll.PayBreakdown {
	return payroll.PayBreakdown{
		BaseAmount:     engine.NewMoney(pj.BaseAmount),
		OvertimeAmount: engine.NewMoney(pj.OvertimeAmount),
		DiscountAmount: engine.NewMoney(pj.DiscountAmount),
		TotalPayable:   engine.NewMoney(pj.TotalPayable),
	}
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
