/*
scheduler.go - Automated period-close scheduler

PURPOSE:
  Periodically checks for employees whose previous calendar month has no
  stored period result and computes + persists it, so the back office
  always finds last month's hours and pay ready.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Skips employees whose previous month is already closed
  - A failed employee doesn't stop the sweep; the error is logged

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether the scheduler is active (default: true)

USAGE:
  scheduler := NewPeriodCloseScheduler(store)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: ClosePayroll endpoint (manual close)
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/comanda/shift-engine/engine"
	"github.com/comanda/shift-engine/payroll"
	"github.com/comanda/shift-engine/shift"
	"github.com/comanda/shift-engine/store/sqlite"
)

// PeriodCloseScheduler closes the previous calendar month for every
// employee that doesn't have a stored result yet.
type PeriodCloseScheduler struct {
	Store         *sqlite.Store
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPeriodCloseScheduler creates a scheduler with defaults.
func NewPeriodCloseScheduler(store *sqlite.Store) *PeriodCloseScheduler {
	return &PeriodCloseScheduler{
		Store:         store,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
	}
}

// Start launches the background loop. No-op when disabled or already
// running.
func (s *PeriodCloseScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled || s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		// Run one sweep immediately so a restart doesn't wait a full tick.
		s.sweep()
		for {
			select {
			case <-s.ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()

	log.Printf("Period-close scheduler started (interval: %v)", s.CheckInterval)
}

// Stop halts the background loop and waits for it to finish.
func (s *PeriodCloseScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil
	log.Printf("Period-close scheduler stopped")
}

// sweep closes last month for every employee missing a stored result.
func (s *PeriodCloseScheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	lastMonth := engine.MonthOf(engine.Today().StartOfMonth().AddDays(-1))

	employees, err := s.Store.ListEmployees(ctx)
	if err != nil {
		log.Printf("Period-close sweep failed to list employees: %v", err)
		return
	}

	for _, emp := range employees {
		closed, err := s.alreadyClosed(ctx, emp.ID, lastMonth)
		if err != nil {
			log.Printf("Period-close check failed for %s: %v", emp.ID, err)
			continue
		}
		if closed {
			continue
		}

		adjustments, err := s.Store.AdjustmentsInRange(ctx, emp.ID, lastMonth)
		if err != nil {
			log.Printf("Period-close adjustments failed for %s: %v", emp.ID, err)
			continue
		}

		totals := shift.AggregatePeriod(lastMonth, emp.Schedule, emp.RestDays, adjustments)
		pay := payroll.Calculate(emp.WageModel, totals)

		result := &sqlite.PeriodResult{
			EmployeeID: emp.ID,
			Period:     lastMonth,
			Totals:     totals,
			Pay:        pay,
		}
		if err := s.Store.SavePeriodResult(ctx, result); err != nil {
			log.Printf("Period-close save failed for %s: %v", emp.ID, err)
			continue
		}
		log.Printf("Closed period %s for %s: %.2f worked hours, total %s",
			lastMonth, emp.ID, totals.WorkedHours, pay.TotalPayable)
	}
}

func (s *PeriodCloseScheduler) alreadyClosed(ctx context.Context, employeeID string, period engine.Period) (bool, error) {
	results, err := s.Store.ListPeriodResults(ctx, employeeID)
	if err != nil {
		return false, err
	}
	for _, result := range results {
		if result.Period.Start.Equal(period.Start) && result.Period.End.Equal(period.End) {
			return true, nil
		}
	}
	return false, nil
}
