package api_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comanda/shift-engine/api"
	"github.com/comanda/shift-engine/payroll"
	"github.com/comanda/shift-engine/shift"
	"github.com/comanda/shift-engine/store/sqlite"
)

func newSchedulerStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSchedulerClosesLastMonth(t *testing.T) {
	store := newSchedulerStore(t)
	ctx := context.Background()

	baseRate := 120000.0
	emp := &sqlite.Employee{
		Name:     "Marta Velázquez",
		Schedule: shift.ScheduleConfig{EntryTime: "08:00", ExitTime: "16:00"},
		WageModel: payroll.WageModel{
			Type:     payroll.WageMonthly,
			BaseRate: &baseRate,
		},
	}
	require.NoError(t, store.CreateEmployee(ctx, emp))

	scheduler := api.NewPeriodCloseScheduler(store)
	scheduler.CheckInterval = time.Hour
	scheduler.Start()
	defer scheduler.Stop()

	// The first sweep runs immediately on start; give it a moment.
	var results []sqlite.PeriodResult
	require.Eventually(t, func() bool {
		var err error
		results, err = store.ListPeriodResults(ctx, emp.ID)
		return err == nil && len(results) == 1
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, emp.ID, results[0].EmployeeID)
	assert.InDelta(t, baseRate, results[0].Pay.BaseAmount.Float64(), 1e-6)
}

func TestSchedulerSkipsClosedPeriods(t *testing.T) {
	store := newSchedulerStore(t)
	ctx := context.Background()

	emp := &sqlite.Employee{Name: "Rosa Cabral"}
	require.NoError(t, store.CreateEmployee(ctx, emp))

	scheduler := api.NewPeriodCloseScheduler(store)
	scheduler.Start()

	require.Eventually(t, func() bool {
		results, err := store.ListPeriodResults(ctx, emp.ID)
		return err == nil && len(results) == 1
	}, 5*time.Second, 20*time.Millisecond)
	scheduler.Stop()

	// A second start re-sweeps; the already-closed month stays single.
	scheduler.Start()
	time.Sleep(100 * time.Millisecond)
	scheduler.Stop()

	results, err := store.ListPeriodResults(ctx, emp.ID)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSchedulerDisabled(t *testing.T) {
	store := newSchedulerStore(t)

	scheduler := api.NewPeriodCloseScheduler(store)
	scheduler.Enabled = false
	scheduler.Start()
	scheduler.Stop()
}
