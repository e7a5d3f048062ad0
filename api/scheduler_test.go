package api_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pto-planner/api"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/store/memory"
	"github.com/warp/pto-planner/timeoff"
)

func newWatchPlanner(t *testing.T) *timeoff.Planner {
	return timeoff.NewPlanner(memory.New(), generic.FixedClock{Date: generic.MustParseDate("2024-01-01")})
}

func TestRolloverWatch_StartRejectsInvalidSpec(t *testing.T) {
	watch := api.NewRolloverWatch(newWatchPlanner(t), "every morning", time.UTC)

	assert.Error(t, watch.Start())
}

func TestRolloverWatch_DisabledDoesNothing(t *testing.T) {
	watch := api.NewRolloverWatch(newWatchPlanner(t), "not even parsed", time.UTC)
	watch.Enabled = false

	require.NoError(t, watch.Start())
	watch.Stop()

	_, ok := watch.LastStatus()
	assert.False(t, ok)
}

func TestRolloverWatch_StartStop(t *testing.T) {
	watch := api.NewRolloverWatch(newWatchPlanner(t), "", nil)
	assert.Equal(t, api.DefaultRolloverSpec, watch.Spec)

	require.NoError(t, watch.Start())
	require.NoError(t, watch.Start(), "second start is a no-op")
	watch.Stop()
	watch.Stop()
}

func TestRolloverWatch_RunNow_BalanceWarning(t *testing.T) {
	// GIVEN: 80.01h banked against a 100h max rollover, no accrual
	// WHEN: Running the check
	// THEN: The early warning fires even though year end is under the cap
	ctx := context.Background()
	planner := newWatchPlanner(t)
	policy := timeoff.BiweeklyPolicy(generic.MustParseDate("2023-12-29"), 80.01, 0, generic.LimitedCap(generic.Hours(100)))
	require.NoError(t, planner.SaveSettings(ctx, policy))
	watch := api.NewRolloverWatch(planner, "", time.UTC)

	status, err := watch.RunNow(ctx)
	require.NoError(t, err)

	assert.True(t, status.Warning)
	assert.False(t, status.YearEnd.WillExceedRollover)

	last, ok := watch.LastStatus()
	require.True(t, ok)
	assert.Equal(t, status.CheckedAt, last.CheckedAt)
}

func TestRolloverWatch_RunNow_NoWarning(t *testing.T) {
	ctx := context.Background()
	planner := newWatchPlanner(t)
	policy := timeoff.BiweeklyPolicy(generic.MustParseDate("2023-12-29"), 80, 0, generic.LimitedCap(generic.Hours(100)))
	require.NoError(t, planner.SaveSettings(ctx, policy))

	status, err := api.NewRolloverWatch(planner, "", time.UTC).RunNow(ctx)
	require.NoError(t, err)
	assert.False(t, status.Warning)
}
