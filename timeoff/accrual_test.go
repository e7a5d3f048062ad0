package timeoff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/timeoff"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func date(s string) generic.TimePoint {
	return generic.MustParseDate(s)
}

func hours(n float64) generic.Amount {
	return generic.Hours(n)
}

func assertHours(t *testing.T, want float64, got generic.Amount) {
	t.Helper()
	assert.True(t, got.Equal(hours(want)), "expected %v hours, got %s", want, got)
}

// =============================================================================
// NEXT ACCRUAL DATE
// =============================================================================

func TestNextAccrualDate_FixedCadences(t *testing.T) {
	last := date("2024-01-05")

	assert.Equal(t, "2024-01-12", timeoff.NextAccrualDate(last, timeoff.PeriodWeekly).String())
	assert.Equal(t, "2024-01-19", timeoff.NextAccrualDate(last, timeoff.PeriodBiweekly).String())
}

func TestNextAccrualDate_SemiMonthly(t *testing.T) {
	// GIVEN: Paychecks on the 1st and the 15th
	// WHEN: The last accrual was before or after the 15th
	// THEN: The next date is the 15th of the same month or the 1st of the next
	cases := map[string]string{
		"2024-01-01": "2024-01-15",
		"2024-01-10": "2024-01-15",
		"2024-01-14": "2024-01-15",
		"2024-01-15": "2024-02-01",
		"2024-01-20": "2024-02-01",
		"2024-12-31": "2025-01-01",
	}
	for last, want := range cases {
		got := timeoff.NextAccrualDate(date(last), timeoff.PeriodSemiMonthly)
		assert.Equal(t, want, got.String(), "last accrual %s", last)
	}
}

func TestNextAccrualDate_UnknownTypeReturnsInput(t *testing.T) {
	last := date("2024-01-05")
	assert.True(t, timeoff.NextAccrualDate(last, "monthly").Equal(last))
}

// =============================================================================
// PAY PERIODS BETWEEN
// =============================================================================

func TestPayPeriodsBetween(t *testing.T) {
	jan1 := date("2024-01-01")

	cases := []struct {
		name       string
		end        string
		periodType timeoff.AccrualPeriodType
		want       int
	}{
		{"weekly 6 days", "2024-01-07", timeoff.PeriodWeekly, 0},
		{"weekly 7 days", "2024-01-08", timeoff.PeriodWeekly, 1},
		{"biweekly 27 days", "2024-01-28", timeoff.PeriodBiweekly, 1},
		{"biweekly 28 days", "2024-01-29", timeoff.PeriodBiweekly, 2},
		{"semi-monthly 15 days", "2024-01-16", timeoff.PeriodSemiMonthly, 0},
		{"semi-monthly 16 days", "2024-01-17", timeoff.PeriodSemiMonthly, 1},
		{"semi-monthly 31 days", "2024-02-01", timeoff.PeriodSemiMonthly, 2},
		{"semi-monthly full year", "2024-12-31", timeoff.PeriodSemiMonthly, 24},
		{"same day", "2024-01-01", timeoff.PeriodBiweekly, 0},
		{"unknown type", "2024-12-31", "monthly", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, timeoff.PayPeriodsBetween(jan1, date(tc.end), tc.periodType))
		})
	}
}

// =============================================================================
// PAY PERIOD SCHEDULE
// =============================================================================

func TestPayPeriodSchedule_GenerateAccruals(t *testing.T) {
	// GIVEN: Biweekly accrual of 6.15h, last paid Jan 5
	// WHEN: Generating accruals for February
	// THEN: Feb 2 and Feb 16 are listed, Jan 19 is not
	policy := timeoff.BiweeklyPolicy(date("2024-01-05"), 0, 6.15, generic.UnlimitedCap())
	schedule := timeoff.ScheduleFor(policy)

	events := schedule.GenerateAccruals(date("2024-02-01"), date("2024-02-29"))

	require.Len(t, events, 2)
	assert.Equal(t, "2024-02-02", events[0].At.String())
	assert.Equal(t, "2024-02-16", events[1].At.String())
	assertHours(t, 12.3, generic.TotalAccrued(generic.UnitHours, events))
}

func TestPayPeriodSchedule_Upcoming_SemiMonthly(t *testing.T) {
	policy := timeoff.SemiMonthlyPolicy(date("2024-01-20"), 0, 5, generic.UnlimitedCap())

	events := timeoff.ScheduleFor(policy).Upcoming(4)

	require.Len(t, events, 4)
	want := []string{"2024-02-01", "2024-02-15", "2024-03-01", "2024-03-15"}
	for i, e := range events {
		assert.Equal(t, want[i], e.At.String())
		assertHours(t, 5, e.Amount)
		assert.Equal(t, "semi-monthly accrual", e.Reason)
	}
}

func TestPayPeriodSchedule_InvalidInputs(t *testing.T) {
	schedule := &timeoff.PayPeriodSchedule{Anchor: date("2024-01-01"), Rate: hours(8), PeriodType: "monthly"}
	assert.Empty(t, schedule.Upcoming(3))
	assert.Empty(t, schedule.GenerateAccruals(date("2024-01-01"), date("2024-12-31")))

	schedule.PeriodType = timeoff.PeriodWeekly
	assert.Empty(t, schedule.Upcoming(0))
}
