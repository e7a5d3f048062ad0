package timeoff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/timeoff"
)

func TestValidatePolicy_Defaults(t *testing.T) {
	today := date("2024-01-01")
	assert.NoError(t, timeoff.ValidatePolicy(timeoff.DefaultPolicy(today), today))
}

func TestValidatePolicy_CollectsEveryFailure(t *testing.T) {
	// GIVEN: A policy wrong in every field
	// WHEN: Validating
	// THEN: Every field is reported at once
	policy := timeoff.AccrualPolicy{
		CurrentBalance:    hours(-1),
		AccrualRate:       hours(-0.5),
		AccrualPeriodType: "monthly",
		LastAccrualDate:   date("2024-02-01"),
		MaxRollover:       generic.LimitedCap(hours(-5)),
		MaxBalance:        generic.LimitedCap(hours(-10)),
	}

	err := timeoff.ValidatePolicy(policy, date("2024-01-01"))

	var verr *generic.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"current_balance", "accrual_rate", "accrual_period_type", "last_accrual_date", "max_rollover", "max_balance"} {
		assert.True(t, verr.Has(field), field)
	}
}

func TestValidatePolicy_MissingLastAccrual(t *testing.T) {
	policy := scenarioPolicy()
	policy.LastAccrualDate = generic.TimePoint{}

	var verr *generic.ValidationError
	require.ErrorAs(t, timeoff.ValidatePolicy(policy, date("2024-01-01")), &verr)
	assert.True(t, verr.Has("last_accrual_date"))
}

func TestValidatePolicy_CapOrdering(t *testing.T) {
	today := date("2024-01-01")
	policy := scenarioPolicy()

	// max balance below max rollover
	policy.MaxRollover = generic.LimitedCap(hours(80))
	policy.MaxBalance = generic.LimitedCap(hours(79.5))
	assert.ErrorIs(t, timeoff.ValidatePolicy(policy, today), generic.ErrValidation)

	// equal is fine
	policy.MaxBalance = generic.LimitedCap(hours(80))
	assert.NoError(t, timeoff.ValidatePolicy(policy, today))

	// either side unlimited is fine
	policy.MaxBalance = generic.UnlimitedCap()
	assert.NoError(t, timeoff.ValidatePolicy(policy, today))
	policy.MaxRollover = generic.UnlimitedCap()
	policy.MaxBalance = generic.LimitedCap(hours(40))
	assert.NoError(t, timeoff.ValidatePolicy(policy, today))
}

func TestValidatePolicy_BalanceAboveMaxBalance(t *testing.T) {
	// GIVEN: 120 hours banked against a 100 hour ceiling
	// WHEN: Validating
	// THEN: The current balance is rejected; at the ceiling it is accepted
	today := date("2024-01-01")
	policy := scenarioPolicy()
	policy.CurrentBalance = hours(120)
	policy.MaxBalance = generic.LimitedCap(hours(100))

	var verr *generic.ValidationError
	require.ErrorAs(t, timeoff.ValidatePolicy(policy, today), &verr)
	assert.True(t, verr.Has("current_balance"))
	assert.Len(t, verr.Fields, 1)

	policy.CurrentBalance = hours(100)
	assert.NoError(t, timeoff.ValidatePolicy(policy, today))
}

func TestValidateEventInput(t *testing.T) {
	cases := []struct {
		name   string
		event  string
		start  generic.TimePoint
		end    generic.TimePoint
		fields []string
	}{
		{"valid", "Trip", date("2024-01-01"), date("2024-01-02"), nil},
		{"single day", "Trip", date("2024-01-01"), date("2024-01-01"), nil},
		{"blank name", " \t", date("2024-01-01"), date("2024-01-02"), []string{"name"}},
		{"missing dates", "Trip", generic.TimePoint{}, generic.TimePoint{}, []string{"start_date", "end_date"}},
		{"inverted", "Trip", date("2024-01-02"), date("2024-01-01"), []string{"end_date"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := timeoff.ValidateEventInput(tc.event, tc.start, tc.end)
			if len(tc.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var verr *generic.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Fields, len(tc.fields))
			for _, f := range tc.fields {
				assert.True(t, verr.Has(f), f)
			}
		})
	}
}

func TestParseTypes(t *testing.T) {
	p, err := timeoff.ParseAccrualPeriodType("semi-monthly")
	require.NoError(t, err)
	assert.Equal(t, timeoff.PeriodSemiMonthly, p)

	_, err = timeoff.ParseAccrualPeriodType("monthly")
	assert.Error(t, err)

	d, err := timeoff.ParseDayType("half")
	require.NoError(t, err)
	assertHours(t, 4, d.Hours())
	assert.False(t, timeoff.DayWeekend.Selectable())

	_, err = timeoff.ParseDayType("sick")
	assert.Error(t, err)
}
