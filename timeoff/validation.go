package timeoff

import (
	"strings"

	"github.com/warp/pto-planner/generic"
)

// ValidatePolicy checks every field of a policy before it is saved. The
// engine itself never validates; every entry point calls this instead.
func ValidatePolicy(p AccrualPolicy, today generic.TimePoint) error {
	verr := &generic.ValidationError{}

	if p.CurrentBalance.IsNegative() {
		verr.Add("current_balance", "must not be negative")
	}
	if p.AccrualRate.IsNegative() {
		verr.Add("accrual_rate", "must not be negative")
	}
	if !p.AccrualPeriodType.Valid() {
		verr.Add("accrual_period_type", "must be weekly, biweekly or semi-monthly")
	}
	switch {
	case p.LastAccrualDate.IsZero():
		verr.Add("last_accrual_date", "is required")
	case p.LastAccrualDate.After(today):
		verr.Add("last_accrual_date", "must not be in the future")
	}

	rollover, hasRollover := p.MaxRollover.Limit()
	if hasRollover && rollover.IsNegative() {
		verr.Add("max_rollover", "must not be negative")
	}
	balance, hasBalance := p.MaxBalance.Limit()
	if hasBalance && balance.IsNegative() {
		verr.Add("max_balance", "must not be negative")
	}
	if hasRollover && hasBalance && balance.LessThan(rollover) {
		verr.Add("max_balance", "must be greater than or equal to max rollover")
	}
	if hasBalance && p.CurrentBalance.GreaterThan(balance) {
		verr.Add("current_balance", "cannot exceed max balance")
	}

	return verr.ErrOrNil()
}

// ValidateEventInput checks the name and date range of an event draft.
func ValidateEventInput(name string, start, end generic.TimePoint) error {
	verr := &generic.ValidationError{}

	if strings.TrimSpace(name) == "" {
		verr.Add("name", "is required")
	}
	if start.IsZero() {
		verr.Add("start_date", "is required")
	}
	if end.IsZero() {
		verr.Add("end_date", "is required")
	}
	if !start.IsZero() && !end.IsZero() {
		if err := (generic.Period{Start: start, End: end}).Validate(); err != nil {
			verr.Add("end_date", "cannot be before start date")
		}
	}

	return verr.ErrOrNil()
}
