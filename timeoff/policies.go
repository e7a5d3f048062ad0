/*
policies.go - Pre-built policy configurations

PURPOSE:
  Starting points for onboarding. A new user gets DefaultPolicy and edits it;
  the presets cover the most common payroll shapes.

AVAILABLE POLICIES:
  DefaultPolicy:      Zero balance, zero accrual, biweekly, no caps
  BiweeklyPolicy:     Rate per biweekly paycheck with an optional rollover cap
  SemiMonthlyPolicy:  Rate per 1st/15th paycheck with an optional rollover cap

EXAMPLE:
  policy := timeoff.BiweeklyPolicy(today, 40, 6.15, generic.LimitedCap(generic.Hours(80)))
  if err := timeoff.ValidatePolicy(policy, today); err != nil {
      ...
  }

SEE ALSO:
  - validation.go: ValidatePolicy
  - factory/policy.go: JSON-based policy creation
*/
package timeoff

import "github.com/warp/pto-planner/generic"

// =============================================================================
// COMMON POLICIES
// =============================================================================

// DefaultPolicy is the conservative configuration used before onboarding:
// nothing banked, nothing accruing, no caps.
func DefaultPolicy(today generic.TimePoint) AccrualPolicy {
	return AccrualPolicy{
		CurrentBalance:    generic.Hours(0),
		AccrualRate:       generic.Hours(0),
		AccrualPeriodType: PeriodBiweekly,
		LastAccrualDate:   today,
		MaxRollover:       generic.UnlimitedCap(),
		MaxBalance:        generic.UnlimitedCap(),
	}
}

// BiweeklyPolicy accrues rate hours every other week.
func BiweeklyPolicy(lastAccrual generic.TimePoint, balance, rate float64, maxRollover generic.Cap) AccrualPolicy {
	return AccrualPolicy{
		CurrentBalance:    generic.Hours(balance),
		AccrualRate:       generic.Hours(rate),
		AccrualPeriodType: PeriodBiweekly,
		LastAccrualDate:   lastAccrual,
		MaxRollover:       maxRollover,
		MaxBalance:        generic.UnlimitedCap(),
	}
}

// SemiMonthlyPolicy accrues rate hours on the 1st and 15th.
func SemiMonthlyPolicy(lastAccrual generic.TimePoint, balance, rate float64, maxRollover generic.Cap) AccrualPolicy {
	return AccrualPolicy{
		CurrentBalance:    generic.Hours(balance),
		AccrualRate:       generic.Hours(rate),
		AccrualPeriodType: PeriodSemiMonthly,
		LastAccrualDate:   lastAccrual,
		MaxRollover:       maxRollover,
		MaxBalance:        generic.UnlimitedCap(),
	}
}
