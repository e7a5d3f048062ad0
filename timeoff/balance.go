/*
balance.go - Balance and accrual engine

PURPOSE:
  Answers "how many hours will I have on date X?" and "is that enough for
  this event?" from a policy snapshot and a list of events. The engine holds
  no state besides its clock; every call is pure.

AVAILABLE HOURS AT A DATE:
  1. Start from CurrentBalance
  2. If the date is after today, add PayPeriodsBetween(today, date) x rate
  3. Subtract TotalHours of every event that starts before the date
  4. Clamp to MaxBalance when it is limited
  The result may be negative; that means an existing plan already overdraws.

EVENT VALIDATION:
  Prior events are those starting strictly before the event, excluding the
  event itself by identity. Difference = available - event hours, and a
  difference of exactly zero is enough.

YEAR-END PROJECTION:
  CurrentBalance + remaining accrual this year - hours of ALL planned events,
  clamped to MaxBalance. Planned events are not filtered by year.
  Hours above MaxRollover are at risk of being lost.

EXAMPLE:
  engine := timeoff.Engine{Clock: generic.FixedClock{Date: jan1}}
  result := engine.ValidateEventBalance(event, policy, others)
  if !result.HasEnough {
      fmt.Println("short by", result.Shortage())
  }

SEE ALSO:
  - accrual.go: PayPeriodsBetween
  - days.go: TotalHours
*/
package timeoff

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/pto-planner/generic"
)

// rolloverWarningRatio is the share of MaxRollover above which the current
// balance triggers an early warning.
var rolloverWarningRatio = decimal.RequireFromString("0.8")

// Engine evaluates balances as of the clock's today.
type Engine struct {
	Clock generic.Clock
}

// NewEngine returns an engine reading the given clock, or the system clock
// when nil.
func NewEngine(clock generic.Clock) *Engine {
	if clock == nil {
		clock = generic.SystemClock{}
	}
	return &Engine{Clock: clock}
}

func (e *Engine) today() generic.TimePoint {
	if e.Clock == nil {
		return generic.Today()
	}
	return e.Clock.Today()
}

// AvailableHoursAt projects the balance on target.
func (e *Engine) AvailableHoursAt(target generic.TimePoint, policy AccrualPolicy, priorEvents []PTOEvent) generic.Amount {
	available := policy.CurrentBalance

	today := e.today()
	if target.After(today) {
		periods := PayPeriodsBetween(today, target, policy.AccrualPeriodType)
		available = available.Add(policy.AccrualRate.MulInt(periods))
	}

	for _, ev := range priorEvents {
		if ev.StartDate.Before(target) {
			available = available.Sub(ev.TotalHours())
		}
	}

	return policy.MaxBalance.Clamp(available)
}

// ValidateEventBalance checks event against the balance at its start date.
func (e *Engine) ValidateEventBalance(event PTOEvent, policy AccrualPolicy, otherEvents []PTOEvent) AvailabilityResult {
	prior := make([]PTOEvent, 0, len(otherEvents))
	for _, other := range otherEvents {
		if other.StartDate.Before(event.StartDate) && other.Created != event.Created {
			prior = append(prior, other)
		}
	}

	available := e.AvailableHoursAt(event.StartDate, policy, prior)
	difference := available.Sub(event.TotalHours())

	return AvailabilityResult{
		AvailableHours: available,
		HasEnough:      !difference.IsNegative(),
		Difference:     difference,
	}
}

// YearEndProjection estimates the Dec 31 balance of the current year.
func (e *Engine) YearEndProjection(policy AccrualPolicy, plannedEvents []PTOEvent) YearEndProjection {
	today := e.today()
	yearEnd := generic.CalendarYear(today.Year()).End

	remaining := PayPeriodsBetween(today, yearEnd, policy.AccrualPeriodType)
	projected := policy.CurrentBalance.Add(policy.AccrualRate.MulInt(remaining))
	for _, ev := range plannedEvents {
		projected = projected.Sub(ev.TotalHours())
	}
	projected = policy.MaxBalance.Clamp(projected)

	result := YearEndProjection{
		YearEnd:          yearEnd,
		ProjectedBalance: projected,
		HoursAtRisk:      projected.Zero(),
	}
	if policy.MaxRollover.Exceeded(projected) {
		limit, _ := policy.MaxRollover.Limit()
		result.WillExceedRollover = true
		result.HoursAtRisk = projected.Sub(limit)
	}
	return result
}

// ShouldWarnAboutRollover reports a current balance above 80% of MaxRollover.
func ShouldWarnAboutRollover(policy AccrualPolicy) bool {
	limit, ok := policy.MaxRollover.Limit()
	if !ok {
		return false
	}
	return policy.CurrentBalance.GreaterThan(limit.Mul(rolloverWarningRatio))
}

// ProjectBalances evaluates every event in start-date order.
func (e *Engine) ProjectBalances(policy AccrualPolicy, events []PTOEvent) []EventBalance {
	sorted := SortEvents(events)
	balances := make([]EventBalance, 0, len(sorted))
	for _, ev := range sorted {
		banked := policy.CurrentBalance
		for _, other := range sorted {
			if other.StartDate.Before(ev.StartDate) {
				banked = banked.Sub(other.TotalHours())
			}
		}
		balances = append(balances, EventBalance{
			Event:        ev,
			Availability: e.ValidateEventBalance(ev, policy, sorted),
			Banked:       banked,
		})
	}
	return balances
}

// SortEvents returns a copy of events ordered by start date, then identity.
func SortEvents(events []PTOEvent) []PTOEvent {
	sorted := make([]PTOEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].StartDate.Equal(sorted[j].StartDate) {
			return sorted[i].StartDate.Before(sorted[j].StartDate)
		}
		return sorted[i].Created < sorted[j].Created
	})
	return sorted
}

// PlannedHours sums TotalHours over events.
func PlannedHours(events []PTOEvent) generic.Amount {
	total := generic.Hours(0)
	for _, ev := range events {
		total = total.Add(ev.TotalHours())
	}
	return total
}
