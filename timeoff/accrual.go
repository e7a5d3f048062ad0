/*
accrual.go - Pay-period accrual arithmetic

PURPOSE:
  Computes when hours are granted and how many grants fall between two
  calendar dates. Every function here is pure.

CADENCES:
  weekly:       every 7 days
  biweekly:     every 14 days
  semi-monthly: the 1st and the 15th of each month

COUNTING PERIODS:
  PayPeriodsBetween counts whole periods in the day span between two dates.
  For semi-monthly it divides by 15.2 days (365 / 24), which is an
  approximation and is kept as-is for compatibility with stored plans:

    2024-01-01 -> 2024-01-29, biweekly: 28 days / 14  = 2 periods
    2024-01-01 -> 2024-02-01, semi:     31 days / 15.2 = 2 periods

SCHEDULE:
  PayPeriodSchedule walks NextAccrualDate forward from the last accrual and
  emits one AccrualEvent per grant. It lists upcoming accruals; the balance
  engine itself uses PayPeriodsBetween.

SEE ALSO:
  - balance.go: Uses PayPeriodsBetween for projections
  - generic/accrual.go: AccrualSchedule interface
*/
package timeoff

import (
	"math"

	"github.com/warp/pto-planner/generic"
)

// semiMonthlyPeriodDays is the average semi-monthly period length (365 / 24).
const semiMonthlyPeriodDays = 15.2

// NextAccrualDate returns the grant date following last.
func NextAccrualDate(last generic.TimePoint, periodType AccrualPeriodType) generic.TimePoint {
	switch periodType {
	case PeriodWeekly:
		return last.AddDays(7)
	case PeriodBiweekly:
		return last.AddDays(14)
	case PeriodSemiMonthly:
		if last.Day() < 15 {
			return generic.NewTimePoint(last.Year(), last.Month(), 15)
		}
		return generic.NewTimePoint(last.Year(), last.Month()+1, 1)
	default:
		return last
	}
}

// PayPeriodsBetween counts whole pay periods in the calendar days from start
// to end. The result for end < start is whatever the floor division gives.
func PayPeriodsBetween(start, end generic.TimePoint, periodType AccrualPeriodType) int {
	days := float64(generic.DaysBetween(start, end))
	switch periodType {
	case PeriodWeekly:
		return int(math.Floor(days / 7))
	case PeriodBiweekly:
		return int(math.Floor(days / 14))
	case PeriodSemiMonthly:
		return int(math.Floor(days / semiMonthlyPeriodDays))
	default:
		return 0
	}
}

// =============================================================================
// PAY PERIOD SCHEDULE - generic.AccrualSchedule for a policy
// =============================================================================

// PayPeriodSchedule grants Rate on every pay date after Anchor.
type PayPeriodSchedule struct {
	Anchor     generic.TimePoint
	Rate       generic.Amount
	PeriodType AccrualPeriodType
}

var _ generic.AccrualSchedule = (*PayPeriodSchedule)(nil)

// ScheduleFor builds the schedule anchored at the policy's last accrual.
func ScheduleFor(p AccrualPolicy) *PayPeriodSchedule {
	return &PayPeriodSchedule{
		Anchor:     p.LastAccrualDate,
		Rate:       p.AccrualRate,
		PeriodType: p.AccrualPeriodType,
	}
}

func (s *PayPeriodSchedule) GenerateAccruals(from, to generic.TimePoint) []generic.AccrualEvent {
	if !s.PeriodType.Valid() {
		return nil
	}
	var events []generic.AccrualEvent
	current := NextAccrualDate(s.Anchor, s.PeriodType)
	for current.BeforeOrEqual(to) {
		if current.AfterOrEqual(from) {
			events = append(events, generic.AccrualEvent{
				At:     current,
				Amount: s.Rate,
				Reason: string(s.PeriodType) + " accrual",
			})
		}
		current = NextAccrualDate(current, s.PeriodType)
	}
	return events
}

// Upcoming returns the next n accrual events after the anchor.
func (s *PayPeriodSchedule) Upcoming(n int) []generic.AccrualEvent {
	if !s.PeriodType.Valid() || n <= 0 {
		return nil
	}
	events := make([]generic.AccrualEvent, 0, n)
	current := s.Anchor
	for i := 0; i < n; i++ {
		current = NextAccrualDate(current, s.PeriodType)
		events = append(events, generic.AccrualEvent{
			At:     current,
			Amount: s.Rate,
			Reason: string(s.PeriodType) + " accrual",
		})
	}
	return events
}
