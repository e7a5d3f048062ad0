package generic

// =============================================================================
// ACCRUAL SCHEDULE - Interface for how balance accumulates
// =============================================================================

// AccrualSchedule generates accrual events for a time range.
// Implementations own the cadence (weekly, biweekly, semi-monthly, ...).
type AccrualSchedule interface {
	// GenerateAccruals returns accrual events in [from, to].
	GenerateAccruals(from, to TimePoint) []AccrualEvent
}

// AccrualEvent represents a single accrual occurrence.
type AccrualEvent struct {
	At     TimePoint
	Amount Amount
	Reason string
}

// TotalAccrued sums the amounts of events, in unit.
func TotalAccrued(unit Unit, events []AccrualEvent) Amount {
	total := Sum(unit)
	for _, e := range events {
		total = total.Add(e.Amount)
	}
	return total
}
