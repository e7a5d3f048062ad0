// Package timeoff implements the PTO planner domain: the accrual policy,
// planned time-off events, the per-day model and the balance engine.
package timeoff

import (
	"fmt"

	"github.com/warp/pto-planner/generic"
)

// =============================================================================
// ACCRUAL PERIOD TYPE
// =============================================================================

// AccrualPeriodType is the pay-period cadence at which hours are granted.
type AccrualPeriodType string

const (
	PeriodWeekly      AccrualPeriodType = "weekly"
	PeriodBiweekly    AccrualPeriodType = "biweekly"
	PeriodSemiMonthly AccrualPeriodType = "semi-monthly"
)

// AccrualPeriodTypes lists the supported cadences in display order.
var AccrualPeriodTypes = []AccrualPeriodType{PeriodWeekly, PeriodBiweekly, PeriodSemiMonthly}

func (p AccrualPeriodType) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodBiweekly, PeriodSemiMonthly:
		return true
	}
	return false
}

func ParseAccrualPeriodType(s string) (AccrualPeriodType, error) {
	p := AccrualPeriodType(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown accrual period type %q (want weekly, biweekly or semi-monthly)", s)
	}
	return p, nil
}

// =============================================================================
// DAY TYPE
// =============================================================================

// DayType classifies one calendar day inside an event.
type DayType string

const (
	DayFull    DayType = "full"
	DayHalf    DayType = "half"
	DayHoliday DayType = "holiday"
	DayWeekend DayType = "weekend"
)

// Hours charged per day type.
var (
	FullDayHours = generic.Hours(8)
	HalfDayHours = generic.Hours(4)
)

// Hours is the PTO charged for one day of this type.
func (d DayType) Hours() generic.Amount {
	switch d {
	case DayFull:
		return FullDayHours
	case DayHalf:
		return HalfDayHours
	default:
		return generic.Hours(0)
	}
}

func (d DayType) Valid() bool {
	switch d {
	case DayFull, DayHalf, DayHoliday, DayWeekend:
		return true
	}
	return false
}

// Selectable reports whether a user may pick this type for a workday.
func (d DayType) Selectable() bool {
	return d == DayFull || d == DayHalf || d == DayHoliday
}

func ParseDayType(s string) (DayType, error) {
	d := DayType(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown day type %q (want full, half, holiday or weekend)", s)
	}
	return d, nil
}

// =============================================================================
// PTO DAY / PTO EVENT
// =============================================================================

// PTODay is one calendar day of an event.
type PTODay struct {
	Date      generic.TimePoint
	Type      DayType
	IsWeekend bool
}

func (d PTODay) Hours() generic.Amount { return d.Type.Hours() }

// EventID is the immutable identity token assigned when an event is created.
type EventID string

// PTOEvent is one planned absence.
type PTOEvent struct {
	Created   EventID
	Name      string
	StartDate generic.TimePoint
	EndDate   generic.TimePoint
	Days      []PTODay
}

// Period is the inclusive date range of the event.
func (e PTOEvent) Period() generic.Period {
	return generic.Period{Start: e.StartDate, End: e.EndDate}
}

// TotalHours is derived from Days on every call; it is never cached.
func (e PTOEvent) TotalHours() generic.Amount {
	return TotalHours(e.Days)
}

// =============================================================================
// ACCRUAL POLICY
// =============================================================================

// AccrualPolicy is the user's PTO configuration. It is replaced wholesale on
// every save.
type AccrualPolicy struct {
	CurrentBalance    generic.Amount
	AccrualRate       generic.Amount
	AccrualPeriodType AccrualPeriodType
	LastAccrualDate   generic.TimePoint
	MaxRollover       generic.Cap
	MaxBalance        generic.Cap
}

func (p AccrualPolicy) HasMaxRollover() bool { return p.MaxRollover.IsLimited() }
func (p AccrualPolicy) HasMaxBalance() bool  { return p.MaxBalance.IsLimited() }

// =============================================================================
// ENGINE RESULTS
// =============================================================================

// AvailabilityResult answers "is there enough PTO for this event?".
type AvailabilityResult struct {
	AvailableHours generic.Amount
	HasEnough      bool
	// Difference is positive for a surplus and negative for a shortage.
	Difference generic.Amount
}

// Shortage is the missing hours, zero when HasEnough.
func (r AvailabilityResult) Shortage() generic.Amount {
	if r.HasEnough {
		return r.Difference.Zero()
	}
	return r.Difference.Neg()
}

// YearEndProjection estimates the balance on Dec 31.
type YearEndProjection struct {
	YearEnd            generic.TimePoint
	ProjectedBalance   generic.Amount
	WillExceedRollover bool
	HoursAtRisk        generic.Amount
}

// EventBalance is the balance picture at the start of one event.
type EventBalance struct {
	Event        PTOEvent
	Availability AvailabilityResult
	// Banked is CurrentBalance minus every earlier event, with no accrual.
	Banked generic.Amount
}
