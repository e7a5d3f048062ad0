/*
days.go - Event day model

PURPOSE:
  Expands an event's date range into one PTODay per calendar day, sums the
  hours those days consume, and detects date-range collisions between events.

RULES:
  - Ranges are inclusive: a single-day event has exactly one day.
  - Saturdays and Sundays are typed "weekend" and cannot be changed.
  - Every other day starts as "full"; "half" and "holiday" only come from
    explicit overrides.
  - Changing the range rebuilds every day; prior overrides are dropped.

HOURS:
  full = 8, half = 4, holiday = 0, weekend = 0

  Mon..Sun, weekdays full: 5 x 8 = 40 hours

OVERLAP:
  Two events overlap when their inclusive ranges share any day. The event
  being edited is excluded by identity so it never collides with itself.

SEE ALSO:
  - balance.go: Consumes TotalHours
  - planner.go: Runs the overlap check before accepting dates
*/
package timeoff

import (
	"fmt"

	"github.com/warp/pto-planner/generic"
)

// BuildDays enumerates [start, end] with default day types.
func BuildDays(start, end generic.TimePoint) []PTODay {
	dates := (generic.Period{Start: start, End: end}).Days()
	days := make([]PTODay, 0, len(dates))
	for _, d := range dates {
		day := PTODay{Date: d, Type: DayFull}
		if IsWeekend(d) {
			day.Type = DayWeekend
			day.IsWeekend = true
		}
		days = append(days, day)
	}
	return days
}

// TotalHours sums the hours charged by days.
func TotalHours(days []PTODay) generic.Amount {
	total := generic.Hours(0)
	for _, d := range days {
		total = total.Add(d.Hours())
	}
	return total
}

// ValidateDays checks that an event holds exactly one day per date of its
// range, in order, with weekend days typed "weekend" and nothing else.
func ValidateDays(e PTOEvent) error {
	verr := &generic.ValidationError{}
	period := e.Period()
	if len(e.Days) != period.Len() {
		verr.Add("days", "want %d days for %s, got %d", period.Len(), period, len(e.Days))
		return verr
	}
	for i, d := range e.Days {
		field := fmt.Sprintf("days[%d]", i)
		if want := e.StartDate.AddDays(i); !d.Date.Equal(want) {
			verr.Add(field, "date %s, want %s", d.Date, want)
			continue
		}
		if !d.Type.Valid() {
			verr.Add(field, "unknown type %q", d.Type)
			continue
		}
		weekend := IsWeekend(d.Date)
		if d.IsWeekend != weekend || (d.Type == DayWeekend) != weekend {
			verr.Add(field, "type %q on %s", d.Type, d.Date.Weekday())
		}
	}
	return verr.ErrOrNil()
}

// =============================================================================
// DAY OVERRIDES
// =============================================================================

// DayOverride changes the type of one workday of an event.
type DayOverride struct {
	Date generic.TimePoint
	Type DayType
}

// ApplyOverrides returns a copy of days with overrides applied. Overrides
// for dates outside the range, for weekend days, or to a non-selectable type
// are rejected as a whole.
func ApplyOverrides(days []PTODay, overrides []DayOverride) ([]PTODay, error) {
	out := make([]PTODay, len(days))
	copy(out, days)

	verr := &generic.ValidationError{}
	for _, o := range overrides {
		field := "days." + o.Date.String()
		if !o.Type.Selectable() {
			verr.Add(field, "type must be full, half or holiday, got %q", o.Type)
			continue
		}
		idx := indexOfDay(out, o.Date)
		if idx < 0 {
			verr.Add(field, "date is outside the event range")
			continue
		}
		if out[idx].IsWeekend {
			verr.Add(field, "weekend days cannot be changed")
			continue
		}
		out[idx].Type = o.Type
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

func indexOfDay(days []PTODay, date generic.TimePoint) int {
	for i, d := range days {
		if d.Date.Equal(date) {
			return i
		}
	}
	return -1
}

// =============================================================================
// OVERLAP DETECTION
// =============================================================================

// OverlapError reports the existing event that blocks a date range.
type OverlapError struct {
	Candidate generic.Period
	Existing  PTOEvent
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: %s collides with %q %s",
		generic.ErrOverlappingEvent, e.Candidate, e.Existing.Name, e.Existing.Period())
}

func (e *OverlapError) Unwrap() error {
	return generic.ErrOverlappingEvent
}

// Overlaps reports whether candidate intersects any event in existing other
// than the one identified by excludeID.
func Overlaps(candidate generic.Period, existing []PTOEvent, excludeID EventID) bool {
	_, found := FindOverlap(candidate, existing, excludeID)
	return found
}

// FindOverlap returns the first event colliding with candidate.
func FindOverlap(candidate generic.Period, existing []PTOEvent, excludeID EventID) (PTOEvent, bool) {
	for _, e := range existing {
		if excludeID != "" && e.Created == excludeID {
			continue
		}
		if candidate.Overlaps(e.Period()) {
			return e, true
		}
	}
	return PTOEvent{}, false
}

// CheckOverlap is FindOverlap as an error.
func CheckOverlap(candidate generic.Period, existing []PTOEvent, excludeID EventID) error {
	if e, found := FindOverlap(candidate, existing, excludeID); found {
		return &OverlapError{Candidate: candidate, Existing: e}
	}
	return nil
}
