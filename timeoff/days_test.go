package timeoff_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/timeoff"
)

func event(id, name, start, end string) timeoff.PTOEvent {
	return timeoff.PTOEvent{
		Created:   timeoff.EventID(id),
		Name:      name,
		StartDate: date(start),
		EndDate:   date(end),
		Days:      timeoff.BuildDays(date(start), date(end)),
	}
}

// =============================================================================
// BUILD DAYS
// =============================================================================

func TestBuildDays_FullWeek(t *testing.T) {
	// GIVEN: Monday Jan 29 through Sunday Feb 4, 2024
	// WHEN: Building the day model
	// THEN: 7 days, weekdays full, Sat/Sun weekend, 40 hours
	days := timeoff.BuildDays(date("2024-01-29"), date("2024-02-04"))

	require.Len(t, days, 7)
	for _, d := range days[:5] {
		assert.Equal(t, timeoff.DayFull, d.Type, d.Date.String())
		assert.False(t, d.IsWeekend)
	}
	for _, d := range days[5:] {
		assert.Equal(t, timeoff.DayWeekend, d.Type, d.Date.String())
		assert.True(t, d.IsWeekend)
	}
	assertHours(t, 40, timeoff.TotalHours(days))
}

func TestBuildDays_SingleDay(t *testing.T) {
	days := timeoff.BuildDays(date("2024-03-15"), date("2024-03-15"))

	require.Len(t, days, 1)
	assertHours(t, 8, timeoff.TotalHours(days))
}

func TestBuildDays_WeekendOnly(t *testing.T) {
	days := timeoff.BuildDays(date("2024-01-06"), date("2024-01-07"))

	require.Len(t, days, 2)
	assert.True(t, timeoff.TotalHours(days).IsZero())
}

func TestBuildDays_EndBeforeStart(t *testing.T) {
	assert.Empty(t, timeoff.BuildDays(date("2024-01-10"), date("2024-01-09")))
}

func TestBuildDays_WeekendFlagMatchesCalendar(t *testing.T) {
	for _, d := range timeoff.BuildDays(date("2024-02-20"), date("2024-03-20")) {
		assert.Equal(t, d.Date.IsWeekend(), d.IsWeekend, d.Date.String())
		assert.Equal(t, d.IsWeekend, d.Type == timeoff.DayWeekend, d.Date.String())
	}
}

func TestBusinessDaysBetween(t *testing.T) {
	days := timeoff.BusinessDaysBetween(date("2024-01-29"), date("2024-02-14"))
	assert.Len(t, days, 13)
}

// =============================================================================
// OVERRIDES
// =============================================================================

func TestApplyOverrides_HalfAndHoliday(t *testing.T) {
	// GIVEN: A Mon-Fri week
	// WHEN: Friday is a half day and Monday a company holiday
	// THEN: 3 x 8 + 4 + 0 = 28 hours
	days := timeoff.BuildDays(date("2024-01-29"), date("2024-02-02"))

	got, err := timeoff.ApplyOverrides(days, []timeoff.DayOverride{
		{Date: date("2024-02-02"), Type: timeoff.DayHalf},
		{Date: date("2024-01-29"), Type: timeoff.DayHoliday},
	})

	require.NoError(t, err)
	assertHours(t, 28, timeoff.TotalHours(got))
	assertHours(t, 40, timeoff.TotalHours(days))
}

func TestApplyOverrides_RejectsWeekendChange(t *testing.T) {
	days := timeoff.BuildDays(date("2024-01-29"), date("2024-02-04"))

	_, err := timeoff.ApplyOverrides(days, []timeoff.DayOverride{
		{Date: date("2024-02-03"), Type: timeoff.DayFull},
	})

	var verr *generic.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("days.2024-02-03"))
}

func TestApplyOverrides_RejectsOutOfRangeAndWeekendType(t *testing.T) {
	days := timeoff.BuildDays(date("2024-01-29"), date("2024-02-02"))

	_, err := timeoff.ApplyOverrides(days, []timeoff.DayOverride{
		{Date: date("2024-03-01"), Type: timeoff.DayHalf},
		{Date: date("2024-01-30"), Type: timeoff.DayWeekend},
	})

	var verr *generic.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
	assert.True(t, errors.Is(err, generic.ErrValidation))
}

// =============================================================================
// OVERLAP
// =============================================================================

func TestOverlaps_SharedDayCollides(t *testing.T) {
	existing := []timeoff.PTOEvent{event("a", "Ski trip", "2024-02-05", "2024-02-09")}
	candidate := generic.Period{Start: date("2024-02-09"), End: date("2024-02-12")}

	assert.True(t, timeoff.Overlaps(candidate, existing, ""))

	err := timeoff.CheckOverlap(candidate, existing, "")
	require.ErrorIs(t, err, generic.ErrOverlappingEvent)

	var overlap *timeoff.OverlapError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, timeoff.EventID("a"), overlap.Existing.Created)
}

func TestOverlaps_AdjacentDaysAllowed(t *testing.T) {
	existing := []timeoff.PTOEvent{event("a", "Ski trip", "2024-02-05", "2024-02-09")}
	candidate := generic.Period{Start: date("2024-02-10"), End: date("2024-02-12")}

	assert.False(t, timeoff.Overlaps(candidate, existing, ""))
	assert.NoError(t, timeoff.CheckOverlap(candidate, existing, ""))
}

func TestOverlaps_ExcludesEventBeingEdited(t *testing.T) {
	// GIVEN: An event being edited to a range that covers its old dates
	// WHEN: Checking with its own identity excluded
	// THEN: It does not collide with itself
	existing := []timeoff.PTOEvent{
		event("a", "Ski trip", "2024-02-05", "2024-02-09"),
		event("b", "Dentist", "2024-03-01", "2024-03-01"),
	}
	candidate := generic.Period{Start: date("2024-02-04"), End: date("2024-02-10")}

	assert.False(t, timeoff.Overlaps(candidate, existing, "a"))
	assert.True(t, timeoff.Overlaps(candidate, existing, "b"))
}

func TestOverlaps_Symmetric(t *testing.T) {
	a := event("a", "A", "2024-05-01", "2024-05-10")
	b := event("b", "B", "2024-05-10", "2024-05-20")
	c := event("c", "C", "2024-05-21", "2024-05-21")

	assert.Equal(t,
		timeoff.Overlaps(a.Period(), []timeoff.PTOEvent{b}, ""),
		timeoff.Overlaps(b.Period(), []timeoff.PTOEvent{a}, ""))
	assert.Equal(t,
		timeoff.Overlaps(b.Period(), []timeoff.PTOEvent{c}, ""),
		timeoff.Overlaps(c.Period(), []timeoff.PTOEvent{b}, ""))
}

func TestValidateDays(t *testing.T) {
	// 2024-03-01 is a Friday, 03-02 Saturday
	valid := event("a", "Trip", "2024-03-01", "2024-03-04")
	assert.NoError(t, timeoff.ValidateDays(valid))

	cases := map[string]func(e *timeoff.PTOEvent){
		"missing day":    func(e *timeoff.PTOEvent) { e.Days = e.Days[1:] },
		"extra day":      func(e *timeoff.PTOEvent) { e.Days = append(e.Days, e.Days[3]) },
		"shifted dates":  func(e *timeoff.PTOEvent) { e.Days = timeoff.BuildDays(date("2024-03-08"), date("2024-03-11")) },
		"full saturday":  func(e *timeoff.PTOEvent) { e.Days[1].Type = timeoff.DayFull },
		"weekend friday": func(e *timeoff.PTOEvent) { e.Days[0].Type = timeoff.DayWeekend },
		"unknown type":   func(e *timeoff.PTOEvent) { e.Days[3].Type = "vacation" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			e := event("a", "Trip", "2024-03-01", "2024-03-04")
			mutate(&e)
			assert.ErrorIs(t, timeoff.ValidateDays(e), generic.ErrValidation)
		})
	}
}
