package timeoff

import "github.com/warp/pto-planner/generic"

// IsWeekend reports whether date is a Saturday or Sunday.
func IsWeekend(date generic.TimePoint) bool {
	return date.IsWeekend()
}

// BusinessDaysBetween returns every day in [start, end] that is not a weekend
// day. Holidays are not removed; the caller marks them on the event.
func BusinessDaysBetween(start, end generic.TimePoint) []generic.TimePoint {
	var days []generic.TimePoint
	for _, d := range (generic.Period{Start: start, End: end}).Days() {
		if !IsWeekend(d) {
			days = append(days, d)
		}
	}
	return days
}
