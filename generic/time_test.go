package generic_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/warp/pto-planner/generic"
)

// =============================================================================
// TIME POINT TESTS
// =============================================================================

func TestParseDate_RoundTrip(t *testing.T) {
	tp, err := generic.ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp.String() != "2024-02-29" {
		t.Errorf("expected 2024-02-29, got %s", tp)
	}
	if tp.Year() != 2024 || tp.Month() != time.February || tp.Day() != 29 {
		t.Errorf("unexpected components: %d-%d-%d", tp.Year(), tp.Month(), tp.Day())
	}
}

func TestParseDate_RejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "2024-13-01", "2023-02-29", "01/02/2024", "2024-1-5"} {
		if _, err := generic.ParseDate(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestDateOf_UsesLocalCalendarDay(t *testing.T) {
	// GIVEN: 23:30 on Jan 31 in UTC-5, which is already Feb 1 in UTC
	// WHEN: Taking the calendar date
	// THEN: The date is the one seen in the instant's own zone
	loc := time.FixedZone("EST", -5*60*60)
	instant := time.Date(2024, time.January, 31, 23, 30, 0, 0, loc)

	got := generic.DateOf(instant)
	if got.String() != "2024-01-31" {
		t.Errorf("expected 2024-01-31, got %s", got)
	}
}

func TestTimePoint_IsWeekend(t *testing.T) {
	cases := map[string]bool{
		"2024-01-05": false, // Friday
		"2024-01-06": true,  // Saturday
		"2024-01-07": true,  // Sunday
		"2024-01-08": false, // Monday
	}
	for s, want := range cases {
		if got := generic.MustParseDate(s).IsWeekend(); got != want {
			t.Errorf("%s: expected weekend=%t, got %t", s, want, got)
		}
	}
}

func TestTimePoint_AddDays_CrossesMonthAndLeapDay(t *testing.T) {
	start := generic.MustParseDate("2024-02-28")

	if got := start.AddDays(1); got.String() != "2024-02-29" {
		t.Errorf("expected 2024-02-29, got %s", got)
	}
	if got := start.AddDays(2); got.String() != "2024-03-01" {
		t.Errorf("expected 2024-03-01, got %s", got)
	}
	if got := start.AddDays(-28); got.String() != "2024-01-31" {
		t.Errorf("expected 2024-01-31, got %s", got)
	}
}

func TestDaysBetween_SignedWholeDays(t *testing.T) {
	jan1 := generic.MustParseDate("2024-01-01")
	feb1 := generic.MustParseDate("2024-02-01")

	if got := generic.DaysBetween(jan1, feb1); got != 31 {
		t.Errorf("expected 31, got %d", got)
	}
	if got := generic.DaysBetween(feb1, jan1); got != -31 {
		t.Errorf("expected -31, got %d", got)
	}
	if got := generic.DaysBetween(jan1, jan1); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestDaysBetween_IgnoresDSTTransition(t *testing.T) {
	// GIVEN: A range spanning the US spring-forward weekend
	// WHEN: Counting days
	// THEN: Every day counts as exactly one
	from := generic.MustParseDate("2024-03-09")
	to := generic.MustParseDate("2024-03-11")
	if got := generic.DaysBetween(from, to); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestTimePoint_JSON(t *testing.T) {
	tp := generic.MustParseDate("2024-07-04")
	data, err := json.Marshal(tp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"2024-07-04"` {
		t.Errorf("expected quoted date, got %s", data)
	}

	var back generic.TimePoint
	if err := json.Unmarshal([]byte(`"2024-07-04T10:00:00Z"`), &back); err == nil {
		t.Errorf("expected timestamps to be rejected")
	}
	if err := json.Unmarshal([]byte(`20240704`), &back); err == nil {
		t.Errorf("expected numbers to be rejected")
	}
}

// =============================================================================
// CLOCK TESTS
// =============================================================================

func TestFixedClock_ReturnsConfiguredDate(t *testing.T) {
	clock := generic.FixedClock{Date: generic.MustParseDate("2024-01-01")}
	if got := clock.Today(); got.String() != "2024-01-01" {
		t.Errorf("expected 2024-01-01, got %s", got)
	}
}

func TestSystemClock_UsesLocation(t *testing.T) {
	// Two zones 26 hours apart can never agree on the date.
	east := generic.SystemClock{Location: time.FixedZone("UTC+14", 14*60*60)}.Today()
	west := generic.SystemClock{Location: time.FixedZone("UTC-12", -12*60*60)}.Today()

	if !east.After(west) {
		t.Errorf("expected %s to be after %s", east, west)
	}
}
