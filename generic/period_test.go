package generic_test

import (
	"errors"
	"testing"

	"github.com/warp/pto-planner/generic"
)

func period(start, end string) generic.Period {
	return generic.Period{Start: generic.MustParseDate(start), End: generic.MustParseDate(end)}
}

func TestPeriod_Days_Inclusive(t *testing.T) {
	days := period("2024-01-29", "2024-02-02").Days()
	if len(days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(days))
	}
	if days[0].String() != "2024-01-29" || days[4].String() != "2024-02-02" {
		t.Errorf("unexpected bounds: %s .. %s", days[0], days[4])
	}
}

func TestPeriod_Days_SingleDay(t *testing.T) {
	p := period("2024-03-15", "2024-03-15")
	if got := len(p.Days()); got != 1 {
		t.Errorf("expected 1 day, got %d", got)
	}
	if p.Len() != 1 {
		t.Errorf("expected Len 1, got %d", p.Len())
	}
}

func TestPeriod_Inverted(t *testing.T) {
	p := period("2024-03-15", "2024-03-14")
	if len(p.Days()) != 0 {
		t.Errorf("expected no days for an inverted period")
	}
	if p.Len() != 0 {
		t.Errorf("expected Len 0, got %d", p.Len())
	}
	if err := p.Validate(); !errors.Is(err, generic.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestPeriod_Overlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b generic.Period
		want bool
	}{
		{"disjoint", period("2024-01-01", "2024-01-05"), period("2024-01-06", "2024-01-10"), false},
		{"shared boundary day", period("2024-01-01", "2024-01-05"), period("2024-01-05", "2024-01-10"), true},
		{"contained", period("2024-01-01", "2024-01-31"), period("2024-01-10", "2024-01-12"), true},
		{"identical single day", period("2024-01-10", "2024-01-10"), period("2024-01-10", "2024-01-10"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Errorf("a.Overlaps(b): expected %t, got %t", tc.want, got)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Errorf("b.Overlaps(a): expected %t, got %t", tc.want, got)
			}
		})
	}
}

func TestCalendarYear(t *testing.T) {
	p := generic.CalendarYear(2024)
	if p.Start.String() != "2024-01-01" {
		t.Errorf("expected Jan 1, got %s", p.Start)
	}
	if p.End.String() != "2024-12-31" {
		t.Errorf("expected Dec 31, got %s", p.End)
	}
	if p.Len() != 366 {
		t.Errorf("expected 366 days in 2024, got %d", p.Len())
	}
}
