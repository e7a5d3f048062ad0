/*
Package factory converts between the planner's domain types and JSON.

PURPOSE:
  One place owns every serialized shape the planner reads or writes: the
  persisted policy and event documents used by the stores, and the legacy
  documents exported from the old browser app's local storage.

POLICY JSON:
  {
    "current_balance": 40,
    "accrual_rate": 6.15,
    "accrual_period_type": "biweekly",
    "last_accrual_date": "2024-01-05",
    "max_rollover": 80,
    "max_balance": "unlimited"
  }

  Caps are either the string "unlimited" or a number. null is rejected so a
  lost value can never silently become "no limit". An absent cap key means
  unlimited.

EVENT JSON:
  {
    "created": "01903f0e-...",
    "name": "Beach week",
    "start_date": "2024-07-01",
    "end_date": "2024-07-07",
    "days": [{"date": "2024-07-01", "type": "full", "is_weekend": false}, ...],
    "total_hours": 40
  }

  total_hours is written for readers of the raw document and ignored on
  read; it is always recomputed from days.

LEGACY JSON:
  See legacy.go.

USAGE:
  policy, err := factory.ParsePolicy(data)
  doc := factory.FromPolicy(policy)

SEE ALSO:
  - timeoff/types.go: Domain types
  - store/sqlite: Stores these documents in TEXT columns
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/timeoff"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PolicyJSON is the persisted form of an accrual policy.
type PolicyJSON struct {
	CurrentBalance    float64     `json:"current_balance"`
	AccrualRate       float64     `json:"accrual_rate"`
	AccrualPeriodType string      `json:"accrual_period_type"`
	LastAccrualDate   string      `json:"last_accrual_date"`
	MaxRollover       generic.Cap `json:"max_rollover"`
	MaxBalance        generic.Cap `json:"max_balance"`
}

// DayJSON is the persisted form of one event day.
type DayJSON struct {
	Date      string `json:"date"`
	Type      string `json:"type"`
	IsWeekend bool   `json:"is_weekend"`
}

// EventJSON is the persisted form of an event.
type EventJSON struct {
	Created    string    `json:"created"`
	Name       string    `json:"name"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Days       []DayJSON `json:"days"`
	TotalHours float64   `json:"total_hours"`
}

// =============================================================================
// POLICY
// =============================================================================

// ParsePolicy decodes a policy document. The result is structurally sound
// but not validated; callers run timeoff.ValidatePolicy.
func ParsePolicy(data []byte) (timeoff.AccrualPolicy, error) {
	var pj PolicyJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return timeoff.AccrualPolicy{}, fmt.Errorf("failed to parse policy JSON: %w", err)
	}
	return pj.ToPolicy()
}

// ToPolicy converts the document into a domain policy.
func (pj PolicyJSON) ToPolicy() (timeoff.AccrualPolicy, error) {
	periodType, err := timeoff.ParseAccrualPeriodType(pj.AccrualPeriodType)
	if err != nil {
		return timeoff.AccrualPolicy{}, err
	}
	lastAccrual, err := parseOptionalDate("last_accrual_date", pj.LastAccrualDate)
	if err != nil {
		return timeoff.AccrualPolicy{}, err
	}
	return timeoff.AccrualPolicy{
		CurrentBalance:    generic.Hours(pj.CurrentBalance),
		AccrualRate:       generic.Hours(pj.AccrualRate),
		AccrualPeriodType: periodType,
		LastAccrualDate:   lastAccrual,
		MaxRollover:       pj.MaxRollover,
		MaxBalance:        pj.MaxBalance,
	}, nil
}

// FromPolicy converts a domain policy into its document.
func FromPolicy(p timeoff.AccrualPolicy) PolicyJSON {
	return PolicyJSON{
		CurrentBalance:    p.CurrentBalance.Float64(),
		AccrualRate:       p.AccrualRate.Float64(),
		AccrualPeriodType: string(p.AccrualPeriodType),
		LastAccrualDate:   formatOptionalDate(p.LastAccrualDate),
		MaxRollover:       p.MaxRollover,
		MaxBalance:        p.MaxBalance,
	}
}

// MarshalPolicy encodes p as a policy document.
func MarshalPolicy(p timeoff.AccrualPolicy) ([]byte, error) {
	return json.Marshal(FromPolicy(p))
}

// =============================================================================
// EVENTS
// =============================================================================

// ParseEvent decodes a single event document.
func ParseEvent(data []byte) (timeoff.PTOEvent, error) {
	var ej EventJSON
	if err := json.Unmarshal(data, &ej); err != nil {
		return timeoff.PTOEvent{}, fmt.Errorf("failed to parse event JSON: %w", err)
	}
	return ej.ToEvent()
}

// ToEvent converts the document into a domain event. Day types must be known
// and the weekend flag must agree with the date.
func (ej EventJSON) ToEvent() (timeoff.PTOEvent, error) {
	start, err := generic.ParseDate(ej.StartDate)
	if err != nil {
		return timeoff.PTOEvent{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := generic.ParseDate(ej.EndDate)
	if err != nil {
		return timeoff.PTOEvent{}, fmt.Errorf("end_date: %w", err)
	}
	days, err := DaysFromJSON(ej.Days)
	if err != nil {
		return timeoff.PTOEvent{}, err
	}
	return timeoff.PTOEvent{
		Created:   timeoff.EventID(ej.Created),
		Name:      ej.Name,
		StartDate: start,
		EndDate:   end,
		Days:      days,
	}, nil
}

// FromEvent converts a domain event into its document.
func FromEvent(e timeoff.PTOEvent) EventJSON {
	return EventJSON{
		Created:    string(e.Created),
		Name:       e.Name,
		StartDate:  e.StartDate.String(),
		EndDate:    e.EndDate.String(),
		Days:       DaysToJSON(e.Days),
		TotalHours: e.TotalHours().Float64(),
	}
}

// MarshalEvent encodes e as an event document.
func MarshalEvent(e timeoff.PTOEvent) ([]byte, error) {
	return json.Marshal(FromEvent(e))
}

// DaysFromJSON converts day documents into domain days.
func DaysFromJSON(in []DayJSON) ([]timeoff.PTODay, error) {
	days := make([]timeoff.PTODay, 0, len(in))
	for i, dj := range in {
		date, err := generic.ParseDate(dj.Date)
		if err != nil {
			return nil, fmt.Errorf("days[%d].date: %w", i, err)
		}
		dayType, err := timeoff.ParseDayType(dj.Type)
		if err != nil {
			return nil, fmt.Errorf("days[%d].type: %w", i, err)
		}
		weekend := timeoff.IsWeekend(date)
		if dj.IsWeekend != weekend {
			return nil, fmt.Errorf("days[%d]: is_weekend=%t disagrees with %s", i, dj.IsWeekend, date)
		}
		if weekend != (dayType == timeoff.DayWeekend) {
			return nil, fmt.Errorf("days[%d]: type %q on %s", i, dayType, date.Weekday())
		}
		days = append(days, timeoff.PTODay{Date: date, Type: dayType, IsWeekend: weekend})
	}
	return days, nil
}

// DaysToJSON converts domain days into day documents.
func DaysToJSON(days []timeoff.PTODay) []DayJSON {
	out := make([]DayJSON, 0, len(days))
	for _, d := range days {
		out = append(out, DayJSON{Date: d.Date.String(), Type: string(d.Type), IsWeekend: d.IsWeekend})
	}
	return out
}

func parseOptionalDate(field, s string) (generic.TimePoint, error) {
	if s == "" {
		return generic.TimePoint{}, nil
	}
	tp, err := generic.ParseDate(s)
	if err != nil {
		return generic.TimePoint{}, fmt.Errorf("%s: %w", field, err)
	}
	return tp, nil
}

func formatOptionalDate(tp generic.TimePoint) string {
	if tp.IsZero() {
		return ""
	}
	return tp.String()
}
