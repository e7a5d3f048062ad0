package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/timeoff"
)

// =============================================================================
// LEGACY BROWSER STORAGE
// =============================================================================
//
// The browser version kept two localStorage keys:
//
//   timeOffSettings  {"currentBalance": 40, "accrualRate": 6.15,
//                     "accrualPeriodType": "biweekly", "lastAccrualDate": "2024-01-05",
//                     "hasMaxRollover": true, "maxRollover": 80,
//                     "hasMaxBalance": false, "maxBalance": null}
//   timeOffEvents    [{"name": ..., "startDate": ..., "endDate": ...,
//                      "days": [{"date": ..., "type": ..., "isWeekend": ...}],
//                      "totalHours": 40, "created": "2024-01-03"}]
//
// Unlimited caps were stored as Infinity, which JSON.stringify writes as null.
// Early builds named the period field payPeriodType. "created" was a plain
// date and is not unique, so imported events get fresh identities. Weekend
// days were stored with type "full" and the isWeekend flag.

// Legacy localStorage keys.
const (
	LegacySettingsKey = "timeOffSettings"
	LegacyEventsKey   = "timeOffEvents"
)

// LegacySettingsJSON is the browser app's settings document.
type LegacySettingsJSON struct {
	CurrentBalance    float64  `json:"currentBalance"`
	AccrualRate       float64  `json:"accrualRate"`
	AccrualPeriodType string   `json:"accrualPeriodType"`
	PayPeriodType     string   `json:"payPeriodType,omitempty"`
	LastAccrualDate   string   `json:"lastAccrualDate"`
	HasMaxRollover    bool     `json:"hasMaxRollover"`
	MaxRollover       *float64 `json:"maxRollover"`
	HasMaxBalance     bool     `json:"hasMaxBalance"`
	MaxBalance        *float64 `json:"maxBalance"`
}

// LegacyDayJSON is one day of a browser app event.
type LegacyDayJSON struct {
	Date      string `json:"date"`
	Type      string `json:"type"`
	IsWeekend bool   `json:"isWeekend"`
}

// LegacyEventJSON is the browser app's event document.
type LegacyEventJSON struct {
	Name       string          `json:"name"`
	StartDate  string          `json:"startDate"`
	EndDate    string          `json:"endDate"`
	Days       []LegacyDayJSON `json:"days"`
	TotalHours float64         `json:"totalHours"`
	Created    string          `json:"created"`
}

// LegacyBundle is a dump of both localStorage keys.
type LegacyBundle struct {
	Settings *LegacySettingsJSON `json:"timeOffSettings,omitempty"`
	Events   []LegacyEventJSON   `json:"timeOffEvents,omitempty"`
}

// ParseLegacySettings decodes a timeOffSettings value.
func ParseLegacySettings(data []byte) (timeoff.AccrualPolicy, error) {
	var ls LegacySettingsJSON
	if err := json.Unmarshal(data, &ls); err != nil {
		return timeoff.AccrualPolicy{}, fmt.Errorf("failed to parse legacy settings: %w", err)
	}
	return ls.ToPolicy()
}

// ToPolicy converts legacy settings. A cap is limited only when its flag is
// set and its value is a number.
func (ls LegacySettingsJSON) ToPolicy() (timeoff.AccrualPolicy, error) {
	periodName := ls.AccrualPeriodType
	if periodName == "" {
		periodName = ls.PayPeriodType
	}
	periodType, err := timeoff.ParseAccrualPeriodType(periodName)
	if err != nil {
		return timeoff.AccrualPolicy{}, err
	}
	lastAccrual, err := parseOptionalDate("lastAccrualDate", ls.LastAccrualDate)
	if err != nil {
		return timeoff.AccrualPolicy{}, err
	}
	return timeoff.AccrualPolicy{
		CurrentBalance:    generic.Hours(ls.CurrentBalance),
		AccrualRate:       generic.Hours(ls.AccrualRate),
		AccrualPeriodType: periodType,
		LastAccrualDate:   lastAccrual,
		MaxRollover:       legacyCap(ls.HasMaxRollover, ls.MaxRollover),
		MaxBalance:        legacyCap(ls.HasMaxBalance, ls.MaxBalance),
	}, nil
}

func legacyCap(has bool, value *float64) generic.Cap {
	if !has || value == nil {
		return generic.UnlimitedCap()
	}
	return generic.LimitedCap(generic.Hours(*value))
}

// ParseLegacyEvents decodes a timeOffEvents value.
func ParseLegacyEvents(data []byte) ([]timeoff.PTOEvent, error) {
	var les []LegacyEventJSON
	if err := json.Unmarshal(data, &les); err != nil {
		return nil, fmt.Errorf("failed to parse legacy events: %w", err)
	}
	return LegacyEventsToDomain(les)
}

// LegacyEventsToDomain converts legacy events and assigns fresh identities.
// Events without days get the default layout for their range.
func LegacyEventsToDomain(les []LegacyEventJSON) ([]timeoff.PTOEvent, error) {
	events := make([]timeoff.PTOEvent, 0, len(les))
	for i, le := range les {
		event, err := le.ToEvent()
		if err != nil {
			return nil, fmt.Errorf("event %d (%q): %w", i, le.Name, err)
		}
		events = append(events, event)
	}
	return events, nil
}

// ToEvent converts one legacy event.
func (le LegacyEventJSON) ToEvent() (timeoff.PTOEvent, error) {
	start, err := generic.ParseDate(le.StartDate)
	if err != nil {
		return timeoff.PTOEvent{}, fmt.Errorf("startDate: %w", err)
	}
	end, err := generic.ParseDate(le.EndDate)
	if err != nil {
		return timeoff.PTOEvent{}, fmt.Errorf("endDate: %w", err)
	}
	if err := timeoff.ValidateEventInput(le.Name, start, end); err != nil {
		return timeoff.PTOEvent{}, err
	}

	days, err := le.buildDays(start, end)
	if err != nil {
		return timeoff.PTOEvent{}, err
	}

	id, err := timeoff.NewEventID()
	if err != nil {
		return timeoff.PTOEvent{}, err
	}
	return timeoff.PTOEvent{
		Created:   id,
		Name:      le.Name,
		StartDate: start,
		EndDate:   end,
		Days:      days,
	}, nil
}

// buildDays lays the stored day types over the default layout for the range.
// The browser saved weekend days as {"type": "full", "isWeekend": true}, so
// weekend dates take their type from the calendar and the stored type is
// ignored. Days missing from the document stay full.
func (le LegacyEventJSON) buildDays(start, end generic.TimePoint) ([]timeoff.PTODay, error) {
	days := timeoff.BuildDays(start, end)
	period := generic.Period{Start: start, End: end}

	seen := make(map[string]bool, len(le.Days))
	overrides := make([]timeoff.DayOverride, 0, len(le.Days))
	for i, ld := range le.Days {
		date, err := generic.ParseDate(ld.Date)
		if err != nil {
			return nil, fmt.Errorf("days[%d].date: %w", i, err)
		}
		if !period.Contains(date) {
			return nil, fmt.Errorf("days[%d]: %s is outside %s", i, date, period)
		}
		if seen[date.String()] {
			return nil, fmt.Errorf("days[%d]: %s appears twice", i, date)
		}
		seen[date.String()] = true
		if timeoff.IsWeekend(date) {
			continue
		}
		dayType, err := timeoff.ParseDayType(ld.Type)
		if err != nil {
			return nil, fmt.Errorf("days[%d].type: %w", i, err)
		}
		overrides = append(overrides, timeoff.DayOverride{Date: date, Type: dayType})
	}
	return timeoff.ApplyOverrides(days, overrides)
}

// ParseLegacyBundle decodes a dump of both keys.
func ParseLegacyBundle(data []byte) (*timeoff.AccrualPolicy, []timeoff.PTOEvent, error) {
	var bundle LegacyBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, nil, fmt.Errorf("failed to parse legacy bundle: %w", err)
	}
	var policy *timeoff.AccrualPolicy
	if bundle.Settings != nil {
		p, err := bundle.Settings.ToPolicy()
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", LegacySettingsKey, err)
		}
		policy = &p
	}
	events, err := LegacyEventsToDomain(bundle.Events)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LegacyEventsKey, err)
	}
	return policy, events, nil
}
