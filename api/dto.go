/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Settings and events
  reuse the persisted documents from the factory package so the API and the
  database agree on field names; everything computed gets its own DTO.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Settings:
    factory.PolicyJSON (both directions)

  Events:
    EventRequest, DayOverrideDTO, EventDTO, AvailabilityDTO

  Summary:
    SummaryDTO, YearEndDTO, AccrualDTO, EventBalanceDTO

VALIDATION:
  Validation is done by the planner, not in DTOs. Parsing only turns strings
  into dates; a malformed date becomes a field error like a missing one.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/policy.go: PolicyJSON and EventJSON
*/
package api

import (
	"github.com/warp/pto-planner/factory"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/timeoff"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// DayOverrideDTO picks a type for one workday of an event.
type DayOverrideDTO struct {
	Date string `json:"date"`
	Type string `json:"type"`
}

// EventRequest is the body of create, update and preview requests.
type EventRequest struct {
	Name      string           `json:"name"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Days      []DayOverrideDTO `json:"days,omitempty"`
}

// AvailabilityDTO is the balance check for one event.
type AvailabilityDTO struct {
	AvailableHours float64 `json:"available_hours"`
	HasEnough      bool    `json:"has_enough"`
	Difference     float64 `json:"difference"`
	Shortage       float64 `json:"shortage"`
}

// EventDTO is an event with its optional balance check.
type EventDTO struct {
	factory.EventJSON
	Availability *AvailabilityDTO `json:"availability,omitempty"`
}

// EventBalanceDTO is one row of the dashboard timeline.
type EventBalanceDTO struct {
	Created      string          `json:"created"`
	Name         string          `json:"name"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	TotalHours   float64         `json:"total_hours"`
	Availability AvailabilityDTO `json:"availability"`
	Banked       float64         `json:"banked"`
}

// YearEndDTO is the Dec 31 projection.
type YearEndDTO struct {
	YearEnd            string  `json:"year_end"`
	ProjectedBalance   float64 `json:"projected_balance"`
	WillExceedRollover bool    `json:"will_exceed_rollover"`
	HoursAtRisk        float64 `json:"hours_at_risk"`
}

// AccrualDTO is one upcoming paycheck.
type AccrualDTO struct {
	Date   string  `json:"date"`
	Hours  float64 `json:"hours"`
	Reason string  `json:"reason"`
}

// SummaryDTO is the dashboard.
type SummaryDTO struct {
	Today            string             `json:"today"`
	Settings         factory.PolicyJSON `json:"settings"`
	NextAccrual      string             `json:"next_accrual"`
	UpcomingAccruals []AccrualDTO       `json:"upcoming_accruals"`
	YearEnd          YearEndDTO         `json:"year_end"`
	RolloverWarning  bool               `json:"rollover_warning"`
	PlannedHours     float64            `json:"planned_hours"`
	Events           []EventBalanceDTO  `json:"events"`
	AccrualsLeft     int                `json:"accruals_left"`
	HoursLeft        float64            `json:"hours_left_to_accrue"`
}

// ImportResponse reports what a legacy import replaced.
type ImportResponse struct {
	PolicyReplaced bool `json:"policy_replaced"`
	EventsImported int  `json:"events_imported"`
}

// RolloverCheckDTO is the result of one rollover watch run.
type RolloverCheckDTO struct {
	CheckedAt       string      `json:"checked_at"`
	NeedsOnboarding bool        `json:"needs_onboarding"`
	Warning         bool        `json:"warning"`
	YearEnd         *YearEndDTO `json:"year_end,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

// toDraft parses dates. Empty dates stay zero so the planner reports them as
// required; malformed ones are field errors here.
func (req EventRequest) toDraft() (timeoff.EventDraft, error) {
	verr := &generic.ValidationError{}
	draft := timeoff.EventDraft{Name: req.Name}

	draft.StartDate = parseDateField(verr, "start_date", req.StartDate)
	draft.EndDate = parseDateField(verr, "end_date", req.EndDate)

	for _, d := range req.Days {
		field := "days." + d.Date
		date, err := generic.ParseDate(d.Date)
		if err != nil {
			verr.Add(field, "invalid date")
			continue
		}
		dayType, err := timeoff.ParseDayType(d.Type)
		if err != nil {
			verr.Add(field, "%s", err.Error())
			continue
		}
		draft.Overrides = append(draft.Overrides, timeoff.DayOverride{Date: date, Type: dayType})
	}

	if err := verr.ErrOrNil(); err != nil {
		return timeoff.EventDraft{}, err
	}
	return draft, nil
}

func parseDateField(verr *generic.ValidationError, field, value string) generic.TimePoint {
	if value == "" {
		return generic.TimePoint{}
	}
	tp, err := generic.ParseDate(value)
	if err != nil {
		verr.Add(field, "must be a YYYY-MM-DD date")
		return generic.TimePoint{}
	}
	return tp
}

func toAvailabilityDTO(r timeoff.AvailabilityResult) AvailabilityDTO {
	return AvailabilityDTO{
		AvailableHours: r.AvailableHours.Float64(),
		HasEnough:      r.HasEnough,
		Difference:     r.Difference.Float64(),
		Shortage:       r.Shortage().Float64(),
	}
}

func toEventDTO(e timeoff.PTOEvent, availability *timeoff.AvailabilityResult) EventDTO {
	dto := EventDTO{EventJSON: factory.FromEvent(e)}
	if availability != nil {
		a := toAvailabilityDTO(*availability)
		dto.Availability = &a
	}
	return dto
}

func toYearEndDTO(p timeoff.YearEndProjection) YearEndDTO {
	return YearEndDTO{
		YearEnd:            p.YearEnd.String(),
		ProjectedBalance:   p.ProjectedBalance.Float64(),
		WillExceedRollover: p.WillExceedRollover,
		HoursAtRisk:        p.HoursAtRisk.Float64(),
	}
}

func toAccrualDTOs(events []generic.AccrualEvent) []AccrualDTO {
	out := make([]AccrualDTO, 0, len(events))
	for _, e := range events {
		out = append(out, AccrualDTO{Date: e.At.String(), Hours: e.Amount.Float64(), Reason: e.Reason})
	}
	return out
}

func toSummaryDTO(d timeoff.Dashboard) SummaryDTO {
	events := make([]EventBalanceDTO, 0, len(d.Events))
	for _, eb := range d.Events {
		events = append(events, EventBalanceDTO{
			Created:      string(eb.Event.Created),
			Name:         eb.Event.Name,
			StartDate:    eb.Event.StartDate.String(),
			EndDate:      eb.Event.EndDate.String(),
			TotalHours:   eb.Event.TotalHours().Float64(),
			Availability: toAvailabilityDTO(eb.Availability),
			Banked:       eb.Banked.Float64(),
		})
	}
	return SummaryDTO{
		Today:            d.Today.String(),
		Settings:         factory.FromPolicy(d.Policy),
		NextAccrual:      d.NextAccrual.String(),
		UpcomingAccruals: toAccrualDTOs(d.UpcomingAccruals),
		YearEnd:          toYearEndDTO(d.YearEnd),
		RolloverWarning:  d.RolloverWarning,
		PlannedHours:     d.PlannedHours.Float64(),
		Events:           events,
		AccrualsLeft:     d.AccrualsLeft,
		HoursLeft:        d.HoursLeftToAccrue.Float64(),
	}
}
