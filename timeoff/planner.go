/*
planner.go - Application service for the PTO planner

PURPOSE:
  Every entry point (HTTP handlers, CLI commands, the rollover watch) goes
  through the Planner. It loads snapshots from the Store, runs validation and
  the engine, and persists the result. It keeps no data of its own.

FLOW FOR A NEW EVENT:
  1. ValidateEventInput     name and date range
  2. CheckOverlap           against every stored event
  3. BuildDays              one PTODay per date, weekends fixed
  4. ApplyOverrides         half / holiday choices for workdays
  5. ValidateEventBalance   informational; a shortage never blocks saving
  6. PutEvent               with a fresh time-ordered identity

EDITING:
  The identity (Created) never changes. If the dates change, the days are
  rebuilt from scratch and the overrides on the draft are applied to the new
  range; earlier per-day choices are discarded. If the dates are unchanged
  the stored days are the starting point.

CONCURRENCY:
  Create, update, delete and import hold the planner's lock from the overlap
  check through the write, so two requests for the same dates cannot both
  pass the check.

SEE ALSO:
  - balance.go: Engine
  - days.go: BuildDays, ApplyOverrides, CheckOverlap
  - store.go: Store
*/
package timeoff

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/warp/pto-planner/generic"
)

// EventDraft is the user-editable part of an event.
type EventDraft struct {
	Name      string
	StartDate generic.TimePoint
	EndDate   generic.TimePoint
	Overrides []DayOverride
}

// EventPreview is a fully built event that has not been persisted.
type EventPreview struct {
	Event        PTOEvent
	Availability AvailabilityResult
}

// Dashboard is the summary shown on the main screen.
type Dashboard struct {
	Today            generic.TimePoint
	Policy           AccrualPolicy
	NextAccrual      generic.TimePoint
	UpcomingAccruals []generic.AccrualEvent
	YearEnd          YearEndProjection
	RolloverWarning  bool
	PlannedHours     generic.Amount
	Events           []EventBalance

	// Paychecks still to come this year and the hours they grant.
	AccrualsLeft      int
	HoursLeftToAccrue generic.Amount
}

// dashboardAccruals is how many upcoming paychecks the dashboard lists.
const dashboardAccruals = 6

// Planner coordinates the store and the engine.
type Planner struct {
	store  Store
	engine *Engine
	clock  generic.Clock
	newID  func() (EventID, error)

	mu sync.Mutex // guards check-and-write on the event collection
}

// NewPlanner wires a planner to store. A nil clock reads the system date.
func NewPlanner(store Store, clock generic.Clock) *Planner {
	if clock == nil {
		clock = generic.SystemClock{}
	}
	return &Planner{
		store:  store,
		engine: NewEngine(clock),
		clock:  clock,
		newID:  NewEventID,
	}
}

// NewEventID returns a time-ordered unique identity for an event.
func NewEventID() (EventID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate event id: %w", err)
	}
	return EventID(id.String()), nil
}

// Today is the planner's notion of the current date.
func (p *Planner) Today() generic.TimePoint { return p.clock.Today() }

// Engine exposes the balance engine bound to the planner's clock.
func (p *Planner) Engine() *Engine { return p.engine }

// =============================================================================
// SETTINGS
// =============================================================================

// NeedsOnboarding reports whether no policy has been saved yet.
func (p *Planner) NeedsOnboarding(ctx context.Context) (bool, error) {
	_, err := p.store.LoadPolicy(ctx)
	if errors.Is(err, generic.ErrPolicyNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// SettingsVersion counts how many times the policy has been saved.
func (p *Planner) SettingsVersion(ctx context.Context) (int, error) {
	return p.store.PolicyVersion(ctx)
}

// Settings returns the saved policy, or ErrPolicyNotFound before onboarding.
func (p *Planner) Settings(ctx context.Context) (AccrualPolicy, error) {
	return p.store.LoadPolicy(ctx)
}

// SaveSettings validates and replaces the policy.
func (p *Planner) SaveSettings(ctx context.Context, policy AccrualPolicy) error {
	if err := ValidatePolicy(policy, p.Today()); err != nil {
		return err
	}
	if err := p.store.SavePolicy(ctx, policy); err != nil {
		return fmt.Errorf("save policy: %w", err)
	}
	log.Printf("[Planner] Saved policy: %s every %s, balance %s",
		policy.AccrualRate, policy.AccrualPeriodType, policy.CurrentBalance)
	return nil
}

// =============================================================================
// EVENTS
// =============================================================================

// ListEvents returns every event ordered by start date.
func (p *Planner) ListEvents(ctx context.Context) ([]PTOEvent, error) {
	events, err := p.store.LoadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	return SortEvents(events), nil
}

// Event returns a single event by identity.
func (p *Planner) Event(ctx context.Context, id EventID) (PTOEvent, error) {
	return p.store.GetEvent(ctx, id)
}

// PreviewEvent builds the event a draft would produce without saving it.
// excludeID names the event being edited, or is empty for a new event.
func (p *Planner) PreviewEvent(ctx context.Context, draft EventDraft, excludeID EventID) (EventPreview, error) {
	events, err := p.store.LoadEvents(ctx)
	if err != nil {
		return EventPreview{}, fmt.Errorf("load events: %w", err)
	}
	policy, err := p.store.LoadPolicy(ctx)
	if err != nil {
		return EventPreview{}, err
	}

	var base []PTODay
	if excludeID != "" {
		for _, e := range events {
			if e.Created == excludeID && e.StartDate.Equal(draft.StartDate) && e.EndDate.Equal(draft.EndDate) {
				base = e.Days
			}
		}
	}

	event, err := buildEvent(draft, events, excludeID, base)
	if err != nil {
		return EventPreview{}, err
	}
	event.Created = excludeID

	return EventPreview{
		Event:        event,
		Availability: p.engine.ValidateEventBalance(event, policy, events),
	}, nil
}

// CreateEvent builds and stores a new event. A balance shortage is reported
// in the result but does not block saving.
func (p *Planner) CreateEvent(ctx context.Context, draft EventDraft) (PTOEvent, AvailabilityResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	events, err := p.store.LoadEvents(ctx)
	if err != nil {
		return PTOEvent{}, AvailabilityResult{}, fmt.Errorf("load events: %w", err)
	}
	policy, err := p.store.LoadPolicy(ctx)
	if err != nil {
		return PTOEvent{}, AvailabilityResult{}, err
	}

	event, err := buildEvent(draft, events, "", nil)
	if err != nil {
		return PTOEvent{}, AvailabilityResult{}, err
	}
	if event.Created, err = p.newID(); err != nil {
		return PTOEvent{}, AvailabilityResult{}, err
	}
	for _, e := range events {
		if e.Created == event.Created {
			return PTOEvent{}, AvailabilityResult{}, fmt.Errorf("%w: %s", generic.ErrDuplicateEvent, event.Created)
		}
	}

	if err := p.store.PutEvent(ctx, event); err != nil {
		return PTOEvent{}, AvailabilityResult{}, fmt.Errorf("store event: %w", err)
	}

	result := p.engine.ValidateEventBalance(event, policy, events)
	log.Printf("[Planner] Created event %s %q (%s, %s)", event.Created, event.Name, event.Period(), event.TotalHours())
	if !result.HasEnough {
		log.Printf("[Planner] Event %q is short by %s", event.Name, result.Shortage())
	}
	return event, result, nil
}

// UpdateEvent replaces the editable fields of an existing event.
func (p *Planner) UpdateEvent(ctx context.Context, id EventID, draft EventDraft) (PTOEvent, AvailabilityResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	existing, err := p.store.GetEvent(ctx, id)
	if err != nil {
		return PTOEvent{}, AvailabilityResult{}, err
	}
	events, err := p.store.LoadEvents(ctx)
	if err != nil {
		return PTOEvent{}, AvailabilityResult{}, fmt.Errorf("load events: %w", err)
	}
	policy, err := p.store.LoadPolicy(ctx)
	if err != nil {
		return PTOEvent{}, AvailabilityResult{}, err
	}

	var base []PTODay
	if existing.StartDate.Equal(draft.StartDate) && existing.EndDate.Equal(draft.EndDate) {
		base = existing.Days
	}
	event, err := buildEvent(draft, events, id, base)
	if err != nil {
		return PTOEvent{}, AvailabilityResult{}, err
	}
	event.Created = existing.Created

	if err := p.store.PutEvent(ctx, event); err != nil {
		return PTOEvent{}, AvailabilityResult{}, fmt.Errorf("store event: %w", err)
	}
	log.Printf("[Planner] Updated event %s %q (%s, %s)", event.Created, event.Name, event.Period(), event.TotalHours())
	return event, p.engine.ValidateEventBalance(event, policy, events), nil
}

// DeleteEvent removes an event.
func (p *Planner) DeleteEvent(ctx context.Context, id EventID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.store.DeleteEvent(ctx, id); err != nil {
		return err
	}
	log.Printf("[Planner] Deleted event %s", id)
	return nil
}

// CheckAvailability evaluates a stored event against the current policy.
func (p *Planner) CheckAvailability(ctx context.Context, id EventID) (AvailabilityResult, error) {
	event, err := p.store.GetEvent(ctx, id)
	if err != nil {
		return AvailabilityResult{}, err
	}
	events, err := p.store.LoadEvents(ctx)
	if err != nil {
		return AvailabilityResult{}, fmt.Errorf("load events: %w", err)
	}
	policy, err := p.store.LoadPolicy(ctx)
	if err != nil {
		return AvailabilityResult{}, err
	}
	return p.engine.ValidateEventBalance(event, policy, events), nil
}

// Import replaces the policy, when given, and the whole event collection.
// The batch is checked as a unit: every event must be valid with one day per
// date of its range, identities must be unique and no two events may overlap.
func (p *Planner) Import(ctx context.Context, policy *AccrualPolicy, events []PTOEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if policy != nil {
		if err := ValidatePolicy(*policy, p.Today()); err != nil {
			return err
		}
	}

	seen := make(map[EventID]bool, len(events))
	for i, e := range events {
		if err := ValidateEventInput(e.Name, e.StartDate, e.EndDate); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if err := ValidateDays(e); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
		if seen[e.Created] {
			return fmt.Errorf("%w: %s", generic.ErrDuplicateEvent, e.Created)
		}
		seen[e.Created] = true
		if err := CheckOverlap(e.Period(), events[:i], ""); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}

	if policy != nil {
		if err := p.store.SavePolicy(ctx, *policy); err != nil {
			return fmt.Errorf("save policy: %w", err)
		}
	}
	if err := p.store.SaveEvents(ctx, SortEvents(events)); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	log.Printf("[Planner] Imported %d events (policy replaced: %t)", len(events), policy != nil)
	return nil
}

// UpcomingAccruals lists the next n paychecks after the last accrual date.
func (p *Planner) UpcomingAccruals(ctx context.Context, n int) ([]generic.AccrualEvent, error) {
	policy, err := p.store.LoadPolicy(ctx)
	if err != nil {
		return nil, err
	}
	return ScheduleFor(policy).Upcoming(n), nil
}

// Dashboard computes the main-screen summary.
func (p *Planner) Dashboard(ctx context.Context) (Dashboard, error) {
	policy, err := p.store.LoadPolicy(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	events, err := p.ListEvents(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	today := p.Today()
	remaining := ScheduleFor(policy).GenerateAccruals(today.AddDays(1), generic.CalendarYear(today.Year()).End)

	return Dashboard{
		Today:            today,
		Policy:           policy,
		NextAccrual:      NextAccrualDate(policy.LastAccrualDate, policy.AccrualPeriodType),
		UpcomingAccruals: ScheduleFor(policy).Upcoming(dashboardAccruals),
		YearEnd:          p.engine.YearEndProjection(policy, events),
		RolloverWarning:  ShouldWarnAboutRollover(policy),
		PlannedHours:     PlannedHours(events),
		Events:           p.engine.ProjectBalances(policy, events),

		AccrualsLeft:      len(remaining),
		HoursLeftToAccrue: generic.TotalAccrued(generic.UnitHours, remaining),
	}, nil
}

// buildEvent validates a draft and expands it into days. base, when non-nil,
// replaces the default day layout for an unchanged date range.
func buildEvent(draft EventDraft, existing []PTOEvent, excludeID EventID, base []PTODay) (PTOEvent, error) {
	if err := ValidateEventInput(draft.Name, draft.StartDate, draft.EndDate); err != nil {
		return PTOEvent{}, err
	}
	period := generic.Period{Start: draft.StartDate, End: draft.EndDate}
	if err := CheckOverlap(period, existing, excludeID); err != nil {
		return PTOEvent{}, err
	}

	days := base
	if days == nil {
		days = BuildDays(draft.StartDate, draft.EndDate)
	}
	days, err := ApplyOverrides(days, draft.Overrides)
	if err != nil {
		return PTOEvent{}, err
	}

	return PTOEvent{
		Name:      draft.Name,
		StartDate: draft.StartDate,
		EndDate:   draft.EndDate,
		Days:      days,
	}, nil
}
