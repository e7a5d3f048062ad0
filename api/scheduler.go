/*
scheduler.go - Rollover watch

PURPOSE:
  Periodically re-evaluates the saved policy against today's date and logs
  a warning when hours are about to be lost at year end. The planner is
  single-user and keeps no notification channel; the log line and the last
  status (exposed over the API) are the whole output.

DESIGN:
  - robfig/cron drives the schedule (standard 5-field spec, default 08:00)
  - Each run evaluates the policy afresh; nothing is persisted
  - Before onboarding a run is a no-op that records NeedsOnboarding

CONFIGURATION:
  - Spec:    cron expression (scheduler.spec)
  - Enabled: whether Start schedules anything (scheduler.enabled)

USAGE:
  watch := NewRolloverWatch(planner, "0 8 * * *", time.Local)
  if err := watch.Start(); err != nil { ... }
  defer watch.Stop()

SEE ALSO:
  - timeoff/balance.go: ShouldWarnAboutRollover, YearEndProjection
  - handlers.go: POST /api/rollover/check
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/timeoff"
)

// DefaultRolloverSpec runs the watch every morning at 08:00.
const DefaultRolloverSpec = "0 8 * * *"

// RolloverStatus is the outcome of one watch run.
type RolloverStatus struct {
	CheckedAt       time.Time
	NeedsOnboarding bool
	Warning         bool
	YearEnd         timeoff.YearEndProjection
}

// RolloverWatch runs the rollover check on a cron schedule.
type RolloverWatch struct {
	Planner *timeoff.Planner
	Spec    string
	Enabled bool

	loc     *time.Location
	cron    *cron.Cron
	running bool
	last    *RolloverStatus
	mu      sync.Mutex
}

// NewRolloverWatch creates an enabled watch. A nil location means time.Local.
func NewRolloverWatch(planner *timeoff.Planner, spec string, loc *time.Location) *RolloverWatch {
	if spec == "" {
		spec = DefaultRolloverSpec
	}
	if loc == nil {
		loc = time.Local
	}
	return &RolloverWatch{
		Planner: planner,
		Spec:    spec,
		Enabled: true,
		loc:     loc,
	}
}

// Start schedules the check on a fresh cron, so a stopped watch can be
// started again without doubling the job. An invalid spec is returned as an
// error.
func (rw *RolloverWatch) Start() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if !rw.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return nil
	}
	if rw.running {
		return nil
	}

	c := cron.New(cron.WithLocation(rw.loc))
	if _, err := c.AddFunc(rw.Spec, rw.runScheduled); err != nil {
		return fmt.Errorf("invalid scheduler spec %q: %w", rw.Spec, err)
	}
	c.Start()
	rw.cron = c
	rw.running = true

	log.Printf("[Scheduler] Started rollover watch (%s)", rw.Spec)
	return nil
}

// Stop waits for a running check to finish.
func (rw *RolloverWatch) Stop() {
	rw.mu.Lock()
	if !rw.running {
		rw.mu.Unlock()
		return
	}
	rw.running = false
	c := rw.cron
	rw.mu.Unlock()

	ctx := c.Stop()
	<-ctx.Done()
	log.Println("[Scheduler] Stopped")
}

// LastStatus returns the most recent run, if any.
func (rw *RolloverWatch) LastStatus() (RolloverStatus, bool) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.last == nil {
		return RolloverStatus{}, false
	}
	return *rw.last, true
}

func (rw *RolloverWatch) runScheduled() {
	if _, err := rw.RunNow(context.Background()); err != nil {
		log.Printf("[Scheduler] Rollover check failed: %v", err)
	}
}

// RunNow performs one check immediately.
func (rw *RolloverWatch) RunNow(ctx context.Context) (RolloverStatus, error) {
	status := RolloverStatus{CheckedAt: time.Now()}

	policy, err := rw.Planner.Settings(ctx)
	if errors.Is(err, generic.ErrPolicyNotFound) {
		status.NeedsOnboarding = true
		rw.record(status)
		log.Println("[Scheduler] No policy saved yet, skipping rollover check")
		return status, nil
	}
	if err != nil {
		return RolloverStatus{}, err
	}
	events, err := rw.Planner.ListEvents(ctx)
	if err != nil {
		return RolloverStatus{}, err
	}

	status.YearEnd = rw.Planner.Engine().YearEndProjection(policy, events)
	status.Warning = timeoff.ShouldWarnAboutRollover(policy) || status.YearEnd.WillExceedRollover
	rw.record(status)

	switch {
	case status.YearEnd.WillExceedRollover:
		log.Printf("[Scheduler] %s at risk on %s (projected %s, max rollover %s)",
			status.YearEnd.HoursAtRisk, status.YearEnd.YearEnd, status.YearEnd.ProjectedBalance, policy.MaxRollover)
	case status.Warning:
		log.Printf("[Scheduler] Balance %s is above 80%% of max rollover %s",
			policy.CurrentBalance, policy.MaxRollover)
	default:
		log.Printf("[Scheduler] Rollover check ok (projected %s on %s)",
			status.YearEnd.ProjectedBalance, status.YearEnd.YearEnd)
	}
	return status, nil
}

func (rw *RolloverWatch) record(status RolloverStatus) {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	rw.last = &status
}
