/*
handlers.go - HTTP API handlers for the PTO planner

PURPOSE:
  Exposes the planner via a small REST API. Handles HTTP request/response
  and JSON serialization, and delegates everything else to timeoff.Planner.

ENDPOINTS:
  Status:
    GET    /api/status                    Versions, today and onboarding state

  Settings:
    GET    /api/settings                  Saved policy (404 before onboarding)
    PUT    /api/settings                  Validate and replace the policy
    GET    /api/settings/default          Starting point for onboarding

  Events:
    GET    /api/events                    All events by start date
    POST   /api/events                    Create an event
    POST   /api/events/preview            Build an event without saving it
    GET    /api/events/{id}               One event
    PUT    /api/events/{id}               Edit an event (identity kept)
    DELETE /api/events/{id}               Remove an event
    GET    /api/events/{id}/availability  Balance check at its start date

  Planning:
    GET    /api/summary                   Dashboard
    GET    /api/accruals?count=N          Upcoming paychecks
    GET    /api/export.xlsx               Dashboard as a workbook
    POST   /api/import                    Replace data from a browser export
    GET    /api/rollover                  Last rollover watch result
    POST   /api/rollover/check            Run the rollover watch now

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors (details lists the fields), malformed JSON
  - 404: Unknown event, or no policy yet (code onboarding_required)
  - 409: Overlapping dates, duplicate identity
  - 413: Import document over 4 MiB
  - 500: Internal errors

SECURITY NOTE:
  No authentication. The planner is a single-user tool meant for localhost.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/pto-planner/factory"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/report"
	"github.com/warp/pto-planner/timeoff"
)

const (
	defaultAccrualCount = 6
	maxAccrualCount     = 104
	maxImportBytes      = 4 << 20
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Planner *timeoff.Planner
	Watch   *RolloverWatch
	Version string // reported by GET /api/status
}

// NewHandler creates a handler. watch may be nil when the scheduler is off.
func NewHandler(planner *timeoff.Planner, watch *RolloverWatch) *Handler {
	return &Handler{Planner: planner, Watch: watch}
}

// =============================================================================
// STATUS / SETTINGS
// =============================================================================

// GetStatus reports the build and settings versions, today's date and
// whether onboarding is pending.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	needs, err := h.Planner.NeedsOnboarding(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	settingsVersion, err := h.Planner.SettingsVersion(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	version := h.Version
	if version == "" {
		version = "dev"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version":          version,
		"settings_version": settingsVersion,
		"today":            h.Planner.Today().String(),
		"needs_onboarding": needs,
	})
}

// GetSettings returns the saved policy.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	policy, err := h.Planner.Settings(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, factory.FromPolicy(policy))
}

// GetDefaultSettings returns the onboarding defaults.
func (h *Handler) GetDefaultSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, factory.FromPolicy(timeoff.DefaultPolicy(h.Planner.Today())))
}

// PutSettings validates and replaces the policy.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	var req factory.PolicyJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid request body", err)
		return
	}
	policy, err := req.ToPolicy()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_settings", "Invalid settings", err)
		return
	}
	if err := h.Planner.SaveSettings(r.Context(), policy); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, factory.FromPolicy(policy))
}

// =============================================================================
// EVENTS
// =============================================================================

// ListEvents returns every event by start date.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Planner.ListEvents(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, toEventDTO(e, nil))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEvent returns one event.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.Planner.Event(r.Context(), eventID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTO(event, nil))
}

// CreateEvent builds and stores an event.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	event, availability, err := h.Planner.CreateEvent(r.Context(), draft)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventDTO(event, &availability))
}

// PreviewEvent builds an event without saving it. ?exclude=<id> previews an
// edit of that event.
func (h *Handler) PreviewEvent(w http.ResponseWriter, r *http.Request) {
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	exclude := timeoff.EventID(r.URL.Query().Get("exclude"))
	preview, err := h.Planner.PreviewEvent(r.Context(), draft, exclude)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTO(preview.Event, &preview.Availability))
}

// UpdateEvent edits an event in place.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}
	event, availability, err := h.Planner.UpdateEvent(r.Context(), eventID(r), draft)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTO(event, &availability))
}

// DeleteEvent removes an event.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.Planner.DeleteEvent(r.Context(), eventID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAvailability checks a stored event against the policy.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	result, err := h.Planner.CheckAvailability(r.Context(), eventID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAvailabilityDTO(result))
}

// =============================================================================
// PLANNING
// =============================================================================

// GetSummary returns the dashboard.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Planner.Dashboard(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(dash))
}

// GetAccruals lists upcoming paychecks.
func (h *Handler) GetAccruals(w http.ResponseWriter, r *http.Request) {
	count := defaultAccrualCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxAccrualCount {
			writeError(w, http.StatusBadRequest, "invalid_count",
				fmt.Sprintf("count must be between 1 and %d", maxAccrualCount), err)
			return
		}
		count = n
	}
	accruals, err := h.Planner.UpcomingAccruals(r.Context(), count)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccrualDTOs(accruals))
}

// ExportWorkbook streams the dashboard as xlsx.
func (h *Handler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Planner.Dashboard(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	f, err := report.Workbook(dash)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export_failed", "Failed to build workbook", err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", report.Filename(dash.Today)))
	if err := f.Write(w); err != nil {
		writeError(w, http.StatusInternalServerError, "export_failed", "Failed to write workbook", err)
	}
}

// ImportLegacy replaces data from a browser localStorage export.
func (h *Handler) ImportLegacy(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large",
				fmt.Sprintf("Import document exceeds %d bytes", maxImportBytes), err)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_json", "Failed to read request body", err)
		return
	}
	policy, events, err := factory.ParseLegacyBundle(body)
	if err != nil {
		if generic.IsClientError(err) {
			writeDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_import", "Invalid import document", err)
		return
	}
	if err := h.Planner.Import(r.Context(), policy, events); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{PolicyReplaced: policy != nil, EventsImported: len(events)})
}

// GetRolloverStatus returns the last watch run.
func (h *Handler) GetRolloverStatus(w http.ResponseWriter, r *http.Request) {
	if h.Watch == nil {
		writeError(w, http.StatusNotFound, "scheduler_disabled", "Rollover watch is disabled", nil)
		return
	}
	status, ok := h.Watch.LastStatus()
	if !ok {
		writeError(w, http.StatusNotFound, "not_run_yet", "Rollover watch has not run yet", nil)
		return
	}
	writeJSON(w, http.StatusOK, toRolloverCheckDTO(status))
}

// CheckRollover runs the watch immediately.
func (h *Handler) CheckRollover(w http.ResponseWriter, r *http.Request) {
	if h.Watch == nil {
		writeError(w, http.StatusNotFound, "scheduler_disabled", "Rollover watch is disabled", nil)
		return
	}
	status, err := h.Watch.RunNow(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRolloverCheckDTO(status))
}

// =============================================================================
// HELPERS
// =============================================================================

func eventID(r *http.Request) timeoff.EventID {
	return timeoff.EventID(chi.URLParam(r, "id"))
}

func decodeDraft(w http.ResponseWriter, r *http.Request) (timeoff.EventDraft, bool) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid request body", err)
		return timeoff.EventDraft{}, false
	}
	draft, err := req.toDraft()
	if err != nil {
		writeDomainError(w, err)
		return timeoff.EventDraft{}, false
	}
	return draft, true
}

func toRolloverCheckDTO(s RolloverStatus) RolloverCheckDTO {
	dto := RolloverCheckDTO{
		CheckedAt:       s.CheckedAt.Format(time.RFC3339),
		NeedsOnboarding: s.NeedsOnboarding,
		Warning:         s.Warning,
	}
	if !s.NeedsOnboarding {
		ye := toYearEndDTO(s.YearEnd)
		dto.YearEnd = &ye
	}
	return dto
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string, err error) {
	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps planner errors onto statuses and codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *generic.ValidationError
	var overlap *timeoff.OverlapError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Code:    "validation_failed",
			Details: verr.Fields,
		})
	case errors.As(err, &overlap):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:   err.Error(),
			Code:    "overlapping_event",
			Details: toEventDTO(overlap.Existing, nil),
		})
	case errors.Is(err, generic.ErrDuplicateEvent):
		writeError(w, http.StatusConflict, "duplicate_event", "Duplicate event", err)
	case errors.Is(err, generic.ErrPolicyNotFound):
		writeError(w, http.StatusNotFound, "onboarding_required", "No settings saved yet", err)
	case errors.Is(err, generic.ErrEventNotFound):
		writeError(w, http.StatusNotFound, "event_not_found", "Event not found", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal error", err)
	}
}
