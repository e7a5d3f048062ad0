/*
errors.go - Centralized error types for the planner

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Validation errors - Malformed input rejected before the engine runs
  2. Business-rule errors - Overlapping events, duplicate identities
  3. Lookup errors - Missing policy (onboarding) or missing event

USAGE:
  if errors.Is(err, generic.ErrOverlappingEvent) {
      // keep the user on the date step
  }

  var verr *generic.ValidationError
  if errors.As(err, &verr) {
      for _, f := range verr.Fields { ... }
  }

SEE ALSO:
  - timeoff/validation.go: Builds ValidationErrors
  - timeoff/days.go: OverlapError
  - api/handlers.go: Maps errors to HTTP statuses
*/
package generic

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of every input validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrOverlappingEvent is returned when an event's dates intersect another event.
	ErrOverlappingEvent = errors.New("dates overlap an existing event")

	// ErrDuplicateEvent is returned when two events would share an identity token.
	ErrDuplicateEvent = errors.New("duplicate event identity")

	// ErrPolicyNotFound is returned when no accrual policy has been saved yet.
	ErrPolicyNotFound = errors.New("policy not found")

	// ErrEventNotFound is returned when a referenced event doesn't exist.
	ErrEventNotFound = errors.New("event not found")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// FieldError is one failed check on one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string { return f.Field + ": " + f.Message }

// ValidationError collects every field failure found in one pass so a form
// can show all of them at once.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Add records a field failure.
func (e *ValidationError) Add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Has reports whether field failed.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// ErrOrNil returns e when it holds failures, nil otherwise.
func (e *ValidationError) ErrOrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsConflict returns true if the error is a business-rule rejection.
func IsConflict(err error) bool {
	return errors.Is(err, ErrOverlappingEvent) ||
		errors.Is(err, ErrDuplicateEvent)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPolicyNotFound) ||
		errors.Is(err, ErrEventNotFound)
}
