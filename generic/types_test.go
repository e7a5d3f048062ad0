package generic_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/warp/pto-planner/generic"
)

func hours(n float64) generic.Amount {
	return generic.Hours(n)
}

// =============================================================================
// AMOUNT TESTS
// =============================================================================

func TestAmount_DecimalPrecision(t *testing.T) {
	// 0.1 + 0.2 must compare equal to 0.3 for threshold checks to be exact.
	sum := hours(0.1).Add(hours(0.2))
	if !sum.Equal(hours(0.3)) {
		t.Errorf("expected 0.3, got %s", sum)
	}
}

func TestAmount_MulIntAndNeg(t *testing.T) {
	got := hours(6.15).MulInt(26)
	if !got.Equal(hours(159.9)) {
		t.Errorf("expected 159.9, got %s", got)
	}
	if !got.Neg().IsNegative() {
		t.Errorf("expected negation to be negative")
	}
}

func TestSum_Empty(t *testing.T) {
	total := generic.Sum(generic.UnitHours)
	if !total.IsZero() || total.Unit != generic.UnitHours {
		t.Errorf("expected zero hours, got %s", total)
	}
}

// =============================================================================
// CAP TESTS
// =============================================================================

func TestCap_ZeroValueIsUnlimited(t *testing.T) {
	var c generic.Cap
	if c.IsLimited() {
		t.Errorf("expected zero Cap to be unlimited")
	}
	if c.Exceeded(hours(1e9)) {
		t.Errorf("unlimited cap must never be exceeded")
	}
	if got := c.Clamp(hours(500)); !got.Equal(hours(500)) {
		t.Errorf("expected unchanged 500, got %s", got)
	}
}

func TestCap_LimitedZeroIsARealLimit(t *testing.T) {
	c := generic.LimitedCap(hours(0))
	if !c.IsLimited() {
		t.Fatalf("expected limited cap")
	}
	if got := c.Clamp(hours(8)); !got.IsZero() {
		t.Errorf("expected clamp to 0, got %s", got)
	}
	if !c.Exceeded(hours(0.5)) {
		t.Errorf("expected 0.5 to exceed a zero cap")
	}
}

func TestCap_ClampKeepsNegative(t *testing.T) {
	c := generic.LimitedCap(hours(100))
	if got := c.Clamp(hours(-12)); !got.Equal(hours(-12)) {
		t.Errorf("expected -12, got %s", got)
	}
}

func TestCap_Equal(t *testing.T) {
	if !generic.UnlimitedCap().Equal(generic.Cap{}) {
		t.Errorf("expected unlimited caps to be equal")
	}
	if generic.UnlimitedCap().Equal(generic.LimitedCap(hours(0))) {
		t.Errorf("unlimited must differ from limited 0")
	}
	if !generic.LimitedCap(hours(80)).Equal(generic.LimitedCap(hours(80.0))) {
		t.Errorf("expected equal limits to compare equal")
	}
}

func TestCap_JSON(t *testing.T) {
	cases := []struct {
		in      string
		limited bool
		limit   float64
	}{
		{`"unlimited"`, false, 0},
		{`80`, true, 80},
		{`0`, true, 0},
		{`12.5`, true, 12.5},
	}
	for _, tc := range cases {
		var c generic.Cap
		if err := json.Unmarshal([]byte(tc.in), &c); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.in, err)
		}
		if c.IsLimited() != tc.limited {
			t.Errorf("%s: expected limited=%t", tc.in, tc.limited)
			continue
		}
		if limit, ok := c.Limit(); ok && !limit.Equal(hours(tc.limit)) {
			t.Errorf("%s: expected limit %v, got %s", tc.in, tc.limit, limit)
		}

		out, err := json.Marshal(c)
		if err != nil {
			t.Fatalf("%s: marshal: %v", tc.in, err)
		}
		if string(out) != tc.in {
			t.Errorf("expected %s, got %s", tc.in, out)
		}
	}
}

func TestCap_JSON_RejectsNullAndUnknownStrings(t *testing.T) {
	for _, in := range []string{`null`, `"none"`, `""`, `true`} {
		var c generic.Cap
		if err := json.Unmarshal([]byte(in), &c); err == nil {
			t.Errorf("expected error for %s", in)
		}
	}
}

func TestCap_JSON_NullNamesTheSentinel(t *testing.T) {
	var c generic.Cap
	err := json.Unmarshal([]byte(`null`), &c)
	if err == nil || !strings.Contains(err.Error(), "null is ambiguous") {
		t.Errorf("expected the null-specific error, got %v", err)
	}
}

func TestCap_JSON_InStruct(t *testing.T) {
	var doc struct {
		Max generic.Cap `json:"max"`
	}
	if err := json.Unmarshal([]byte(`{"max": null}`), &doc); err == nil {
		t.Errorf("expected null to be rejected inside a struct")
	}
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestValidationError_CollectsFields(t *testing.T) {
	verr := &generic.ValidationError{}
	if verr.ErrOrNil() != nil {
		t.Fatalf("expected nil for an empty ValidationError")
	}

	verr.Add("name", "is required")
	verr.Add("end_date", "cannot be before %s", "start date")

	err := verr.ErrOrNil()
	if !errors.Is(err, generic.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if !verr.Has("end_date") || verr.Has("start_date") {
		t.Errorf("unexpected fields: %v", verr.Fields)
	}
	if !generic.IsClientError(fmt.Errorf("wrapped: %w", err)) {
		t.Errorf("expected wrapped validation error to be a client error")
	}
}

func TestErrorHelpers(t *testing.T) {
	if !generic.IsConflict(fmt.Errorf("x: %w", generic.ErrOverlappingEvent)) {
		t.Errorf("overlap should be a conflict")
	}
	if !generic.IsConflict(generic.ErrDuplicateEvent) {
		t.Errorf("duplicate should be a conflict")
	}
	if !generic.IsNotFound(generic.ErrPolicyNotFound) || !generic.IsNotFound(generic.ErrEventNotFound) {
		t.Errorf("lookups should be not-found")
	}
	if generic.IsClientError(generic.ErrEventNotFound) {
		t.Errorf("not-found is not a client error")
	}
}
