/*
Package generic provides the domain-agnostic building blocks of the planner.

PURPOSE:
  This package contains the value types that the time-off engine is written
  against: quantities of time, balance caps, calendar dates, periods and the
  clock. None of it knows what a PTO event is.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 40 hours)
  - Cap:    An upper bound that is either Unlimited or Limited(amount)

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal so threshold checks (80.01 > 100*0.8)
     are exact
  2. No magic numbers: "no limit" is a Cap variant, never 0 and never +Inf

USAGE:
  balance := generic.NewAmount(40, generic.UnitHours)
  maxRollover := generic.LimitedCap(generic.NewAmount(80, generic.UnitHours))
  if limit, ok := maxRollover.Limit(); ok && balance.GreaterThan(limit) {
      ...
  }

SEE ALSO:
  - time.go: Calendar dates and the clock
  - errors.go: Sentinel and structured errors
*/
package generic

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitHours Unit = "hours"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

// Hours is shorthand for NewAmount(value, UnitHours).
func Hours(value float64) Amount { return NewAmount(value, UnitHours) }

func (a Amount) Zero() Amount                 { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) MulInt(n int) Amount          { return a.Mul(decimal.NewFromInt(int64(n))) }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg(), Unit: a.Unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Float64() float64             { return a.Value.InexactFloat64() }

func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

func (a Amount) String() string { return a.Value.String() + " " + string(a.Unit) }

// Sum adds amounts of the given unit. An empty list sums to zero.
func Sum(unit Unit, amounts ...Amount) Amount {
	total := Amount{Value: decimal.Zero, Unit: unit}
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// =============================================================================
// CAP - Unlimited | Limited(amount)
// =============================================================================

// UnlimitedSentinel is the persisted form of an unlimited cap.
const UnlimitedSentinel = "unlimited"

// Cap is an optional upper bound. The zero value is Unlimited.
//
// A Limited cap of 0 is a real limit of zero hours; "no limit" can only be
// expressed with UnlimitedCap().
type Cap struct {
	limited bool
	limit   Amount
}

func UnlimitedCap() Cap { return Cap{} }

func LimitedCap(limit Amount) Cap { return Cap{limited: true, limit: limit} }

// IsLimited reports whether the cap bounds anything.
func (c Cap) IsLimited() bool { return c.limited }

// Limit returns the bound and true, or a zero amount and false when unlimited.
func (c Cap) Limit() (Amount, bool) { return c.limit, c.limited }

// Clamp returns min(a, limit) for a limited cap and a unchanged otherwise.
func (c Cap) Clamp(a Amount) Amount {
	if !c.limited {
		return a
	}
	return a.Min(c.limit)
}

// Exceeded reports whether a is strictly above a limited cap.
func (c Cap) Exceeded(a Amount) bool {
	return c.limited && a.GreaterThan(c.limit)
}

func (c Cap) Equal(other Cap) bool {
	if c.limited != other.limited {
		return false
	}
	return !c.limited || c.limit.Equal(other.limit)
}

func (c Cap) String() string {
	if !c.limited {
		return UnlimitedSentinel
	}
	return c.limit.String()
}

// MarshalJSON writes "unlimited" or the bare numeric limit.
func (c Cap) MarshalJSON() ([]byte, error) {
	if !c.limited {
		return json.Marshal(UnlimitedSentinel)
	}
	return []byte(c.limit.Value.String()), nil
}

// UnmarshalJSON accepts "unlimited" or a number. The unit is left as hours;
// callers that persist other units convert explicitly.
func (c *Cap) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return fmt.Errorf("invalid cap: null is ambiguous, use %q", UnlimitedSentinel)
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != UnlimitedSentinel {
			return fmt.Errorf("invalid cap %q: want %q or a number", s, UnlimitedSentinel)
		}
		*c = UnlimitedCap()
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid cap: %w", err)
	}
	*c = LimitedCap(Amount{Value: d, Unit: UnitHours})
	return nil
}
