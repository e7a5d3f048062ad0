/*
store.go - Persistence interfaces for the planner

PURPOSE:
  Defines the boundary between the planner and whatever keeps its data.
  The engine never touches a store; the Planner loads snapshots, hands them
  to the engine as plain values, and writes results back.

KEY INTERFACES:
  PolicyStore: The singleton accrual policy (load / replace)
  EventStore:  The event collection (load all / replace all / keyed access)
  Store:       Both

CONTRACT:
  - LoadPolicy returns generic.ErrPolicyNotFound before onboarding.
  - SavePolicy replaces the policy wholesale; there are no partial updates.
  - PolicyVersion counts saves: 0 before onboarding, then 1, 2, ...
  - LoadEvents order is unspecified; the Planner sorts by start date.
  - SaveEvents replaces the whole collection atomically.
  - PutEvent inserts or replaces by Created; DeleteEvent returns
    generic.ErrEventNotFound for an unknown id.

IMPLEMENTATIONS:
  - store/sqlite: SQLite via database/sql
  - store/memory: In-memory for tests and the CLI's --db=:memory:

SEE ALSO:
  - planner.go: The only consumer
*/
package timeoff

import "context"

// PolicyStore persists the accrual policy.
type PolicyStore interface {
	LoadPolicy(ctx context.Context) (AccrualPolicy, error)
	SavePolicy(ctx context.Context, policy AccrualPolicy) error
	PolicyVersion(ctx context.Context) (int, error)
}

// EventStore persists planned events keyed by Created.
type EventStore interface {
	LoadEvents(ctx context.Context) ([]PTOEvent, error)
	SaveEvents(ctx context.Context, events []PTOEvent) error
	GetEvent(ctx context.Context, id EventID) (PTOEvent, error)
	PutEvent(ctx context.Context, event PTOEvent) error
	DeleteEvent(ctx context.Context, id EventID) error
}

// Store is everything the Planner needs.
type Store interface {
	PolicyStore
	EventStore
}
