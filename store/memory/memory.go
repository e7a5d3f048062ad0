// Package memory provides an in-memory timeoff.Store for tests and
// throwaway sessions.
package memory

import (
	"context"
	"sync"

	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/timeoff"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu     sync.RWMutex
	policy *timeoff.AccrualPolicy
	saves  int
	events map[timeoff.EventID]timeoff.PTOEvent
	order  []timeoff.EventID // insertion order, so LoadEvents is stable
}

var _ timeoff.Store = (*Store)(nil)

func New() *Store {
	return &Store{events: make(map[timeoff.EventID]timeoff.PTOEvent)}
}

func (s *Store) LoadPolicy(_ context.Context) (timeoff.AccrualPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.policy == nil {
		return timeoff.AccrualPolicy{}, generic.ErrPolicyNotFound
	}
	return *s.policy, nil
}

func (s *Store) SavePolicy(_ context.Context, policy timeoff.AccrualPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := policy
	s.policy = &p
	s.saves++
	return nil
}

func (s *Store) PolicyVersion(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.saves, nil
}

func (s *Store) LoadEvents(_ context.Context) ([]timeoff.PTOEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]timeoff.PTOEvent, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, cloneEvent(s.events[id]))
	}
	return result, nil
}

// SaveEvents replaces the whole collection. Duplicate identities in the
// batch are rejected before anything changes.
func (s *Store) SaveEvents(_ context.Context, events []timeoff.PTOEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[timeoff.EventID]timeoff.PTOEvent, len(events))
	order := make([]timeoff.EventID, 0, len(events))
	for _, e := range events {
		if _, dup := next[e.Created]; dup {
			return generic.ErrDuplicateEvent
		}
		next[e.Created] = cloneEvent(e)
		order = append(order, e.Created)
	}
	s.events = next
	s.order = order
	return nil
}

func (s *Store) GetEvent(_ context.Context, id timeoff.EventID) (timeoff.PTOEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return timeoff.PTOEvent{}, generic.ErrEventNotFound
	}
	return cloneEvent(e), nil
}

func (s *Store) PutEvent(_ context.Context, event timeoff.PTOEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.events[event.Created]; !exists {
		s.order = append(s.order, event.Created)
	}
	s.events[event.Created] = cloneEvent(event)
	return nil
}

func (s *Store) DeleteEvent(_ context.Context, id timeoff.EventID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return generic.ErrEventNotFound
	}
	delete(s.events, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Reset clears everything.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.policy = nil
	s.saves = 0
	s.events = make(map[timeoff.EventID]timeoff.PTOEvent)
	s.order = nil
}

func cloneEvent(e timeoff.PTOEvent) timeoff.PTOEvent {
	out := e
	out.Days = make([]timeoff.PTODay, len(e.Days))
	copy(out.Days, e.Days)
	return out
}
