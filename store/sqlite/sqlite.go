/*
Package sqlite provides a SQLite-backed implementation of timeoff.Store.

PURPOSE:
  Keeps the accrual policy and the planned events in a single local database
  file so the CLI and the HTTP server share one source of truth.

INTERFACES IMPLEMENTED:
  timeoff.PolicyStore: The singleton policy row
  timeoff.EventStore:  The events table

KEY TABLES:
  settings: Exactly one row (id = 1) holding the policy document
  events:   One row per event; days are a JSON document

  Hours are stored as decimal TEXT, never REAL, so 6.15 stays 6.15.
  total_hours is denormalised for ad-hoc queries and is never read back;
  the domain recomputes it from days.

CONCURRENCY:
  Uses sync.RWMutex so the cron job and HTTP handlers can share a Store.
  ":memory:" databases are pinned to one connection; every new connection
  would otherwise open a fresh, empty database.

WAL MODE:
  File databases are opened with WAL so readers never block the writer.

USAGE:
  store, err := sqlite.New("./ptoplanner.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  planner := timeoff.NewPlanner(store, clock)

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - timeoff/store.go: Interface definitions
  - factory/policy.go: Document formats
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/pto-planner/factory"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/timeoff"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store implements timeoff.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ timeoff.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_foreign_keys=on&_journal_mode=WAL"
	if dbPath == MemoryPath {
		dsn = dbPath + "?_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Singleton accrual policy
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		config_json TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL
	);

	-- Planned events, keyed by their creation identity
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		days_json TEXT NOT NULL,
		total_hours TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CHECK (end_date >= start_date)
	);

	CREATE INDEX IF NOT EXISTS idx_events_start_date
		ON events(start_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// POLICY STORE
// =============================================================================

// LoadPolicy returns generic.ErrPolicyNotFound until a policy is saved.
func (s *Store) LoadPolicy(ctx context.Context) (timeoff.AccrualPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var configJSON string
	err := s.db.QueryRowContext(ctx, `SELECT config_json FROM settings WHERE id = 1`).Scan(&configJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return timeoff.AccrualPolicy{}, generic.ErrPolicyNotFound
	}
	if err != nil {
		return timeoff.AccrualPolicy{}, fmt.Errorf("failed to load policy: %w", err)
	}
	return factory.ParsePolicy([]byte(configJSON))
}

// SavePolicy replaces the policy row and bumps its version.
func (s *Store) SavePolicy(ctx context.Context, policy timeoff.AccrualPolicy) error {
	configJSON, err := factory.MarshalPolicy(policy)
	if err != nil {
		return fmt.Errorf("failed to encode policy: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO settings (id, config_json, version, updated_at)
		VALUES (1, ?, 1, ?)
		ON CONFLICT(id) DO UPDATE SET
			config_json = excluded.config_json,
			version = settings.version + 1,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query, string(configJSON), now())
	return err
}

// PolicyVersion reports how many times the policy has been saved.
func (s *Store) PolicyVersion(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var version int
	err := s.db.QueryRowContext(ctx, `SELECT version FROM settings WHERE id = 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return version, err
}

// =============================================================================
// EVENT STORE
// =============================================================================

// LoadEvents returns every event ordered by start date.
func (s *Store) LoadEvents(ctx context.Context) ([]timeoff.PTOEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, start_date, end_date, days_json
		FROM events
		ORDER BY start_date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []timeoff.PTOEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetEvent returns generic.ErrEventNotFound for an unknown id.
func (s *Store) GetEvent(ctx context.Context, id timeoff.EventID) (timeoff.PTOEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, start_date, end_date, days_json
		FROM events WHERE id = ?
	`, string(id))
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return timeoff.PTOEvent{}, generic.ErrEventNotFound
	}
	return e, err
}

// PutEvent inserts or replaces an event, keeping its original created_at.
func (s *Store) PutEvent(ctx context.Context, event timeoff.PTOEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return putEvent(ctx, s.db, event)
}

// SaveEvents replaces the whole collection in one transaction.
func (s *Store) SaveEvents(ctx context.Context, events []timeoff.PTOEvent) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
			return err
		}
		for _, e := range events {
			if err := insertEvent(ctx, tx, e); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteEvent returns generic.ErrEventNotFound for an unknown id.
func (s *Store) DeleteEvent(ctx context.Context, id timeoff.EventID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return generic.ErrEventNotFound
	}
	return nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(sqlTx); err != nil {
		return err
	}
	return sqlTx.Commit()
}

func putEvent(ctx context.Context, db execer, e timeoff.PTOEvent) error {
	daysJSON, err := json.Marshal(factory.DaysToJSON(e.Days))
	if err != nil {
		return fmt.Errorf("failed to encode days: %w", err)
	}
	ts := now()
	_, err = db.ExecContext(ctx, `
		INSERT INTO events (id, name, start_date, end_date, days_json, total_hours, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			days_json = excluded.days_json,
			total_hours = excluded.total_hours,
			updated_at = excluded.updated_at
	`, string(e.Created), e.Name, e.StartDate.String(), e.EndDate.String(),
		string(daysJSON), e.TotalHours().Value.String(), ts, ts)
	if err != nil {
		return fmt.Errorf("failed to store event %s: %w", e.Created, err)
	}
	return nil
}

func insertEvent(ctx context.Context, db execer, e timeoff.PTOEvent) error {
	daysJSON, err := json.Marshal(factory.DaysToJSON(e.Days))
	if err != nil {
		return fmt.Errorf("failed to encode days: %w", err)
	}
	ts := now()
	_, err = db.ExecContext(ctx, `
		INSERT INTO events (id, name, start_date, end_date, days_json, total_hours, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, string(e.Created), e.Name, e.StartDate.String(), e.EndDate.String(),
		string(daysJSON), e.TotalHours().Value.String(), ts, ts)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: %s", generic.ErrDuplicateEvent, e.Created)
	}
	if err != nil {
		return fmt.Errorf("failed to store event %s: %w", e.Created, err)
	}
	return nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"events", "settings"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (timeoff.PTOEvent, error) {
	var id, name, start, end, daysJSON string
	if err := row.Scan(&id, &name, &start, &end, &daysJSON); err != nil {
		return timeoff.PTOEvent{}, err
	}

	var days []factory.DayJSON
	if err := json.Unmarshal([]byte(daysJSON), &days); err != nil {
		return timeoff.PTOEvent{}, fmt.Errorf("event %s: failed to decode days: %w", id, err)
	}
	return factory.EventJSON{
		Created:   id,
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Days:      days,
	}.ToEvent()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
