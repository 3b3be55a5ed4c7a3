/*
store.go - Persistence interface for day entries and settings

PURPOSE:
  Defines the interface between the engine's callers and the database.
  The engine itself never reads a Store; callers take a Snapshot and pass
  the copied entries and settings into the pure functions.

KEY INTERFACES:
  Store: Day entry upsert/delete/lookup plus the settings singleton

SNAPSHOT CONTRACT:
  Snapshot() returns deep copies of every entry and the current settings,
  read under one lock (memory) or one read transaction (SQLite). Edits made
  after the call never leak into a running computation.

ONE ENTRY PER DAY:
  SaveDay() upserts by normalized date. Saving a day replaces its segments.

IMPLEMENTATIONS:
  - worktime/store/memory.go: In-memory for tests and demos
  - store/sqlite/sqlite.go: SQLite

SEE ALSO:
  - compute.go: Consumes snapshots
*/
package worktime

import (
	"context"
	"time"
)

// Store persists day entries and settings.
type Store interface {
	// SaveDay creates or replaces the entry for day.Date.
	SaveDay(ctx context.Context, day DayEntry) error

	// GetDay returns ErrDayNotFound when no entry exists.
	GetDay(ctx context.Context, date time.Time) (DayEntry, error)

	// DeleteDay clears a day back to "no entry". Missing days are not an error.
	DeleteDay(ctx context.Context, date time.Time) error

	// ListDays returns entries within [from, to], ordered by date.
	ListDays(ctx context.Context, from, to time.Time) ([]DayEntry, error)

	// Snapshot returns copies of all entries and the current settings.
	Snapshot(ctx context.Context) (Snapshot, error)

	GetSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, settings Settings) error
}

// Snapshot is an immutable-for-the-call view handed to the engine.
type Snapshot struct {
	Entries  []DayEntry
	Settings Settings
}

// Day computes one date from the snapshot. A date with no entry yields
// ErrDayNotFound.
func (s Snapshot) Day(date time.Time) (DayEntry, ComputationResult, error) {
	idx := IndexDays(s.Entries)
	day, ok := idx[KeyOf(date)]
	if !ok {
		return DayEntry{}, ComputationResult{}, ErrDayNotFound
	}
	return day, computeIndexed(day, idx, s.Settings), nil
}

// Summary folds the snapshot over period.
func (s Snapshot) Summary(period Period) TotalsSummary {
	return PeriodSummary(s.Entries, period.Start, period.End, s.Settings)
}
