/*
Package sqlite provides a SQLite-backed implementation of worktime.Store.

PURPOSE:
  Persists day entries, their segments and the settings singleton. The
  engine never talks to the database; callers take a Snapshot and hand the
  copied values to the pure worktime functions.

KEY TABLES:
  days:     One row per local calendar day (date is the primary key)
  segments: Presence intervals owned by a day, deleted with it
  settings: Single row (id = 1) holding pay and crediting configuration

ONE ENTRY PER DAY:
  SaveDay upserts the days row and replaces all segments in one
  transaction. The date primary key enforces the invariant.

DATES:
  Day keys are stored as YYYY-MM-DD and rebuilt as midnight in the store's
  location (time.Local unless NewWithLocation is used). Segment timestamps
  are stored as RFC3339 with offset.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Snapshot reads days, segments and
  settings inside one transaction so a computation never sees a half-saved
  edit.

USAGE:
  store, err := sqlite.New("./worktime.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  snap, _ := store.Snapshot(ctx)
  result := worktime.DayComputation(day, snap.Entries, snap.Settings)

SEE ALSO:
  - worktime/store.go: Interface definition
  - worktime/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/worktime-engine/worktime"
)

const dateLayout = "2006-01-02"

// Store implements worktime.Store using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	loc *time.Location
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	return NewWithLocation(dbPath, time.Local)
}

// NewWithLocation creates a store whose day keys resolve in loc.
func NewWithLocation(dbPath string, loc *time.Location) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, loc: loc}
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

// Location returns the location day keys are resolved in.
func (s *Store) Location() *time.Location {
	return s.loc
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS days (
		date TEXT PRIMARY KEY,
		day_type TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		manual_worked_seconds INTEGER,
		credited_override_seconds INTEGER,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS segments (
		id TEXT PRIMARY KEY,
		day_date TEXT NOT NULL REFERENCES days(date) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		break_seconds INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_segments_day
		ON segments(day_date, position);

	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		pay_mode TEXT NOT NULL,
		hourly_rate_cents INTEGER NOT NULL DEFAULT 0,
		monthly_salary_cents INTEGER NOT NULL DEFAULT 0,
		weekly_target_seconds INTEGER NOT NULL,
		week_start TEXT NOT NULL,
		vacation_lookback_count INTEGER NOT NULL,
		count_missing_as_zero BOOLEAN NOT NULL DEFAULT FALSE,
		strict_history_required BOOLEAN NOT NULL DEFAULT FALSE,
		holiday_crediting_mode TEXT NOT NULL,
		scheduled_workdays_count INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// DAY STORE (worktime.Store interface)
// =============================================================================

// SaveDay upserts a day and replaces its segments atomically.
func (s *Store) SaveDay(ctx context.Context, day worktime.DayEntry) error {
	if _, err := worktime.ParseDayType(string(day.Type)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	key := worktime.KeyOf(day.Date).String()

	_, err = sqlTx.ExecContext(ctx, `
		INSERT INTO days (date, day_type, notes, manual_worked_seconds, credited_override_seconds, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			day_type = excluded.day_type,
			notes = excluded.notes,
			manual_worked_seconds = excluded.manual_worked_seconds,
			credited_override_seconds = excluded.credited_override_seconds,
			updated_at = excluded.updated_at
	`,
		key,
		string(day.Type),
		day.Notes,
		nullInt(day.ManualWorkedSeconds),
		nullInt(day.CreditedOverrideSeconds),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save day %s: %w", key, err)
	}

	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM segments WHERE day_date = ?", key); err != nil {
		return fmt.Errorf("failed to clear segments for %s: %w", key, err)
	}

	for i, seg := range day.Segments {
		_, err := sqlTx.ExecContext(ctx, `
			INSERT INTO segments (id, day_date, position, start_at, end_at, break_seconds)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			uuid.NewString(),
			key,
			i,
			seg.Start.Format(time.RFC3339Nano),
			seg.End.Format(time.RFC3339Nano),
			seg.BreakSeconds,
		)
		if err != nil {
			return fmt.Errorf("failed to save segment %d for %s: %w", i, key, err)
		}
	}

	return sqlTx.Commit()
}

// GetDay retrieves the entry for a date.
func (s *Store) GetDay(ctx context.Context, date time.Time) (worktime.DayEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := worktime.KeyOf(date).String()
	days, err := s.queryDays(ctx, s.db, "WHERE date = ?", key)
	if err != nil {
		return worktime.DayEntry{}, err
	}
	if len(days) == 0 {
		return worktime.DayEntry{}, worktime.ErrDayNotFound
	}
	return days[0], nil
}

// DeleteDay removes a day and, by cascade, its segments.
func (s *Store) DeleteDay(ctx context.Context, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM days WHERE date = ?", worktime.KeyOf(date).String())
	return err
}

// ListDays returns entries within [from, to], ordered by date.
func (s *Store) ListDays(ctx context.Context, from, to time.Time) ([]worktime.DayEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryDays(ctx, s.db, "WHERE date >= ? AND date <= ?",
		worktime.KeyOf(from).String(), worktime.KeyOf(to).String())
}

// Snapshot reads every entry and the settings in one transaction.
func (s *Store) Snapshot(ctx context.Context) (worktime.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return worktime.Snapshot{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	entries, err := s.queryDays(ctx, sqlTx, "")
	if err != nil {
		return worktime.Snapshot{}, err
	}
	settings, err := s.loadSettings(ctx, sqlTx)
	if err != nil {
		return worktime.Snapshot{}, err
	}
	return worktime.Snapshot{Entries: entries, Settings: settings}, sqlTx.Commit()
}

func (s *Store) queryDays(ctx context.Context, q queryer, where string, args ...any) ([]worktime.DayEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT date, day_type, notes, manual_worked_seconds, credited_override_seconds
		FROM days `+where+`
		ORDER BY date ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query days: %w", err)
	}
	defer rows.Close()

	var (
		days  []worktime.DayEntry
		index = make(map[string]int)
	)
	for rows.Next() {
		var (
			key, dayType string
			day          worktime.DayEntry
			manual       sql.NullInt64
			override     sql.NullInt64
		)
		if err := rows.Scan(&key, &dayType, &day.Notes, &manual, &override); err != nil {
			return nil, fmt.Errorf("failed to scan day: %w", err)
		}
		if day.Type, err = worktime.ParseDayType(dayType); err != nil {
			return nil, fmt.Errorf("day %s: %w", key, err)
		}
		if day.Date, err = s.parseDate(key); err != nil {
			return nil, err
		}
		day.ManualWorkedSeconds = intPtr(manual)
		day.CreditedOverrideSeconds = intPtr(override)

		index[key] = len(days)
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()
	if len(days) == 0 {
		return days, nil
	}

	if err := s.attachSegments(ctx, q, days, index); err != nil {
		return nil, err
	}
	return days, nil
}

func (s *Store) attachSegments(ctx context.Context, q queryer, days []worktime.DayEntry, index map[string]int) error {
	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	rows, err := q.QueryContext(ctx, `
		SELECT day_date, start_at, end_at, break_seconds
		FROM segments
		WHERE day_date IN (`+placeholders+`)
		ORDER BY day_date ASC, position ASC
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key, startAt, endAt string
			seg                 worktime.TimeSegment
		)
		if err := rows.Scan(&key, &startAt, &endAt, &seg.BreakSeconds); err != nil {
			return fmt.Errorf("failed to scan segment: %w", err)
		}
		if seg.Start, err = s.parseTimestamp(startAt); err != nil {
			return err
		}
		if seg.End, err = s.parseTimestamp(endAt); err != nil {
			return err
		}
		i := index[key]
		days[i].Segments = append(days[i].Segments, seg)
	}
	return rows.Err()
}

// =============================================================================
// SETTINGS
// =============================================================================

// GetSettings returns the stored settings, or defaults if none were saved.
func (s *Store) GetSettings(ctx context.Context) (worktime.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadSettings(ctx, s.db)
}

// SaveSettings replaces the settings row.
func (s *Store) SaveSettings(ctx context.Context, st worktime.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, pay_mode, hourly_rate_cents, monthly_salary_cents, weekly_target_seconds,
			week_start, vacation_lookback_count, count_missing_as_zero, strict_history_required,
			holiday_crediting_mode, scheduled_workdays_count, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			pay_mode = excluded.pay_mode,
			hourly_rate_cents = excluded.hourly_rate_cents,
			monthly_salary_cents = excluded.monthly_salary_cents,
			weekly_target_seconds = excluded.weekly_target_seconds,
			week_start = excluded.week_start,
			vacation_lookback_count = excluded.vacation_lookback_count,
			count_missing_as_zero = excluded.count_missing_as_zero,
			strict_history_required = excluded.strict_history_required,
			holiday_crediting_mode = excluded.holiday_crediting_mode,
			scheduled_workdays_count = excluded.scheduled_workdays_count,
			updated_at = excluded.updated_at
	`,
		string(st.PayMode),
		st.HourlyRateCents,
		st.MonthlySalaryCents,
		st.WeeklyTargetSeconds,
		string(st.WeekStart),
		st.VacationLookbackCount,
		st.CountMissingAsZero,
		st.StrictHistoryRequired,
		string(st.HolidayCreditingMode),
		st.ScheduledWorkdaysCount,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// HasSettings reports whether settings were ever saved.
func (s *Store) HasSettings(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM settings").Scan(&n); err != nil {
		return false, fmt.Errorf("failed to count settings: %w", err)
	}
	return n > 0, nil
}

func (s *Store) loadSettings(ctx context.Context, q queryer) (worktime.Settings, error) {
	var (
		st                                  worktime.Settings
		payMode, weekStart, holidayCrediting string
	)
	err := q.QueryRowContext(ctx, `
		SELECT pay_mode, hourly_rate_cents, monthly_salary_cents, weekly_target_seconds, week_start,
		       vacation_lookback_count, count_missing_as_zero, strict_history_required,
		       holiday_crediting_mode, scheduled_workdays_count
		FROM settings WHERE id = 1
	`).Scan(
		&payMode, &st.HourlyRateCents, &st.MonthlySalaryCents, &st.WeeklyTargetSeconds, &weekStart,
		&st.VacationLookbackCount, &st.CountMissingAsZero, &st.StrictHistoryRequired,
		&holidayCrediting, &st.ScheduledWorkdaysCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return worktime.DefaultSettings(), nil
	}
	if err != nil {
		return worktime.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	st.PayMode = worktime.PayMode(payMode)
	st.WeekStart = worktime.WeekStart(weekStart)
	st.HolidayCreditingMode = worktime.HolidayCreditingMode(holidayCrediting)
	return st, nil
}

// Reset deletes all data (dev/demo only).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"segments", "days", "settings"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// Helper functions

func (s *Store) parseDate(key string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, key, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored date %q: %w", key, err)
	}
	return t, nil
}

func (s *Store) parseTimestamp(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", v, err)
	}
	return t.In(s.loc), nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

var _ worktime.Store = (*Store)(nil)
