package worktime

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE KEY - Local calendar day identity
// =============================================================================

// DateKey identifies a local calendar day independent of location and
// clock time. Two timestamps on the same local day share a key.
type DateKey struct {
	Year  int
	Month time.Month
	Day   int
}

func KeyOf(t time.Time) DateKey {
	y, m, d := t.Date()
	return DateKey{Year: y, Month: m, Day: d}
}

// ParseDateKey parses "2006-01-02".
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return DateKey{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return KeyOf(t), nil
}

// In returns the start of this day in loc.
func (k DateKey) In(loc *time.Location) time.Time {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, loc)
}

func (k DateKey) Before(o DateKey) bool { return k.compare(o) < 0 }
func (k DateKey) After(o DateKey) bool  { return k.compare(o) > 0 }

func (k DateKey) compare(o DateKey) int {
	switch {
	case k.Year != o.Year:
		return k.Year - o.Year
	case k.Month != o.Month:
		return int(k.Month) - int(o.Month)
	}
	return k.Day - o.Day
}

func (k DateKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, k.Month, k.Day)
}

// =============================================================================
// DAY ARITHMETIC
// =============================================================================

// StartOfDay normalizes t to 00:00 of its local day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays moves by calendar days, so DST transitions never shift the day.
func AddDays(t time.Time, n int) time.Time {
	return StartOfDay(t).AddDate(0, 0, n)
}

// WeekStartDate returns the first day of the week containing date.
func WeekStartDate(date time.Time, start WeekStart) time.Time {
	day := StartOfDay(date)
	first := time.Monday
	if start == WeekStartSunday {
		first = time.Sunday
	}
	offset := (int(day.Weekday()) - int(first) + 7) % 7
	return AddDays(day, -offset)
}

// =============================================================================
// PERIOD - Inclusive range of days
// =============================================================================

type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod normalizes both bounds and rejects end before start.
func NewPeriod(from, to time.Time) (Period, error) {
	p := Period{Start: StartOfDay(from), End: StartOfDay(to)}
	if KeyOf(p.End).Before(KeyOf(p.Start)) {
		return Period{}, ErrInvalidPeriod
	}
	return p, nil
}

// Contains returns true if t's local day is within [Start, End].
func (p Period) Contains(t time.Time) bool {
	k := KeyOf(t)
	return !k.Before(KeyOf(p.Start)) && !k.After(KeyOf(p.End))
}

// Days returns every day in the period.
func (p Period) Days() []time.Time {
	var days []time.Time
	for d := StartOfDay(p.Start); !KeyOf(d).After(KeyOf(p.End)); d = AddDays(d, 1) {
		days = append(days, d)
	}
	return days
}

func (p Period) String() string {
	return "[" + KeyOf(p.Start).String() + ", " + KeyOf(p.End).String() + "]"
}

// WeekPeriod returns the seven-day week containing date.
func WeekPeriod(date time.Time, start WeekStart) Period {
	first := WeekStartDate(date, start)
	return Period{Start: first, End: AddDays(first, 6)}
}

// MonthPeriod returns the calendar month in loc.
func MonthPeriod(year int, month time.Month, loc *time.Location) Period {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Period{Start: first, End: first.AddDate(0, 1, -1)}
}
