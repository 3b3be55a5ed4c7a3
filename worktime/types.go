/*
Package worktime provides the calculation engine for worked time and pay.

PURPOSE:
  Turns raw day records (a manual duration or a list of start/end segments)
  into worked seconds, applies mandatory break corrections, converts time to
  pay, and credits non-worked days (vacation, holiday, sick) from the same
  weekday in previous weeks.

KEY CONCEPTS IN THIS FILE (types.go):
  - TimeSegment: One contiguous presence interval within a day
  - DayEntry: One calendar day's record, keyed by normalized date
  - DayType: Closed set of day kinds with exhaustive dispatch
  - Settings: Pay and crediting configuration, passed into every call
  - ComputationResult: ok / warning / error outcome of a day

DESIGN PRINCIPLES:
  1. Purity: No I/O, no logging, no hidden state. Same input, same output.
  2. Precision: Seconds and cents are integers; money math uses decimal.Decimal
     with a single rounding step per computation.
  3. Errors as values: A day that cannot be resolved yields an error result,
     it never aborts a period computation.

USAGE:
  settings := worktime.DefaultSettings()
  result := worktime.DayComputation(day, entries, settings)
  if result.IsError() {
      // exclude from totals, show result.Message
  }

SEE ALSO:
  - worked.go: Worked-seconds resolver and tolerance band
  - credit.go: N-week lookback crediting
  - compute.go: Day orchestrator and period aggregator
*/
package worktime

import (
	"fmt"
	"time"
)

// =============================================================================
// TIME SEGMENT - One presence interval
// =============================================================================

type TimeSegment struct {
	Start        time.Time
	End          time.Time
	BreakSeconds int64
}

// DurationSeconds returns end-start, which may be negative for invalid input.
func (s TimeSegment) DurationSeconds() int64 {
	return int64(s.End.Sub(s.Start) / time.Second)
}

// =============================================================================
// DAY TYPE - Closed set with exhaustive dispatch
// =============================================================================

type DayType string

const (
	DayWork     DayType = "work"
	DayManual   DayType = "manual"
	DayVacation DayType = "vacation"
	DayHoliday  DayType = "holiday"
	DaySick     DayType = "sick"
)

// AllDayTypes lists every day type in display order.
var AllDayTypes = []DayType{DayWork, DayManual, DayVacation, DayHoliday, DaySick}

// DayCases has one method per day type. Implementations must cover every
// case, so adding a day type breaks the build until all dispatchers handle it.
type DayCases[R any] interface {
	Work() R
	Manual() R
	Vacation() R
	Holiday() R
	Sick() R
}

// MatchDayType dispatches t to the matching case.
func MatchDayType[R any](t DayType, cases DayCases[R]) (R, error) {
	switch t {
	case DayWork:
		return cases.Work(), nil
	case DayManual:
		return cases.Manual(), nil
	case DayVacation:
		return cases.Vacation(), nil
	case DayHoliday:
		return cases.Holiday(), nil
	case DaySick:
		return cases.Sick(), nil
	}
	var zero R
	return zero, fmt.Errorf("%w: %q", ErrUnknownDayType, string(t))
}

// ParseDayType converts a stored or user-provided value to a DayType.
func ParseDayType(s string) (DayType, error) {
	t := DayType(s)
	for _, known := range AllDayTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDayType, s)
}

// IsCredited reports whether the day type is valued through crediting
// rather than attendance.
func (t DayType) IsCredited() bool {
	return t == DayVacation || t == DayHoliday || t == DaySick
}

// =============================================================================
// DAY ENTRY - One calendar day's record
// =============================================================================

type DayEntry struct {
	Date     time.Time // normalized to local start of day
	Type     DayType
	Notes    string
	Segments []TimeSegment

	// ManualWorkedSeconds overrides segment-derived computation when set.
	ManualWorkedSeconds *int64

	// CreditedOverrideSeconds replaces the lookback value for credited types.
	CreditedOverrideSeconds *int64
}

// Key returns the normalized date key for this entry.
func (d DayEntry) Key() DateKey { return KeyOf(d.Date) }

// IsEmpty reports whether the entry carries no worked-time data.
func (d DayEntry) IsEmpty() bool {
	return d.ManualWorkedSeconds == nil && len(d.Segments) == 0
}

// Clone returns a deep copy so callers can hand out snapshots safely.
func (d DayEntry) Clone() DayEntry {
	c := d
	if d.Segments != nil {
		c.Segments = append([]TimeSegment(nil), d.Segments...)
	}
	if d.ManualWorkedSeconds != nil {
		v := *d.ManualWorkedSeconds
		c.ManualWorkedSeconds = &v
	}
	if d.CreditedOverrideSeconds != nil {
		v := *d.CreditedOverrideSeconds
		c.CreditedOverrideSeconds = &v
	}
	return c
}

// =============================================================================
// SETTINGS - Configuration passed into every engine call
// =============================================================================

type PayMode string

const (
	PayHourly  PayMode = "hourly"
	PayMonthly PayMode = "monthly"
)

type WeekStart string

const (
	WeekStartMonday WeekStart = "monday"
	WeekStartSunday WeekStart = "sunday"
)

type HolidayCreditingMode string

const (
	HolidayCreditZero                    HolidayCreditingMode = "zero"
	HolidayCreditWeeklyTargetDistributed HolidayCreditingMode = "weeklyTargetDistributed"
)

const (
	DefaultLookbackWeeks     = 13
	DefaultWeeklyTarget      = 40 * 3600
	DefaultScheduledWorkdays = 5
)

type Settings struct {
	PayMode             PayMode
	HourlyRateCents     int64
	MonthlySalaryCents  int64
	WeeklyTargetSeconds int64
	WeekStart           WeekStart

	VacationLookbackCount int
	CountMissingAsZero    bool
	StrictHistoryRequired bool

	HolidayCreditingMode   HolidayCreditingMode
	ScheduledWorkdaysCount int
}

func DefaultSettings() Settings {
	return Settings{
		PayMode:                PayHourly,
		WeeklyTargetSeconds:    DefaultWeeklyTarget,
		WeekStart:              WeekStartMonday,
		VacationLookbackCount:  DefaultLookbackWeeks,
		HolidayCreditingMode:   HolidayCreditZero,
		ScheduledWorkdaysCount: DefaultScheduledWorkdays,
	}
}

// LookbackWeeks returns the configured lookback count, at least 1.
func (s Settings) LookbackWeeks() int {
	if s.VacationLookbackCount < 1 {
		return 1
	}
	return s.VacationLookbackCount
}

// Workdays returns the scheduled workdays per week clamped to 1..7.
func (s Settings) Workdays() int {
	switch {
	case s.ScheduledWorkdaysCount < 1:
		return 1
	case s.ScheduledWorkdaysCount > 7:
		return 7
	}
	return s.ScheduledWorkdaysCount
}

// =============================================================================
// COMPUTATION RESULT - Tagged outcome of one day
// =============================================================================

type ResultStatus string

const (
	StatusOK      ResultStatus = "ok"
	StatusWarning ResultStatus = "warning"
	StatusError   ResultStatus = "error"
)

// ComputationResult is the engine's per-day output. ValueSeconds and
// ValueCents are meaningful for ok and warning; Message for warning and
// error; MissingDates only for error.
type ComputationResult struct {
	Status       ResultStatus
	ValueSeconds int64
	ValueCents   int64
	Message      string
	MissingDates []time.Time
}

func Ok(seconds, cents int64) ComputationResult {
	return ComputationResult{Status: StatusOK, ValueSeconds: seconds, ValueCents: cents}
}

func Warning(seconds, cents int64, message string) ComputationResult {
	return ComputationResult{Status: StatusWarning, ValueSeconds: seconds, ValueCents: cents, Message: message}
}

func Failed(message string, missing []time.Time) ComputationResult {
	return ComputationResult{Status: StatusError, Message: message, MissingDates: missing}
}

func (r ComputationResult) IsOK() bool      { return r.Status == StatusOK }
func (r ComputationResult) IsWarning() bool { return r.Status == StatusWarning }
func (r ComputationResult) IsError() bool   { return r.Status == StatusError }

// Counts reports whether the result contributes to totals.
func (r ComputationResult) Counts() bool { return r.Status != StatusError }

// =============================================================================
// TOTALS SUMMARY - Aggregate over a date range
// =============================================================================

type TotalsSummary struct {
	Period       Period
	TotalSeconds int64
	TotalCents   int64
	WarningCount int

	// ErroredDaysCount counts errored vacation and sick days.
	ErroredDaysCount int

	// ExcludedDaysCount counts every errored day regardless of type.
	ExcludedDaysCount int

	Days []DayResult
}

// DayResult pairs an entry's date and type with its computation.
type DayResult struct {
	Date   time.Time
	Type   DayType
	Result ComputationResult
}
