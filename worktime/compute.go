/*
compute.go - Day orchestrator and period aggregator

PURPOSE:
  DayComputation dispatches one day to the right resolver by type and
  returns a ComputationResult. PeriodSummary folds day results over a date
  range into totals.

CREDITED DAY PRECEDENCE:
  ResolveCreditSource picks the first source that applies:

    1. SourceManual             manual worked value on the day
    2. SourceCreditedOverride   per-day credited override
    3. SourceRecorded           segments recorded on the day
    4. SourceHolidayDistributed holiday with weeklyTargetDistributed mode
    5. SourceLookback           N-week same-weekday average

PERIOD TOTALS:
  ok and warning results add their seconds and cents; warnings are counted.
  Error results add nothing. ErroredDaysCount counts vacation and sick
  errors only; ExcludedDaysCount counts every error. One bad day never
  aborts the fold.
*/
package worktime

import (
	"sort"
	"time"
)

// =============================================================================
// CREDIT SOURCE - Precedence chain for credited days
// =============================================================================

type CreditSource string

const (
	SourceManual             CreditSource = "manual"
	SourceCreditedOverride   CreditSource = "credited_override"
	SourceRecorded           CreditSource = "recorded"
	SourceHolidayDistributed CreditSource = "holiday_distributed"
	SourceLookback           CreditSource = "lookback"
)

// ResolveCreditSource returns which value a credited day resolves to.
func ResolveCreditSource(day DayEntry, settings Settings) CreditSource {
	switch {
	case day.ManualWorkedSeconds != nil:
		return SourceManual
	case day.CreditedOverrideSeconds != nil:
		return SourceCreditedOverride
	case len(day.Segments) > 0:
		return SourceRecorded
	case day.Type == DayHoliday && settings.HolidayCreditingMode == HolidayCreditWeeklyTargetDistributed:
		return SourceHolidayDistributed
	}
	return SourceLookback
}

// =============================================================================
// DAY ORCHESTRATOR
// =============================================================================

// dayDispatch binds one computation's inputs to the DayCases interface.
type dayDispatch struct {
	day      DayEntry
	idx      DayIndex
	settings Settings
}

func (d dayDispatch) Work() ComputationResult     { return d.worked() }
func (d dayDispatch) Manual() ComputationResult   { return d.worked() }
func (d dayDispatch) Vacation() ComputationResult { return d.credited() }
func (d dayDispatch) Holiday() ComputationResult  { return d.credited() }
func (d dayDispatch) Sick() ComputationResult     { return d.credited() }

var _ DayCases[ComputationResult] = dayDispatch{}

func (d dayDispatch) worked() ComputationResult {
	secs, err := WorkedSeconds(d.day)
	if err != nil {
		return Failed(err.Error(), nil)
	}
	return Ok(secs, PayCents(secs, d.settings))
}

func (d dayDispatch) credited() ComputationResult {
	switch ResolveCreditSource(d.day, d.settings) {
	case SourceManual, SourceRecorded:
		return d.worked()
	case SourceCreditedOverride:
		secs := max(0, *d.day.CreditedOverrideSeconds)
		return Ok(secs, PayCents(secs, d.settings))
	case SourceHolidayDistributed:
		secs := HolidayCreditedSeconds(d.settings)
		return Ok(secs, PayCents(secs, d.settings))
	default:
		return creditedFromIndex(d.day, d.idx, d.settings)
	}
}

// DayComputation computes one day's result. all is the snapshot of every
// known entry and is only read for credited lookbacks.
func DayComputation(day DayEntry, all []DayEntry, settings Settings) ComputationResult {
	return computeIndexed(day, IndexDays(all), settings)
}

func computeIndexed(day DayEntry, idx DayIndex, settings Settings) ComputationResult {
	day.Date = StartOfDay(day.Date)
	result, err := MatchDayType[ComputationResult](day.Type, dayDispatch{day: day, idx: idx, settings: settings})
	if err != nil {
		return Failed(err.Error(), nil)
	}
	return result
}

// =============================================================================
// PERIOD AGGREGATOR
// =============================================================================

// PeriodSummary folds every entry dated within [from, to] into totals.
func PeriodSummary(entries []DayEntry, from, to time.Time, settings Settings) TotalsSummary {
	period := Period{Start: StartOfDay(from), End: StartOfDay(to)}
	summary := TotalsSummary{Period: period}

	idx := IndexDays(entries)
	inRange := make([]DayEntry, 0, len(idx))
	for _, e := range idx {
		if period.Contains(e.Date) {
			inRange = append(inRange, e)
		}
	}
	sort.Slice(inRange, func(i, j int) bool {
		return inRange[i].Key().Before(inRange[j].Key())
	})

	for _, e := range inRange {
		result := computeIndexed(e, idx, settings)
		summary.Days = append(summary.Days, DayResult{Date: StartOfDay(e.Date), Type: e.Type, Result: result})

		switch result.Status {
		case StatusOK, StatusWarning:
			summary.TotalSeconds += result.ValueSeconds
			summary.TotalCents += result.ValueCents
			if result.IsWarning() {
				summary.WarningCount++
			}
		case StatusError:
			summary.ExcludedDaysCount++
			if e.Type == DayVacation || e.Type == DaySick {
				summary.ErroredDaysCount++
			}
		}
	}
	return summary
}
