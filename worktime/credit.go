/*
credit.go - N-week lookback crediting for vacation, holiday and sick days

PURPOSE:
  Values a non-worked day by the worker's typical schedule: the average
  worked seconds on the same weekday over the previous N weeks. Only real
  attendance counts, and incomplete history is never silently estimated.

ALGORITHM:
  For i in 1..N, reference = date - 7*i days:
    no entry            -> missing; contributes 0 if CountMissingAsZero
    empty entry         -> 0
    otherwise           -> WorkedSeconds(reference); a failure aborts with
                           "Reference day has invalid data"

  Then, in order:
    strict and missing  -> error (insufficient history)
    lenient, no zero-fill, missing -> error (missing reference entries)
    samples < N         -> error (not enough values)
    all samples zero    -> warning(0, 0)
    otherwise           -> ok(round(sum / N), PayCents)

ROUNDING:
  The average is rounded to the nearest second, half away from zero.
  28800s over 13 weeks = 2215.38s -> 2215s.

WINDOW:
  Only [date - 7N, date - 7] on the same weekday is consulted.
*/
package worktime

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DayIndex looks up entries by local calendar day.
type DayIndex map[DateKey]DayEntry

// IndexDays builds a lookup over entries. Later entries win on duplicate dates.
func IndexDays(entries []DayEntry) DayIndex {
	idx := make(DayIndex, len(entries))
	for _, e := range entries {
		idx[e.Key()] = e
	}
	return idx
}

// LookbackDates returns the reference dates for day, nearest first.
func LookbackDates(day time.Time, weeks int) []time.Time {
	dates := make([]time.Time, 0, weeks)
	for i := 1; i <= weeks; i++ {
		dates = append(dates, AddDays(day, -7*i))
	}
	return dates
}

// CreditedResult computes the lookback-derived value of a credited day.
func CreditedResult(day DayEntry, all []DayEntry, settings Settings) ComputationResult {
	return creditedFromIndex(day, IndexDays(all), settings)
}

func creditedFromIndex(day DayEntry, idx DayIndex, settings Settings) ComputationResult {
	n := settings.LookbackWeeks()

	var (
		values  []int64
		missing []time.Time
	)
	for _, ref := range LookbackDates(day.Date, n) {
		entry, ok := idx[KeyOf(ref)]
		if !ok {
			missing = append(missing, ref)
			if settings.CountMissingAsZero {
				values = append(values, 0)
			}
			continue
		}
		if entry.IsEmpty() {
			values = append(values, 0)
			continue
		}
		secs, err := WorkedSeconds(entry)
		if err != nil {
			return Failed("Reference day has invalid data: "+err.Error(), []time.Time{ref})
		}
		values = append(values, secs)
	}

	if settings.StrictHistoryRequired && len(missing) > 0 {
		return Failed(fmt.Sprintf("Insufficient %d-week history for strict mode.", n), missing)
	}
	if !settings.CountMissingAsZero && len(missing) > 0 {
		return Failed("Missing reference entries. Enable 'count missing as zero' or create entries.", missing)
	}
	if len(values) < n {
		return Failed("Not enough reference values available.", missing)
	}

	var sum int64
	allZero := true
	for _, v := range values {
		sum += v
		if v != 0 {
			allZero = false
		}
	}
	if allZero {
		return Warning(0, 0, fmt.Sprintf("All %d lookback values are 0.", n))
	}

	average := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(n))).Round(0).IntPart()
	return Ok(average, PayCents(average, settings))
}

// HolidayCreditedSeconds returns the fixed credit for a holiday: zero, or
// the weekly target spread over the scheduled workdays.
func HolidayCreditedSeconds(settings Settings) int64 {
	if settings.HolidayCreditingMode != HolidayCreditWeeklyTargetDistributed {
		return 0
	}
	if settings.WeeklyTargetSeconds <= 0 {
		return 0
	}
	return decimal.NewFromInt(settings.WeeklyTargetSeconds).
		Div(decimal.NewFromInt(int64(settings.Workdays()))).
		Round(0).IntPart()
}
