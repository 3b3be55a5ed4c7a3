package worktime_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/worktime-engine/worktime"
)

// monday2025Apr7 has 13 prior Mondays back to 2025-01-06.
var monday2025Apr7 = date(2025, time.April, 7)

func vacation(d time.Time) worktime.DayEntry {
	return worktime.DayEntry{Date: d, Type: worktime.DayVacation}
}

// history returns a manual work entry on each of the previous n same weekdays.
func history(day time.Time, n int, seconds int64) []worktime.DayEntry {
	var entries []worktime.DayEntry
	for i := 1; i <= n; i++ {
		entries = append(entries, manualDay(day.AddDate(0, 0, -7*i), worktime.DayWork, seconds))
	}
	return entries
}

func lenient() worktime.Settings {
	s := hourly(2000)
	s.CountMissingAsZero = true
	return s
}

func TestCreditedResult_FullHistory(t *testing.T) {
	// GIVEN: 13 previous Mondays with 8h each
	// THEN: Credited value is 8h, paid at the hourly rate
	entries := history(monday2025Apr7, 13, hm(8, 0))

	result := worktime.CreditedResult(vacation(monday2025Apr7), entries, hourly(2000))

	assert.Equal(t, worktime.Ok(hm(8, 0), 16000), result)
}

func TestCreditedResult_OneRealDay_RestZeroFilled(t *testing.T) {
	// GIVEN: Only last Monday has 8h, the other 12 are missing, zero-fill on
	// WHEN: Averaging over 13 weeks
	// THEN: 28800 / 13 = 2215.38 -> 2215s
	entries := history(monday2025Apr7, 1, hm(8, 0))

	result := worktime.CreditedResult(vacation(monday2025Apr7), entries, lenient())

	require.True(t, result.IsOK(), result.Message)
	assert.Equal(t, int64(2215), result.ValueSeconds)
	assert.Equal(t, int64(1231), result.ValueCents)
}

func TestCreditedResult_RoundsHalfUp(t *testing.T) {
	// GIVEN: 2 weeks lookback with 1s and 2s -> 1.5 -> 2
	s := lenient()
	s.VacationLookbackCount = 2
	entries := []worktime.DayEntry{
		manualDay(monday2025Apr7.AddDate(0, 0, -7), worktime.DayManual, 1),
		manualDay(monday2025Apr7.AddDate(0, 0, -14), worktime.DayManual, 2),
	}

	result := worktime.CreditedResult(vacation(monday2025Apr7), entries, s)

	assert.Equal(t, int64(2), result.ValueSeconds)
}

func TestCreditedResult_AllZero_Warning(t *testing.T) {
	// GIVEN: 13 previous Mondays exist but are empty
	var entries []worktime.DayEntry
	for i := 1; i <= 13; i++ {
		entries = append(entries, worktime.DayEntry{Date: monday2025Apr7.AddDate(0, 0, -7*i), Type: worktime.DayWork})
	}

	result := worktime.CreditedResult(vacation(monday2025Apr7), entries, hourly(2000))

	assert.Equal(t, worktime.Warning(0, 0, "All 13 lookback values are 0."), result)
	assert.True(t, result.Counts())
}

func TestCreditedResult_AllMissingZeroFilled_Warning(t *testing.T) {
	result := worktime.CreditedResult(vacation(monday2025Apr7), nil, lenient())

	assert.True(t, result.IsWarning())
	assert.Equal(t, "All 13 lookback values are 0.", result.Message)
}

func TestCreditedResult_StrictMode_MissingDateListed(t *testing.T) {
	// GIVEN: Strict mode, 12 weeks of history, week 5 missing
	s := lenient()
	s.StrictHistoryRequired = true

	var entries []worktime.DayEntry
	for _, e := range history(monday2025Apr7, 13, hm(8, 0)) {
		if worktime.KeyOf(e.Date) == worktime.KeyOf(date(2025, time.March, 3)) {
			continue
		}
		entries = append(entries, e)
	}

	result := worktime.CreditedResult(vacation(monday2025Apr7), entries, s)

	assert.True(t, result.IsError())
	assert.Equal(t, "Insufficient 13-week history for strict mode.", result.Message)
	assert.Equal(t, []time.Time{date(2025, time.March, 3)}, result.MissingDates)
}

func TestCreditedResult_MissingWithoutZeroFill_Error(t *testing.T) {
	entries := history(monday2025Apr7, 11, hm(8, 0))

	result := worktime.CreditedResult(vacation(monday2025Apr7), entries, hourly(2000))

	assert.True(t, result.IsError())
	assert.Equal(t, "Missing reference entries. Enable 'count missing as zero' or create entries.", result.Message)
	assert.Equal(t, []time.Time{date(2025, time.January, 13), date(2025, time.January, 6)}, result.MissingDates)
}

func TestCreditedResult_CorruptReference_PoisonsLookback(t *testing.T) {
	// GIVEN: Full history but two weeks back has an inverted segment
	entries := history(monday2025Apr7, 13, hm(8, 0))
	bad := date(2025, time.March, 24)
	for i := range entries {
		if worktime.KeyOf(entries[i].Date) == worktime.KeyOf(bad) {
			entries[i] = segmentDay(bad, worktime.DayWork, seg(bad, 17, 0, 8, 0, 0))
		}
	}

	result := worktime.CreditedResult(vacation(monday2025Apr7), entries, hourly(2000))

	assert.True(t, result.IsError())
	assert.Contains(t, result.Message, "Reference day has invalid data: End time must be after start time.")
	assert.Equal(t, []time.Time{bad}, result.MissingDates)
}

func TestCreditedResult_OnlyConsultsSameWeekdayWindow(t *testing.T) {
	// GIVEN: 13 in-window Mondays at 8h plus noisy entries outside the window
	entries := history(monday2025Apr7, 13, hm(8, 0))
	entries = append(entries,
		manualDay(monday2025Apr7.AddDate(0, 0, -7*14), worktime.DayWork, hm(1, 0)),
		manualDay(monday2025Apr7.AddDate(0, 0, -1), worktime.DayWork, hm(10, 0)),
		manualDay(monday2025Apr7.AddDate(0, 0, -8), worktime.DayWork, hm(10, 0)),
		manualDay(monday2025Apr7.AddDate(0, 0, 7), worktime.DayWork, hm(10, 0)),
	)

	result := worktime.CreditedResult(vacation(monday2025Apr7), entries, hourly(2000))

	assert.Equal(t, hm(8, 0), result.ValueSeconds)
}

func TestCreditedResult_ConfigurableLookback(t *testing.T) {
	entries := history(monday2025Apr7, 4, hm(6, 0))

	s := hourly(2000)
	s.VacationLookbackCount = 4
	assert.Equal(t, hm(6, 0), worktime.CreditedResult(vacation(monday2025Apr7), entries, s).ValueSeconds)

	// Zero is clamped to one week
	s.VacationLookbackCount = 0
	assert.Equal(t, hm(6, 0), worktime.CreditedResult(vacation(monday2025Apr7), entries, s).ValueSeconds)
}

func TestCreditedResult_ReferenceUsesWorkedSeconds(t *testing.T) {
	// GIVEN: One week lookback whose reference has 7h presence and 10m break
	// THEN: The reference counts as 6h30m after break correction
	ref := monday2025Apr7.AddDate(0, 0, -7)
	s := hourly(2000)
	s.VacationLookbackCount = 1

	entries := []worktime.DayEntry{segmentDay(ref, worktime.DayWork, seg(ref, 8, 0, 15, 0, 10))}

	result := worktime.CreditedResult(vacation(monday2025Apr7), entries, s)
	assert.Equal(t, hm(6, 30), result.ValueSeconds)
}

func TestLookbackDates(t *testing.T) {
	dates := worktime.LookbackDates(monday2025Apr7, 3)
	assert.Equal(t, []time.Time{
		date(2025, time.March, 31),
		date(2025, time.March, 24),
		date(2025, time.March, 17),
	}, dates)
}

func TestHolidayCreditedSeconds(t *testing.T) {
	s := worktime.DefaultSettings()
	assert.Equal(t, int64(0), worktime.HolidayCreditedSeconds(s), "zero mode")

	s.HolidayCreditingMode = worktime.HolidayCreditWeeklyTargetDistributed
	assert.Equal(t, hm(8, 0), worktime.HolidayCreditedSeconds(s))

	s.WeeklyTargetSeconds = hm(38, 30)
	assert.Equal(t, hm(7, 42), worktime.HolidayCreditedSeconds(s))

	s.WeeklyTargetSeconds = hm(40, 0)
	s.ScheduledWorkdaysCount = 0
	assert.Equal(t, hm(40, 0), worktime.HolidayCreditedSeconds(s), "clamped to 1 day")

	s.ScheduledWorkdaysCount = 9
	assert.Equal(t, int64(20571), worktime.HolidayCreditedSeconds(s), "clamped to 7 days")
}
