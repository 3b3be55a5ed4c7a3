package worktime_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/worktime-engine/worktime"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func hm(h, m int) int64 {
	return int64(h*3600 + m*60)
}

func ptr(v int64) *int64 { return &v }

// seg builds a segment on day from hh:mm to hh:mm with a break in minutes.
func seg(day time.Time, startH, startM, endH, endM, breakMin int) worktime.TimeSegment {
	return worktime.TimeSegment{
		Start:        day.Add(time.Duration(startH)*time.Hour + time.Duration(startM)*time.Minute),
		End:          day.Add(time.Duration(endH)*time.Hour + time.Duration(endM)*time.Minute),
		BreakSeconds: int64(breakMin * 60),
	}
}

func manualDay(d time.Time, t worktime.DayType, seconds int64) worktime.DayEntry {
	return worktime.DayEntry{Date: d, Type: t, ManualWorkedSeconds: ptr(seconds)}
}

func segmentDay(d time.Time, t worktime.DayType, segments ...worktime.TimeSegment) worktime.DayEntry {
	return worktime.DayEntry{Date: d, Type: t, Segments: segments}
}

// =============================================================================
// MANUAL VALUES
// =============================================================================

func TestWorkedSeconds_ManualToleranceBand(t *testing.T) {
	day := date(2025, time.April, 7)

	tests := []struct {
		name   string
		dtype  worktime.DayType
		manual int64
		want   int64
	}{
		{"6h10m collapses to 6h", worktime.DayWork, hm(6, 10), hm(6, 0)},
		{"6h15m upper edge collapses to 6h", worktime.DayWork, hm(6, 15), hm(6, 0)},
		{"6h15m01s stays", worktime.DayWork, hm(6, 15) + 1, hm(6, 15) + 1},
		{"6h20m outside band", worktime.DayWork, hm(6, 20), hm(6, 20)},
		{"exactly 6h is a fixed point", worktime.DayWork, hm(6, 0), hm(6, 0)},
		{"9h05m collapses to 9h", worktime.DayWork, hm(9, 5), hm(9, 0)},
		{"9h15m upper edge collapses to 9h", worktime.DayWork, hm(9, 15), hm(9, 0)},
		{"9h16m outside band", worktime.DayWork, hm(9, 16), hm(9, 16)},
		{"manual type is corrected too", worktime.DayManual, hm(6, 10), hm(6, 0)},
		{"vacation manual value unchanged", worktime.DayVacation, hm(6, 10), hm(6, 10)},
		{"sick manual value unchanged", worktime.DaySick, hm(9, 5), hm(9, 5)},
		{"zero", worktime.DayWork, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := worktime.WorkedSeconds(manualDay(day, tt.dtype, tt.manual))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkedSeconds_NegativeManual_Fails(t *testing.T) {
	_, err := worktime.WorkedSeconds(manualDay(date(2025, time.April, 7), worktime.DayWork, -60))

	require.Error(t, err)
	assert.True(t, errors.Is(err, worktime.ErrNegativeManualValue))

	var wsErr *worktime.WorkedSecondsError
	assert.ErrorAs(t, err, &wsErr)
}

func TestWorkedSeconds_ManualOverridesSegments(t *testing.T) {
	// GIVEN: A work day with both 8h of segments and a manual 5h value
	// THEN: The manual value wins
	day := date(2025, time.April, 7)
	entry := segmentDay(day, worktime.DayWork, seg(day, 8, 0, 16, 0, 0))
	entry.ManualWorkedSeconds = ptr(hm(5, 0))

	got, err := worktime.WorkedSeconds(entry)
	require.NoError(t, err)
	assert.Equal(t, hm(5, 0), got)
}

// =============================================================================
// SEGMENTS AND BREAK CORRECTION
// =============================================================================

func TestWorkedSeconds_Segments(t *testing.T) {
	day := date(2025, time.April, 7)

	tests := []struct {
		name     string
		segments []worktime.TimeSegment
		want     int64
	}{
		{
			name:     "7h with 10m break deducts 20m complement",
			segments: []worktime.TimeSegment{seg(day, 8, 0, 15, 0, 10)},
			want:     hm(6, 30),
		},
		{
			name:     "10h with 30m break deducts 15m complement",
			segments: []worktime.TimeSegment{seg(day, 7, 0, 17, 0, 30)},
			want:     hm(9, 15),
		},
		{
			name:     "8h with full 30m break",
			segments: []worktime.TimeSegment{seg(day, 8, 0, 16, 0, 30)},
			want:     hm(7, 30),
		},
		{
			name:     "6h10m without break collapses to 6h and needs no break",
			segments: []worktime.TimeSegment{seg(day, 8, 0, 14, 10, 0)},
			want:     hm(6, 0),
		},
		{
			name:     "6h30m without break loses 30m",
			segments: []worktime.TimeSegment{seg(day, 8, 0, 14, 30, 0)},
			want:     hm(6, 0),
		},
		{
			name:     "5h without break",
			segments: []worktime.TimeSegment{seg(day, 8, 0, 13, 0, 0)},
			want:     hm(5, 0),
		},
		{
			name: "two blocks sum presence and breaks",
			segments: []worktime.TimeSegment{
				seg(day, 8, 0, 12, 0, 0),
				seg(day, 12, 30, 17, 0, 15),
			},
			// presence 8h30m, explicit 15m, net 8h15m, required 30m -> 15m missing
			want: hm(8, 0),
		},
		{
			name:     "10h without break loses 45m",
			segments: []worktime.TimeSegment{seg(day, 7, 0, 17, 0, 0)},
			want:     hm(9, 15),
		},
		{
			name:     "no segments",
			segments: nil,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := worktime.WorkedSeconds(segmentDay(day, worktime.DayWork, tt.segments...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkedSeconds_NonWorkSegments_NoBreakLogic(t *testing.T) {
	// GIVEN: A sick day with 8h of presence and a break larger than allowed on work days
	// THEN: Presence is returned as-is
	day := date(2025, time.April, 7)
	entry := segmentDay(day, worktime.DaySick, worktime.TimeSegment{
		Start:        day.Add(8 * time.Hour),
		End:          day.Add(16 * time.Hour),
		BreakSeconds: -30,
	})

	got, err := worktime.WorkedSeconds(entry)
	require.NoError(t, err)
	assert.Equal(t, hm(8, 0), got)
}

func TestWorkedSeconds_InvalidSegments_MessagesJoined(t *testing.T) {
	day := date(2025, time.April, 7)
	entry := segmentDay(day, worktime.DayWork, seg(day, 12, 0, 9, 0, 0))

	_, err := worktime.WorkedSeconds(entry)

	require.Error(t, err)
	assert.True(t, errors.Is(err, worktime.ErrInvalidSegments))
	assert.Equal(t, "End time must be after start time. Break exceeds segment duration.", err.Error())
}

func TestApplyTolerance_Idempotent(t *testing.T) {
	for s := int64(0); s <= hm(12, 0); s += 30 {
		once := worktime.ApplyTolerance(s)
		assert.Equal(t, once, worktime.ApplyTolerance(once), "seconds=%d", s)
	}
}

func TestRequiredBreak(t *testing.T) {
	assert.Equal(t, int64(0), worktime.RequiredBreak(hm(6, 0)))
	assert.Equal(t, hm(0, 30), worktime.RequiredBreak(hm(6, 0)+1))
	assert.Equal(t, hm(0, 30), worktime.RequiredBreak(hm(9, 0)))
	assert.Equal(t, hm(0, 45), worktime.RequiredBreak(hm(9, 0)+1))
}

func TestWorkedSeconds_NeverNegative(t *testing.T) {
	day := date(2025, time.April, 7)
	for minutes := 1; minutes <= 12*60; minutes += 7 {
		for _, breakMin := range []int{0, 10, 30, 45} {
			if breakMin > minutes {
				continue
			}
			entry := segmentDay(day, worktime.DayWork, worktime.TimeSegment{
				Start:        day.Add(6 * time.Hour),
				End:          day.Add(6*time.Hour + time.Duration(minutes)*time.Minute),
				BreakSeconds: int64(breakMin * 60),
			})
			got, err := worktime.WorkedSeconds(entry)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got, int64(0))
		}
	}
}

// =============================================================================
// VALIDATOR
// =============================================================================

func TestValidateSegments(t *testing.T) {
	day := date(2025, time.April, 7)

	tests := []struct {
		name  string
		dtype worktime.DayType
		seg   worktime.TimeSegment
		want  []string
	}{
		{"valid", worktime.DayWork, seg(day, 8, 0, 16, 0, 30), nil},
		{"zero length", worktime.DayWork, seg(day, 8, 0, 8, 0, 0), []string{"End time must be after start time."}},
		{"negative break", worktime.DayWork, seg(day, 8, 0, 16, 0, -1), []string{"Break cannot be negative."}},
		{"break too long", worktime.DayWork, seg(day, 8, 0, 9, 0, 61), []string{"Break exceeds segment duration."}},
		{"break equals duration", worktime.DayWork, seg(day, 8, 0, 9, 0, 60), nil},
		{"vacation skips break checks", worktime.DayVacation, seg(day, 8, 0, 9, 0, 120), nil},
		{"vacation still checks order", worktime.DayVacation, seg(day, 9, 0, 8, 0, 0), []string{"End time must be after start time."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := worktime.ValidateSegments([]worktime.TimeSegment{tt.seg}, tt.dtype)
			var got []string
			for _, e := range errs {
				got = append(got, e.Message)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateSegments_ReportsSegmentIndex(t *testing.T) {
	day := date(2025, time.April, 7)
	errs := worktime.ValidateSegments([]worktime.TimeSegment{
		seg(day, 8, 0, 12, 0, 0),
		seg(day, 13, 0, 12, 30, 0),
	}, worktime.DayManual)

	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Segment)
}
