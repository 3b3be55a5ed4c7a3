package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/worktime-engine/export"
	"github.com/warp/worktime-engine/worktime"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(v int64) *int64 { return &v }

func settings() worktime.Settings {
	s := worktime.DefaultSettings()
	s.HourlyRateCents = 2000
	return s
}

func TestRow_WorkDayFillsWorkedColumns(t *testing.T) {
	entry := worktime.DayEntry{Date: day(time.April, 7), Type: worktime.DayWork, Notes: "office"}

	row := export.Row(entry, worktime.Ok(27000, 15000))

	assert.Equal(t, []string{"2025-04-07", "work", "7.50", "150.00", "", "", "office"}, row)
}

func TestRow_CreditedDayFillsCreditedColumns(t *testing.T) {
	entry := worktime.DayEntry{Date: day(time.April, 8), Type: worktime.DaySick}

	row := export.Row(entry, worktime.Warning(2215, 1231, "All 13 lookback values are 0."))

	assert.Equal(t, []string{"2025-04-08", "sick", "", "", "0.62", "12.31", ""}, row)
}

func TestRow_ErroredDayIsEmpty(t *testing.T) {
	entry := worktime.DayEntry{Date: day(time.April, 9), Type: worktime.DayVacation, Notes: "trip"}

	row := export.Row(entry, worktime.Failed("Missing reference entries.", nil))

	assert.Equal(t, []string{"2025-04-09", "vacation", "", "", "", "", "trip"}, row)
}

func TestWriteCSV_Month(t *testing.T) {
	// GIVEN: Two April days and one March day
	snap := worktime.Snapshot{
		Settings: settings(),
		Entries: []worktime.DayEntry{
			{Date: day(time.April, 2), Type: worktime.DayManual, ManualWorkedSeconds: ptr(3600), Notes: "late, remote"},
			{Date: day(time.March, 31), Type: worktime.DayWork, ManualWorkedSeconds: ptr(3600)},
			{Date: day(time.April, 1), Type: worktime.DayHoliday, CreditedOverrideSeconds: ptr(28800)},
		},
	}

	var buf bytes.Buffer
	err := export.WriteCSV(&buf, snap, worktime.MonthPeriod(2025, time.April, time.UTC))

	// THEN: Header, then April days in order, notes quoted
	require.NoError(t, err)
	assert.Equal(t,
		"date,type,workedHours,workedPay,creditedHours,creditedPay,notes\n"+
			"2025-04-01,holiday,,,8.00,160.00,\n"+
			"2025-04-02,manual,1.00,20.00,,,\"late, remote\"\n",
		buf.String())
}
