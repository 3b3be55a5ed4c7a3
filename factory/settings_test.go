package factory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/worktime-engine/worktime"
)

func TestParseSettings_Full(t *testing.T) {
	f := NewSettingsFactory()

	s, err := f.ParseSettings(`{
		"pay_mode": "monthly",
		"hourly_rate": "20.00",
		"monthly_salary": "2800.00",
		"weekly_target_hours": 38.5,
		"week_start": "sunday",
		"vacation_lookback_weeks": 8,
		"count_missing_as_zero": true,
		"strict_history_required": true,
		"holiday_crediting_mode": "weeklyTargetDistributed",
		"scheduled_workdays": 4
	}`)

	require.NoError(t, err)
	assert.Equal(t, worktime.Settings{
		PayMode:                worktime.PayMonthly,
		HourlyRateCents:        2000,
		MonthlySalaryCents:     280000,
		WeeklyTargetSeconds:    138600,
		WeekStart:              worktime.WeekStartSunday,
		VacationLookbackCount:  8,
		CountMissingAsZero:     true,
		StrictHistoryRequired:  true,
		HolidayCreditingMode:   worktime.HolidayCreditWeeklyTargetDistributed,
		ScheduledWorkdaysCount: 4,
	}, s)
}

func TestParseSettings_EmptyDocumentGivesDefaults(t *testing.T) {
	s, err := NewSettingsFactory().ParseSettings(`{}`)

	require.NoError(t, err)
	assert.Equal(t, worktime.DefaultSettings(), s)
}

func TestParseSettings_Clamps(t *testing.T) {
	s, err := NewSettingsFactory().ParseSettings(`{"vacation_lookback_weeks": 0, "scheduled_workdays": 9}`)
	require.NoError(t, err)
	assert.Equal(t, 1, s.VacationLookbackCount)
	assert.Equal(t, 7, s.ScheduledWorkdaysCount)

	s, err = NewSettingsFactory().ParseSettings(`{"scheduled_workdays": -2}`)
	require.NoError(t, err)
	assert.Equal(t, 1, s.ScheduledWorkdaysCount)
}

func TestParseSettings_Rejects(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"malformed", `{"pay_mode":`},
		{"unknown pay mode", `{"pay_mode": "weekly"}`},
		{"unknown week start", `{"week_start": "friday"}`},
		{"unknown holiday mode", `{"holiday_crediting_mode": "double"}`},
		{"negative rate", `{"hourly_rate": "-1"}`},
		{"negative salary", `{"monthly_salary": -100}`},
		{"zero target", `{"weekly_target_hours": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSettingsFactory().ParseSettings(tt.json)
			assert.ErrorIs(t, err, worktime.ErrInvalidSettings)
			assert.True(t, worktime.IsClientError(err))
		})
	}
}

func TestSettingsToJSON_RoundTrip(t *testing.T) {
	f := NewSettingsFactory()
	original := worktime.DefaultSettings()
	original.HourlyRateCents = 2150
	original.CountMissingAsZero = true

	data, err := json.Marshal(f.ToJSON(original))
	require.NoError(t, err)

	parsed, err := f.ParseSettings(string(data))
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
	assert.Contains(t, string(data), `"hourly_rate":"21.5"`)
}
