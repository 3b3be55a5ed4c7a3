/*
Package factory provides JSON to Go settings conversion.

PURPOSE:
  Converts JSON settings documents into worktime.Settings values. Money is
  written in currency units and time in hours so a settings file reads the
  way a payslip does; the factory converts to cents and seconds.

JSON SCHEMA:
  {
    "pay_mode": "hourly",
    "hourly_rate": "20.00",
    "monthly_salary": "3000.00",
    "weekly_target_hours": 40,
    "week_start": "monday",
    "vacation_lookback_weeks": 13,
    "count_missing_as_zero": false,
    "strict_history_required": false,
    "holiday_crediting_mode": "zero",
    "scheduled_workdays": 5
  }

DEFAULTS:
  Omitted fields take worktime.DefaultSettings() values. Lookback weeks are
  clamped to at least 1 and scheduled workdays to 1..7.

USAGE:
  f := factory.NewSettingsFactory()
  settings, err := f.ParseSettings(jsonString)

SEE ALSO:
  - worktime/types.go: Settings type definition
  - api/handlers.go: PUT /api/settings accepts this document
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/worktime-engine/worktime"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// SettingsJSON is the JSON representation of worktime settings.
type SettingsJSON struct {
	PayMode               string           `json:"pay_mode,omitempty"`
	HourlyRate            *decimal.Decimal `json:"hourly_rate,omitempty"`    // currency units
	MonthlySalary         *decimal.Decimal `json:"monthly_salary,omitempty"` // currency units
	WeeklyTargetHours     *decimal.Decimal `json:"weekly_target_hours,omitempty"`
	WeekStart             string           `json:"week_start,omitempty"`
	VacationLookbackWeeks *int             `json:"vacation_lookback_weeks,omitempty"`
	CountMissingAsZero    bool             `json:"count_missing_as_zero"`
	StrictHistoryRequired bool             `json:"strict_history_required"`
	HolidayCreditingMode  string           `json:"holiday_crediting_mode,omitempty"`
	ScheduledWorkdays     *int             `json:"scheduled_workdays,omitempty"`
}

// =============================================================================
// SETTINGS FACTORY
// =============================================================================

// SettingsFactory converts JSON settings to worktime.Settings.
type SettingsFactory struct{}

// NewSettingsFactory creates a new settings factory.
func NewSettingsFactory() *SettingsFactory {
	return &SettingsFactory{}
}

// ParseSettings parses a JSON string into Settings.
func (f *SettingsFactory) ParseSettings(jsonStr string) (worktime.Settings, error) {
	var sj SettingsJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return worktime.Settings{}, fmt.Errorf("%w: failed to parse settings JSON: %v", worktime.ErrInvalidSettings, err)
	}
	return f.FromJSON(sj)
}

// FromJSON converts SettingsJSON to worktime.Settings.
func (f *SettingsFactory) FromJSON(sj SettingsJSON) (worktime.Settings, error) {
	s := worktime.DefaultSettings()

	var err error
	if s.PayMode, err = parsePayMode(sj.PayMode); err != nil {
		return worktime.Settings{}, err
	}
	if s.WeekStart, err = parseWeekStart(sj.WeekStart); err != nil {
		return worktime.Settings{}, err
	}
	if s.HolidayCreditingMode, err = parseHolidayMode(sj.HolidayCreditingMode); err != nil {
		return worktime.Settings{}, err
	}

	if sj.HourlyRate != nil {
		if s.HourlyRateCents, err = toCents("hourly_rate", *sj.HourlyRate); err != nil {
			return worktime.Settings{}, err
		}
	}
	if sj.MonthlySalary != nil {
		if s.MonthlySalaryCents, err = toCents("monthly_salary", *sj.MonthlySalary); err != nil {
			return worktime.Settings{}, err
		}
	}
	if sj.WeeklyTargetHours != nil {
		if !sj.WeeklyTargetHours.IsPositive() {
			return worktime.Settings{}, invalid("weekly_target_hours must be positive")
		}
		s.WeeklyTargetSeconds = sj.WeeklyTargetHours.Mul(decimal.NewFromInt(3600)).Round(0).IntPart()
	}

	if sj.VacationLookbackWeeks != nil {
		s.VacationLookbackCount = max(1, *sj.VacationLookbackWeeks)
	}
	if sj.ScheduledWorkdays != nil {
		s.ScheduledWorkdaysCount = min(7, max(1, *sj.ScheduledWorkdays))
	}

	s.CountMissingAsZero = sj.CountMissingAsZero
	s.StrictHistoryRequired = sj.StrictHistoryRequired

	return s, nil
}

// ToJSON converts Settings to SettingsJSON.
func (f *SettingsFactory) ToJSON(s worktime.Settings) SettingsJSON {
	rate := worktime.CentsToDecimal(s.HourlyRateCents)
	salary := worktime.CentsToDecimal(s.MonthlySalaryCents)
	target := worktime.SecondsToHours(s.WeeklyTargetSeconds)
	lookback := s.VacationLookbackCount
	workdays := s.ScheduledWorkdaysCount

	return SettingsJSON{
		PayMode:               string(s.PayMode),
		HourlyRate:            &rate,
		MonthlySalary:         &salary,
		WeeklyTargetHours:     &target,
		WeekStart:             string(s.WeekStart),
		VacationLookbackWeeks: &lookback,
		CountMissingAsZero:    s.CountMissingAsZero,
		StrictHistoryRequired: s.StrictHistoryRequired,
		HolidayCreditingMode:  string(s.HolidayCreditingMode),
		ScheduledWorkdays:     &workdays,
	}
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parsePayMode(s string) (worktime.PayMode, error) {
	switch strings.ToLower(s) {
	case "", "hourly":
		return worktime.PayHourly, nil
	case "monthly":
		return worktime.PayMonthly, nil
	default:
		return "", invalid(fmt.Sprintf("unknown pay_mode %q", s))
	}
}

func parseWeekStart(s string) (worktime.WeekStart, error) {
	switch strings.ToLower(s) {
	case "", "monday":
		return worktime.WeekStartMonday, nil
	case "sunday":
		return worktime.WeekStartSunday, nil
	default:
		return "", invalid(fmt.Sprintf("unknown week_start %q", s))
	}
}

func parseHolidayMode(s string) (worktime.HolidayCreditingMode, error) {
	switch s {
	case "", string(worktime.HolidayCreditZero):
		return worktime.HolidayCreditZero, nil
	case string(worktime.HolidayCreditWeeklyTargetDistributed), "weekly_target_distributed":
		return worktime.HolidayCreditWeeklyTargetDistributed, nil
	default:
		return "", invalid(fmt.Sprintf("unknown holiday_crediting_mode %q", s))
	}
}

func toCents(field string, amount decimal.Decimal) (int64, error) {
	if amount.IsNegative() {
		return 0, invalid(field + " cannot be negative")
	}
	return amount.Shift(2).Round(0).IntPart(), nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", worktime.ErrInvalidSettings, msg)
}
