/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's value types from the external API contract: dates travel as
  YYYY-MM-DD, instants as RFC3339, money both as cents and as a formatted
  amount.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Days:
    DayDTO, SegmentDTO, DayResponse

  Computation:
    ResultDTO, SummaryDTO, DayResultDTO

  Validation:
    ValidateRequest, ValidateResponse, ValidationErrorDTO

  Holidays:
    HolidayImportRequest, HolidayImportResponse

  Scenarios:
    ScenarioDTO

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/settings.go: SettingsJSON type
*/
package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/worktime-engine/worktime"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// SegmentDTO is one presence interval. Start and End accept RFC3339 or,
// relative to the day's date, HH:MM.
type SegmentDTO struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	BreakSeconds int64  `json:"break_seconds,omitempty"`
}

// DayDTO represents a day entry in requests and responses.
type DayDTO struct {
	Date                    string       `json:"date"`
	Type                    string       `json:"type"`
	Notes                   string       `json:"notes,omitempty"`
	Segments                []SegmentDTO `json:"segments,omitempty"`
	ManualWorkedSeconds     *int64       `json:"manual_worked_seconds,omitempty"`
	CreditedOverrideSeconds *int64       `json:"credited_override_seconds,omitempty"`
}

// ResultDTO is a ComputationResult with display fields.
type ResultDTO struct {
	Status       string   `json:"status"`
	ValueSeconds int64    `json:"value_seconds"`
	ValueHours   string   `json:"value_hours"`
	ValueCents   int64    `json:"value_cents"`
	ValueAmount  string   `json:"value_amount"`
	Message      string   `json:"message,omitempty"`
	MissingDates []string `json:"missing_dates,omitempty"`
}

// DayResponse pairs an entry with its computed result.
type DayResponse struct {
	Day    DayDTO    `json:"day"`
	Result ResultDTO `json:"result"`
	Source string    `json:"source,omitempty"`
}

// DayResultDTO is one row of a summary.
type DayResultDTO struct {
	Date   string    `json:"date"`
	Type   string    `json:"type"`
	Result ResultDTO `json:"result"`
}

// SummaryDTO represents period totals.
type SummaryDTO struct {
	From              string         `json:"from"`
	To                string         `json:"to"`
	TotalSeconds      int64          `json:"total_seconds"`
	TotalHours        string         `json:"total_hours"`
	TotalCents        int64          `json:"total_cents"`
	TotalAmount       string         `json:"total_amount"`
	WarningCount      int            `json:"warning_count"`
	ErroredDaysCount  int            `json:"errored_days_count"`
	ExcludedDaysCount int            `json:"excluded_days_count"`
	Days              []DayResultDTO `json:"days"`
}

// ValidateRequest checks a draft day without saving it.
type ValidateRequest struct {
	Date                string       `json:"date"`
	Type                string       `json:"type"`
	Segments            []SegmentDTO `json:"segments"`
	ManualWorkedSeconds *int64       `json:"manual_worked_seconds,omitempty"`
}

// ValidationErrorDTO is one segment problem.
type ValidationErrorDTO struct {
	Segment int    `json:"segment"`
	Message string `json:"message"`
}

// ValidateResponse reports segment problems and, when valid, the worked value.
type ValidateResponse struct {
	Valid         bool                 `json:"valid"`
	Errors        []ValidationErrorDTO `json:"errors"`
	WorkedSeconds *int64               `json:"worked_seconds,omitempty"`
	Message       string               `json:"message,omitempty"`
}

// HolidayDTO names one public holiday.
type HolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// HolidayImportRequest lists holidays to turn into holiday entries.
type HolidayImportRequest struct {
	Holidays []HolidayDTO `json:"holidays"`
}

// HolidayImportResponse reports which dates were created and which already
// had an entry.
type HolidayImportResponse struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

// NetIncomeRequest carries monthly gross figures in currency units.
type NetIncomeRequest struct {
	Gross          decimal.Decimal `json:"gross"`
	Bonuses        decimal.Decimal `json:"bonuses"`
	WageTaxPercent decimal.Decimal `json:"wage_tax_percent"`
	PensionPercent decimal.Decimal `json:"pension_percent"`
	Allowance      decimal.Decimal `json:"allowance"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toDayDTO(d worktime.DayEntry) DayDTO {
	dto := DayDTO{
		Date:                    worktime.KeyOf(d.Date).String(),
		Type:                    string(d.Type),
		Notes:                   d.Notes,
		ManualWorkedSeconds:     d.ManualWorkedSeconds,
		CreditedOverrideSeconds: d.CreditedOverrideSeconds,
	}
	for _, s := range d.Segments {
		dto.Segments = append(dto.Segments, SegmentDTO{
			Start:        s.Start.Format(time.RFC3339),
			End:          s.End.Format(time.RFC3339),
			BreakSeconds: s.BreakSeconds,
		})
	}
	return dto
}

// fromDayDTO builds an entry; date is the already-resolved local day.
func fromDayDTO(dto DayDTO, date time.Time) (worktime.DayEntry, error) {
	dayType, err := worktime.ParseDayType(dto.Type)
	if err != nil {
		return worktime.DayEntry{}, err
	}
	segments, err := fromSegmentDTOs(dto.Segments, date)
	if err != nil {
		return worktime.DayEntry{}, err
	}
	return worktime.DayEntry{
		Date:                    date,
		Type:                    dayType,
		Notes:                   dto.Notes,
		Segments:                segments,
		ManualWorkedSeconds:     dto.ManualWorkedSeconds,
		CreditedOverrideSeconds: dto.CreditedOverrideSeconds,
	}, nil
}

func fromSegmentDTOs(dtos []SegmentDTO, date time.Time) ([]worktime.TimeSegment, error) {
	segments := make([]worktime.TimeSegment, 0, len(dtos))
	for i, s := range dtos {
		start, err := parseInstant(s.Start, date)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %d start: %v", worktime.ErrInvalidSegments, i, err)
		}
		end, err := parseInstant(s.End, date)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %d end: %v", worktime.ErrInvalidSegments, i, err)
		}
		segments = append(segments, worktime.TimeSegment{Start: start, End: end, BreakSeconds: s.BreakSeconds})
	}
	return segments, nil
}

// parseInstant accepts RFC3339 or a wall-clock HH:MM on date.
func parseInstant(v string, date time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	clock, err := time.Parse("15:04", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (use RFC3339 or HH:MM)", v)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, date.Location()), nil
}

func toResultDTO(r worktime.ComputationResult) ResultDTO {
	dto := ResultDTO{
		Status:       string(r.Status),
		ValueSeconds: r.ValueSeconds,
		ValueHours:   worktime.SecondsToHours(r.ValueSeconds).StringFixed(2),
		ValueCents:   r.ValueCents,
		ValueAmount:  worktime.CentsToDecimal(r.ValueCents).StringFixed(2),
		Message:      r.Message,
	}
	for _, d := range r.MissingDates {
		dto.MissingDates = append(dto.MissingDates, worktime.KeyOf(d).String())
	}
	return dto
}

func toSummaryDTO(s worktime.TotalsSummary) SummaryDTO {
	dto := SummaryDTO{
		From:              worktime.KeyOf(s.Period.Start).String(),
		To:                worktime.KeyOf(s.Period.End).String(),
		TotalSeconds:      s.TotalSeconds,
		TotalHours:        worktime.SecondsToHours(s.TotalSeconds).StringFixed(2),
		TotalCents:        s.TotalCents,
		TotalAmount:       worktime.CentsToDecimal(s.TotalCents).StringFixed(2),
		WarningCount:      s.WarningCount,
		ErroredDaysCount:  s.ErroredDaysCount,
		ExcludedDaysCount: s.ExcludedDaysCount,
		Days:              make([]DayResultDTO, 0, len(s.Days)),
	}
	for _, d := range s.Days {
		dto.Days = append(dto.Days, DayResultDTO{
			Date:   worktime.KeyOf(d.Date).String(),
			Type:   string(d.Type),
			Result: toResultDTO(d.Result),
		})
	}
	return dto
}
