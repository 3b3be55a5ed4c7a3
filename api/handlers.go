/*
handlers.go - HTTP API handlers for the worktime engine

PURPOSE:
  Exposes the worktime engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the pure engine functions. Every
  computation reads one store Snapshot and hands copies to the engine.

ENDPOINTS:
  Settings:
    GET    /api/settings                 Current settings
    PUT    /api/settings                 Replace settings (omitted fields default)

  Days:
    GET    /api/days?from=&to=           List entries in range
    GET    /api/days/{date}              Entry with computed result
    PUT    /api/days/{date}              Create or replace the entry
    DELETE /api/days/{date}              Clear the day
    GET    /api/days/{date}/computation  Computed result only

  Computation:
    POST   /api/validate                 Validate a draft day
    GET    /api/summary?from=&to=        Period totals
    GET    /api/summary/week?date=       Week containing date
    GET    /api/summary/month?year=&month=
    POST   /api/net-income               Monthly net estimate

  Export:
    GET    /api/export/csv?year=&month=  Month as CSV

  Holidays:
    POST   /api/holidays/import          Holiday entries for free dates

  Scenarios:
    GET    /api/scenarios                List demo scenarios
    POST   /api/scenarios/load           Load a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: No entry for the date
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/worktime-engine/export"
	"github.com/warp/worktime-engine/factory"
	"github.com/warp/worktime-engine/logging"
	"github.com/warp/worktime-engine/worktime"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is a worktime.Store that can also be wiped for demo scenarios.
type Store interface {
	worktime.Store
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store           Store
	SettingsFactory *factory.SettingsFactory
	Logger          *slog.Logger

	loc *time.Location
	now func() time.Time

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// Option configures a Handler.
type Option func(*Handler)

// WithLocation sets the location day keys resolve in.
func WithLocation(loc *time.Location) Option {
	return func(h *Handler) { h.loc = loc }
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.Logger = logger }
}

// WithClock replaces time.Now, used for scenario anchoring.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// NewHandler creates a new handler with the given store.
func NewHandler(store Store, opts ...Option) *Handler {
	h := &Handler{
		Store:           store,
		SettingsFactory: factory.NewSettingsFactory(),
		Logger:          slog.Default(),
		loc:             time.Local,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the current settings.
// GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, h.SettingsFactory.ToJSON(st))
}

// UpdateSettings replaces the settings.
// PUT /api/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req factory.SettingsJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	st, err := h.SettingsFactory.FromJSON(req)
	if err != nil {
		writeDomainError(w, "Invalid settings", err)
		return
	}
	if err := h.Store.SaveSettings(r.Context(), st); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}

	logging.FromContext(r.Context()).Info("settings updated",
		"pay_mode", st.PayMode, "lookback_weeks", st.VacationLookbackCount)
	writeJSON(w, http.StatusOK, h.SettingsFactory.ToJSON(st))
}

// =============================================================================
// DAY HANDLERS
// =============================================================================

// ListDays returns entries within [from, to].
// GET /api/days?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodFromQuery(r)
	if err != nil {
		writeDomainError(w, "Invalid range", err)
		return
	}

	days, err := h.Store.ListDays(r.Context(), period.Start, period.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list days", err)
		return
	}

	dtos := make([]DayDTO, 0, len(days))
	for _, d := range days {
		dtos = append(dtos, toDayDTO(d))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetDay returns one entry together with its computed result.
// GET /api/days/{date}
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.computeDay(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetDayComputation returns only the computed result.
// GET /api/days/{date}/computation
func (h *Handler) GetDayComputation(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.computeDay(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp.Result)
}

func (h *Handler) computeDay(w http.ResponseWriter, r *http.Request) (DayResponse, bool) {
	date, err := h.dateParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return DayResponse{}, false
	}

	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read entries", err)
		return DayResponse{}, false
	}

	day, result, err := snap.Day(date)
	if err != nil {
		writeDomainError(w, "No entry for date", err)
		return DayResponse{}, false
	}
	if result.IsError() {
		logging.FromContext(r.Context()).Debug("day computation failed",
			"date", worktime.KeyOf(date).String(), "type", day.Type, "message", result.Message)
	}

	resp := DayResponse{Day: toDayDTO(day), Result: toResultDTO(result)}
	if day.Type.IsCredited() {
		resp.Source = string(worktime.ResolveCreditSource(day, snap.Settings))
	}
	return resp, true
}

// SaveDay creates or replaces the entry for a date.
// PUT /api/days/{date}
func (h *Handler) SaveDay(w http.ResponseWriter, r *http.Request) {
	date, err := h.dateParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	var req DayDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Date != "" && req.Date != worktime.KeyOf(date).String() {
		writeError(w, http.StatusBadRequest, "Body date does not match path", nil)
		return
	}

	entry, err := fromDayDTO(req, date)
	if err != nil {
		writeDomainError(w, "Invalid day", err)
		return
	}
	if errs := worktime.ValidateSegments(entry.Segments, entry.Type); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid segments",
			Code:    "invalid_segments",
			Details: toValidationErrorDTOs(errs),
		})
		return
	}

	ctx := r.Context()
	if err := h.Store.SaveDay(ctx, entry); err != nil {
		writeDomainError(w, "Failed to save day", err)
		return
	}
	logging.FromContext(ctx).Info("day saved", "date", worktime.KeyOf(date).String(), "type", entry.Type)

	resp, ok := h.computeDay(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteDay clears a date back to "no entry".
// DELETE /api/days/{date}
func (h *Handler) DeleteDay(w http.ResponseWriter, r *http.Request) {
	date, err := h.dateParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	if err := h.Store.DeleteDay(r.Context(), date); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete day", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// COMPUTATION HANDLERS
// =============================================================================

// Validate checks a draft day and reports the worked value when valid.
// POST /api/validate
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date := worktime.StartOfDay(h.now().In(h.loc))
	if req.Date != "" {
		key, err := worktime.ParseDateKey(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		date = key.In(h.loc)
	}

	entry, err := fromDayDTO(DayDTO{
		Type:                req.Type,
		Segments:            req.Segments,
		ManualWorkedSeconds: req.ManualWorkedSeconds,
	}, date)
	if err != nil {
		writeDomainError(w, "Invalid day", err)
		return
	}

	resp := ValidateResponse{Errors: toValidationErrorDTOs(worktime.ValidateSegments(entry.Segments, entry.Type))}
	if secs, err := worktime.WorkedSeconds(entry); err != nil {
		resp.Message = err.Error()
	} else {
		resp.WorkedSeconds = &secs
	}
	resp.Valid = len(resp.Errors) == 0 && resp.WorkedSeconds != nil

	writeJSON(w, http.StatusOK, resp)
}

// GetSummary returns totals for [from, to].
// GET /api/summary?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodFromQuery(r)
	if err != nil {
		writeDomainError(w, "Invalid range", err)
		return
	}
	h.writeSummary(w, r, period)
}

// GetWeekSummary returns totals for the week containing date.
// GET /api/summary/week?date=YYYY-MM-DD
func (h *Handler) GetWeekSummary(w http.ResponseWriter, r *http.Request) {
	date := worktime.StartOfDay(h.now().In(h.loc))
	if v := r.URL.Query().Get("date"); v != "" {
		key, err := worktime.ParseDateKey(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		date = key.In(h.loc)
	}

	st, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	h.writeSummary(w, r, worktime.WeekPeriod(date, st.WeekStart))
}

// GetMonthSummary returns totals for a calendar month.
// GET /api/summary/month?year=2025&month=4
func (h *Handler) GetMonthSummary(w http.ResponseWriter, r *http.Request) {
	period, err := h.monthFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}
	h.writeSummary(w, r, period)
}

func (h *Handler) writeSummary(w http.ResponseWriter, r *http.Request, period worktime.Period) {
	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read entries", err)
		return
	}

	summary := snap.Summary(period)
	logging.FromContext(r.Context()).Debug("period summarized",
		"period", period.String(),
		"days", len(summary.Days),
		"excluded", summary.ExcludedDaysCount)

	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// NetIncome estimates monthly net income.
// POST /api/net-income
func (h *Handler) NetIncome(w http.ResponseWriter, r *http.Request) {
	var req NetIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	net := worktime.MonthlyNet(req.Gross, req.Bonuses, req.WageTaxPercent, req.PensionPercent, req.Allowance)
	writeJSON(w, http.StatusOK, map[string]string{"net": net.StringFixed(2)})
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportCSV streams a month as CSV.
// GET /api/export/csv?year=2025&month=4
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	period, err := h.monthFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read entries", err)
		return
	}

	filename := fmt.Sprintf("worktime-%04d-%02d.csv", period.Start.Year(), int(period.Start.Month()))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	if err := export.WriteCSV(w, snap, period); err != nil {
		logging.FromContext(r.Context()).Error("csv export failed", "err", err)
	}
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

// ImportHolidays creates a holiday entry for every listed date that has no
// entry yet. Existing entries are left untouched.
// POST /api/holidays/import
func (h *Handler) ImportHolidays(w http.ResponseWriter, r *http.Request) {
	var req HolidayImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	resp := HolidayImportResponse{Created: []string{}, Skipped: []string{}}

	for _, hol := range req.Holidays {
		key, err := worktime.ParseDateKey(hol.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		date := key.In(h.loc)

		_, err = h.Store.GetDay(ctx, date)
		switch {
		case err == nil:
			resp.Skipped = append(resp.Skipped, key.String())
			continue
		case !worktime.IsNotFound(err):
			writeError(w, http.StatusInternalServerError, "Failed to read day", err)
			return
		}

		entry := worktime.DayEntry{Date: date, Type: worktime.DayHoliday, Notes: hol.Name}
		if err := h.Store.SaveDay(ctx, entry); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create holiday", err)
			return
		}
		resp.Created = append(resp.Created, key.String())
	}

	logging.FromContext(ctx).Info("holidays imported", "created", len(resp.Created), "skipped", len(resp.Skipped))
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) dateParam(r *http.Request) (time.Time, error) {
	key, err := worktime.ParseDateKey(chi.URLParam(r, "date"))
	if err != nil {
		return time.Time{}, err
	}
	return key.In(h.loc), nil
}

func (h *Handler) periodFromQuery(r *http.Request) (worktime.Period, error) {
	q := r.URL.Query()
	from, err := worktime.ParseDateKey(q.Get("from"))
	if err != nil {
		return worktime.Period{}, fmt.Errorf("%w: from: %v", worktime.ErrInvalidPeriod, err)
	}
	to, err := worktime.ParseDateKey(q.Get("to"))
	if err != nil {
		return worktime.Period{}, fmt.Errorf("%w: to: %v", worktime.ErrInvalidPeriod, err)
	}
	return worktime.NewPeriod(from.In(h.loc), to.In(h.loc))
}

func (h *Handler) monthFromQuery(r *http.Request) (worktime.Period, error) {
	now := h.now().In(h.loc)
	year, month := now.Year(), int(now.Month())

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return worktime.Period{}, fmt.Errorf("invalid year %q", v)
		}
		year = y
	}
	if v := q.Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return worktime.Period{}, fmt.Errorf("invalid month %q", v)
		}
		month = m
	}
	return worktime.MonthPeriod(year, time.Month(month), h.loc), nil
}

func toValidationErrorDTOs(errs []worktime.ValidationError) []ValidationErrorDTO {
	dtos := make([]ValidationErrorDTO, 0, len(errs))
	for _, e := range errs {
		dtos = append(dtos, ValidationErrorDTO{Segment: e.Segment, Message: e.Message})
	}
	return dtos
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError picks the status from the engine's error category.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case worktime.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case worktime.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
