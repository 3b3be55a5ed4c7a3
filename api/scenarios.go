/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	attendance history. Each scenario saves settings and a few weeks of day
	entries anchored on the current week, so the summaries and lookback
	credits have something to work with.

AVAILABLE SCENARIOS:

	steady-worker:  Hourly pay, 13 full weeks, vacation and sick this week
	part-time:      Monthly salary, 4-day week, distributed holiday credit
	new-hire:       3 weeks of history, missing weeks counted as zero
	strict-history: Strict lookback with a gap, vacation fails with dates

HOW SCENARIOS WORK:
 1. Reset store (clear all data)
 2. Save settings
 3. Save history entries
 4. Save this week's credited days

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "steady-worker"}

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler context
  - factory/settings.go: Settings JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/warp/worktime-engine/worktime"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "steady-worker",
		Name:        "Steady Worker",
		Description: "Hourly pay with 13 full weeks of history; vacation Monday and sick Wednesday this week",
	},
	{
		ID:          "part-time",
		Name:        "Part-Time Salaried",
		Description: "Monthly salary, 38.5h over 4 days, holidays credited from the weekly target",
	},
	{
		ID:          "new-hire",
		Name:        "New Hire",
		Description: "Only 3 weeks of history; missing lookback weeks count as zero",
	},
	{
		ID:          "strict-history",
		Name:        "Strict History",
		Description: "Strict lookback with one missing week; the vacation day reports the gap",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var load func(context.Context) error
	switch req.ScenarioID {
	case "steady-worker":
		load = h.loadSteadyWorkerScenario
	case "part-time":
		load = h.loadPartTimeScenario
	case "new-hire":
		load = h.loadNewHireScenario
	case "strict-history":
		load = h.loadStrictHistoryScenario
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()
	h.mu.Lock()
	defer h.mu.Unlock()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	h.currentScenario = ""

	if err := load(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}
	h.currentScenario = req.ScenarioID

	h.Logger.Info("scenario loaded", "scenario", req.ScenarioID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all entries and settings.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// thisMonday is the anchor every scenario builds history backwards from.
func (h *Handler) thisMonday() time.Time {
	return worktime.WeekStartDate(h.now().In(h.loc), worktime.WeekStartMonday)
}

func (h *Handler) loadSteadyWorkerScenario(ctx context.Context) error {
	st := worktime.DefaultSettings()
	st.HourlyRateCents = 2500
	if err := h.Store.SaveSettings(ctx, st); err != nil {
		return err
	}

	monday := h.thisMonday()
	for week := 1; week <= 13; week++ {
		for weekday := 0; weekday < 5; weekday++ {
			// 08:00-16:30 with a 30 minute break is a clean 8h day
			d := worktime.AddDays(monday, -7*week+weekday)
			if err := h.Store.SaveDay(ctx, segmentDay(d, worktime.DayWork, 8, 0, 16, 30, 30)); err != nil {
				return err
			}
		}
	}

	return h.saveAll(ctx,
		worktime.DayEntry{Date: monday, Type: worktime.DayVacation, Notes: "long weekend"},
		segmentDay(worktime.AddDays(monday, 1), worktime.DayWork, 7, 45, 17, 0, 45),
		worktime.DayEntry{Date: worktime.AddDays(monday, 2), Type: worktime.DaySick},
	)
}

func (h *Handler) loadPartTimeScenario(ctx context.Context) error {
	st := worktime.DefaultSettings()
	st.PayMode = worktime.PayMonthly
	st.MonthlySalaryCents = 280000
	st.WeeklyTargetSeconds = 38*3600 + 30*60
	st.ScheduledWorkdaysCount = 4
	st.HolidayCreditingMode = worktime.HolidayCreditWeeklyTargetDistributed
	if err := h.Store.SaveSettings(ctx, st); err != nil {
		return err
	}

	monday := h.thisMonday()
	for week := 1; week <= 8; week++ {
		for weekday := 0; weekday < 4; weekday++ {
			d := worktime.AddDays(monday, -7*week+weekday)
			if err := h.Store.SaveDay(ctx, manualDay(d, worktime.DayManual, 9*3600+37*60)); err != nil {
				return err
			}
		}
	}

	return h.saveAll(ctx,
		worktime.DayEntry{Date: monday, Type: worktime.DayHoliday, Notes: "public holiday"},
		manualDay(worktime.AddDays(monday, 1), worktime.DayManual, 9*3600+40*60),
	)
}

func (h *Handler) loadNewHireScenario(ctx context.Context) error {
	st := worktime.DefaultSettings()
	st.HourlyRateCents = 2000
	st.CountMissingAsZero = true
	if err := h.Store.SaveSettings(ctx, st); err != nil {
		return err
	}

	monday := h.thisMonday()
	for week := 1; week <= 3; week++ {
		for weekday := 0; weekday < 5; weekday++ {
			d := worktime.AddDays(monday, -7*week+weekday)
			if err := h.Store.SaveDay(ctx, manualDay(d, worktime.DayWork, 8*3600)); err != nil {
				return err
			}
		}
	}

	return h.saveAll(ctx, worktime.DayEntry{Date: monday, Type: worktime.DayVacation})
}

func (h *Handler) loadStrictHistoryScenario(ctx context.Context) error {
	st := worktime.DefaultSettings()
	st.HourlyRateCents = 2000
	st.StrictHistoryRequired = true
	if err := h.Store.SaveSettings(ctx, st); err != nil {
		return err
	}

	monday := h.thisMonday()
	for week := 1; week <= 13; week++ {
		if week == 5 {
			continue
		}
		d := worktime.AddDays(monday, -7*week)
		if err := h.Store.SaveDay(ctx, manualDay(d, worktime.DayWork, 8*3600)); err != nil {
			return err
		}
	}

	return h.saveAll(ctx, worktime.DayEntry{Date: monday, Type: worktime.DayVacation})
}

func (h *Handler) saveAll(ctx context.Context, days ...worktime.DayEntry) error {
	for _, d := range days {
		if err := h.Store.SaveDay(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func segmentDay(d time.Time, t worktime.DayType, startH, startM, endH, endM, breakMin int) worktime.DayEntry {
	at := func(hour, min int) time.Time {
		return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, d.Location())
	}
	return worktime.DayEntry{
		Date: d,
		Type: t,
		Segments: []worktime.TimeSegment{{
			Start:        at(startH, startM),
			End:          at(endH, endM),
			BreakSeconds: int64(breakMin) * 60,
		}},
	}
}

func manualDay(d time.Time, t worktime.DayType, seconds int64) worktime.DayEntry {
	return worktime.DayEntry{Date: d, Type: t, ManualWorkedSeconds: &seconds}
}
