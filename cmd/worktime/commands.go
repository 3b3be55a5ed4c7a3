package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/warp/worktime-engine/export"
	"github.com/warp/worktime-engine/factory"
	"github.com/warp/worktime-engine/worktime"
)

// =============================================================================
// DAY
// =============================================================================

func newDayCmd(a *app) *cobra.Command {
	dayCmd := &cobra.Command{
		Use:   "day",
		Short: "Record, show or clear a calendar day",
	}

	var (
		dayType  string
		segments []string
		manual   string
		override string
		notes    string
	)

	setCmd := &cobra.Command{
		Use:   "set DATE",
		Short: "Create or replace the entry for DATE (YYYY-MM-DD or today)",
		Long: `Create or replace the entry for a date.

Segments are HH:MM-HH:MM with an optional /break-minutes suffix and may be
repeated: --seg 08:00-12:00 --seg 12:30-17:00/15
Manual and override values are Go durations such as 7h30m.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := a.parseDate(args[0])
			if err != nil {
				return err
			}
			t, err := worktime.ParseDayType(dayType)
			if err != nil {
				return err
			}

			entry := worktime.DayEntry{Date: date, Type: t, Notes: notes}
			for _, s := range segments {
				seg, err := parseSegmentFlag(date, s)
				if err != nil {
					return err
				}
				entry.Segments = append(entry.Segments, seg)
			}
			if entry.ManualWorkedSeconds, err = parseSecondsFlag("manual", manual); err != nil {
				return err
			}
			if entry.CreditedOverrideSeconds, err = parseSecondsFlag("override", override); err != nil {
				return err
			}

			if errs := worktime.ValidateSegments(entry.Segments, entry.Type); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintf(cmd.ErrOrStderr(), "segment %d: %s\n", e.Segment+1, e.Message)
				}
				return worktime.ErrInvalidSegments
			}

			if err := a.store.SaveDay(cmd.Context(), entry); err != nil {
				return err
			}
			return a.printDay(cmd.OutOrStdout(), cmd, date)
		},
	}
	setCmd.Flags().StringVarP(&dayType, "type", "t", string(worktime.DayWork), "Day type: work, manual, vacation, holiday, sick")
	setCmd.Flags().StringArrayVarP(&segments, "seg", "s", nil, "Segment HH:MM-HH:MM[/break-minutes]")
	setCmd.Flags().StringVarP(&manual, "manual", "m", "", "Manual worked time, e.g. 7h30m")
	setCmd.Flags().StringVar(&override, "override", "", "Credited override, e.g. 8h")
	setCmd.Flags().StringVarP(&notes, "notes", "n", "", "Free-text notes")

	showCmd := &cobra.Command{
		Use:   "show DATE",
		Short: "Show the entry and computed result for DATE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := a.parseDate(args[0])
			if err != nil {
				return err
			}
			return a.printDay(cmd.OutOrStdout(), cmd, date)
		},
	}

	deleteCmd := &cobra.Command{
		Use:     "delete DATE",
		Aliases: []string{"rm"},
		Short:   "Clear DATE back to no entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := a.parseDate(args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeleteDay(cmd.Context(), date); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", worktime.KeyOf(date))
			return nil
		},
	}

	dayCmd.AddCommand(setCmd, showCmd, deleteCmd)
	return dayCmd
}

func (a *app) printDay(w io.Writer, cmd *cobra.Command, date time.Time) error {
	snap, err := a.store.Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	day, result, err := snap.Day(date)
	if err != nil {
		return fmt.Errorf("%s: %w", worktime.KeyOf(date), err)
	}

	fmt.Fprintf(w, "%s  %-8s  %s\n", worktime.KeyOf(date), day.Type, formatResult(result))
	if day.Type.IsCredited() {
		fmt.Fprintf(w, "  source: %s\n", worktime.ResolveCreditSource(day, snap.Settings))
	}
	for i, s := range day.Segments {
		fmt.Fprintf(w, "  segment %d: %s-%s break %dmin\n",
			i+1, s.Start.Format("15:04"), s.End.Format("15:04"), s.BreakSeconds/60)
	}
	if day.Notes != "" {
		fmt.Fprintf(w, "  notes: %s\n", day.Notes)
	}
	return nil
}

// =============================================================================
// SUMMARY
// =============================================================================

func newSummaryCmd(a *app) *cobra.Command {
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Totals for a week, month or date range",
	}

	weekCmd := &cobra.Command{
		Use:   "week [DATE]",
		Short: "The week containing DATE (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := worktime.StartOfDay(a.now().In(a.loc))
			if len(args) == 1 {
				var err error
				if date, err = a.parseDate(args[0]); err != nil {
					return err
				}
			}
			st, err := a.store.GetSettings(cmd.Context())
			if err != nil {
				return err
			}
			return a.printSummary(cmd, worktime.WeekPeriod(date, st.WeekStart))
		},
	}

	monthCmd := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "A calendar month (default this month)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := a.parseMonth(args)
			if err != nil {
				return err
			}
			return a.printSummary(cmd, period)
		},
	}

	rangeCmd := &cobra.Command{
		Use:   "range FROM TO",
		Short: "An inclusive date range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := a.parseDate(args[0])
			if err != nil {
				return err
			}
			to, err := a.parseDate(args[1])
			if err != nil {
				return err
			}
			period, err := worktime.NewPeriod(from, to)
			if err != nil {
				return err
			}
			return a.printSummary(cmd, period)
		},
	}

	summaryCmd.AddCommand(weekCmd, monthCmd, rangeCmd)
	return summaryCmd
}

func (a *app) printSummary(cmd *cobra.Command, period worktime.Period) error {
	snap, err := a.store.Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	summary := snap.Summary(period)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Period %s\n", period)
	for _, d := range summary.Days {
		fmt.Fprintf(w, "  %s  %-8s  %s\n", worktime.KeyOf(d.Date), d.Type, formatResult(d.Result))
	}
	fmt.Fprintf(w, "Total: %sh  %s\n",
		worktime.SecondsToHours(summary.TotalSeconds).StringFixed(2),
		worktime.CentsToDecimal(summary.TotalCents).StringFixed(2))
	fmt.Fprintf(w, "Warnings: %d  Errored: %d  Excluded: %d\n",
		summary.WarningCount, summary.ErroredDaysCount, summary.ExcludedDaysCount)
	return nil
}

// =============================================================================
// EXPORT
// =============================================================================

func newExportCmd(a *app) *cobra.Command {
	var outPath string

	exportCmd := &cobra.Command{
		Use:   "export [YYYY-MM]",
		Short: "Export a month as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := a.parseMonth(args)
			if err != nil {
				return err
			}
			snap, err := a.store.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			if outPath == "" || outPath == "-" {
				return export.WriteCSV(cmd.OutOrStdout(), snap, period)
			}
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			if err := export.WriteCSV(f, snap, period); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return exportCmd
}

// =============================================================================
// SETTINGS
// =============================================================================

func newSettingsCmd(a *app) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or replace pay and crediting settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store.GetSettings(cmd.Context())
			if err != nil {
				return err
			}
			return writeSettingsJSON(cmd.OutOrStdout(), st)
		},
	}

	setCmd := &cobra.Command{
		Use:   "set FILE",
		Short: "Replace settings from a JSON file (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			st, err := factory.NewSettingsFactory().ParseSettings(string(data))
			if err != nil {
				return err
			}
			if err := a.store.SaveSettings(cmd.Context(), st); err != nil {
				return err
			}
			return writeSettingsJSON(cmd.OutOrStdout(), st)
		},
	}

	settingsCmd.AddCommand(showCmd, setCmd)
	return settingsCmd
}

// =============================================================================
// NET INCOME
// =============================================================================

func newNetCmd() *cobra.Command {
	var gross, bonuses, tax, pension, allowance string

	netCmd := &cobra.Command{
		Use:   "net",
		Short: "Estimate monthly net income from gross figures",
		Args:  cobra.NoArgs,
		// No store needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]decimal.Decimal, 5)
			for i, raw := range []string{gross, bonuses, tax, pension, allowance} {
				v, err := decimal.NewFromString(raw)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", raw, err)
				}
				values[i] = v
			}
			net := worktime.MonthlyNet(values[0], values[1], values[2], values[3], values[4])
			fmt.Fprintf(cmd.OutOrStdout(), "Net: %s\n", net.StringFixed(2))
			return nil
		},
	}
	netCmd.Flags().StringVar(&gross, "gross", "0", "Monthly gross")
	netCmd.Flags().StringVar(&bonuses, "bonuses", "0", "Monthly bonuses")
	netCmd.Flags().StringVar(&tax, "tax", "0", "Wage tax percent")
	netCmd.Flags().StringVar(&pension, "pension", "0", "Pension contribution percent")
	netCmd.Flags().StringVar(&allowance, "allowance", "0", "Tax-free allowance")
	return netCmd
}

// =============================================================================
// HELPERS
// =============================================================================

func (a *app) parseDate(s string) (time.Time, error) {
	if s == "today" {
		return worktime.StartOfDay(a.now().In(a.loc)), nil
	}
	key, err := worktime.ParseDateKey(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return key.In(a.loc), nil
}

func (a *app) parseMonth(args []string) (worktime.Period, error) {
	now := a.now().In(a.loc)
	if len(args) == 0 {
		return worktime.MonthPeriod(now.Year(), now.Month(), a.loc), nil
	}
	t, err := time.Parse("2006-01", args[0])
	if err != nil {
		return worktime.Period{}, fmt.Errorf("invalid month %q (use YYYY-MM)", args[0])
	}
	return worktime.MonthPeriod(t.Year(), t.Month(), a.loc), nil
}

// parseSegmentFlag reads HH:MM-HH:MM[/break-minutes] on date.
func parseSegmentFlag(date time.Time, s string) (worktime.TimeSegment, error) {
	span, breakPart, hasBreak := strings.Cut(s, "/")
	startPart, endPart, ok := strings.Cut(span, "-")
	if !ok {
		return worktime.TimeSegment{}, fmt.Errorf("invalid segment %q (use HH:MM-HH:MM[/break])", s)
	}

	at := func(v string) (time.Time, error) {
		clock, err := time.Parse("15:04", strings.TrimSpace(v))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q in segment %q", v, s)
		}
		return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, date.Location()), nil
	}

	start, err := at(startPart)
	if err != nil {
		return worktime.TimeSegment{}, err
	}
	end, err := at(endPart)
	if err != nil {
		return worktime.TimeSegment{}, err
	}

	seg := worktime.TimeSegment{Start: start, End: end}
	if hasBreak {
		minutes, err := strconv.Atoi(strings.TrimSpace(breakPart))
		if err != nil {
			return worktime.TimeSegment{}, fmt.Errorf("invalid break %q in segment %q", breakPart, s)
		}
		seg.BreakSeconds = int64(minutes) * 60
	}
	return seg, nil
}

func parseSecondsFlag(name, v string) (*int64, error) {
	if v == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", name, v, err)
	}
	secs := int64(d / time.Second)
	return &secs, nil
}

func formatResult(r worktime.ComputationResult) string {
	switch r.Status {
	case worktime.StatusError:
		s := "ERROR " + r.Message
		if len(r.MissingDates) > 0 {
			keys := make([]string, len(r.MissingDates))
			for i, d := range r.MissingDates {
				keys[i] = worktime.KeyOf(d).String()
			}
			s += " [" + strings.Join(keys, ", ") + "]"
		}
		return s
	default:
		s := fmt.Sprintf("%sh  %s",
			worktime.SecondsToHours(r.ValueSeconds).StringFixed(2),
			worktime.CentsToDecimal(r.ValueCents).StringFixed(2))
		if r.IsWarning() {
			s += "  (warning: " + r.Message + ")"
		}
		return s
	}
}

func writeSettingsJSON(w io.Writer, st worktime.Settings) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(factory.NewSettingsFactory().ToJSON(st))
}
