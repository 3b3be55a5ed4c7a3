/*
Package export renders computed periods as CSV.

COLUMNS:
  date,type,workedHours,workedPay,creditedHours,creditedPay,notes

  Work and manual days fill the worked columns; vacation, holiday and sick
  days fill the credited columns. Hours carry two decimals, pay is cents/100
  with two decimals. Days whose computation failed export empty values so a
  spreadsheet total never silently includes them.

USAGE:
  snap, _ := store.Snapshot(ctx)
  err := export.WriteCSV(w, snap, worktime.MonthPeriod(2025, time.April, time.Local))
*/
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/warp/worktime-engine/worktime"
)

// Header is the first CSV record.
var Header = []string{"date", "type", "workedHours", "workedPay", "creditedHours", "creditedPay", "notes"}

// Row builds the CSV record for one computed day.
func Row(day worktime.DayEntry, result worktime.ComputationResult) []string {
	var workedHours, workedPay, creditedHours, creditedPay string

	if result.Counts() {
		hours := worktime.SecondsToHours(result.ValueSeconds).StringFixed(2)
		pay := worktime.CentsToDecimal(result.ValueCents).StringFixed(2)
		if day.Type.IsCredited() {
			creditedHours, creditedPay = hours, pay
		} else {
			workedHours, workedPay = hours, pay
		}
	}

	return []string{
		worktime.KeyOf(day.Date).String(),
		string(day.Type),
		workedHours,
		workedPay,
		creditedHours,
		creditedPay,
		day.Notes,
	}
}

// Rows computes every entry inside period and returns the records in date
// order, header first.
func Rows(snap worktime.Snapshot, period worktime.Period) [][]string {
	idx := worktime.IndexDays(snap.Entries)
	summary := snap.Summary(period)

	records := make([][]string, 0, len(summary.Days)+1)
	records = append(records, Header)
	for _, d := range summary.Days {
		records = append(records, Row(idx[worktime.KeyOf(d.Date)], d.Result))
	}
	return records
}

// WriteCSV writes the period's records to w.
func WriteCSV(w io.Writer, snap worktime.Snapshot, period worktime.Period) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Rows(snap, period)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
