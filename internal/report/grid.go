package report

import (
	"time"

	"github.com/Tiliavir/trivial-time-sheet/internal/model"
	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
)

// GridRow is one day of the full monthly grid. Logged is false for days
// that have no stored entry; their fields carry the blank defaults.
type GridRow struct {
	Date   time.Time       `json:"date" yaml:"date"`
	Entry  model.TimeEntry `json:"entry" yaml:"entry"`
	Logged bool            `json:"logged" yaml:"logged"`
}

// MonthGrid enumerates every day of the month, filling in stored entries
// and blank defaults for the rest.
func MonthGrid(entries map[string]model.TimeEntry, year int, month time.Month) []GridRow {
	n := timecalc.DaysInMonth(year, month)
	rows := make([]GridRow, 0, n)
	for day := 1; day <= n; day++ {
		id := timecalc.EntryID(year, month, day)
		e, ok := entries[id]
		if !ok {
			e = model.Blank(id, day)
		}
		rows = append(rows, GridRow{
			Date:   time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
			Entry:  e,
			Logged: ok,
		})
	}
	return rows
}
