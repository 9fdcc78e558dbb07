package report

import (
	"sort"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-time-sheet/internal/model"
	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
)

// Month is the aggregated view of one employee's month.
type Month struct {
	Employee     string            `json:"employee" yaml:"employee"`
	Year         int               `json:"year" yaml:"year"`
	Month        time.Month        `json:"month" yaml:"month"`
	TotalMinutes int               `json:"total_minutes" yaml:"total_minutes"`
	Entries      []model.TimeEntry `json:"entries" yaml:"entries"`
}

// AggregateMonth filters entries to the given month by id prefix, sums their
// totals and returns the entries with logged time in ascending day order.
// Entries with a zero total count towards the sum but are not listed.
func AggregateMonth(entries map[string]model.TimeEntry, year int, month time.Month) Month {
	prefix := timecalc.MonthPrefix(year, month)
	agg := Month{Year: year, Month: month, Entries: []model.TimeEntry{}}
	for id, e := range entries {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		agg.TotalMinutes += e.Total
		if e.Total > 0 {
			agg.Entries = append(agg.Entries, e)
		}
	}
	sort.Slice(agg.Entries, func(i, j int) bool {
		return agg.Entries[i].Day < agg.Entries[j].Day
	})
	return agg
}

// ForEmployee aggregates and labels the result with the employee name.
func ForEmployee(employee string, entries map[string]model.TimeEntry, year int, month time.Month) Month {
	m := AggregateMonth(entries, year, month)
	m.Employee = employee
	return m
}

// Date returns the calendar date of an entry in this month.
func (m Month) Date(e model.TimeEntry) time.Time {
	return time.Date(m.Year, m.Month, e.Day, 0, 0, 0, 0, time.UTC)
}
