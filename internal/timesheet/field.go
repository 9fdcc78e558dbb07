package timesheet

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-time-sheet/internal/model"
	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
)

// Field names one editable column of the monthly grid.
type Field string

const (
	FieldProject Field = "project"
	FieldNotes   Field = "notes"
	FieldBegin   Field = "begin"
	FieldEnd     Field = "end"
	FieldPause   Field = "pause"
)

// Fields lists the editable grid columns.
var Fields = []Field{FieldProject, FieldNotes, FieldBegin, FieldEnd, FieldPause}

// ParseField maps a column name to a Field.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Fields, f) {
		return "", fmt.Errorf("unknown field %q (want one of project, notes, begin, end, pause)", s)
	}
	return f, nil
}

// SetField applies a single grid edit. A day without an entry gets a default
// entry first; the total is recomputed after the change. Grid edits are
// never rejected for their content: a malformed clock simply yields a zero
// total and a pause that is not a non-negative integer is stored as 0.
func (s *Store) SetField(employee string, year int, month time.Month, day int, field Field, value string) (model.TimeEntry, error) {
	if month < time.January || month > time.December {
		return model.TimeEntry{}, fmt.Errorf("month %d out of range", month)
	}
	if n := timecalc.DaysInMonth(year, month); day < 1 || day > n {
		return model.TimeEntry{}, fmt.Errorf("day %d out of range 1..%d", day, n)
	}
	if !slices.Contains(Fields, field) {
		return model.TimeEntry{}, fmt.Errorf("unknown field %q", field)
	}

	id := timecalc.EntryID(year, month, day)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.employees, employee) {
		return model.TimeEntry{}, fmt.Errorf("%w: %q", ErrUnknownEmployee, employee)
	}

	entry, ok := s.entries[employee][id]
	if !ok {
		entry = model.Blank(id, day)
	}
	switch field {
	case FieldProject:
		entry.Project = value
	case FieldNotes:
		entry.Notes = value
	case FieldBegin:
		entry.Begin = strings.TrimSpace(value)
	case FieldEnd:
		entry.End = strings.TrimSpace(value)
	case FieldPause:
		entry.Pause = parsePause(value)
	}
	entry.Total = timecalc.ComputeDuration(entry.Begin, entry.End, entry.Pause)

	s.replace(employee, func(m map[string]model.TimeEntry) {
		m[id] = entry
	})
	return entry, nil
}

func parsePause(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
