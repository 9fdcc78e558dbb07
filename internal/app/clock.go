package app

import (
	"context"
	"time"

	"github.com/Tiliavir/trivial-time-sheet/internal/model"
	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
	"github.com/Tiliavir/trivial-time-sheet/internal/timesheet"
)

// ClockIn sets today's begin time to now. If project is non-empty it is
// stored as well.
func (s *Session) ClockIn(ctx context.Context, employee, project string, now time.Time) (model.TimeEntry, error) {
	if project != "" {
		if _, err := s.store.SetField(employee, now.Year(), now.Month(), now.Day(), timesheet.FieldProject, project); err != nil {
			return model.TimeEntry{}, err
		}
	}
	return s.SetField(ctx, employee, now.Year(), now.Month(), now.Day(), timesheet.FieldBegin, timecalc.FormatClock(now))
}

// ClockOut sets today's end time to now.
func (s *Session) ClockOut(ctx context.Context, employee string, now time.Time) (model.TimeEntry, error) {
	return s.SetField(ctx, employee, now.Year(), now.Month(), now.Day(), timesheet.FieldEnd, timecalc.FormatClock(now))
}

// Today returns the entry for now's calendar day, or a default entry when
// nothing has been recorded yet.
func (s *Session) Today(employee string, now time.Time) model.TimeEntry {
	id := timecalc.EntryID(now.Year(), now.Month(), now.Day())
	if e, ok := s.store.Entry(employee, id); ok {
		return e
	}
	return model.Blank(id, now.Day())
}
