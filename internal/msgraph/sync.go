package msgraph

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Tiliavir/trivial-time-sheet/internal/model"
	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
)

// EntrySink is where imported days are written. *app.Session implements it.
type EntrySink interface {
	Entry(employee, id string) (model.TimeEntry, bool)
	UpsertEntry(ctx context.Context, employee string, entry model.TimeEntry) (model.TimeEntry, error)
}

// SyncResult holds counters for an import run.
type SyncResult struct {
	Imported int // days written that had no time recorded before
	Updated  int // days with recorded time replaced (--overwrite)
	Skipped  int // days left alone: unchanged or already recorded
	Ignored  int // events not considered (cancelled, all-day, private, free, cross-midnight, other month)
	Errors   int
}

// SyncOptions configures an import run.
type SyncOptions struct {
	Employee  string
	Year      int
	Month     time.Month
	Project   string
	Location  *time.Location
	DryRun    bool
	Overwrite bool
	// Out receives one progress line per day. Nil discards progress.
	Out io.Writer
	Log logrus.FieldLogger
}

// DayPlan is the entry derived from one calendar day's events.
type DayPlan struct {
	Day      int
	Begin    int // minutes since midnight
	End      int
	Pause    int // minutes between merged events
	Subjects []string
}

// Entry converts the plan into a time entry for the given month.
func (p DayPlan) Entry(year int, month time.Month, project string) model.TimeEntry {
	begin := timecalc.ClockFromMinutes(p.Begin)
	end := timecalc.ClockFromMinutes(p.End)
	return model.TimeEntry{
		ID:      timecalc.EntryID(year, month, p.Day),
		Day:     p.Day,
		Project: project,
		Notes:   strings.Join(p.Subjects, ", "),
		Begin:   begin,
		End:     end,
		Pause:   p.Pause,
		Total:   timecalc.ComputeDuration(begin, end, p.Pause),
	}
}

// parseGraphTime parses a Graph API dateTime string in the given location.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// shouldSkip returns true if the event should not count as working time.
func shouldSkip(event CalendarEvent) bool {
	if event.IsCancelled {
		return true
	}
	if event.IsAllDay {
		return true
	}
	if event.Sensitivity == "private" {
		return true
	}
	if event.ShowAs == "free" {
		return true
	}
	if event.Start.DateTime == "" || event.End.DateTime == "" {
		return true
	}
	return false
}

type interval struct {
	start, end int
	subject    string
}

// PlanDays groups the events of one month by day and merges overlapping
// events. Begin is the earliest start, End the latest end, and Pause the sum
// of the gaps between merged blocks. It returns the plans in day order, the
// number of ignored events, and parse errors.
func PlanDays(events []CalendarEvent, year int, month time.Month, loc *time.Location) ([]DayPlan, int, []error) {
	if loc == nil {
		loc = time.Local
	}
	byDay := map[int][]interval{}
	ignored := 0
	var errs []error

	for _, ev := range events {
		if shouldSkip(ev) {
			ignored++
			continue
		}
		start, err := parseGraphTime(ev.Start.DateTime, loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("event %q: start: %w", ev.Subject, err))
			continue
		}
		end, err := parseGraphTime(ev.End.DateTime, loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("event %q: end: %w", ev.Subject, err))
			continue
		}
		if !end.After(start) || !timecalc.SameDay(start, end) {
			ignored++
			continue
		}
		if start.Year() != year || start.Month() != month {
			ignored++
			continue
		}
		byDay[start.Day()] = append(byDay[start.Day()], interval{
			start:   start.Hour()*60 + start.Minute(),
			end:     end.Hour()*60 + end.Minute(),
			subject: strings.TrimSpace(ev.Subject),
		})
	}

	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	plans := make([]DayPlan, 0, len(days))
	for _, d := range days {
		plans = append(plans, mergeDay(d, byDay[d]))
	}
	return plans, ignored, errs
}

func mergeDay(day int, ivs []interval) DayPlan {
	sort.Slice(ivs, func(i, j int) bool {
		if ivs[i].start != ivs[j].start {
			return ivs[i].start < ivs[j].start
		}
		return ivs[i].end < ivs[j].end
	})

	plan := DayPlan{Day: day, Begin: ivs[0].start, End: ivs[0].end}
	seen := map[string]bool{}
	for _, iv := range ivs {
		if iv.start > plan.End {
			plan.Pause += iv.start - plan.End
		}
		if iv.end > plan.End {
			plan.End = iv.end
		}
		if iv.subject != "" && !seen[iv.subject] {
			seen[iv.subject] = true
			plan.Subjects = append(plan.Subjects, iv.subject)
		}
	}
	return plan
}

func sameTimes(a, b model.TimeEntry) bool {
	return a.Begin == b.Begin && a.End == b.End && a.Pause == b.Pause && a.Project == b.Project
}

// SyncEvents turns calendar events into one entry per day and writes them to
// sink. Running it twice over the same events changes nothing the second time.
// Days that already carry recorded time are only replaced with Overwrite.
func SyncEvents(ctx context.Context, sink EntrySink, events []CalendarEvent, opts SyncOptions) (SyncResult, error) {
	var result SyncResult
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	plans, ignored, errs := PlanDays(events, opts.Year, opts.Month, opts.Location)
	result.Ignored = ignored
	for _, err := range errs {
		log.WithError(err).Warn("could not map calendar event")
		fmt.Fprintf(out, "  ! %v\n", err)
		result.Errors++
	}

	for _, plan := range plans {
		entry := plan.Entry(opts.Year, opts.Month, opts.Project)
		label := fmt.Sprintf("%s  %s–%s, pause %d min (%s)",
			entry.ID, entry.Begin, entry.End, entry.Pause, timecalc.FormatDuration(entry.Total))

		existing, found := sink.Entry(opts.Employee, entry.ID)
		switch {
		case found && sameTimes(existing, entry):
			fmt.Fprintf(out, "  – Skipped:  %s (unchanged)\n", label)
			result.Skipped++
			continue
		case found && existing.Total > 0 && !opts.Overwrite:
			fmt.Fprintf(out, "  – Skipped:  %s (already recorded: %s)\n", entry.ID, timecalc.FormatDuration(existing.Total))
			result.Skipped++
			continue
		}

		if !opts.DryRun {
			if _, err := sink.UpsertEntry(ctx, opts.Employee, entry); err != nil {
				log.WithError(err).WithField("id", entry.ID).Warn("could not store imported day")
				fmt.Fprintf(out, "  ! Error saving %s: %v\n", entry.ID, err)
				result.Errors++
				continue
			}
		}
		if found && existing.Total > 0 {
			fmt.Fprintf(out, "  ↑ Updated:  %s\n", label)
			result.Updated++
			continue
		}
		fmt.Fprintf(out, "  ✓ Imported: %s\n", label)
		result.Imported++
	}

	return result, nil
}
