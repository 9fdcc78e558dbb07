package timesheet

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-time-sheet/internal/model"
	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
)

// ErrValidation is wrapped by every *ValidationError.
var ErrValidation = errors.New("invalid time entry")

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// Draft is an entry as submitted by a user before validation.
// Any total the client may have computed is deliberately absent.
type Draft struct {
	Year    int        `json:"year"`
	Month   time.Month `json:"month"`
	Day     int        `json:"day"`
	Project string     `json:"project"`
	Notes   string     `json:"notes"`
	Begin   string     `json:"begin"`
	End     string     `json:"end"`
	Pause   int        `json:"pause"`
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a submitted draft is rejected.
type ValidationError struct {
	Problems []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Field+": "+p.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func (e *ValidationError) add(field, msg string) {
	e.Problems = append(e.Problems, FieldError{Field: field, Message: msg})
}

// ValidClock reports whether s is a strict 24-hour "HH:MM" time.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// Validate checks a draft and returns the entry to persist, with Total
// freshly computed. A zero-length entry (begin == end) is valid; a distinct
// begin and end that yield no worked time is rejected as an invalid range.
func Validate(d Draft) (model.TimeEntry, error) {
	verr := &ValidationError{}

	if d.Month < time.January || d.Month > time.December {
		verr.add("month", "month must be between 1 and 12")
	} else if n := timecalc.DaysInMonth(d.Year, d.Month); d.Day < 1 || d.Day > n {
		verr.add("day", fmt.Sprintf("day must be between 1 and %d", n))
	}

	clocksOK := true
	if !ValidClock(d.Begin) {
		verr.add("begin", "invalid time (HH:MM)")
		clocksOK = false
	}
	if !ValidClock(d.End) {
		verr.add("end", "invalid time (HH:MM)")
		clocksOK = false
	}
	if d.Pause < 0 {
		verr.add("pause", "pause cannot be negative")
	}

	total := timecalc.ComputeDuration(d.Begin, d.End, d.Pause)
	if clocksOK && d.Pause >= 0 && total <= 0 && d.Begin != d.End {
		verr.add("end", "end time must be after begin time")
	}

	if len(verr.Problems) > 0 {
		return model.TimeEntry{}, verr
	}

	return model.TimeEntry{
		ID:      timecalc.EntryID(d.Year, d.Month, d.Day),
		Day:     d.Day,
		Project: d.Project,
		Notes:   d.Notes,
		Begin:   d.Begin,
		End:     d.End,
		Pause:   d.Pause,
		Total:   total,
	}, nil
}
