package timecalc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// ParseClock parses an "HH:MM" wall-clock string into minutes since midnight.
// Single-digit components ("9:05") are accepted; anything else that is not
// a valid 00:00–23:59 time reports ok == false.
func ParseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, ok := clockComponent(parts[0], 23)
	if !ok {
		return 0, false
	}
	m, ok := clockComponent(parts[1], 59)
	if !ok {
		return 0, false
	}
	return h*60 + m, true
}

func clockComponent(s string, max int) (int, bool) {
	if len(s) == 0 || len(s) > 2 {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > max {
		return 0, false
	}
	return n, true
}

// ComputeDuration returns the worked minutes between begin and end on the
// same reference day, minus pause. It never fails: malformed clocks, an end
// before begin (no overnight shifts) or a pause longer than the span all
// yield 0. A negative pause is ignored.
func ComputeDuration(begin, end string, pause int) int {
	b, ok := ParseClock(begin)
	if !ok {
		return 0
	}
	e, ok := ParseClock(end)
	if !ok {
		return 0
	}
	if e < b {
		return 0
	}
	if pause < 0 {
		pause = 0
	}
	total := (e - b) - pause
	if total < 0 {
		return 0
	}
	return total
}

// FormatDuration formats minutes as "7h 30m". Negative input renders as "0h 0m".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// FormatClock renders the wall-clock part of t as "HH:MM".
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// ClockFromMinutes renders minutes since midnight as "HH:MM".
// Values outside a single day are clamped to 00:00 and 23:59.
func ClockFromMinutes(m int) string {
	if m < 0 {
		m = 0
	}
	if m >= minutesPerDay {
		m = minutesPerDay - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// EntryID returns the canonical entry id "{YYYY}-{MM}-{D}", e.g. "2024-06-5".
func EntryID(year int, month time.Month, day int) string {
	return fmt.Sprintf("%d-%02d-%d", year, int(month), day)
}

// MonthPrefix returns the id prefix shared by all entries of a month, e.g. "2024-06-".
func MonthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%d-%02d-", year, int(month))
}

// ParseEntryID splits a canonical entry id into its year, month and day.
func ParseEntryID(id string) (int, time.Month, int, error) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 || len(parts[1]) != 2 {
		return 0, 0, 0, fmt.Errorf("invalid entry id %q", id)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in entry id %q", id)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("invalid month in entry id %q", id)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > DaysInMonth(year, time.Month(month)) {
		return 0, 0, 0, fmt.Errorf("invalid day in entry id %q", id)
	}
	return year, time.Month(month), day, nil
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthRange returns 00:00:00 of the first and 23:59:59 of the last day of the month.
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := time.Date(year, month, DaysInMonth(year, month), 0, 0, 0, 0, loc)
	return first, EndOfDay(last)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
