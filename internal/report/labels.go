package report

import (
	"fmt"
	"strings"
	"time"
)

// Labels holds the human-readable strings of a printed report.
type Labels struct {
	Lang         string
	Title        string // format string taking the employee name
	Date         string
	Project      string
	Begin        string
	End          string
	Pause        string
	Total        string
	MonthTotal   string
	Empty        string
	Weekdays     [7]string
	Months       [12]string
	ShortMonths  [12]string
	dayMonthYear func(day int, month string, year int) string
}

var german = Labels{
	Lang:        "de",
	Title:       "Zeitnachweis für %s",
	Date:        "Datum",
	Project:     "Objekt/Projekt",
	Begin:       "Beginn",
	End:         "Ende",
	Pause:       "Pause (min)",
	Total:       "Gesamt",
	MonthTotal:  "Gesamtzeit des Monats",
	Empty:       "Keine Einträge für diesen Monat.",
	Weekdays:    [7]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
	Months:      [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
	ShortMonths: [12]string{"Jan.", "Feb.", "März", "Apr.", "Mai", "Juni", "Juli", "Aug.", "Sept.", "Okt.", "Nov.", "Dez."},
	dayMonthYear: func(day int, month string, year int) string {
		return fmt.Sprintf("%d. %s %d", day, month, year)
	},
}

var english = Labels{
	Lang:        "en",
	Title:       "Time sheet for %s",
	Date:        "Date",
	Project:     "Project",
	Begin:       "Begin",
	End:         "End",
	Pause:       "Pause (min)",
	Total:       "Total",
	MonthTotal:  "Total for the month",
	Empty:       "No entries for this month.",
	Weekdays:    [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	Months:      [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	ShortMonths: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	dayMonthYear: func(day int, month string, year int) string {
		return fmt.Sprintf("%s %d, %d", month, day, year)
	},
}

// LabelsFor returns the labels for a language code. Unknown codes fall back to German.
func LabelsFor(lang string) Labels {
	switch strings.ToLower(lang) {
	case "en", "english":
		return english
	default:
		return german
	}
}

// Heading returns the report title for an employee.
func (l Labels) Heading(employee string) string {
	return fmt.Sprintf(l.Title, employee)
}

// MonthName renders e.g. "Juni 2024".
func (l Labels) MonthName(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", l.Months[month-1], year)
}

// FormatDate renders a single entry date, e.g. "14. Juni 2024".
func (l Labels) FormatDate(t time.Time) string {
	return l.dayMonthYear(t.Day(), l.ShortMonths[t.Month()-1], t.Year())
}

// Weekday returns the short weekday name of t.
func (l Labels) Weekday(t time.Time) string {
	return l.Weekdays[t.Weekday()]
}
