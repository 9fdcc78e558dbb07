package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
	"github.com/Tiliavir/trivial-time-sheet/internal/timesheet"
)

var entryFormCmd = &cobra.Command{
	Use:   "form <employee>",
	Short: "Enter a day's entry in an interactive form",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryForm,
}

// entryFormValues holds the raw form input.
type entryFormValues struct {
	date    string
	project string
	notes   string
	begin   string
	end     string
	pause   string
}

func validateDate(s string) error {
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func validateClock(s string) error {
	if !timesheet.ValidClock(strings.TrimSpace(s)) {
		return fmt.Errorf("invalid time (HH:MM)")
	}
	return nil
}

func validatePause(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter minutes as a whole number")
	}
	if n < 0 {
		return fmt.Errorf("pause cannot be negative")
	}
	return nil
}

func entryForm(v *entryFormValues, projects []string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Placeholder("2024-06-14").
				Value(&v.date).
				Validate(validateDate),
			huh.NewInput().
				Title("Project / site").
				Suggestions(projects).
				Value(&v.project),
			huh.NewText().
				Title("Notes (optional)").
				Value(&v.notes),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Begin").
				Placeholder("09:00").
				Value(&v.begin).
				Validate(validateClock),
			huh.NewInput().
				Title("End").
				Placeholder("17:30").
				Value(&v.end).
				Validate(validateClock),
			huh.NewInput().
				Title("Pause (minutes)").
				Placeholder("0").
				Value(&v.pause).
				Validate(validatePause),
		),
	).WithTheme(formTheme()).WithShowHelp(false)
}

// draft converts form input into a draft; inputs were validated by the form.
func (v entryFormValues) draft() (timesheet.Draft, error) {
	year, month, day, err := parseDay(v.date, time.Now())
	if err != nil {
		return timesheet.Draft{}, err
	}
	pause, _ := strconv.Atoi(strings.TrimSpace(v.pause))
	return timesheet.Draft{
		Year:    year,
		Month:   month,
		Day:     day,
		Project: strings.TrimSpace(v.project),
		Notes:   strings.TrimSpace(v.notes),
		Begin:   strings.TrimSpace(v.begin),
		End:     strings.TrimSpace(v.end),
		Pause:   pause,
	}, nil
}

func runEntryForm(cmd *cobra.Command, args []string) error {
	if !interactive() {
		return fmt.Errorf("the entry form needs a terminal; use: tts entry add")
	}
	employee := args[0]

	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := requireEmployee(w, employee); err != nil {
		return err
	}

	now := time.Now()
	v := entryFormValues{
		date:  now.Format("2006-01-02"),
		begin: timecalc.ClockFromMinutes(9 * 60),
		end:   timecalc.FormatClock(now),
		pause: "0",
	}
	if err := entryForm(&v, w.session.Projects()).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
		return err
	}

	d, err := v.draft()
	if err != nil {
		return err
	}
	return submitDraft(cmd, w, employee, d)
}
