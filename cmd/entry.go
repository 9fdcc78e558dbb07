package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-sheet/internal/model"
	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
	"github.com/Tiliavir/trivial-time-sheet/internal/timesheet"
)

var (
	entryAddDate    string
	entryAddProject string
	entryAddNotes   string
	entryAddBegin   string
	entryAddEnd     string
	entryAddPause   int
)

var entryCmd = &cobra.Command{
	Use:     "entry",
	Aliases: []string{"entries"},
	Short:   "Record and edit daily time entries",
}

var entrySetCmd = &cobra.Command{
	Use:   "set <employee> <YYYY-MM-DD> <field> <value>",
	Short: "Set a single field of a day (project, notes, begin, end, pause)",
	Long: `Set a single field of a day the way a spreadsheet cell is edited.
A day without an entry gets one with 00:00–00:00 and no pause first. Values
are never rejected: a malformed time simply yields a total of 0h 0m, and a
pause that is not a non-negative number is stored as 0.`,
	Args: cobra.ExactArgs(4),
	RunE: runEntrySet,
}

var entryAddCmd = &cobra.Command{
	Use:   "add <employee>",
	Short: "Add or replace a day's entry after validation",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryAdd,
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete <employee> <YYYY-MM-DD>",
	Short: "Delete a day's entry",
	Args:  cobra.ExactArgs(2),
	RunE:  runEntryDelete,
}

func init() {
	entryAddCmd.Flags().StringVar(&entryAddDate, "date", "today", "Day of the entry (YYYY-MM-DD or today)")
	entryAddCmd.Flags().StringVar(&entryAddProject, "project", "", "Project or site")
	entryAddCmd.Flags().StringVar(&entryAddNotes, "notes", "", "Optional notes")
	entryAddCmd.Flags().StringVar(&entryAddBegin, "begin", "", "Begin time (HH:MM)")
	entryAddCmd.Flags().StringVar(&entryAddEnd, "end", "", "End time (HH:MM)")
	entryAddCmd.Flags().IntVar(&entryAddPause, "pause", 0, "Pause in minutes")

	entryCmd.AddCommand(entrySetCmd)
	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryDeleteCmd)
	entryCmd.AddCommand(entryFormCmd)
}

func runEntrySet(cmd *cobra.Command, args []string) error {
	employee := args[0]
	year, month, day, err := parseDay(args[1], time.Now())
	if err != nil {
		return err
	}
	field, err := timesheet.ParseField(args[2])
	if err != nil {
		return err
	}

	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := requireEmployee(w, employee); err != nil {
		return err
	}

	entry, err := w.session.SetField(contextOf(cmd), employee, year, month, day, field, args[3])
	if !applied(err) {
		return err
	}
	printEntry(cmd.OutOrStdout(), entry)
	return err
}

func runEntryAdd(cmd *cobra.Command, args []string) error {
	employee := args[0]
	year, month, day, err := parseDay(entryAddDate, time.Now())
	if err != nil {
		return err
	}

	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := requireEmployee(w, employee); err != nil {
		return err
	}

	return submitDraft(cmd, w, employee, timesheet.Draft{
		Year:    year,
		Month:   month,
		Day:     day,
		Project: entryAddProject,
		Notes:   entryAddNotes,
		Begin:   entryAddBegin,
		End:     entryAddEnd,
		Pause:   entryAddPause,
	})
}

// submitDraft runs the validation flow and prints either the stored entry or
// every rejected field.
func submitDraft(cmd *cobra.Command, w *workspace, employee string, d timesheet.Draft) error {
	entry, err := w.session.Submit(contextOf(cmd), employee, d)
	var verr *timesheet.ValidationError
	if errors.As(err, &verr) {
		errOut := cmd.ErrOrStderr()
		fmt.Fprintln(errOut, "Entry not saved:")
		for _, p := range verr.Problems {
			fmt.Fprintf(errOut, "  %s: %s\n", p.Field, p.Message)
		}
		return err
	}
	if !applied(err) {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), "Saved: ")
	printEntry(cmd.OutOrStdout(), entry)
	return err
}

func runEntryDelete(cmd *cobra.Command, args []string) error {
	employee := args[0]
	year, month, day, err := parseDay(args[1], time.Now())
	if err != nil {
		return err
	}

	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := requireEmployee(w, employee); err != nil {
		return err
	}

	id := timecalc.EntryID(year, month, day)
	err = w.session.DeleteEntry(contextOf(cmd), employee, id)
	if !applied(err) {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %s of %s\n", id, employee)
	return err
}

// printEntry prints one entry on a single line.
func printEntry(w io.Writer, e model.TimeEntry) {
	project := e.Project
	if project == "" {
		project = "–"
	}
	fmt.Fprintf(w, "%s  %s–%s  pause %d min  %s  %s\n",
		e.ID, e.Begin, e.End, e.Pause, timecalc.FormatDuration(e.Total), project)
}
