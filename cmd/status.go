package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status <employee>",
	Short: "Show today's entry and the month total",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	now := time.Now()

	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	employee := args[0]
	m, err := w.session.Report(employee, now.Year(), now.Month())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	today := w.session.Today(employee, now)
	switch {
	case today.Total > 0:
		fmt.Fprintln(out, "Today:")
		fmt.Fprintf(out, "  Project: %s\n", today.Project)
		fmt.Fprintf(out, "  %s–%s, pause %d min\n", today.Begin, today.End, today.Pause)
		fmt.Fprintf(out, "  Logged: %s\n", timecalc.FormatDuration(today.Total))
	case today.Begin != "" && today.Begin != "00:00":
		// Clocked in, not out yet.
		begin, _ := timecalc.ParseClock(today.Begin)
		elapsed := now.Hour()*60 + now.Minute() - begin
		fmt.Fprintf(out, "Clocked in since %s (%s so far).\n", today.Begin, timecalc.FormatDuration(max(elapsed, 0)))
	default:
		fmt.Fprintln(out, "Nothing recorded today.")
	}

	fmt.Fprintf(out, "%s %d: %s in %d days.\n",
		now.Month(), now.Year(), timecalc.FormatDuration(m.TotalMinutes), len(m.Entries))
	return nil
}
