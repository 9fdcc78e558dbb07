package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-sheet/internal/report"
)

var (
	monthSel  = newMonthFlag(time.Now())
	monthLang string
)

var monthCmd = &cobra.Command{
	Use:   "month <employee>",
	Short: "Show every day of a month with its entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runMonth,
}

func init() {
	monthCmd.Flags().Var(monthSel, "month", "Month to show")
	monthCmd.Flags().StringVar(&monthLang, "lang", "", "Label language: de or en (default from config)")
}

func runMonth(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	rows, agg, err := w.session.Grid(args[0], monthSel.year, monthSel.month)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	labels := report.LabelsFor(pickLang(monthLang, w.cfg.Report.Language))
	fmt.Fprintln(out, report.GridTable(rows, agg.TotalMinutes, labels, styledOutput(out)))
	return nil
}

// pickLang prefers the flag over the configured language.
func pickLang(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}
