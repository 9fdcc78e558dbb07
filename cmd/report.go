package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-sheet/internal/report"
)

var (
	reportMonth  = newMonthFlag(time.Now())
	reportFormat string
	reportOutput string
	reportLang   string
)

var reportCmd = &cobra.Command{
	Use:   "report <employee>",
	Short: "Render the monthly time sheet of an employee",
	Long: `Render the monthly time sheet of an employee: every recorded day with
project, begin, end, pause and total, followed by the month total.
Formats: text, md, csv, json, yaml, html, pdf. PDF output needs --output.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().Var(reportMonth, "month", "Month to report")
	reportCmd.Flags().StringVar(&reportFormat, "format", string(report.FormatText), "Output format: text, md, csv, json, yaml, html, pdf")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Write to this file instead of stdout")
	reportCmd.Flags().StringVar(&reportLang, "lang", "", "Label language: de or en (default from config)")
}

func runReport(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(reportFormat)
	if err != nil {
		return err
	}
	if format == report.FormatPDF && reportOutput == "" {
		return fmt.Errorf("pdf output needs --output <file>")
	}

	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	m, err := w.session.Report(args[0], reportMonth.year, reportMonth.month)
	if err != nil {
		return err
	}
	labels := report.LabelsFor(pickLang(reportLang, w.cfg.Report.Language))

	return writeOutput(cmd, reportOutput, func(out io.Writer, styled bool) error {
		return report.Render(out, format, m, labels, styled)
	})
}

// writeOutput runs render against stdout, or against path when it is set.
// Styling is only applied to a terminal stdout.
func writeOutput(cmd *cobra.Command, path string, render func(w io.Writer, styled bool) error) error {
	if path == "" {
		out := cmd.OutOrStdout()
		return render(out, styledOutput(out))
	}

	f, err := os.Create(path)
	if err != nil {
		return storageError(err)
	}
	if err := render(f, false); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return storageError(err)
	}
	logger.WithField("path", path).Debug("report written")
	fmt.Fprintf(cmd.ErrOrStderr(), "Written to %s\n", path)
	return nil
}
