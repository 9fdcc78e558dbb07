package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-sheet/internal/report"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the roster and all time entries",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", string(report.FormatJSON), "Output format: json, yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	if format != report.FormatJSON && format != report.FormatYAML {
		return fmt.Errorf("export supports json and yaml, not %q", exportFormat)
	}

	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	snap := w.session.Snapshot()
	return writeOutput(cmd, exportOutput, func(out io.Writer, _ bool) error {
		return report.ExportSnapshot(out, format, snap)
	})
}
