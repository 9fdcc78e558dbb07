package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-sheet/internal/report"
	"github.com/Tiliavir/trivial-time-sheet/internal/timesheet"
)

var importYes bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all data with a file written by tts export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Do not ask for confirmation")
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	raw, err := report.ImportSnapshot(f)
	if err != nil {
		return err
	}
	snap, dropped := timesheet.NormaliseSnapshot(raw)
	for _, d := range dropped {
		fmt.Fprintf(cmd.ErrOrStderr(), "Skipped %s\n", d)
	}

	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	if !importYes && len(w.session.Employees()) > 0 {
		ok, err := confirm(fmt.Sprintf("Replace %d employees and their entries with %s?", len(w.session.Employees()), args[0]))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("not imported: confirm interactively or pass --yes")
		}
	}

	err = w.session.Replace(contextOf(cmd), snap)
	if !applied(err) {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d employees\n", len(snap.Employees))
	return err
}
