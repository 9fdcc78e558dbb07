package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var clockInProject string

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Record today's begin or end time from the clock",
}

var clockInCmd = &cobra.Command{
	Use:   "in <employee>",
	Short: "Set today's begin to the current time",
	Args:  cobra.ExactArgs(1),
	RunE:  runClockIn,
}

var clockOutCmd = &cobra.Command{
	Use:   "out <employee>",
	Short: "Set today's end to the current time",
	Args:  cobra.ExactArgs(1),
	RunE:  runClockOut,
}

func init() {
	clockInCmd.Flags().StringVarP(&clockInProject, "project", "p", "", "Project of today's entry")
	clockCmd.AddCommand(clockInCmd)
	clockCmd.AddCommand(clockOutCmd)
}

func runClockIn(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := requireEmployee(w, args[0]); err != nil {
		return err
	}

	entry, err := w.session.ClockIn(contextOf(cmd), args[0], clockInProject, time.Now())
	if !applied(err) {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Clocked in at %s\n", entry.Begin)
	return err
}

func runClockOut(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := requireEmployee(w, args[0]); err != nil {
		return err
	}

	entry, err := w.session.ClockOut(contextOf(cmd), args[0], time.Now())
	if !applied(err) {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Clocked out at %s\n", entry.End)
	printEntry(out, entry)
	return err
}
