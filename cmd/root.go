package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-sheet/internal/app"
)

var (
	verbose bool

	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "tts",
	Short: "Trivial Time Sheet – monthly time sheets for a small team",
	Long: `tts records one working-time entry per employee and day (begin, end,
pause), totals each month and renders printable time sheet reports.
Data is stored as human-readable JSON files (or SQLite) under $TTS_HOME,
defaulting to $XDG_DATA_HOME/tts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetOutput(cmd.ErrOrStderr())
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: !verbose})
		logger.SetLevel(logrus.WarnLevel)
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
	},
}

// exitError carries a process exit code: 1 for user errors, 2 for storage errors.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func storageError(err error) error {
	return &exitError{code: 2, err: err}
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var perr *app.PersistError
	if errors.As(err, &perr) {
		return 2
	}
	return 1
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(employeeCmd)
	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(clockCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(outlookCmd)
	rootCmd.AddCommand(serveCmd)
}
