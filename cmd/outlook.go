package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-sheet/internal/msgraph"
	"github.com/Tiliavir/trivial-time-sheet/internal/storage"
	"github.com/Tiliavir/trivial-time-sheet/internal/timecalc"
)

var (
	outlookMonth     = newMonthFlag(time.Now())
	outlookProject   string
	outlookTZ        string
	outlookDryRun    bool
	outlookOverwrite bool
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookImportCmd = &cobra.Command{
	Use:   "import <employee>",
	Short: "Fill a month's entries from your Outlook calendar",
	Long: `Fill a month's entries from your Outlook calendar. Each day's accepted
meetings become one entry: begin at the first meeting, end at the last, and
the gaps between meetings as pause. Days that already have time recorded are
skipped unless --overwrite is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runOutlookImport,
}

func init() {
	outlookImportCmd.Flags().Var(outlookMonth, "month", "Month to import")
	outlookImportCmd.Flags().StringVar(&outlookProject, "project", "", "Project for imported days (default from config)")
	outlookImportCmd.Flags().StringVar(&outlookTZ, "timezone", "", "IANA timezone for event times (e.g. Europe/Berlin)")
	outlookImportCmd.Flags().BoolVar(&outlookDryRun, "dry-run", false, "Print planned entries without writing")
	outlookImportCmd.Flags().BoolVar(&outlookOverwrite, "overwrite", false, "Replace days that already have time recorded")
	outlookCmd.AddCommand(outlookImportCmd)
}

func runOutlookImport(cmd *cobra.Command, args []string) error {
	employee := args[0]

	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := requireEmployee(w, employee); err != nil {
		return err
	}

	timezone := outlookTZ
	if timezone == "" {
		timezone = w.cfg.Outlook.Timezone
	}
	loc := time.Local
	if timezone != "" {
		if loc, err = time.LoadLocation(timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", timezone, err)
		}
	}
	project := outlookProject
	if project == "" {
		project = w.cfg.Outlook.DefaultProject
	}

	base, err := storage.BaseDir()
	if err != nil {
		return storageError(err)
	}

	out := cmd.OutOrStdout()
	dryTag := ""
	if outlookDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Fprintf(out, "Importing Outlook events for %s, %s%s...\n", employee, outlookMonth, dryTag)

	ctx := contextOf(cmd)
	auth := &msgraph.Authenticator{
		TenantID:  w.cfg.Outlook.TenantID,
		ClientID:  w.cfg.Outlook.ClientID,
		TokenPath: msgraph.TokenFile(base),
		Prompt:    out,
		Log:       logger,
	}
	httpClient, err := auth.HTTPClient(ctx)
	if err != nil {
		return storageError(fmt.Errorf("authentication failed: %w", err))
	}

	from, to := timecalc.MonthRange(outlookMonth.year, outlookMonth.month, loc)
	events, err := msgraph.NewClient(httpClient, "").GetCalendarView(ctx, from, to, timezone)
	if err != nil {
		return storageError(fmt.Errorf("fetching calendar events: %w", err))
	}
	logger.WithField("events", len(events)).Debug("calendar view fetched")

	result, err := msgraph.SyncEvents(ctx, w.session, events, msgraph.SyncOptions{
		Employee:  employee,
		Year:      outlookMonth.year,
		Month:     outlookMonth.month,
		Project:   project,
		Location:  loc,
		DryRun:    outlookDryRun,
		Overwrite: outlookOverwrite,
		Out:       out,
		Log:       logger,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  %d imported\n", result.Imported)
	fmt.Fprintf(out, "  %d updated\n", result.Updated)
	fmt.Fprintf(out, "  %d skipped\n", result.Skipped)
	fmt.Fprintf(out, "  %d events ignored\n", result.Ignored)
	if result.Errors > 0 {
		fmt.Fprintf(out, "  %d errors\n", result.Errors)
		return &exitError{code: 2, err: fmt.Errorf("%d days could not be imported", result.Errors)}
	}
	return nil
}
