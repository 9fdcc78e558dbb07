package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-sheet/internal/config"
	"github.com/Tiliavir/trivial-time-sheet/internal/suggest"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <keywords...>",
	Short: "Suggest project names for a few keywords (needs ANTHROPIC_API_KEY)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

// newSuggester builds the suggestion client from configuration.
func newSuggester(cfg config.Config) (*suggest.Client, error) {
	return suggest.NewClient(suggest.Config{
		Endpoint:       cfg.Suggest.Endpoint,
		Model:          cfg.Suggest.Model,
		APIKey:         cfg.Suggest.APIKey,
		Timeout:        time.Duration(cfg.Suggest.TimeoutMS) * time.Millisecond,
		MaxSuggestions: cfg.Suggest.MaxSuggestions,
	}, logger)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	client, err := newSuggester(w.cfg)
	if err != nil {
		if errors.Is(err, suggest.ErrNoAPIKey) {
			return fmt.Errorf("%w: set ANTHROPIC_API_KEY", err)
		}
		return err
	}

	names, err := client.Suggest(contextOf(cmd), strings.Join(args, " "), w.session.Projects())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, "No suggestions.")
		return nil
	}
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	return nil
}
