package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-sheet/internal/app"
	"github.com/Tiliavir/trivial-time-sheet/internal/config"
	"github.com/Tiliavir/trivial-time-sheet/internal/storage"
	"github.com/Tiliavir/trivial-time-sheet/internal/timesheet"
)

// workspace bundles what most commands need: configuration, the loaded
// session and the storage it saves to.
type workspace struct {
	cfg     config.Config
	session *app.Session
	snaps   *storage.Snapshots
}

func (w *workspace) Close() {
	if err := w.snaps.Close(); err != nil {
		logger.WithError(err).Warn("closing storage")
	}
}

// loadConfig reads the config file. A broken file is reported but the
// defaults are still usable.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Warn("using default configuration")
	}
	return cfg
}

// openWorkspace loads configuration and both snapshots.
func openWorkspace(cmd *cobra.Command) (*workspace, error) {
	cfg := loadConfig()

	backend, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, storageError(err)
	}
	snaps := storage.NewSnapshots(backend, logger)

	snap, err := snaps.Load(contextOf(cmd))
	if err != nil {
		_ = snaps.Close()
		return nil, storageError(err)
	}
	snap, dropped := timesheet.NormaliseSnapshot(snap)
	for _, d := range dropped {
		logger.WithField("skipped", d).Warn("ignoring stored entry")
	}
	logger.WithField("employees", len(snap.Employees)).Debug("snapshots loaded")

	return &workspace{
		cfg:     cfg,
		session: app.NewSession(timesheet.NewStore(snap), snaps, logger),
		snaps:   snaps,
	}, nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// requireEmployee fails with a user error for names not on the roster.
func requireEmployee(w *workspace, name string) error {
	if !w.session.HasEmployee(name) {
		return fmt.Errorf("%w: %q (see: tts employee list)", timesheet.ErrUnknownEmployee, name)
	}
	return nil
}

// applied reports whether a mutation took effect, possibly without being saved.
func applied(err error) bool {
	var perr *app.PersistError
	return err == nil || errors.As(err, &perr)
}
