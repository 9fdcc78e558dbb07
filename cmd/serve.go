package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-time-sheet/internal/server"
	"github.com/Tiliavir/trivial-time-sheet/internal/suggest"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the time sheet as a JSON API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer w.Close()

	var suggester suggest.Suggester
	if client, err := newSuggester(w.cfg); err == nil {
		suggester = client
	} else {
		logger.WithError(err).Info("project suggestions disabled")
	}

	addr := serveAddr
	if addr == "" {
		addr = w.cfg.Server.Addr
	}
	if logger.GetLevel() < logrus.InfoLevel {
		logger.SetLevel(logrus.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(w.session, suggester, w.cfg.Report.Language, logger)
	return srv.Run(ctx, addr)
}
