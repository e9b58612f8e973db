package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CDTO-DENKART/app-visualizer/internal/diagnostics"
	"github.com/CDTO-DENKART/app-visualizer/internal/render"
	"github.com/CDTO-DENKART/app-visualizer/internal/server"
	"github.com/CDTO-DENKART/app-visualizer/internal/ui"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	serveAddr  string
	serveWrite bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the live topology over HTTP",
	Long: `Serve the current graph, node details and diagnostic launches as a JSON
API, refreshing in the background. Prometheus metrics are exposed on
/metrics.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
	serveCmd.Flags().BoolVar(&serveWrite, "write", false, "also rewrite the D2 output on every refresh")
}

// errNoRunner is returned by launches when no test runner is configured.
var errNoRunner = errors.New("no test runner configured")

type noRunner struct{}

func (noRunner) RunTest(context.Context, string, string) (int, error) { return 0, errNoRunner }

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	notify := func(n diagnostics.Notification) {
		if n.Err != nil {
			log.Error("Diagnostic launch failed", "label", n.Label, "err", n.Err)
			return
		}
		log.Info("Diagnostic launched", "label", n.Label, "pid", n.PID)
	}
	launcher, err := a.launcher(notify)
	if err != nil {
		log.Warn("Diagnostics disabled", "err", err)
		launcher = diagnostics.NewLauncher(noRunner{}, diagnostics.WithNotifier(notify))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var surfaces []render.Surface
	if serveWrite {
		surfaces = append(surfaces, a.surface())
	}
	r := a.newRefresher(surfaces)
	srv := server.New(ctx, a.view, launcher, r, server.Options{
		RefreshRate:  a.cfg.Server.RefreshRate,
		RefreshBurst: a.cfg.Server.RefreshBurst,
	})

	err = a.runLive(ctx, r, surfaces, func(ctx context.Context) error {
		return srv.ListenAndServe(ctx, addr)
	})
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Server stopped", err.Error(), ""))
	}
	return err
}
