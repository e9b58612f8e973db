package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CDTO-DENKART/app-visualizer/internal/config"
	"github.com/CDTO-DENKART/app-visualizer/internal/render"
	"github.com/CDTO-DENKART/app-visualizer/internal/ui"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the diagram current as services change",
	Long: `Re-collect on every refresh interval and rewrite the diagram. Send
SIGUSR1 to refresh immediately. Filter changes in hostmap.yml and edits
to the diagnostic rules file apply without a restart.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addDisplayFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to load config", err.Error(), "run 'hostmap init' to create a config file"))
		return err
	}
	applyFlagOverrides(cfg)

	a, err := newApp(cfg)
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Invalid configuration", err.Error(), "run 'hostmap validate' for details"))
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	surfaces := []render.Surface{a.surface()}
	log.Info("Watching services", "output", cfg.Output, "interval", cfg.Refresh.Interval)
	return a.runLive(ctx, a.newRefresher(surfaces), surfaces)
}
