package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/CDTO-DENKART/app-visualizer/internal/diagnostics"
	"github.com/CDTO-DENKART/app-visualizer/internal/ui"
	"github.com/spf13/cobra"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <node-id> <index>",
	Short: "Launch one of a node's diagnostics through the test runner",
	Long: `Collect once, look up the node's diagnostic commands and ask the test
runner to start the one at index (as listed by 'hostmap describe').`,
	Args: cobra.ExactArgs(2),
	RunE: runDiagnose,
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("index %q: %w", args[1], err)
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	launcher, err := a.launcher(func(n diagnostics.Notification) {
		fmt.Println(ui.Notification(a.catalog, n))
	})
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Cannot launch diagnostics", err.Error(), "set sources.api.url in hostmap.yml"))
		return err
	}

	if _, err := a.collectOnce(cmd.Context()); err != nil {
		return err
	}

	d, ok, err := a.view.Describe(args[0])
	if err != nil {
		return fmt.Errorf("node %s: %w", args[0], err)
	}
	if !ok || index < 0 || index >= len(d.Diagnostics) {
		return fmt.Errorf("node %s has no diagnostic %d", args[0], index)
	}
	tc := d.Diagnostics[index]
	if tc.IsNote() {
		return fmt.Errorf("%q is a note: %s", tc.Label, tc.Note)
	}

	key, err := launcher.Register(tc)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", ui.Bold(tc.Label), ui.Hint(tc.Command))
	return launcher.Launch(cmd.Context(), key)
}
