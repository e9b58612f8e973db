package cmd

import (
	"fmt"
	"strings"

	"github.com/CDTO-DENKART/app-visualizer/internal/ui"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe [node-id]",
	Short: "Show the detail view of a node",
	Long: `Collect once and print the detail of one node: status, addresses,
domains, routing and the diagnostics available for it. Without an id,
list the nodes of the current graph.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	if _, err := a.collectOnce(cmd.Context()); err != nil {
		return err
	}
	fmt.Println()

	if len(args) == 0 {
		for _, n := range a.view.Graph().Nodes {
			name, _, _ := strings.Cut(n.Label, "\n")
			fmt.Printf("%s%s %s\n", strings.Repeat("  ", n.Level), ui.Hint(n.ID), name)
		}
		return nil
	}

	d, ok, err := a.view.Describe(args[0])
	if err != nil {
		return fmt.Errorf("node %s: %w", args[0], err)
	}
	if !ok {
		fmt.Println(ui.Stats(a.catalog, a.view.State().Statistics))
		return nil
	}
	fmt.Println(ui.Detail(d, a.catalog, nil))
	return nil
}
