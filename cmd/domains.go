package cmd

import (
	"fmt"

	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/CDTO-DENKART/app-visualizer/internal/ui"
	"github.com/spf13/cobra"
)

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List the active and planned domain bindings",
	RunE:  runDomains,
}

func init() {
	rootCmd.AddCommand(domainsCmd)
}

func runDomains(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	inv, err := a.collectOnce(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println()
	printBindings(a.catalog.ActiveDomains, inv.Domains.Active)
	printBindings(a.catalog.PlannedDomains, inv.Domains.Planned)
	return nil
}

func printBindings(title string, bindings []model.DomainBinding) {
	fmt.Println(ui.Bold(title))
	if len(bindings) == 0 {
		fmt.Println("  " + ui.Hint("none"))
	}
	for _, b := range bindings {
		target := b.ContainerName
		if b.AppName != "" {
			target = b.AppName
		}
		fmt.Printf("  %s → %s", b.Domain, target)
		if b.Description != "" {
			fmt.Printf("  %s", ui.Hint(b.Description))
		}
		fmt.Println()
	}
}
