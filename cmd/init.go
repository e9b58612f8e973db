package cmd

import (
	"fmt"
	"os"

	"github.com/CDTO-DENKART/app-visualizer/internal/config"
	"github.com/CDTO-DENKART/app-visualizer/internal/ui"
	"github.com/CDTO-DENKART/app-visualizer/internal/wizard"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a hostmap.yml config file interactively",
	Long: `Look for snapshots, compose files and systemctl on this host and
generate a config file through an interactive wizard.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := config.FileName + ".yml"

	if _, err := os.Stat(configPath); err == nil {
		overwrite := false
		err := huh.NewConfirm().
			Title(configPath + " already exists. Overwrite?").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println(ui.Bold("Scanning this host..."))
	detection := wizard.Detect(nil)

	answers, err := wizard.Run(detection)
	if err != nil {
		return fmt.Errorf("wizard: %w", err)
	}

	content, err := wizard.GenerateConfig(*answers)
	if err != nil {
		return fmt.Errorf("generating config: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	ui.Success(fmt.Sprintf("Created %s", configPath))
	fmt.Println()
	fmt.Printf("Next step: %s\n", ui.Bold("hostmap generate"))
	fmt.Printf("           %s\n", ui.Hint("or 'hostmap serve' for the live map"))
	return nil
}
