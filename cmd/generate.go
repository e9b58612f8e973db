package cmd

import (
	"fmt"
	"os"

	"github.com/CDTO-DENKART/app-visualizer/internal/config"
	"github.com/CDTO-DENKART/app-visualizer/internal/render"
	"github.com/CDTO-DENKART/app-visualizer/internal/ui"
	"github.com/spf13/cobra"
)

var (
	outputFile   string
	detailLevel  string
	direction    string
	autoRender   bool
	renderFormat string
	themeName    string
	localeCode   string
	onlyRunning  bool
	jsonOutput   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Collect once and write the topology diagram",
	Long: `Collect services from every enabled source, build the host topology
and write it as a D2 diagram, or as node/edge JSON with --json.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addDisplayFlags(generateCmd)
	generateCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the graph as JSON to stdout instead of writing D2")
}

// addDisplayFlags registers the flags shared by generate and watch.
func addDisplayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output D2 file path")
	cmd.Flags().StringVar(&detailLevel, "detail", "", "detail level: minimal, standard, detailed")
	cmd.Flags().StringVar(&direction, "direction", "", "diagram direction: down, right, up, left")
	cmd.Flags().BoolVar(&autoRender, "render", false, "render to SVG/PNG after writing D2 (requires d2)")
	cmd.Flags().StringVar(&renderFormat, "format", "", "output format for --render: svg, png")
	cmd.Flags().StringVar(&themeName, "theme", "", "color theme")
	cmd.Flags().StringVar(&localeCode, "locale", "", "label language: en, ru")
	cmd.Flags().BoolVar(&onlyRunning, "only-running", false, "hide stopped services")
}

func runGenerate(cmd *cobra.Command, args []string) error {
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

	inv, err := a.collectOnce(cmd.Context())
	if err != nil {
		return err
	}
	if inv.Error != "" {
		ui.Warn(inv.Error)
	}

	if jsonOutput {
		return a.view.Publish(&render.WriterSurface{W: os.Stdout})
	}

	surface := a.surface()
	if err := a.view.Publish(surface); err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to write output", err.Error(), "install d2 for --render: https://d2lang.com/tour/install"))
		return err
	}

	ui.Success(fmt.Sprintf("Generated %s (%d nodes)", cfg.Output, len(a.view.Graph().Nodes)))
	fmt.Println(ui.Stats(a.catalog, inv.Statistics))
	return nil
}

func applyFlagOverrides(cfg *config.Config) {
	if outputFile != "" {
		cfg.Output = outputFile
	}
	if detailLevel != "" {
		cfg.Render.DetailLevel = detailLevel
	}
	if direction != "" {
		cfg.Render.Direction = direction
	}
	if autoRender {
		cfg.Render.AutoRender = true
	}
	if renderFormat != "" {
		cfg.Render.Format = renderFormat
	}
	if themeName != "" {
		cfg.Theme = themeName
	}
	if localeCode != "" {
		cfg.Locale = localeCode
	}
	if onlyRunning {
		cfg.Filter.OnlyRunning = true
	}
}
