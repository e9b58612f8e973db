package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/CDTO-DENKART/app-visualizer/internal/collector"
	"github.com/CDTO-DENKART/app-visualizer/internal/config"
	"github.com/CDTO-DENKART/app-visualizer/internal/diagnostics"
	"github.com/CDTO-DENKART/app-visualizer/internal/ui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate your hostmap.yml configuration",
	Long: `Check display settings, the diagnostic rules file and every enabled
source: URLs are absolute, files exist and binaries are available.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to load config", err.Error(), "run 'hostmap init' to create a config file"))
		return err
	}

	fmt.Println(ui.Bold("Validating hostmap.yml..."))

	passed, failed := 0, 0

	problems := cfg.Check()
	for _, p := range problems {
		suggestion := ""
		if len(p.Allowed) > 0 {
			suggestion = "use one of: " + strings.Join(p.Allowed, ", ")
		}
		ui.ValidationErr(p.Field, p.Message, suggestion)
		failed++
	}
	if len(problems) == 0 {
		ui.ValidationOK("Display", "theme, locale and render settings valid")
		passed++
	}

	if path := cfg.Diagnostics.RulesFile; path != "" {
		if rules, err := diagnostics.LoadRules(path); err != nil {
			ui.ValidationErr("diagnostics.rules_file", err.Error(), "")
			failed++
		} else {
			ui.ValidationOK("Diagnostic rules", fmt.Sprintf("%d rules", len(rules)))
			passed++
		}
	}

	enabled := 0
	for _, s := range collector.All() {
		meta := s.Metadata()
		if !s.Enabled(cfg.RawSources) {
			continue
		}
		enabled++

		section, _ := cfg.RawSources[meta.ConfigKey].(map[string]any)
		if err := s.Configure(section); err != nil {
			ui.ValidationErr(meta.DisplayName, err.Error(), "")
			failed++
			continue
		}

		errs := s.Validate()
		if len(errs) == 0 {
			ui.ValidationOK(meta.DisplayName, "configuration valid")
			passed++
			continue
		}
		for _, ve := range errs {
			ui.ValidationErr(ve.Field, ve.Message, ve.Suggestion)
			failed++
		}
	}
	if enabled == 0 {
		ui.ValidationErr("sources", collector.ErrNoSources.Error(), "enable at least sources.api or sources.snapshot")
		failed++
	}

	fmt.Println()
	if failed == 0 {
		ui.Success(fmt.Sprintf("%d checks passed, 0 errors", passed))
		return nil
	}
	fmt.Printf("%d checks passed, %d errors\n", passed, failed)
	return fmt.Errorf("%d validation errors", failed)
}
