package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/CDTO-DENKART/app-visualizer/internal/client"
	"github.com/CDTO-DENKART/app-visualizer/internal/collector"
	"github.com/CDTO-DENKART/app-visualizer/internal/config"
	"github.com/CDTO-DENKART/app-visualizer/internal/diagnostics"
	"github.com/CDTO-DENKART/app-visualizer/internal/locale"
	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/CDTO-DENKART/app-visualizer/internal/render"
	"github.com/CDTO-DENKART/app-visualizer/internal/style"
	"github.com/CDTO-DENKART/app-visualizer/internal/topology"
	"github.com/CDTO-DENKART/app-visualizer/internal/ui"
	"github.com/charmbracelet/log"
)

// app is what every command builds from hostmap.yml.
type app struct {
	cfg      *config.Config
	catalog  *locale.Catalog
	resolver *diagnostics.Resolver
	view     *topology.View
}

func loadApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to load config", err.Error(), "run 'hostmap init' to create a config file"))
		return nil, err
	}
	return newApp(cfg)
}

func newApp(cfg *config.Config) (*app, error) {
	if problems := cfg.Check(); len(problems) > 0 {
		var msgs []string
		for _, p := range problems {
			msgs = append(msgs, p.Field+": "+p.Message)
		}
		return nil, fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}

	rules := diagnostics.DefaultRules()
	if cfg.Diagnostics.RulesFile != "" {
		loaded, err := diagnostics.LoadRules(cfg.Diagnostics.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("diagnostic rules: %w", err)
		}
		rules = loaded
	}

	catalog := locale.Get(cfg.Locale)
	resolver := diagnostics.NewResolver(rules)
	builder := topology.NewBuilder(style.GetTheme(cfg.Theme), catalog)
	return &app{
		cfg:      cfg,
		catalog:  catalog,
		resolver: resolver,
		view:     topology.NewView(builder, resolver, cfg.Filter, cfg.HostIP),
	}, nil
}

// fetch runs every enabled source once.
func (a *app) fetch(ctx context.Context) (*model.Inventory, error) {
	inv, results, err := collector.Collect(ctx, a.cfg.RawSources)
	for _, r := range results {
		switch {
		case r.Skipped:
			log.Debug("Source skipped", "source", r.Name)
		case r.Err != nil:
			log.Error("Source failed", "source", r.Name, "err", r.Err)
		default:
			log.Debug("Source collected", "source", r.Name, "detail", r.Detail)
		}
	}
	return inv, err
}

// collectOnce fetches with per-source console output and applies the
// result to the view.
func (a *app) collectOnce(ctx context.Context) (*model.Inventory, error) {
	fmt.Println(ui.Bold("Collecting services..."))
	inv, results, err := collector.Collect(ctx, a.cfg.RawSources)
	for _, r := range results {
		switch {
		case r.Skipped:
			ui.SourceSkipped(r.Name)
		case r.Err != nil:
			fmt.Fprint(os.Stderr, ui.FormatError(r.Name+" failed", r.Err.Error(), ""))
		default:
			ui.SourceDone(r.Name, r.Detail)
		}
	}
	if err != nil {
		return nil, err
	}
	a.view.Apply(inv)
	return inv, nil
}

func (a *app) surface() *render.FileSurface {
	return &render.FileSurface{
		Path: a.cfg.Output,
		Renderer: &render.D2Renderer{
			DetailLevel: a.cfg.Render.DetailLevel,
			Direction:   a.cfg.Render.Direction,
		},
		AutoRender: a.cfg.Render.AutoRender,
		Format:     a.cfg.Render.Format,
	}
}

func (a *app) launcher(notify func(diagnostics.Notification)) (*diagnostics.Launcher, error) {
	url := a.cfg.RunnerURL()
	if url == "" {
		return nil, fmt.Errorf("no test runner: set diagnostics.runner_url or sources.api.url")
	}
	return diagnostics.NewLauncher(
		client.New(url, a.cfg.Diagnostics.Timeout),
		diagnostics.WithHolds(a.cfg.Diagnostics.SuccessHold, a.cfg.Diagnostics.ErrorHold),
		diagnostics.WithNotifier(notify),
	), nil
}
