package cmd

import (
	"context"
	"errors"

	"github.com/CDTO-DENKART/app-visualizer/internal/config"
	"github.com/CDTO-DENKART/app-visualizer/internal/diagnostics"
	"github.com/CDTO-DENKART/app-visualizer/internal/locale"
	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/CDTO-DENKART/app-visualizer/internal/refresh"
	"github.com/CDTO-DENKART/app-visualizer/internal/render"
	"github.com/CDTO-DENKART/app-visualizer/internal/style"
	"github.com/CDTO-DENKART/app-visualizer/internal/topology"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// newRefresher applies every fresh inventory to the view and redraws the
// surfaces. A failed fetch keeps the previous graph.
func (a *app) newRefresher(surfaces []render.Surface) *refresh.Refresher {
	return refresh.New(a.fetch, a.cfg.Refresh.Interval,
		refresh.WithOnApply(func(inv *model.Inventory) {
			a.view.Apply(inv)
			if inv.Error != "" {
				log.Warn("Backend reported an error", "err", inv.Error)
			}
			a.publish(surfaces)
			s := inv.Statistics
			log.Info("Topology refreshed", "total", s.Total, "running", s.Running, "docker", s.Docker, "lxd", s.LXD, "host", s.Host)
		}),
		refresh.WithOnError(func(err error) {
			a.view.SetError(err)
			log.Error("Refresh failed, keeping previous graph", "err", err)
		}),
	)
}

func (a *app) publish(surfaces []render.Surface) {
	for _, s := range surfaces {
		if err := a.view.Publish(s); err != nil {
			log.Error("Draw failed", "err", err)
		}
	}
}

// runLive runs the refresh loop, the rules and config watchers and any
// extra services until ctx is done or one of them fails.
func (a *app) runLive(ctx context.Context, r *refresh.Refresher, surfaces []render.Surface, extra ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := r.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if path := a.cfg.Diagnostics.RulesFile; path != "" {
		w, err := diagnostics.NewRulesWatcher(path, a.resolver, nil)
		if err != nil {
			return err
		}
		defer w.Stop()
		g.Go(func() error {
			w.Start(gctx)
			return nil
		})
	}

	a.watchConfig(surfaces)
	g.Go(func() error {
		triggerOnSignal(gctx, r)
		return nil
	})

	for _, fn := range extra {
		fn := fn
		g.Go(func() error { return fn(gctx) })
	}
	return g.Wait()
}

// watchConfig re-reads the filter, theme and locale when hostmap.yml
// changes. Sources and the server address need a restart.
func (a *app) watchConfig(surfaces []render.Surface) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := config.Load()
		if err != nil {
			log.Error("Ignoring config change", "file", e.Name, "err", err)
			return
		}
		applyFlagOverrides(cfg)
		if problems := cfg.Check(); len(problems) > 0 {
			log.Error("Ignoring config change", "file", e.Name, "field", problems[0].Field, "err", problems[0].Message)
			return
		}
		a.view.SetBuilder(topology.NewBuilder(style.GetTheme(cfg.Theme), locale.Get(cfg.Locale)))
		a.view.SetFilter(cfg.Filter)
		a.publish(surfaces)
		log.Info("Display settings reloaded", "file", e.Name, "theme", cfg.Theme, "locale", cfg.Locale)
	})
	viper.WatchConfig()
}
