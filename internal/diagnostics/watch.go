package diagnostics

import (
	"context"
	"path/filepath"

	"github.com/CDTO-DENKART/app-visualizer/internal/metrics"
	"github.com/CDTO-DENKART/app-visualizer/internal/util"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// RulesWatcher reloads a rule file into a Resolver whenever it changes on
// disk. A file that fails to parse leaves the previous table in place.
type RulesWatcher struct {
	path     string
	resolver *Resolver
	watcher  *fsnotify.Watcher
	onReload func([]Rule)
}

// NewRulesWatcher creates a watcher for path. onReload may be nil.
func NewRulesWatcher(path string, resolver *Resolver, onReload func([]Rule)) (*RulesWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &RulesWatcher{
		path:     filepath.Clean(util.ExpandPath(path)),
		resolver: resolver,
		watcher:  w,
		onReload: onReload,
	}, nil
}

// Start blocks until ctx is cancelled. Run it in a goroutine.
func (w *RulesWatcher) Start(ctx context.Context) {
	// Watch the directory so editors that replace the file are seen too.
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		log.Warn("Failed to watch rules directory", "dir", dir, "err", err)
		return
	}
	log.Debug("Watching diagnostic rules", "path", w.path)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("Rules watcher error", "err", err)
		case <-ctx.Done():
			return
		}
	}
}

func (w *RulesWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	w.Reload()
}

// Reload reads the file now and swaps the table in on success.
func (w *RulesWatcher) Reload() bool {
	rules, err := LoadRules(w.path)
	if err != nil {
		metrics.RulesReloadTotal.WithLabelValues("error").Inc()
		log.Error("Keeping previous diagnostic rules", "path", w.path, "err", err)
		return false
	}
	w.resolver.Swap(rules)
	metrics.RulesReloadTotal.WithLabelValues("ok").Inc()
	log.Info("Reloaded diagnostic rules", "path", w.path, "rules", len(rules))
	if w.onReload != nil {
		w.onReload(rules)
	}
	return true
}

// Stop releases the underlying watcher.
func (w *RulesWatcher) Stop() error {
	return w.watcher.Close()
}
