// Package collector gathers service records from the configured sources
// and merges them into one inventory.
package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/CDTO-DENKART/app-visualizer/internal/model"
)

// ErrNoSources is returned when no source is enabled.
var ErrNoSources = errors.New("no inventory source enabled")

// CollectResult holds the result of a single source run.
type CollectResult struct {
	Name    string
	Skipped bool
	Detail  string
	Err     error
}

// Collect runs all enabled sources and merges the results. The first
// failing source aborts the whole collection.
func Collect(ctx context.Context, rawSources map[string]any) (*model.Inventory, []CollectResult, error) {
	var (
		results  []CollectResult
		live     []*model.Inventory
		declared []*model.Inventory
	)

	for _, s := range All() {
		meta := s.Metadata()

		if !s.Enabled(rawSources) {
			results = append(results, CollectResult{Name: meta.DisplayName, Skipped: true})
			continue
		}

		section, _ := rawSources[meta.ConfigKey].(map[string]any)
		if err := s.Configure(section); err != nil {
			serr := &SourceError{Source: meta.DisplayName, Err: err}
			results = append(results, CollectResult{Name: meta.DisplayName, Err: serr})
			return nil, results, serr
		}

		part := model.NewInventory()
		if err := s.Collect(ctx, part); err != nil {
			serr := &SourceError{Source: meta.DisplayName, Err: err}
			results = append(results, CollectResult{Name: meta.DisplayName, Err: serr})
			return nil, results, serr
		}

		results = append(results, CollectResult{
			Name:   meta.DisplayName,
			Detail: fmt.Sprintf("%d records", len(part.Applications)),
		})
		if meta.Kind == KindDeclared {
			declared = append(declared, part)
		} else {
			live = append(live, part)
		}
	}

	if len(live)+len(declared) == 0 {
		return nil, results, ErrNoSources
	}
	return Merge(live, declared), results, nil
}
