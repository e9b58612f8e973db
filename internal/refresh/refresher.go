// Package refresh re-fetches the inventory on an interval and on demand.
// Fetches may overlap; a result is applied only if nothing newer has been.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/CDTO-DENKART/app-visualizer/internal/metrics"
	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/charmbracelet/log"
)

// DefaultInterval is used when no interval is configured.
const DefaultInterval = 30 * time.Second

// FetchFunc produces a fresh inventory.
type FetchFunc func(ctx context.Context) (*model.Inventory, error)

// Refresher issues fetches and applies their results in generation order.
type Refresher struct {
	fetch    FetchFunc
	interval time.Duration
	onApply  func(*model.Inventory)
	onError  func(error)
	trigger  chan struct{}

	mu     sync.Mutex
	issued uint64
	wg     sync.WaitGroup

	// applyMu serializes the stale check with the callback so an older
	// result can never land after a newer one.
	applyMu sync.Mutex
	applied uint64
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithOnApply sets the callback for fetched inventories.
func WithOnApply(fn func(*model.Inventory)) Option {
	return func(r *Refresher) { r.onApply = fn }
}

// WithOnError sets the callback for failed fetches.
func WithOnError(fn func(error)) Option {
	return func(r *Refresher) { r.onError = fn }
}

// New returns a refresher that calls fetch every interval.
func New(fetch FetchFunc, interval time.Duration, opts ...Option) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	r := &Refresher{
		fetch:    fetch,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Trigger requests a refresh from Run without blocking. Requests made while
// one is already queued are coalesced.
func (r *Refresher) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Run fetches once immediately, then on every tick and trigger, until ctx
// is done. It waits for in-flight fetches before returning.
func (r *Refresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer r.wg.Wait()

	r.Go(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Go(ctx)
		case <-r.trigger:
			r.Go(ctx)
		}
	}
}

// Go starts a fetch in the background.
func (r *Refresher) Go(ctx context.Context) {
	gen := r.issue()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.do(ctx, gen)
	}()
}

// Refresh fetches synchronously. It reports whether the result was applied.
func (r *Refresher) Refresh(ctx context.Context) (bool, error) {
	return r.do(ctx, r.issue())
}

// Generation returns the last issued and last applied generations.
func (r *Refresher) Generation() (issued, applied uint64) {
	r.mu.Lock()
	issued = r.issued
	r.mu.Unlock()
	r.applyMu.Lock()
	applied = r.applied
	r.applyMu.Unlock()
	return issued, applied
}

func (r *Refresher) issue() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued++
	return r.issued
}

func (r *Refresher) do(ctx context.Context, gen uint64) (bool, error) {
	start := time.Now()
	inv, err := r.fetch(ctx)
	metrics.RefreshDuration.Observe(time.Since(start).Seconds())

	r.applyMu.Lock()
	defer r.applyMu.Unlock()

	switch {
	case gen <= r.applied:
		metrics.RefreshTotal.WithLabelValues("stale").Inc()
		log.Debug("Discarding stale refresh", "generation", gen)
		return false, err
	case err != nil:
		metrics.RefreshTotal.WithLabelValues("error").Inc()
		log.Error("Refresh failed", "generation", gen, "err", err)
		if r.onError != nil {
			r.onError(err)
		}
		return false, err
	}

	r.applied = gen
	metrics.RefreshTotal.WithLabelValues("applied").Inc()
	log.Debug("Applying refresh", "generation", gen, "records", len(inv.Applications))
	if r.onApply != nil {
		r.onApply(inv)
	}
	return true, nil
}
