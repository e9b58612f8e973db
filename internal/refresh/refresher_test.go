package refresh

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagKey struct{}

type result struct {
	inv *model.Inventory
	err error
}

// gatedFetch blocks each call until the channel named by the context tag
// delivers a result.
func gatedFetch(gates map[string]chan result) FetchFunc {
	return func(ctx context.Context) (*model.Inventory, error) {
		res := <-gates[ctx.Value(tagKey{}).(string)]
		return res.inv, res.err
	}
}

func tagged(tag string) context.Context {
	return context.WithValue(context.Background(), tagKey{}, tag)
}

func TestStaleResultIsDiscarded(t *testing.T) {
	gates := map[string]chan result{"old": make(chan result), "new": make(chan result)}
	applied := make(chan *model.Inventory, 2)
	r := New(gatedFetch(gates), time.Hour, WithOnApply(func(inv *model.Inventory) { applied <- inv }))

	oldInv := &model.Inventory{HostIP: "old"}
	newInv := &model.Inventory{HostIP: "new"}

	r.Go(tagged("old"))
	r.Go(tagged("new"))

	gates["new"] <- result{inv: newInv}
	assert.Same(t, newInv, <-applied)

	gates["old"] <- result{inv: oldInv}
	r.wg.Wait()
	assert.Empty(t, applied)

	issued, last := r.Generation()
	assert.Equal(t, uint64(2), issued)
	assert.Equal(t, uint64(2), last)
}

func TestErrorIsReportedAndNothingApplied(t *testing.T) {
	boom := errors.New("GET /api/apps: HTTP 502")
	var errs []error
	var applies int
	r := New(func(ctx context.Context) (*model.Inventory, error) { return nil, boom }, 0,
		WithOnApply(func(*model.Inventory) { applies++ }),
		WithOnError(func(err error) { errs = append(errs, err) }),
	)
	assert.Equal(t, DefaultInterval, r.interval)

	ok, err := r.Refresh(context.Background())
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []error{boom}, errs)
	assert.Zero(t, applies)

	_, last := r.Generation()
	assert.Zero(t, last)
}

func TestOlderSuccessAfterNewerErrorIsApplied(t *testing.T) {
	gates := map[string]chan result{"slow": make(chan result), "fast": make(chan result)}
	applied := make(chan *model.Inventory, 1)
	failed := make(chan error, 1)
	r := New(gatedFetch(gates), time.Hour,
		WithOnApply(func(inv *model.Inventory) { applied <- inv }),
		WithOnError(func(err error) { failed <- err }),
	)

	r.Go(tagged("slow"))
	r.Go(tagged("fast"))

	gates["fast"] <- result{err: errors.New("timeout")}
	assert.EqualError(t, <-failed, "timeout")

	inv := &model.Inventory{HostIP: "slow"}
	gates["slow"] <- result{inv: inv}
	assert.Same(t, inv, <-applied)
	r.wg.Wait()
}

func TestRunFetchesOnStartAndTrigger(t *testing.T) {
	var calls atomic.Int32
	r := New(func(ctx context.Context) (*model.Inventory, error) {
		calls.Add(1)
		return model.NewInventory(), nil
	}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	r.Trigger()
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestTriggerCoalesces(t *testing.T) {
	r := New(nil, time.Hour)
	r.Trigger()
	r.Trigger()
	r.Trigger()
	assert.Len(t, r.trigger, 1)
}
