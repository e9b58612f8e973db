package diagnostics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualScheduler struct {
	mu      sync.Mutex
	pending []func()
	holds   []time.Duration
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, f)
	s.holds = append(s.holds, d)
}

// fire runs every scheduled callback.
func (s *manualScheduler) fire() {
	s.mu.Lock()
	fns := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, f := range fns {
		f()
	}
}

type fakeRunner struct {
	pid     int
	err     error
	calls   int
	block   chan struct{}
	started chan struct{}
}

func (r *fakeRunner) RunTest(ctx context.Context, command, label string) (int, error) {
	r.calls++
	if r.started != nil {
		close(r.started)
	}
	if r.block != nil {
		<-r.block
	}
	return r.pid, r.err
}

func newTestLauncher(t *testing.T, runner Runner) (*Launcher, *manualScheduler, string) {
	t.Helper()
	sched := &manualScheduler{}
	l := NewLauncher(runner, WithScheduler(sched))
	key, err := l.Register(TestCommand{Label: "E2E testing", Command: "python3 bbb_e2e_test.py"})
	require.NoError(t, err)
	return l, sched, key
}

func TestLaunchSuccessThenRevert(t *testing.T) {
	runner := &fakeRunner{pid: 4242}
	l, sched, key := newTestLauncher(t, runner)

	a, ok := l.Get(key)
	require.True(t, ok)
	assert.Equal(t, "idle", a.State)
	assert.True(t, a.Enabled)

	require.NoError(t, l.Launch(context.Background(), key))

	a, _ = l.Get(key)
	assert.Equal(t, "success", a.State)
	assert.Equal(t, 4242, a.PID)
	assert.False(t, a.Enabled)
	assert.Equal(t, []time.Duration{DefaultSuccessHold}, sched.holds)

	sched.fire()
	a, _ = l.Get(key)
	assert.Equal(t, "idle", a.State)
	assert.True(t, a.Enabled)
}

func TestLaunchBusyBackendFails(t *testing.T) {
	runner := &fakeRunner{err: errors.New("test runner busy")}
	var got []Notification
	sched := &manualScheduler{}
	l := NewLauncher(runner, WithScheduler(sched), WithNotifier(func(n Notification) {
		got = append(got, n)
	}))
	key, err := l.Register(TestCommand{Label: "Monitoring", Command: "python3 bbb_monitoring_test.py"})
	require.NoError(t, err)

	err = l.Launch(context.Background(), key)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy")

	a, _ := l.Get(key)
	assert.Equal(t, "error", a.State)
	assert.True(t, a.Enabled)
	assert.Contains(t, a.Error, "busy")
	assert.Equal(t, []time.Duration{DefaultErrorHold}, sched.holds)

	require.Len(t, got, 1)
	assert.Equal(t, "Monitoring", got[0].Label)
	assert.Error(t, got[0].Err)

	sched.fire()
	a, _ = l.Get(key)
	assert.Equal(t, "idle", a.State)
	assert.Empty(t, a.Error)
}

func TestLaunchDisabledWhilePending(t *testing.T) {
	runner := &fakeRunner{pid: 7, block: make(chan struct{}), started: make(chan struct{})}
	l, _, key := newTestLauncher(t, runner)

	done := make(chan error, 1)
	go func() { done <- l.Launch(context.Background(), key) }()
	<-runner.started

	a, _ := l.Get(key)
	assert.Equal(t, "pending", a.State)
	assert.False(t, a.Enabled)
	assert.ErrorIs(t, l.Launch(context.Background(), key), ErrNotEnabled)

	close(runner.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, runner.calls)
}

func TestStaleRevertIsIgnored(t *testing.T) {
	runner := &fakeRunner{err: errors.New("boom")}
	l, sched, key := newTestLauncher(t, runner)

	require.Error(t, l.Launch(context.Background(), key))
	stale := sched.pending
	sched.pending = nil

	// Failed is enabled, so a retry is allowed before the hold expires.
	runner.err = nil
	runner.pid = 99
	require.NoError(t, l.Launch(context.Background(), key))

	for _, f := range stale {
		f()
	}
	a, _ := l.Get(key)
	assert.Equal(t, "success", a.State)
	assert.Equal(t, 99, a.PID)

	sched.fire()
	a, _ = l.Get(key)
	assert.Equal(t, "idle", a.State)
}

func TestLaunchUnknownAndNotes(t *testing.T) {
	l := NewLauncher(&fakeRunner{}, WithScheduler(&manualScheduler{}))

	assert.ErrorIs(t, l.Launch(context.Background(), "nope"), ErrUnknownKey)

	_, err := l.Register(TestCommand{Label: "Note", Note: "Specify URL"})
	assert.Error(t, err)
}

func TestForgetDropsAffordance(t *testing.T) {
	l, _, key := newTestLauncher(t, &fakeRunner{})
	l.Forget(key)

	_, ok := l.Get(key)
	assert.False(t, ok)
}

func TestWithHoldsOverridesDefaults(t *testing.T) {
	sched := &manualScheduler{}
	l := NewLauncher(&fakeRunner{pid: 1}, WithScheduler(sched), WithHolds(time.Second, 0))
	key, err := l.Register(TestCommand{Label: "x", Command: "true"})
	require.NoError(t, err)

	require.NoError(t, l.Launch(context.Background(), key))
	assert.Equal(t, []time.Duration{time.Second}, sched.holds)
	assert.Equal(t, DefaultErrorHold, l.errorHold)
}

func TestStartIsPendingImmediately(t *testing.T) {
	runner := &fakeRunner{pid: 11, block: make(chan struct{}), started: make(chan struct{})}
	l, _, key := newTestLauncher(t, runner)

	a, err := l.Start(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "pending", a.State)
	assert.False(t, a.Enabled)

	_, err = l.Start(context.Background(), key)
	assert.ErrorIs(t, err, ErrNotEnabled)

	<-runner.started
	close(runner.block)
	require.Eventually(t, func() bool {
		a, _ := l.Get(key)
		return a.State == "success"
	}, time.Second, 5*time.Millisecond)

	_, err = l.Start(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnknownKey)
}
