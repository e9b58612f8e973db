package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/CDTO-DENKART/app-visualizer/internal/metrics"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// State is the launch state of one affordance.
type State int

const (
	Idle State = iota
	Pending
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failed:
		return "error"
	default:
		return "idle"
	}
}

// Enabled reports whether a launch can be started from this state.
func (s State) Enabled() bool {
	return s == Idle || s == Failed
}

// Default hold durations before a finished launch reverts to Idle.
const (
	DefaultSuccessHold = 3 * time.Second
	DefaultErrorHold   = 2 * time.Second
)

// ErrNotEnabled is returned when launching an affordance that is busy.
var ErrNotEnabled = errors.New("diagnostic launch already in progress")

// ErrUnknownKey is returned for keys the launcher never issued.
var ErrUnknownKey = errors.New("unknown diagnostic key")

// Runner starts a command on the test-runner backend and returns its PID.
type Runner interface {
	RunTest(ctx context.Context, command, label string) (int, error)
}

// Scheduler runs f after d. Tests substitute a manual scheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// Notification is raised when a launch finishes. Errors are meant to be
// shown as blocking notifications.
type Notification struct {
	Key   string
	Label string
	Err   error
	PID   int
}

// Affordance is the externally visible state of one launch control.
type Affordance struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Command string    `json:"command"`
	State   string    `json:"state"`
	Enabled bool      `json:"enabled"`
	PID     int       `json:"pid,omitempty"`
	Error   string    `json:"error,omitempty"`
	Updated time.Time `json:"updated"`
}

type entry struct {
	cmd     TestCommand
	state   State
	gen     uint64
	pid     int
	err     error
	updated time.Time
}

// Launcher drives the Idle → Pending → {Success, Failed} → Idle state
// machine of each diagnostic affordance.
type Launcher struct {
	mu          sync.Mutex
	runner      Runner
	sched       Scheduler
	notify      func(Notification)
	successHold time.Duration
	errorHold   time.Duration
	entries     map[string]*entry
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithScheduler replaces the timer used for state reversion.
func WithScheduler(s Scheduler) Option {
	return func(l *Launcher) { l.sched = s }
}

// WithHolds sets how long Success and Failed are held before reverting.
func WithHolds(success, failure time.Duration) Option {
	return func(l *Launcher) {
		if success > 0 {
			l.successHold = success
		}
		if failure > 0 {
			l.errorHold = failure
		}
	}
}

// WithNotifier sets the callback for finished launches.
func WithNotifier(fn func(Notification)) Option {
	return func(l *Launcher) { l.notify = fn }
}

// NewLauncher returns a launcher that starts commands through runner.
func NewLauncher(runner Runner, opts ...Option) *Launcher {
	l := &Launcher{
		runner:      runner,
		sched:       timerScheduler{},
		successHold: DefaultSuccessHold,
		errorHold:   DefaultErrorHold,
		entries:     make(map[string]*entry),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Register creates an idle affordance for cmd and returns its key. Notes
// cannot be launched and are rejected.
func (l *Launcher) Register(cmd TestCommand) (string, error) {
	if cmd.IsNote() {
		return "", fmt.Errorf("%q is a note, not a command", cmd.Label)
	}
	key := uuid.New().String()
	l.mu.Lock()
	l.entries[key] = &entry{cmd: cmd, updated: time.Now()}
	l.mu.Unlock()
	return key, nil
}

// Forget drops affordances, e.g. when the detail view they belong to closes.
func (l *Launcher) Forget(keys ...string) {
	l.mu.Lock()
	for _, k := range keys {
		delete(l.entries, k)
	}
	l.mu.Unlock()
}

// Get returns the current state of an affordance.
func (l *Launcher) Get(key string) (Affordance, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		return Affordance{}, false
	}
	return snapshot(key, e), true
}

func snapshot(key string, e *entry) Affordance {
	a := Affordance{
		Key:     key,
		Label:   e.cmd.Label,
		Command: e.cmd.Command,
		State:   e.state.String(),
		Enabled: e.state.Enabled(),
		PID:     e.pid,
		Updated: e.updated,
	}
	if e.err != nil {
		a.Error = e.err.Error()
	}
	return a
}

// Launch runs the affordance's command and blocks until the runner answers.
// The affordance is disabled while pending, then held in Success or Failed
// before reverting to Idle.
func (l *Launcher) Launch(ctx context.Context, key string) error {
	gen, cmd, err := l.begin(key)
	if err != nil {
		return err
	}
	return l.finish(ctx, key, gen, cmd)
}

// Start moves the affordance to Pending and runs the command in the
// background. The returned snapshot is already disabled.
func (l *Launcher) Start(ctx context.Context, key string) (Affordance, error) {
	gen, cmd, err := l.begin(key)
	if err != nil {
		return Affordance{}, err
	}
	a, _ := l.Get(key)
	go func() { _ = l.finish(ctx, key, gen, cmd) }()
	return a, nil
}

func (l *Launcher) begin(key string) (uint64, TestCommand, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		return 0, TestCommand{}, ErrUnknownKey
	}
	if !e.state.Enabled() {
		metrics.LaunchTotal.WithLabelValues("rejected").Inc()
		return 0, TestCommand{}, ErrNotEnabled
	}
	e.gen++
	e.state = Pending
	e.err = nil
	e.pid = 0
	e.updated = time.Now()
	return e.gen, e.cmd, nil
}

func (l *Launcher) finish(ctx context.Context, key string, gen uint64, cmd TestCommand) error {
	log.Debug("Launching diagnostic", "key", key, "label", cmd.Label)
	pid, err := l.runner.RunTest(ctx, cmd.Command, cmd.Label)

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok || e.gen != gen {
		l.mu.Unlock()
		return err
	}
	e.updated = time.Now()
	hold := l.successHold
	if err != nil {
		e.state = Failed
		e.err = err
		hold = l.errorHold
	} else {
		e.state = Success
		e.pid = pid
	}
	l.mu.Unlock()

	l.sched.AfterFunc(hold, func() { l.revert(key, gen) })

	n := Notification{Key: key, Label: cmd.Label, Err: err, PID: pid}
	if err != nil {
		metrics.LaunchTotal.WithLabelValues("error").Inc()
		log.Error("Diagnostic launch failed", "label", cmd.Label, "err", err)
	} else {
		metrics.LaunchTotal.WithLabelValues("success").Inc()
		log.Info("Diagnostic launched", "label", cmd.Label, "pid", pid)
	}
	if l.notify != nil {
		l.notify(n)
	}
	return err
}

// revert returns an affordance to Idle unless it was relaunched since.
func (l *Launcher) revert(key string, gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok || e.gen != gen || e.state == Pending {
		return
	}
	e.state = Idle
	e.err = nil
	e.updated = time.Now()
}
