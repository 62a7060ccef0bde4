// Package poll implements the timed-refresh contract shared by views
// that track a remote resource's status, such as delivery tracking. A
// Watcher refetches on a fixed interval until the resource reaches a
// terminal status, suspends while a mutating action is in flight so a
// stale background refetch cannot overwrite a just-confirmed state, and
// cancels its timer unconditionally on teardown.
package poll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// State is the watcher lifecycle state.
type State int

const (
	Idle State = iota
	Polling
	Suspended
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Polling:
		return "polling"
	case Suspended:
		return "suspended"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// DefaultInterval is the refresh period between fetches.
const DefaultInterval = 2 * time.Second

// FetchFunc loads the watched resource and reports its current status.
type FetchFunc func(ctx context.Context) (status string, err error)

// Config configures a Watcher.
type Config struct {
	// Fetch is required.
	Fetch FetchFunc
	// Terminal is the set of statuses after which polling stops.
	Terminal []string
	// Interval defaults to DefaultInterval.
	Interval time.Duration
	// OnChange, if set, is called with each newly fetched status.
	OnChange func(status string)
	Logger   zerolog.Logger
}

// Watcher keeps one resource's status fresh while it is non-terminal.
type Watcher struct {
	fetch    FetchFunc
	terminal map[string]bool
	interval time.Duration
	onChange func(string)
	log      zerolog.Logger

	mu    sync.Mutex
	state State
	last  string
	timer *time.Timer
}

// NewWatcher creates an idle Watcher.
func NewWatcher(cfg Config) (*Watcher, error) {
	if cfg.Fetch == nil {
		return nil, fmt.Errorf("poll: Fetch is required")
	}

	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultInterval
	}

	terminal := make(map[string]bool, len(cfg.Terminal))
	for _, s := range cfg.Terminal {
		terminal[s] = true
	}

	return &Watcher{
		fetch:    cfg.Fetch,
		terminal: terminal,
		interval: interval,
		onChange: cfg.OnChange,
		log:      cfg.Logger,
		state:    Idle,
	}, nil
}

// Start performs the first fetch. On success the watcher transitions to
// Polling, or directly to Stopped if the status is already terminal. On
// error the watcher stays Idle and the error is returned.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.state != Idle {
		w.mu.Unlock()
		return fmt.Errorf("poll: Start called in state %s", w.state)
	}
	w.mu.Unlock()

	return w.fetchAndDerive(ctx, Idle)
}

// Suspend cancels the pending timer while a mutating action is in
// flight. A fetch already in flight has its result discarded.
func (w *Watcher) Suspend() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != Polling {
		return
	}
	w.state = Suspended
	w.cancelTimerLocked()
}

// Resume re-derives the watcher state after a mutating action completes,
// exactly as Start does from idle: fetch once, then poll if the status
// is non-terminal.
func (w *Watcher) Resume(ctx context.Context) error {
	w.mu.Lock()
	if w.state != Suspended {
		w.mu.Unlock()
		return fmt.Errorf("poll: Resume called in state %s", w.state)
	}
	w.mu.Unlock()

	return w.fetchAndDerive(ctx, Suspended)
}

// Stop cancels any pending timer and moves to Stopped, from any state.
// Called unconditionally on view teardown.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = Stopped
	w.cancelTimerLocked()
}

// State returns the current lifecycle state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// LastStatus returns the most recently fetched status.
func (w *Watcher) LastStatus() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// fetchAndDerive runs one fetch and applies the idle→polling derivation:
// terminal stops, non-terminal schedules the next tick. The fetch result
// is discarded if the state changed away from `from` while it was in
// flight (Stop or Suspend won the race).
func (w *Watcher) fetchAndDerive(ctx context.Context, from State) error {
	status, err := w.fetch(ctx)

	w.mu.Lock()
	if w.state != from {
		w.mu.Unlock()
		return nil
	}
	if err != nil {
		w.mu.Unlock()
		return err
	}

	w.last = status
	onChange := w.onChange
	if w.terminal[status] {
		w.state = Stopped
	} else {
		w.state = Polling
		w.scheduleLocked(ctx)
	}
	w.mu.Unlock()

	if onChange != nil {
		onChange(status)
	}
	return nil
}

func (w *Watcher) tick(ctx context.Context) {
	w.mu.Lock()
	if w.state != Polling {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	status, err := w.fetch(ctx)

	w.mu.Lock()
	if w.state != Polling {
		// Suspended or stopped while the fetch was in flight; the
		// response is stale by definition.
		w.mu.Unlock()
		return
	}
	if err != nil {
		// Keep polling; the next tick may succeed.
		w.log.Warn().Err(err).Msg("poll: refetch failed")
		w.scheduleLocked(ctx)
		w.mu.Unlock()
		return
	}

	w.last = status
	onChange := w.onChange
	if w.terminal[status] {
		w.state = Stopped
		w.timer = nil
	} else {
		w.scheduleLocked(ctx)
	}
	w.mu.Unlock()

	if onChange != nil {
		onChange(status)
	}
}

func (w *Watcher) scheduleLocked(ctx context.Context) {
	w.timer = time.AfterFunc(w.interval, func() { w.tick(ctx) })
}

func (w *Watcher) cancelTimerLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
