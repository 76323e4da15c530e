// Package classifier runs the simulated message analysis: a progress
// counter that climbs to 100 on a fixed tick and then goes idle. Finishing
// a run changes no alert data.
package classifier

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mr1hm/go-relief-coordinator/internal/events"
	"github.com/mr1hm/go-relief-coordinator/internal/metrics"
	"github.com/mr1hm/go-relief-coordinator/internal/task"
)

var (
	ErrAlreadyRunning = errors.New("classifier run already in progress")
	ErrClosed         = errors.New("classifier closed")
)

const maxProgress = 100

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

type Snapshot struct {
	Name     string `json:"name"`
	State    State  `json:"state"`
	Progress int    `json:"progress"`
	Runs     int    `json:"runs"`
}

type Classifier struct {
	name    string
	step    int
	period  time.Duration
	pub     events.Publisher
	metrics *metrics.Metrics

	mu       sync.Mutex
	state    State
	progress int
	runs     int
	current  *task.Task
	closed   bool
}

func New(name string, opts ...Option) *Classifier {
	c := &Classifier{
		name:   name,
		step:   defaultStep,
		period: defaultPeriod,
		pub:    events.Discard{},
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a run from zero. Only one run may be active at a time.
func (c *Classifier) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.state == StateRunning {
		c.observe("rejected")
		return ErrAlreadyRunning
	}

	c.state = StateRunning
	c.progress = 0
	c.current = task.New(c.run, task.OnComplete(func(error) {
		c.observe("completed")
	}))

	slog.Debug("classifier run started", "classifier", c.name, "step", c.step, "period", c.period)
	return c.current.Start(ctx)
}

func (c *Classifier) run(ctx context.Context) error {
	err := task.Tick(c.period, c.tick)(ctx)
	if err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		c.observe("canceled")
		slog.Debug("classifier run stopped", "classifier", c.name, "error", err)
	}
	return err
}

func (c *Classifier) tick(_ context.Context) (bool, error) {
	c.mu.Lock()
	c.progress += c.step
	if c.progress >= maxProgress {
		c.progress = maxProgress
		c.state = StateIdle
		c.runs++
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if snap.State == StateIdle {
		c.pub.Publish(events.Event{Type: events.ClassifierIdle, Data: snap})
		return true, nil
	}
	c.pub.Publish(events.Event{Type: events.ClassifierProgress, Data: snap})
	return false, nil
}

func (c *Classifier) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Classifier) snapshotLocked() Snapshot {
	return Snapshot{
		Name:     c.name,
		State:    c.state,
		Progress: c.progress,
		Runs:     c.runs,
	}
}

// Wait blocks until the current run, if any, has finished.
func (c *Classifier) Wait(ctx context.Context) error {
	c.mu.Lock()
	t := c.current
	c.mu.Unlock()
	if t == nil {
		return nil
	}
	return t.Wait(ctx)
}

// Close stops any active run. No progress updates happen after Close returns.
func (c *Classifier) Close() {
	c.mu.Lock()
	c.closed = true
	t := c.current
	c.mu.Unlock()

	if t != nil {
		t.Cancel()
	}
}

func (c *Classifier) observe(outcome string) {
	if c.metrics != nil {
		c.metrics.ClassifierRuns.WithLabelValues(outcome).Inc()
	}
}
