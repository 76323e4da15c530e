// Package optimizer applies the simulated resource optimization to a
// disaster record after a fixed delay.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mr1hm/go-relief-coordinator/internal/events"
	"github.com/mr1hm/go-relief-coordinator/internal/metrics"
	"github.com/mr1hm/go-relief-coordinator/internal/models"
	"github.com/mr1hm/go-relief-coordinator/internal/repository"
	"github.com/mr1hm/go-relief-coordinator/internal/task"
)

var ErrUnavailable = errors.New("optimizer unavailable")

const (
	TeamsDelta      = 8
	SuppliesDelta   = 25
	AllocationDelta = 15
	AllocationCap   = 95
)

type Optimizer struct {
	repo    repository.DisasterRepository
	delay   time.Duration
	pub     events.Publisher
	metrics *metrics.Metrics

	group singleflight.Group

	mu      sync.Mutex
	pending map[int]*task.Task
	closed  bool
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(repo repository.DisasterRepository, opts ...Option) *Optimizer {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Optimizer{
		repo:    repo,
		delay:   defaultDelay,
		pub:     events.Discard{},
		pending: make(map[int]*task.Task),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Apply returns d with the optimization deltas applied. Allocation never
// exceeds AllocationCap.
func Apply(d models.DisasterRecord) (models.DisasterRecord, error) {
	amount, err := d.SuppliesAmount()
	if err != nil {
		return d, err
	}
	d.Teams += TeamsDelta
	d.Supplies = models.FormatSupplies(amount + SuppliesDelta)
	d.ResourceAllocation = min(AllocationCap, d.ResourceAllocation+AllocationDelta)
	return d, nil
}

// Optimize waits out the optimization delay for disaster id and returns the
// updated record. Concurrent calls for the same id share one run. If ctx
// ends first the caller stops waiting; the shared run still completes.
func (o *Optimizer) Optimize(ctx context.Context, id int) (*models.DisasterRecord, error) {
	start := time.Now()

	d, err := o.repo.GetDisaster(ctx, id)
	if err != nil {
		o.observe("not_found")
		return nil, err
	}
	if _, err := d.SuppliesAmount(); err != nil {
		o.observe("invalid")
		return nil, fmt.Errorf("disaster %d: %w", id, err)
	}

	ch := o.group.DoChan(strconv.Itoa(id), func() (any, error) {
		return o.run(id)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if errors.Is(res.Err, ErrUnavailable) || errors.Is(res.Err, context.Canceled) {
				o.observe("unavailable")
				return nil, ErrUnavailable
			}
			o.observe("error")
			return nil, res.Err
		}
		if !res.Shared {
			o.observeDuration(time.Since(start))
		}
		rec := res.Val.(models.DisasterRecord)
		return &rec, nil
	}
}

func (o *Optimizer) run(id int) (models.DisasterRecord, error) {
	var updated models.DisasterRecord

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return updated, ErrUnavailable
	}
	t := task.New(task.Delay(o.delay, func(ctx context.Context) error {
		d, err := o.repo.GetDisaster(ctx, id)
		if err != nil {
			return err
		}
		next, err := Apply(*d)
		if err != nil {
			return err
		}
		if err := o.repo.UpdateDisaster(ctx, &next); err != nil {
			return err
		}
		updated = next
		return nil
	}))
	o.pending[id] = t
	err := t.Start(o.ctx)
	o.mu.Unlock()

	if err != nil {
		return updated, err
	}

	o.pub.Publish(events.Event{Type: events.DisasterOptimizing, Data: id})
	slog.Info("optimizing disaster", "id", id, "delay", o.delay)

	<-t.Done()

	o.mu.Lock()
	delete(o.pending, id)
	o.mu.Unlock()

	if err := t.Err(); err != nil {
		slog.Warn("optimization failed", "id", id, "error", err)
		return updated, err
	}

	o.observe("applied")
	o.pub.Publish(events.Event{Type: events.DisasterOptimized, Data: updated})
	slog.Info("disaster optimized", "id", id, "teams", updated.Teams, "supplies", updated.Supplies, "allocation", updated.ResourceAllocation)
	return updated, nil
}

// Pending reports whether an optimization for id is in flight.
func (o *Optimizer) Pending(id int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.pending[id]
	return ok
}

// Close cancels in-flight optimizations, leaving their records untouched,
// and rejects new ones with ErrUnavailable.
func (o *Optimizer) Close() {
	o.mu.Lock()
	o.closed = true
	inflight := make([]*task.Task, 0, len(o.pending))
	for _, t := range o.pending {
		inflight = append(inflight, t)
	}
	o.mu.Unlock()

	o.cancel()
	for _, t := range inflight {
		<-t.Done()
	}
}

func (o *Optimizer) observe(result string) {
	if o.metrics != nil {
		o.metrics.Optimizations.WithLabelValues(result).Inc()
	}
}

func (o *Optimizer) observeDuration(d time.Duration) {
	if o.metrics != nil {
		o.metrics.OptimizeDuration.Observe(d.Seconds())
	}
}
