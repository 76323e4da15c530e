package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/mr1hm/go-relief-coordinator/internal/events"
	"github.com/mr1hm/go-relief-coordinator/internal/metrics"
	"github.com/mr1hm/go-relief-coordinator/internal/task"
	"github.com/mr1hm/go-relief-coordinator/internal/worker"
)

var ErrClosed = errors.New("submission processor closed")

const (
	idMin   = 100000
	idRange = 900000
)

// IDs issues tracking identifiers of the form PREFIX-dddddd. An identifier
// is never issued twice by the same generator.
type IDs struct {
	mu     sync.Mutex
	issued map[string]struct{}
	intn   func(n int) int
}

func NewIDs() *IDs {
	return &IDs{issued: make(map[string]struct{}), intn: rand.IntN}
}

// Reserve marks id as taken, e.g. for seeded records.
func (g *IDs) Reserve(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued[id] = struct{}{}
}

func (g *IDs) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	for {
		id := fmt.Sprintf("%s-%d", prefix, idMin+g.intn(idRange))
		if _, taken := g.issued[id]; !taken {
			g.issued[id] = struct{}{}
			return id
		}
	}
}

type Receipt struct {
	ID          string
	Kind        Kind
	Fields      Fields
	SubmittedAt time.Time
}

// Recorder persists an accepted submission.
type Recorder interface {
	Record(ctx context.Context, r Receipt) error
}

type RecorderFunc func(ctx context.Context, r Receipt) error

func (f RecorderFunc) Record(ctx context.Context, r Receipt) error { return f(ctx, r) }

type result struct {
	id  string
	err error
}

type job struct {
	ctx   context.Context
	def   *Definition
	sub   Submission
	reply chan result
}

// Processor runs submissions on a worker pool. Each one waits out its
// form's delay, receives an identifier and is handed to the Recorder.
type Processor struct {
	workers    int
	bufferSize int
	delay      *time.Duration
	ids        *IDs
	recorder   Recorder
	pub        events.Publisher
	metrics    *metrics.Metrics
	now        func() time.Time

	pool   *worker.WorkerPool
	ctx    context.Context
	cancel context.CancelFunc
}

func NewProcessor(opts ...ProcessorOption) *Processor {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Processor{
		workers:    4,
		bufferSize: 100,
		ids:        NewIDs(),
		recorder:   RecorderFunc(func(context.Context, Receipt) error { return nil }),
		pub:        events.Discard{},
		now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.pool = worker.NewWorkerPool(p.workers, p.bufferSize, p.process)
	p.pool.Start(ctx)
	return p
}

// Submit queues s and waits for its identifier. If ctx ends first the
// submission is abandoned and no identifier is issued.
func (p *Processor) Submit(ctx context.Context, s Submission) (string, error) {
	def, err := Lookup(s.Kind)
	if err != nil {
		return "", err
	}
	j := &job{ctx: ctx, def: def, sub: s, reply: make(chan result, 1)}
	if err := p.pool.Submit(ctx, j); err != nil {
		if errors.Is(err, worker.ErrStopped) {
			return "", ErrClosed
		}
		return "", err
	}

	select {
	case r := <-j.reply:
		return r.id, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-p.ctx.Done():
		return "", ErrClosed
	}
}

func (p *Processor) process(ctx context.Context, jb worker.Job) error {
	j, ok := jb.(*job)
	if !ok {
		return fmt.Errorf("unexpected job type %T", jb)
	}
	if err := j.ctx.Err(); err != nil {
		return err
	}

	delay := j.def.Delay
	if p.delay != nil {
		delay = *p.delay
	}

	var id string
	t := task.New(task.Delay(delay, func(ctx context.Context) error {
		id = p.ids.Next(j.def.Prefix)
		return p.recorder.Record(ctx, Receipt{
			ID:          id,
			Kind:        j.sub.Kind,
			Fields:      j.sub.Fields,
			SubmittedAt: p.now(),
		})
	}))
	if err := t.Start(j.ctx); err != nil {
		return err
	}

	select {
	case <-t.Done():
	case <-ctx.Done():
		t.Cancel()
	}

	err := t.Err()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		p.observe(j.sub.Kind, "failed")
		j.reply <- result{err: err}
		return err
	}

	slog.Info("form submitted", "kind", j.sub.Kind, "id", id)
	p.observe(j.sub.Kind, "accepted")
	p.pub.Publish(events.Event{
		Type: events.FormSubmitted,
		Data: map[string]string{"kind": string(j.sub.Kind), "id": id},
	})
	j.reply <- result{id: id}
	return nil
}

func (p *Processor) observe(kind Kind, outcome string) {
	if p.metrics != nil {
		p.metrics.FormSubmissions.WithLabelValues(string(kind), outcome).Inc()
	}
}

// Close abandons queued and in-flight submissions and stops the workers.
func (p *Processor) Close() {
	p.cancel()
	p.pool.Stop()
}

type ProcessorOption func(*Processor)

func WithWorkers(n, bufferSize int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.workers = n
		}
		if bufferSize >= 0 {
			p.bufferSize = bufferSize
		}
	}
}

// WithDelay overrides every form's own processing delay.
func WithDelay(d time.Duration) ProcessorOption {
	return func(p *Processor) {
		if d >= 0 {
			p.delay = &d
		}
	}
}

func WithIDs(ids *IDs) ProcessorOption {
	return func(p *Processor) {
		if ids != nil {
			p.ids = ids
		}
	}
}

func WithRecorder(r Recorder) ProcessorOption {
	return func(p *Processor) {
		if r != nil {
			p.recorder = r
		}
	}
}

func WithPublisher(pub events.Publisher) ProcessorOption {
	return func(p *Processor) {
		if pub != nil {
			p.pub = pub
		}
	}
}

func WithMetrics(m *metrics.Metrics) ProcessorOption {
	return func(p *Processor) {
		p.metrics = m
	}
}
