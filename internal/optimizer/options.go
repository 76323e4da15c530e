package optimizer

import (
	"time"

	"github.com/mr1hm/go-relief-coordinator/internal/events"
	"github.com/mr1hm/go-relief-coordinator/internal/metrics"
)

const defaultDelay = 2 * time.Second

type Option func(*Optimizer)

// WithDelay sets how long an optimization takes. Negative values are ignored.
func WithDelay(d time.Duration) Option {
	return func(o *Optimizer) {
		if d >= 0 {
			o.delay = d
		}
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(o *Optimizer) {
		if p != nil {
			o.pub = p
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Optimizer) {
		o.metrics = m
	}
}
