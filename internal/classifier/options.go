package classifier

import (
	"time"

	"github.com/mr1hm/go-relief-coordinator/internal/events"
	"github.com/mr1hm/go-relief-coordinator/internal/metrics"
)

// Request analysis defaults: +5 every 100ms.
const (
	defaultStep   = 5
	defaultPeriod = 100 * time.Millisecond
)

type Option func(*Classifier)

// WithStep sets the progress added per tick. Non-positive values are ignored.
func WithStep(step int) Option {
	return func(c *Classifier) {
		if step > 0 {
			c.step = step
		}
	}
}

// WithPeriod sets the tick period. Non-positive values are ignored.
func WithPeriod(d time.Duration) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.period = d
		}
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(c *Classifier) {
		if p != nil {
			c.pub = p
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Classifier) {
		c.metrics = m
	}
}
