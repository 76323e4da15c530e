package optimizer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/goleak"

	"github.com/mr1hm/go-relief-coordinator/internal/events"
	"github.com/mr1hm/go-relief-coordinator/internal/metrics"
	"github.com/mr1hm/go-relief-coordinator/internal/models"
	"github.com/mr1hm/go-relief-coordinator/internal/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestOptimizer(delay time.Duration, opts ...Option) (*Optimizer, *repository.MemoryStore) {
	store := repository.NewMemoryStore(repository.DefaultCatalog())
	opts = append([]Option{WithDelay(delay)}, opts...)
	return New(store, opts...), store
}

func TestOptimize_SeededRecord(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	o, store := newTestOptimizer(5*time.Millisecond, WithMetrics(m))
	defer o.Close()

	got, err := o.Optimize(context.Background(), 1)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}
	if got.Teams != 32 || got.Supplies != "145 tons" || got.ResourceAllocation != 85 {
		t.Errorf("unexpected result: teams=%d supplies=%q allocation=%d", got.Teams, got.Supplies, got.ResourceAllocation)
	}

	stored, _ := store.GetDisaster(context.Background(), 1)
	if *stored != *got {
		t.Errorf("store not updated: %+v", stored)
	}
	if v := testutil.ToFloat64(m.Optimizations.WithLabelValues("applied")); v != 1 {
		t.Errorf("expected 1 applied optimization, got %v", v)
	}
}

func TestOptimize_TwiceNeverExceedsCap(t *testing.T) {
	for _, start := range []int{0, 70, 85, 94, 95} {
		store := repository.NewMemoryStore(repository.Catalog{
			Disasters: []models.DisasterRecord{{ID: 9, Supplies: "10 tons", ResourceAllocation: start}},
		})
		o := New(store, WithDelay(0))

		for i := 0; i < 2; i++ {
			d, err := o.Optimize(context.Background(), 9)
			if err != nil {
				t.Fatalf("start %d: Optimize failed: %v", start, err)
			}
			if d.ResourceAllocation > AllocationCap {
				t.Errorf("start %d: allocation %d exceeds cap", start, d.ResourceAllocation)
			}
		}
		o.Close()
	}
}

func TestOptimize_NotFound(t *testing.T) {
	o, _ := newTestOptimizer(0)
	defer o.Close()

	_, err := o.Optimize(context.Background(), 404)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOptimize_InvalidSupplies(t *testing.T) {
	store := repository.NewMemoryStore(repository.Catalog{
		Disasters: []models.DisasterRecord{{ID: 1, Supplies: "unknown", ResourceAllocation: 10}},
	})
	o := New(store, WithDelay(0))
	defer o.Close()

	_, err := o.Optimize(context.Background(), 1)
	if !errors.Is(err, models.ErrInvalidSupplies) {
		t.Errorf("expected ErrInvalidSupplies, got %v", err)
	}
}

func TestOptimize_ConcurrentCallsShareOneRun(t *testing.T) {
	o, store := newTestOptimizer(20 * time.Millisecond)
	defer o.Close()

	var wg sync.WaitGroup
	results := make([]*models.DisasterRecord, 5)
	for i := range results {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			d, err := o.Optimize(context.Background(), 1)
			if err != nil {
				t.Errorf("Optimize failed: %v", err)
				return
			}
			results[n] = d
		}(i)
	}

	// give every caller time to join the in-flight run
	time.Sleep(5 * time.Millisecond)
	if !o.Pending(1) {
		t.Error("expected optimization to be pending")
	}
	wg.Wait()

	if o.Pending(1) {
		t.Error("expected nothing pending after completion")
	}
	stored, _ := store.GetDisaster(context.Background(), 1)
	if stored.Teams != 32 {
		t.Errorf("expected exactly one application (teams 32), got %d", stored.Teams)
	}
	for _, r := range results {
		if r != nil && r.Teams != 32 {
			t.Errorf("caller saw teams %d", r.Teams)
		}
	}
}

func TestOptimize_CallerCancelStopsWaiting(t *testing.T) {
	o, store := newTestOptimizer(30 * time.Millisecond)
	defer o.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := o.Optimize(ctx, 1)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}

	// the shared run still lands
	deadline := time.Now().Add(time.Second)
	for o.Pending(1) && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	stored, _ := store.GetDisaster(context.Background(), 1)
	if stored.Teams != 32 {
		t.Errorf("expected run to complete, teams %d", stored.Teams)
	}
}

func TestOptimize_CloseCancelsInFlight(t *testing.T) {
	o, store := newTestOptimizer(time.Hour)

	errc := make(chan error, 1)
	go func() {
		_, err := o.Optimize(context.Background(), 2)
		errc <- err
	}()

	deadline := time.Now().Add(time.Second)
	for !o.Pending(2) && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	o.Close()

	if err := <-errc; !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	stored, _ := store.GetDisaster(context.Background(), 2)
	if stored.Teams != 35 {
		t.Errorf("expected record untouched, teams %d", stored.Teams)
	}

	if _, err := o.Optimize(context.Background(), 2); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable after close, got %v", err)
	}
}

func TestOptimize_PublishesEvents(t *testing.T) {
	b := events.NewBroadcaster()
	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	o, _ := newTestOptimizer(time.Millisecond, WithPublisher(b))
	defer o.Close()

	if _, err := o.Optimize(context.Background(), 3); err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	first, second := <-ch, <-ch
	if first.Type != events.DisasterOptimizing || second.Type != events.DisasterOptimized {
		t.Errorf("unexpected events %s, %s", first.Type, second.Type)
	}
}

func TestApply(t *testing.T) {
	d, err := Apply(models.DisasterRecord{Teams: 56, Supplies: "270 tons", ResourceAllocation: 90})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if d.Teams != 64 || d.Supplies != "295 tons" || d.ResourceAllocation != 95 {
		t.Errorf("unexpected result %+v", d)
	}
}

func TestSummary(t *testing.T) {
	o, _ := newTestOptimizer(0)
	defer o.Close()

	s, err := o.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	want := Summary{Disasters: 5, Critical: 1, Affected: 87700, Teams: 180, SuppliesTons: 742, AverageAllocation: 67}
	if s != want {
		t.Errorf("Summary() = %+v, want %+v", s, want)
	}
}
