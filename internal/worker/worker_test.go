package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWorkerPool_StartStop(t *testing.T) {
	var processed atomic.Int64
	processor := func(ctx context.Context, job Job) error {
		processed.Add(1)
		return nil
	}

	pool := NewWorkerPool(2, 10, processor)
	pool.Start(context.Background())

	for i := 0; i < 5; i++ {
		if err := pool.Submit(context.Background(), i); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	pool.Stop()

	if processed.Load() != 5 {
		t.Errorf("expected 5 jobs processed, got %d", processed.Load())
	}
}

func TestWorkerPool_ConcurrentSubmit(t *testing.T) {
	var processed atomic.Int64
	processor := func(ctx context.Context, job Job) error {
		processed.Add(1)
		return nil
	}

	pool := NewWorkerPool(4, 100, processor)
	pool.Start(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			pool.Submit(context.Background(), n)
		}(i)
	}
	wg.Wait()
	pool.Stop()

	if processed.Load() != 100 {
		t.Errorf("expected 100 jobs processed, got %d", processed.Load())
	}
}

func TestWorkerPool_SubmitAfterStop(t *testing.T) {
	pool := NewWorkerPool(1, 1, func(ctx context.Context, job Job) error { return nil })
	pool.Start(context.Background())
	pool.Stop()
	pool.Stop()

	if err := pool.Submit(context.Background(), 1); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}

func TestWorkerPool_SubmitHonorsContext(t *testing.T) {
	block := make(chan struct{})
	pool := NewWorkerPool(1, 0, func(ctx context.Context, job Job) error {
		<-block
		return nil
	})
	pool.Start(context.Background())

	// first job occupies the only worker
	if err := pool.Submit(context.Background(), 1); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := pool.Submit(ctx, 2); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}

	close(block)
	pool.Stop()
}

func TestWorkerPool_ContextCancellation(t *testing.T) {
	var started atomic.Int64
	processor := func(ctx context.Context, job Job) error {
		started.Add(1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
			return nil
		}
	}

	pool := NewWorkerPool(2, 10, processor)
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	for i := 0; i < 5; i++ {
		pool.Submit(context.Background(), i)
	}

	time.Sleep(20 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pool.Stop() timed out")
	}

	t.Logf("started: %d", started.Load())
}

func TestWorkerPool_StopReleasesBlockedSubmit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(1, 0, func(ctx context.Context, job Job) error {
		<-ctx.Done()
		return ctx.Err()
	})
	pool.Start(ctx)

	// occupy the only worker so the next Submit blocks
	if err := pool.Submit(context.Background(), 1); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	submitted := make(chan error, 1)
	go func() {
		submitted <- pool.Submit(context.Background(), 2)
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked behind a waiting Submit")
	}
	if err := <-submitted; !errors.Is(err, ErrStopped) && err != nil {
		t.Errorf("expected ErrStopped or nil, got %v", err)
	}
}
