package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/mr1hm/go-relief-coordinator/internal/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTracker(delay time.Duration) *Tracker {
	return New(repository.NewMemoryStore(repository.DefaultCatalog()), delay)
}

func TestTrack_SampleRequest(t *testing.T) {
	tr := newTracker(0)

	req, err := tr.Track(context.Background(), " req-123456 ")
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	if req.ID != repository.SampleRequestID {
		t.Errorf("expected %s, got %s", repository.SampleRequestID, req.ID)
	}
	if len(req.Timeline) == 0 {
		t.Error("expected a timeline")
	}
}

func TestTrack_Errors(t *testing.T) {
	tr := newTracker(0)

	tests := []struct {
		name   string
		id     string
		want   error
		notice string
	}{
		{"blank", "   ", ErrIDRequired, "Request ID required"},
		{"unknown", "REQ-000001", repository.ErrNotFound, "Request not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.Track(context.Background(), tt.id)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			n, ok := Notice(err)
			if !ok || n.Title != tt.notice {
				t.Errorf("expected notice %q, got %+v", tt.notice, n)
			}
		})
	}

	if _, ok := Notice(context.Canceled); ok {
		t.Error("expected no notice for cancellation")
	}
}

func TestTrack_WaitsForDelay(t *testing.T) {
	tr := newTracker(30 * time.Millisecond)

	start := time.Now()
	if _, err := tr.Track(context.Background(), repository.SampleRequestID); err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("returned after %v, before the lookup delay", elapsed)
	}
}

func TestTrack_Canceled(t *testing.T) {
	tr := newTracker(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := tr.Track(ctx, repository.SampleRequestID); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}
