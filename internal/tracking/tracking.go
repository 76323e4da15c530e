// Package tracking looks up submitted relief requests by identifier.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mr1hm/go-relief-coordinator/internal/models"
	"github.com/mr1hm/go-relief-coordinator/internal/repository"
	"github.com/mr1hm/go-relief-coordinator/internal/task"
)

const DefaultDelay = 1500 * time.Millisecond

var (
	NoticeIDRequired = models.Destructive("Request ID required", "Please enter a request ID to track.")
	NoticeNotFound   = models.Destructive("Request not found", "We couldn't find a request with that ID. Please check and try again.")
)

// ErrIDRequired is returned for a blank identifier. It carries
// NoticeIDRequired for the client.
var ErrIDRequired = errors.New("request id required")

type Tracker struct {
	repo  repository.ReliefRepository
	delay time.Duration
}

func New(repo repository.ReliefRepository, delay time.Duration) *Tracker {
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Tracker{repo: repo, delay: delay}
}

// Track waits out the lookup delay and returns the request. Blank ids fail
// immediately; unknown ids fail with repository.ErrNotFound.
func (t *Tracker) Track(ctx context.Context, id string) (*models.ReliefRequest, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return nil, ErrIDRequired
	}

	var req *models.ReliefRequest
	lookup := task.New(task.Delay(t.delay, func(ctx context.Context) error {
		r, err := t.repo.GetRequest(ctx, id)
		if err != nil {
			return err
		}
		req = r
		return nil
	}))
	if err := lookup.Start(ctx); err != nil {
		return nil, err
	}
	<-lookup.Done()
	if err := lookup.Err(); err != nil {
		return nil, fmt.Errorf("track %s: %w", id, err)
	}
	return req, nil
}

// Notice returns the client notice for a Track error, if it has one.
func Notice(err error) (models.Notice, bool) {
	switch {
	case errors.Is(err, ErrIDRequired):
		return NoticeIDRequired, true
	case errors.Is(err, repository.ErrNotFound):
		return NoticeNotFound, true
	}
	return models.Notice{}, false
}
