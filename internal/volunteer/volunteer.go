// Package volunteer serves the volunteer task board, the volunteer's own
// profile and the coordinator roster.
package volunteer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mr1hm/go-relief-coordinator/internal/events"
	"github.com/mr1hm/go-relief-coordinator/internal/metrics"
	"github.com/mr1hm/go-relief-coordinator/internal/models"
	"github.com/mr1hm/go-relief-coordinator/internal/repository"
)

var (
	ErrTaskFull       = errors.New("task has no open slots")
	ErrInvalidProfile = errors.New("invalid profile")
)

var (
	NoticeSignedUp       = models.Info("Task sign-up successful", "You have been added to the volunteer list for this task.")
	NoticeProfileUpdated = models.Info("Profile updated", "Your profile information has been updated successfully.")
)

type Service struct {
	tasks    repository.TaskRepository
	profiles repository.ProfileRepository
	roster   repository.RosterRepository
	pub      events.Publisher
	metrics  *metrics.Metrics

	// serializes sign-up read-modify-write
	mu sync.Mutex
}

func NewService(tasks repository.TaskRepository, profiles repository.ProfileRepository, roster repository.RosterRepository, pub events.Publisher, m *metrics.Metrics) *Service {
	if pub == nil {
		pub = events.Discard{}
	}
	return &Service{tasks: tasks, profiles: profiles, roster: roster, pub: pub, metrics: m}
}

func (s *Service) Tasks(ctx context.Context, q Query) ([]models.VolunteerTask, error) {
	tasks, err := s.tasks.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return Apply(tasks, q), nil
}

func (s *Service) Roster(ctx context.Context, q RosterQuery) (Roster, error) {
	roster, err := s.roster.ListVolunteers(ctx)
	if err != nil {
		return Roster{}, err
	}
	return FilterRoster(roster, q), nil
}

// SignUp adds one volunteer to task id.
func (s *Service) SignUp(ctx context.Context, id string) (*models.VolunteerTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.OpenSlots() == 0 {
		return nil, fmt.Errorf("task %s: %w", id, ErrTaskFull)
	}
	t.VolunteersAssigned++
	if err := s.tasks.UpdateTask(ctx, t); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.VolunteerSignups.Inc()
	}
	s.pub.Publish(events.Event{Type: events.TaskSignup, Data: t})
	return t, nil
}

func (s *Service) Profile(ctx context.Context, id string) (*models.VolunteerProfile, error) {
	return s.profiles.GetProfile(ctx, id)
}

// ProfileUpdate holds the editable profile fields. Nil fields are left
// unchanged.
type ProfileUpdate struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Location     *string `json:"location"`
	Bio          *string `json:"bio"`
	Availability *string `json:"availability"`
}

func (u ProfileUpdate) apply(p *models.VolunteerProfile) error {
	set := func(dst *string, v *string, name string, required bool) error {
		if v == nil {
			return nil
		}
		if required && strings.TrimSpace(*v) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidProfile, name)
		}
		*dst = *v
		return nil
	}
	return errors.Join(
		set(&p.FirstName, u.FirstName, "first_name", true),
		set(&p.LastName, u.LastName, "last_name", true),
		set(&p.Email, u.Email, "email", true),
		set(&p.Phone, u.Phone, "phone", false),
		set(&p.Location, u.Location, "location", false),
		set(&p.Bio, u.Bio, "bio", false),
		set(&p.Availability, u.Availability, "availability", false),
	)
}

func (s *Service) UpdateProfile(ctx context.Context, id string, u ProfileUpdate) (*models.VolunteerProfile, error) {
	p, err := s.profiles.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.apply(p); err != nil {
		return nil, err
	}
	if err := s.profiles.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
