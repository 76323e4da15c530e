package repository

import (
	"context"
	"errors"

	"github.com/mr1hm/go-relief-coordinator/internal/models"
)

var ErrNotFound = errors.New("not found")

type Filter struct {
	Query    string           // case-insensitive match on name, location or type
	Severity *models.Severity // exact severity
	Limit    int
}

type AlertRepository interface {
	ListAlerts(ctx context.Context) ([]models.Alert, error)
	GetAlert(ctx context.Context, id int) (*models.Alert, error)
	// ListIntake returns the triage inbox: incoming, verified and rejected messages.
	ListIntake(ctx context.Context) ([]models.Alert, error)
}

type DisasterRepository interface {
	ListDisasters(ctx context.Context, opts Filter) ([]models.DisasterRecord, error)
	GetDisaster(ctx context.Context, id int) (*models.DisasterRecord, error)
	UpdateDisaster(ctx context.Context, d *models.DisasterRecord) error
}

type ZoneRepository interface {
	// ListZones returns map zones of the given type, or all zones if zoneType is empty.
	ListZones(ctx context.Context, zoneType string) ([]models.Zone, error)
}

type TaskRepository interface {
	ListTasks(ctx context.Context) ([]models.VolunteerTask, error)
	GetTask(ctx context.Context, id string) (*models.VolunteerTask, error)
	UpdateTask(ctx context.Context, t *models.VolunteerTask) error
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, id string) (*models.VolunteerProfile, error)
	UpdateProfile(ctx context.Context, p *models.VolunteerProfile) error
}

type RosterRepository interface {
	// ListVolunteers returns the coordinator roster in seed order.
	ListVolunteers(ctx context.Context) ([]models.Volunteer, error)
}

type ReliefRepository interface {
	AddRequest(ctx context.Context, r *models.ReliefRequest) error
	GetRequest(ctx context.Context, id string) (*models.ReliefRequest, error)
}

// Store is the full set of repositories a backend provides.
type Store interface {
	AlertRepository
	DisasterRepository
	ZoneRepository
	TaskRepository
	ProfileRepository
	RosterRepository
	ReliefRepository
	Close() error
}
