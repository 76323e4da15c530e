package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/mr1hm/go-relief-coordinator/internal/models"
)

// MemoryStore keeps every catalog in process memory. Reads return copies
// and lists preserve seed order.
type MemoryStore struct {
	mu        sync.RWMutex
	alerts    []models.Alert
	intake    []models.Alert
	disasters []models.DisasterRecord
	zones     []models.Zone
	tasks     []models.VolunteerTask
	profiles  map[string]models.VolunteerProfile
	roster    []models.Volunteer
	requests  map[string]models.ReliefRequest
}

func NewMemoryStore(cat Catalog) *MemoryStore {
	s := &MemoryStore{
		alerts:    slices.Clone(cat.Alerts),
		intake:    slices.Clone(cat.Intake),
		disasters: slices.Clone(cat.Disasters),
		zones:     slices.Clone(cat.Zones),
		profiles:  make(map[string]models.VolunteerProfile),
		requests:  make(map[string]models.ReliefRequest),
	}
	for _, t := range cat.Tasks {
		s.tasks = append(s.tasks, cloneTask(t))
	}
	for _, p := range cat.Profiles {
		s.profiles[p.ID] = cloneProfile(p)
	}
	for _, r := range cat.Requests {
		s.requests[r.ID] = cloneRequest(r)
	}
	for _, v := range cat.Roster {
		v.Skills = slices.Clone(v.Skills)
		s.roster = append(s.roster, v)
	}
	return s
}

func (s *MemoryStore) ListAlerts(_ context.Context) ([]models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.alerts), nil
}

func (s *MemoryStore) GetAlert(_ context.Context, id int) (*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.alerts {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("alert %d: %w", id, ErrNotFound)
}

func (s *MemoryStore) ListIntake(_ context.Context) ([]models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.intake), nil
}

func (s *MemoryStore) ListDisasters(_ context.Context, opts Filter) ([]models.DisasterRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]models.DisasterRecord, 0, len(s.disasters))
	for _, d := range s.disasters {
		if !opts.Match(&d) {
			continue
		}
		results = append(results, d)
		if opts.Limit > 0 && len(results) == opts.Limit {
			break
		}
	}
	return results, nil
}

func (s *MemoryStore) GetDisaster(_ context.Context, id int) (*models.DisasterRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.disasters {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("disaster %d: %w", id, ErrNotFound)
}

func (s *MemoryStore) UpdateDisaster(_ context.Context, d *models.DisasterRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.disasters {
		if s.disasters[i].ID == d.ID {
			s.disasters[i] = *d
			return nil
		}
	}
	return fmt.Errorf("disaster %d: %w", d.ID, ErrNotFound)
}

func (s *MemoryStore) ListZones(_ context.Context, zoneType string) ([]models.Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	zones := make([]models.Zone, 0, len(s.zones))
	for _, z := range s.zones {
		if zoneType == "" || strings.EqualFold(z.Type, zoneType) {
			zones = append(zones, z)
		}
	}
	return zones, nil
}

func (s *MemoryStore) ListTasks(_ context.Context) ([]models.VolunteerTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.VolunteerTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, cloneTask(t))
	}
	return out, nil
}

func (s *MemoryStore) GetTask(_ context.Context, id string) (*models.VolunteerTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			cp := cloneTask(t)
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
}

func (s *MemoryStore) UpdateTask(_ context.Context, t *models.VolunteerTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			s.tasks[i] = cloneTask(*t)
			return nil
		}
	}
	return fmt.Errorf("task %s: %w", t.ID, ErrNotFound)
}

func (s *MemoryStore) GetProfile(_ context.Context, id string) (*models.VolunteerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	cp := cloneProfile(p)
	return &cp, nil
}

func (s *MemoryStore) UpdateProfile(_ context.Context, p *models.VolunteerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.ID]; !ok {
		return fmt.Errorf("profile %s: %w", p.ID, ErrNotFound)
	}
	s.profiles[p.ID] = cloneProfile(*p)
	return nil
}

func (s *MemoryStore) AddRequest(_ context.Context, r *models.ReliefRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[r.ID]; exists {
		return fmt.Errorf("relief request %s already exists", r.ID)
	}
	s.requests[r.ID] = cloneRequest(*r)
	return nil
}

func (s *MemoryStore) GetRequest(_ context.Context, id string) (*models.ReliefRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("relief request %s: %w", id, ErrNotFound)
	}
	cp := cloneRequest(r)
	return &cp, nil
}

func (s *MemoryStore) ListVolunteers(_ context.Context) ([]models.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Volunteer, 0, len(s.roster))
	for _, v := range s.roster {
		v.Skills = slices.Clone(v.Skills)
		out = append(out, v)
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

// Match reports whether d passes the filter. Limit is not considered.
func (f Filter) Match(d *models.DisasterRecord) bool {
	if f.Severity != nil && d.Severity != *f.Severity {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		return strings.Contains(strings.ToLower(d.Name), q) ||
			strings.Contains(strings.ToLower(d.Location), q) ||
			strings.Contains(strings.ToLower(d.Type), q)
	}
	return true
}

func cloneTask(t models.VolunteerTask) models.VolunteerTask {
	t.RequiredSkills = slices.Clone(t.RequiredSkills)
	return t
}

func cloneProfile(p models.VolunteerProfile) models.VolunteerProfile {
	p.Skills = slices.Clone(p.Skills)
	p.Certifications = slices.Clone(p.Certifications)
	return p
}

func cloneRequest(r models.ReliefRequest) models.ReliefRequest {
	r.Timeline = slices.Clone(r.Timeline)
	r.Items = slices.Clone(r.Items)
	r.Notes = slices.Clone(r.Notes)
	return r
}
