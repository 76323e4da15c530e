package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mr1hm/go-relief-coordinator/internal/models"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	if err := db.Seed(context.Background(), DefaultCatalog()); err != nil {
		t.Fatalf("failed to seed test db: %v", err)
	}
	return db
}

// stores returns every backend seeded with the default catalog.
func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(DefaultCatalog()),
		"sqlite": setupTestDB(t),
	}
}

func TestStore_ListAlertsPreservesOrder(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			alerts, err := s.ListAlerts(context.Background())
			if err != nil {
				t.Fatalf("ListAlerts failed: %v", err)
			}
			if len(alerts) != 7 {
				t.Fatalf("expected 7 alerts, got %d", len(alerts))
			}
			for i, a := range alerts {
				if a.ID != i+1 {
					t.Errorf("position %d: expected id %d, got %d", i, i+1, a.ID)
				}
				if err := a.Validate(); err != nil {
					t.Errorf("seeded alert invalid: %v", err)
				}
			}

			intake, err := s.ListIntake(context.Background())
			if err != nil {
				t.Fatalf("ListIntake failed: %v", err)
			}
			if len(intake) != 10 {
				t.Errorf("expected 10 intake alerts, got %d", len(intake))
			}
		})
	}
}

func TestStore_GetAlertNotFound(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			_, err := s.GetAlert(context.Background(), 999)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStore_ListDisasters_WithFilters(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			ctx := context.Background()

			all, err := s.ListDisasters(ctx, Filter{})
			if err != nil {
				t.Fatalf("ListDisasters failed: %v", err)
			}
			if len(all) != 5 {
				t.Errorf("expected 5 disasters, got %d", len(all))
			}

			// "india" matches two locations
			results, err := s.ListDisasters(ctx, Filter{Query: "INDIA"})
			if err != nil {
				t.Fatalf("ListDisasters failed: %v", err)
			}
			if len(results) != 2 {
				t.Errorf("expected 2 disasters in India, got %d", len(results))
			}

			medium := models.SeverityMedium
			results, err = s.ListDisasters(ctx, Filter{Severity: &medium})
			if err != nil {
				t.Fatalf("ListDisasters failed: %v", err)
			}
			if len(results) != 2 {
				t.Errorf("expected 2 medium disasters, got %d", len(results))
			}

			results, err = s.ListDisasters(ctx, Filter{Limit: 3})
			if err != nil {
				t.Fatalf("ListDisasters failed: %v", err)
			}
			if len(results) != 3 {
				t.Errorf("expected 3 disasters with limit, got %d", len(results))
			}
			if results[0].ID != 1 || results[2].ID != 3 {
				t.Errorf("expected seed order, got ids %d..%d", results[0].ID, results[2].ID)
			}
		})
	}
}

func TestStore_UpdateDisaster(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			ctx := context.Background()

			d, err := s.GetDisaster(ctx, 1)
			if err != nil {
				t.Fatalf("GetDisaster failed: %v", err)
			}
			d.Teams = 32
			d.Supplies = "145 tons"
			if err := s.UpdateDisaster(ctx, d); err != nil {
				t.Fatalf("UpdateDisaster failed: %v", err)
			}

			got, err := s.GetDisaster(ctx, 1)
			if err != nil {
				t.Fatalf("GetDisaster failed: %v", err)
			}
			if got.Teams != 32 || got.Supplies != "145 tons" {
				t.Errorf("update not applied: %+v", got)
			}

			err = s.UpdateDisaster(ctx, &models.DisasterRecord{ID: 42})
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStore_ListZones(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			ctx := context.Background()

			zones, err := s.ListZones(ctx, "")
			if err != nil {
				t.Fatalf("ListZones failed: %v", err)
			}
			if len(zones) != 5 {
				t.Fatalf("expected 5 zones, got %d", len(zones))
			}
			if zones[1].Name != "Earthquake Site Beta" || zones[1].Latitude != 19.0760 || zones[1].Severity != models.SeverityCritical {
				t.Errorf("unexpected zone %+v", zones[1])
			}

			floods, err := s.ListZones(ctx, "FLOOD")
			if err != nil {
				t.Fatalf("ListZones failed: %v", err)
			}
			if len(floods) != 1 || floods[0].ID != 1 {
				t.Errorf("expected only zone 1, got %+v", floods)
			}
		})
	}
}

func TestStore_TasksAndProfiles(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			ctx := context.Background()

			task, err := s.GetTask(ctx, "task-003")
			if err != nil {
				t.Fatalf("GetTask failed: %v", err)
			}
			task.VolunteersAssigned++
			if err := s.UpdateTask(ctx, task); err != nil {
				t.Fatalf("UpdateTask failed: %v", err)
			}
			tasks, err := s.ListTasks(ctx)
			if err != nil {
				t.Fatalf("ListTasks failed: %v", err)
			}
			if tasks[2].VolunteersAssigned != 7 {
				t.Errorf("expected 7 assigned, got %d", tasks[2].VolunteersAssigned)
			}

			p, err := s.GetProfile(ctx, DefaultProfileID)
			if err != nil {
				t.Fatalf("GetProfile failed: %v", err)
			}
			p.Bio = "updated"
			if err := s.UpdateProfile(ctx, p); err != nil {
				t.Fatalf("UpdateProfile failed: %v", err)
			}
			p, _ = s.GetProfile(ctx, DefaultProfileID)
			if p.Bio != "updated" {
				t.Errorf("expected bio updated, got %q", p.Bio)
			}
		})
	}
}

func TestStore_ReliefRequests(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			ctx := context.Background()

			sample, err := s.GetRequest(ctx, SampleRequestID)
			if err != nil {
				t.Fatalf("GetRequest failed: %v", err)
			}
			if len(sample.Timeline) != 4 || sample.AssignedTeam != "Team Alpha" {
				t.Errorf("unexpected sample request: %+v", sample)
			}

			req := &models.ReliefRequest{ID: "REQ-654321", Status: models.ReliefSubmitted, Type: "medical", CreatedAt: time.Now()}
			if err := s.AddRequest(ctx, req); err != nil {
				t.Fatalf("AddRequest failed: %v", err)
			}
			if err := s.AddRequest(ctx, req); err == nil {
				t.Error("expected error for duplicate request id, got nil")
			}

			got, err := s.GetRequest(ctx, "REQ-654321")
			if err != nil {
				t.Fatalf("GetRequest failed: %v", err)
			}
			if got.Type != "medical" {
				t.Errorf("expected type medical, got %q", got.Type)
			}

			_, err = s.GetRequest(ctx, "REQ-000000")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore(DefaultCatalog())
	ctx := context.Background()

	tasks, _ := s.ListTasks(ctx)
	tasks[0].RequiredSkills[0] = "mutated"

	got, _ := s.GetTask(ctx, tasks[0].ID)
	if got.RequiredSkills[0] == "mutated" {
		t.Error("store shares slices with callers")
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "postgres", ""); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestStore_ListVolunteers(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			roster, err := s.ListVolunteers(context.Background())
			if err != nil {
				t.Fatalf("ListVolunteers failed: %v", err)
			}
			if len(roster) != 8 {
				t.Fatalf("expected 8 volunteers, got %d", len(roster))
			}
			if roster[0].Name != "Rahul Sharma" || roster[7].Status != models.VolunteerInactive {
				t.Errorf("unexpected roster order: %s ... %s", roster[0].Name, roster[7].Status)
			}
			if len(roster[2].Skills) != 3 {
				t.Errorf("expected skills to survive storage, got %v", roster[2].Skills)
			}
		})
	}
}

func TestOpen_ReopensSQLiteFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "relief.db")

	first, err := Open(ctx, DriverSQLite, path)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	d, _ := first.GetDisaster(ctx, 1)
	d.Teams = 99
	if err := first.UpdateDisaster(ctx, d); err != nil {
		t.Fatalf("UpdateDisaster failed: %v", err)
	}
	first.Close()

	second, err := Open(ctx, DriverSQLite, path)
	if err != nil {
		t.Fatalf("reopening an existing file failed: %v", err)
	}
	defer second.Close()

	got, err := second.GetDisaster(ctx, 1)
	if err != nil {
		t.Fatalf("GetDisaster failed: %v", err)
	}
	if got.Teams != 99 {
		t.Errorf("expected stored teams 99 to survive reopen, got %d", got.Teams)
	}
	alerts, _ := second.ListAlerts(ctx)
	if len(alerts) != 7 {
		t.Errorf("expected catalog seeded once (7 alerts), got %d", len(alerts))
	}
}

func TestOpen_RejectsInvalidCatalog(t *testing.T) {
	cat := DefaultCatalog()
	cat.Alerts[3].Priority = models.PriorityHigh // alert 4 is fake

	for _, driver := range []string{DriverMemory, DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			if _, err := open(context.Background(), driver, ":memory:", cat); err == nil {
				t.Error("expected a fake alert with a priority to be rejected")
			}
		})
	}
}
