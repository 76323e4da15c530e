// Command relief-catalog opens the configured store, seeding it on first use,
// and logs what the catalog holds.
package main

import (
	"context"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/mr1hm/go-relief-coordinator/internal/config"
	"github.com/mr1hm/go-relief-coordinator/internal/logging"
	"github.com/mr1hm/go-relief-coordinator/internal/optimizer"
	"github.com/mr1hm/go-relief-coordinator/internal/repository"
	"github.com/mr1hm/go-relief-coordinator/internal/triage"
	"github.com/mr1hm/go-relief-coordinator/internal/volunteer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, "relief-catalog")

	ctx := context.Background()
	store, err := repository.Open(ctx, cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		logging.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	alerts, err := store.ListAlerts(ctx)
	if err != nil {
		logging.Fatalf("Failed to list alerts: %v", err)
	}
	counts := triage.Count(alerts)
	slog.Info("alerts", "total", counts.Total, "verified", counts.Verified, "critical", counts.Critical, "fake", counts.Fake)

	intake, err := store.ListIntake(ctx)
	if err != nil {
		logging.Fatalf("Failed to list intake: %v", err)
	}
	inbox := triage.GroupByStatus(intake)
	slog.Info("intake", "incoming", len(inbox.Incoming), "verified", len(inbox.Verified), "rejected", len(inbox.Rejected))

	disasters, err := store.ListDisasters(ctx, repository.Filter{})
	if err != nil {
		logging.Fatalf("Failed to list disasters: %v", err)
	}
	s := optimizer.Summarize(disasters)
	slog.Info("disasters", "count", s.Disasters, "critical", s.Critical, "affected", s.Affected, "teams", s.Teams, "supplies_tons", s.SuppliesTons)

	zones, err := store.ListZones(ctx, "")
	if err != nil {
		logging.Fatalf("Failed to list zones: %v", err)
	}
	tasks, err := store.ListTasks(ctx)
	if err != nil {
		logging.Fatalf("Failed to list tasks: %v", err)
	}
	roster, err := store.ListVolunteers(ctx)
	if err != nil {
		logging.Fatalf("Failed to list roster: %v", err)
	}
	rs := volunteer.Stats(roster)
	slog.Info("roster", "volunteers", rs.Total, "active", rs.Active, "pending", rs.Pending, "completion_rate", rs.CompletionRate)

	slog.Info("catalog ready", "zones", len(zones), "tasks", len(tasks), "driver", cfg.Store.Driver, "path", cfg.Store.Path)
}
