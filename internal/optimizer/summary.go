package optimizer

import (
	"context"

	"github.com/mr1hm/go-relief-coordinator/internal/models"
	"github.com/mr1hm/go-relief-coordinator/internal/repository"
)

// Summary aggregates the ledger for the dashboard resource cards.
type Summary struct {
	Disasters         int `json:"disasters"`
	Critical          int `json:"critical"`
	Affected          int `json:"affected"`
	Teams             int `json:"teams"`
	SuppliesTons      int `json:"supplies_tons"`
	AverageAllocation int `json:"average_allocation"`
}

func Summarize(records []models.DisasterRecord) Summary {
	var s Summary
	allocation := 0
	for i := range records {
		d := &records[i]
		s.Disasters++
		s.Affected += d.Affected
		s.Teams += d.Teams
		allocation += d.ResourceAllocation
		if d.Severity == models.SeverityCritical {
			s.Critical++
		}
		// records without a parsable amount add nothing
		if n, err := d.SuppliesAmount(); err == nil {
			s.SuppliesTons += n
		}
	}
	if s.Disasters > 0 {
		s.AverageAllocation = allocation / s.Disasters
	}
	return s
}

func (o *Optimizer) Summary(ctx context.Context) (Summary, error) {
	records, err := o.repo.ListDisasters(ctx, repository.Filter{})
	if err != nil {
		return Summary{}, err
	}
	return Summarize(records), nil
}
