package wizard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mr1hm/go-relief-coordinator/internal/models"
	"github.com/mr1hm/go-relief-coordinator/internal/repository"
)

// ReliefRecorder stores relief request submissions so they can be tracked.
// Other form kinds are accepted without being stored.
type ReliefRecorder struct {
	Repo repository.ReliefRepository
}

func (r ReliefRecorder) Record(ctx context.Context, rc Receipt) error {
	if rc.Kind != KindReliefRequest {
		return nil
	}
	req, err := NewReliefRequest(rc)
	if err != nil {
		return err
	}
	if err := r.Repo.AddRequest(ctx, req); err != nil {
		return fmt.Errorf("store relief request: %w", err)
	}
	return nil
}

// NewReliefRequest builds the tracked record for a relief submission.
func NewReliefRequest(rc Receipt) (*models.ReliefRequest, error) {
	f := rc.Fields
	urgency, err := models.ParseUrgency(f["urgency"])
	if err != nil {
		return nil, err
	}
	people, err := strconv.Atoi(strings.TrimSpace(f["people_count"]))
	if err != nil || people < 1 {
		people = 1
	}
	return &models.ReliefRequest{
		ID:      rc.ID,
		Status:  models.ReliefSubmitted,
		Type:    f["relief_type"],
		Urgency: urgency,
		Contact: models.Contact{
			Name:  f["full_name"],
			Phone: f["phone"],
			Email: f["email"],
		},
		Location: models.ReliefLocation{
			Area:    f["location"],
			Address: f["address"],
		},
		PeopleCount:         people,
		SpecialNeeds:        f.Bool("special_needs"),
		SpecialNeedsDetails: f["special_needs_details"],
		Description:         f["description"],
		Timeline: []models.TimelineEntry{{
			Date:        rc.SubmittedAt,
			Status:      models.ReliefSubmitted,
			Description: "Request submitted and received by the system.",
		}},
		Items:     []models.ReliefItem{},
		Notes:     []models.ReliefNote{},
		CreatedAt: rc.SubmittedAt,
		UpdatedAt: rc.SubmittedAt,
	}, nil
}
