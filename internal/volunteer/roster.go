package volunteer

import (
	"math"
	"slices"
	"strings"

	"github.com/mr1hm/go-relief-coordinator/internal/models"
)

// RosterQuery narrows the coordinator roster. An empty Status means every tab.
type RosterQuery struct {
	Search string
	Status models.VolunteerStatus
}

// ParseRosterStatus reads the status tab; "" and "all" select everyone.
func ParseRosterStatus(s string) (models.VolunteerStatus, error) {
	if s == "" || strings.EqualFold(s, "all") {
		return "", nil
	}
	return models.ParseVolunteerStatus(s)
}

// Match searches name, email, location and skills case-insensitively.
func (q RosterQuery) Match(v *models.Volunteer) bool {
	if q.Status != "" && v.Status != q.Status {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(q.Search))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(v.Name), term) ||
		strings.Contains(strings.ToLower(v.Email), term) ||
		strings.Contains(strings.ToLower(v.Location), term) {
		return true
	}
	return slices.ContainsFunc(v.Skills, func(s string) bool {
		return strings.Contains(strings.ToLower(s), term)
	})
}

type RosterStats struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	Pending        int `json:"pending"`
	Inactive       int `json:"inactive"`
	ActivePercent  int `json:"active_percent"`
	Tasks          int `json:"tasks"`
	CompletedTasks int `json:"completed_tasks"`
	CompletionRate int `json:"completion_rate"`
}

// Roster is the dashboard view: the matching volunteers plus stats over the
// whole roster, which do not change with the query.
type Roster struct {
	Volunteers []models.Volunteer `json:"volunteers"`
	Stats      RosterStats        `json:"stats"`
}

func Stats(roster []models.Volunteer) RosterStats {
	var s RosterStats
	for _, v := range roster {
		s.Total++
		switch v.Status {
		case models.VolunteerActive:
			s.Active++
		case models.VolunteerPending:
			s.Pending++
		case models.VolunteerInactive:
			s.Inactive++
		}
		s.Tasks += v.Tasks
		s.CompletedTasks += v.CompletedTasks
	}
	s.ActivePercent = percent(s.Active, s.Total)
	s.CompletionRate = percent(s.CompletedTasks, s.Tasks)
	return s
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func FilterRoster(roster []models.Volunteer, q RosterQuery) Roster {
	out := Roster{Volunteers: []models.Volunteer{}, Stats: Stats(roster)}
	for i := range roster {
		if q.Match(&roster[i]) {
			out.Volunteers = append(out.Volunteers, roster[i])
		}
	}
	return out
}
