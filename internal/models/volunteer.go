package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownUrgency         = errors.New("unknown urgency")
	ErrUnknownVolunteerStatus = errors.New("unknown volunteer status")
)

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

func ParseUrgency(s string) (Urgency, error) {
	switch strings.ToLower(s) {
	case "low":
		return UrgencyLow, nil
	case "medium":
		return UrgencyMedium, nil
	case "high":
		return UrgencyHigh, nil
	case "critical":
		return UrgencyCritical, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownUrgency, s)
	}
}

func (u Urgency) Rank() int {
	switch u {
	case UrgencyCritical:
		return 3
	case UrgencyHigh:
		return 2
	case UrgencyMedium:
		return 1
	default:
		return 0
	}
}

type VolunteerTask struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Location           string   `json:"location"`
	Date               string   `json:"date"` // YYYY-MM-DD
	DurationHours      int      `json:"duration_hours"`
	RequiredSkills     []string `json:"required_skills"`
	VolunteersNeeded   int      `json:"volunteers_needed"`
	VolunteersAssigned int      `json:"volunteers_assigned"`
	Urgency            Urgency  `json:"urgency"`
	Status             string   `json:"status"`
	Coordinator        string   `json:"coordinator"`
}

// OpenSlots is how many more volunteers the task can take.
func (t *VolunteerTask) OpenSlots() int {
	if n := t.VolunteersNeeded - t.VolunteersAssigned; n > 0 {
		return n
	}
	return 0
}

// City is the second comma-separated part of Location, if any.
func (t *VolunteerTask) City() string {
	parts := strings.Split(t.Location, ",")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

type Certification struct {
	Name    string `json:"name"`
	Issuer  string `json:"issuer"`
	Date    string `json:"date"`
	Expires string `json:"expires"`
}

type VolunteerProfile struct {
	ID                 string          `json:"id"`
	FirstName          string          `json:"first_name"`
	LastName           string          `json:"last_name"`
	Email              string          `json:"email"`
	Phone              string          `json:"phone"`
	Location           string          `json:"location"`
	JoinDate           string          `json:"join_date"`
	Bio                string          `json:"bio"`
	Skills             []string        `json:"skills"`
	Availability       string          `json:"availability"`
	VerificationStatus string          `json:"verification_status"`
	CompletedMissions  int             `json:"completed_missions"`
	HoursContributed   int             `json:"hours_contributed"`
	Certifications     []Certification `json:"certifications"`
}

// Initials is the upper-cased first letter of first and last name.
func (p *VolunteerProfile) Initials() string {
	var b strings.Builder
	for _, s := range []string{p.FirstName, p.LastName} {
		for _, r := range s {
			b.WriteString(strings.ToUpper(string(r)))
			break
		}
	}
	return b.String()
}

type VolunteerStatus string

const (
	VolunteerActive   VolunteerStatus = "active"
	VolunteerPending  VolunteerStatus = "pending"
	VolunteerInactive VolunteerStatus = "inactive"
)

func ParseVolunteerStatus(s string) (VolunteerStatus, error) {
	switch strings.ToLower(s) {
	case "active":
		return VolunteerActive, nil
	case "pending":
		return VolunteerPending, nil
	case "inactive":
		return VolunteerInactive, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVolunteerStatus, s)
	}
}

// Volunteer is one row of the coordinator roster.
type Volunteer struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Location       string          `json:"location"`
	Skills         []string        `json:"skills"`
	Availability   string          `json:"availability"`
	Experience     string          `json:"experience"`
	Status         VolunteerStatus `json:"status"`
	Tasks          int             `json:"tasks"`
	CompletedTasks int             `json:"completed_tasks"`
	JoinedDate     string          `json:"joined_date"`
}
