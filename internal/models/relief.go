package models

import "time"

type ReliefStatus string

const (
	ReliefSubmitted   ReliefStatus = "submitted"
	ReliefUnderReview ReliefStatus = "under_review"
	ReliefApproved    ReliefStatus = "approved"
	ReliefInProgress  ReliefStatus = "in_progress"
	ReliefDelivered   ReliefStatus = "delivered"
)

// ReliefTypes lists the selectable relief types by id.
var ReliefTypes = map[string]string{
	"food":       "Food & Water",
	"medical":    "Medical Assistance",
	"shelter":    "Temporary Shelter",
	"evacuation": "Evacuation Support",
	"supplies":   "Essential Supplies",
	"rescue":     "Search & Rescue",
}

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type ReliefLocation struct {
	Area    string `json:"area"`
	Address string `json:"address,omitempty"`
}

type TimelineEntry struct {
	Date        time.Time    `json:"date"`
	Status      ReliefStatus `json:"status"`
	Description string       `json:"description"`
}

type ReliefItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Status   string `json:"status"`
}

type ReliefNote struct {
	Date   time.Time `json:"date"`
	Author string    `json:"author"`
	Text   string    `json:"text"`
}

type ReliefRequest struct {
	ID                  string          `json:"id"`
	Status              ReliefStatus    `json:"status"`
	Type                string          `json:"type"`
	Urgency             Urgency         `json:"urgency"`
	Contact             Contact         `json:"contact"`
	Location            ReliefLocation  `json:"location"`
	PeopleCount         int             `json:"people_count"`
	SpecialNeeds        bool            `json:"special_needs"`
	SpecialNeedsDetails string          `json:"special_needs_details,omitempty"`
	Description         string          `json:"description,omitempty"`
	AssignedTeam        string          `json:"assigned_team,omitempty"`
	EstimatedDelivery   string          `json:"estimated_delivery,omitempty"`
	Timeline            []TimelineEntry `json:"timeline"`
	Items               []ReliefItem    `json:"items"`
	Notes               []ReliefNote    `json:"notes"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}
