// Package triage filters and groups the alert catalog for the triage views.
// Filtering never reorders: every result is a subsequence of its input.
package triage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mr1hm/go-relief-coordinator/internal/models"
)

var ErrUnknownFilter = errors.New("unknown triage filter")

const NoMatchesMessage = "No messages match this filter."

type Filter string

const (
	FilterAll      Filter = "all"
	FilterVerified Filter = "verified"
	FilterCritical Filter = "critical"
	FilterFake     Filter = "fake"
)

// Filters lists every filter in tab order.
var Filters = []Filter{FilterAll, FilterVerified, FilterCritical, FilterFake}

// ParseFilter maps a query value to a Filter. An empty value selects
// FilterAll; anything else outside the enum is rejected.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "verified":
		return FilterVerified, nil
	case "critical":
		return FilterCritical, nil
	case "fake":
		return FilterFake, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFilter, s)
	}
}

// Match reports whether a passes the filter.
func (f Filter) Match(a *models.Alert) bool {
	switch f {
	case FilterAll:
		return true
	case FilterVerified:
		return a.Status == models.StatusVerified
	case FilterCritical:
		return a.Priority == models.PriorityCritical
	case FilterFake:
		return a.Status == models.StatusFake
	default:
		return false
	}
}

// Apply returns the alerts matching f in their original order. FilterAll
// returns alerts itself.
func Apply(alerts []models.Alert, f Filter) []models.Alert {
	if f == FilterAll {
		return alerts
	}
	out := make([]models.Alert, 0, len(alerts))
	for i := range alerts {
		if f.Match(&alerts[i]) {
			out = append(out, alerts[i])
		}
	}
	return out
}

// Counts backs the tab badges.
type Counts struct {
	Total    int `json:"total"`
	Verified int `json:"verified"`
	Critical int `json:"critical"`
	Fake     int `json:"fake"`
}

func Count(alerts []models.Alert) Counts {
	c := Counts{Total: len(alerts)}
	for i := range alerts {
		if FilterVerified.Match(&alerts[i]) {
			c.Verified++
		}
		if FilterCritical.Match(&alerts[i]) {
			c.Critical++
		}
		if FilterFake.Match(&alerts[i]) {
			c.Fake++
		}
	}
	return c
}

type View struct {
	Filter       Filter         `json:"filter"`
	Alerts       []models.Alert `json:"alerts"`
	Counts       Counts         `json:"counts"`
	Empty        bool           `json:"empty"`
	EmptyMessage string         `json:"empty_message,omitempty"`
}

// Present builds the filtered view. Counts always cover the full catalog.
func Present(alerts []models.Alert, f Filter) View {
	v := View{
		Filter: f,
		Alerts: Apply(alerts, f),
		Counts: Count(alerts),
	}
	if len(v.Alerts) == 0 {
		v.Alerts = []models.Alert{}
		v.Empty = true
		v.EmptyMessage = NoMatchesMessage
	}
	return v
}

// Inbox splits intake messages into the incoming, verified and rejected tabs.
type Inbox struct {
	Incoming []models.Alert `json:"incoming"`
	Verified []models.Alert `json:"verified"`
	Rejected []models.Alert `json:"rejected"`
}

func GroupByStatus(alerts []models.Alert) Inbox {
	in := Inbox{
		Incoming: []models.Alert{},
		Verified: []models.Alert{},
		Rejected: []models.Alert{},
	}
	for _, a := range alerts {
		switch a.Status {
		case models.StatusPending:
			in.Incoming = append(in.Incoming, a)
		case models.StatusVerified:
			in.Verified = append(in.Verified, a)
		case models.StatusFake, models.StatusDuplicate:
			in.Rejected = append(in.Rejected, a)
		}
	}
	return in
}

// Search keeps alerts whose text or location contains query, case-insensitively.
func Search(alerts []models.Alert, query string) []models.Alert {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return alerts
	}
	out := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		if strings.Contains(strings.ToLower(a.Text), q) || strings.Contains(strings.ToLower(a.Location), q) {
			out = append(out, a)
		}
	}
	return out
}
