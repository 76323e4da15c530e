package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownSource   = errors.New("unknown alert source")
	ErrUnknownStatus   = errors.New("unknown alert status")
	ErrUnknownPriority = errors.New("unknown alert priority")
)

type AlertSource string

const (
	SourceTwitter  AlertSource = "Twitter"
	SourceWhatsApp AlertSource = "WhatsApp"
	SourceSMS      AlertSource = "SMS"
	SourceFacebook AlertSource = "Facebook"
)

func ParseAlertSource(s string) (AlertSource, error) {
	switch strings.ToLower(s) {
	case "twitter":
		return SourceTwitter, nil
	case "whatsapp":
		return SourceWhatsApp, nil
	case "sms":
		return SourceSMS, nil
	case "facebook":
		return SourceFacebook, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
	}
}

type AlertStatus string

const (
	StatusPending   AlertStatus = "pending"
	StatusVerified  AlertStatus = "verified"
	StatusFake      AlertStatus = "fake"
	StatusDuplicate AlertStatus = "duplicate"
)

func ParseAlertStatus(s string) (AlertStatus, error) {
	switch strings.ToLower(s) {
	case "pending":
		return StatusPending, nil
	case "verified":
		return StatusVerified, nil
	case "fake":
		return StatusFake, nil
	case "duplicate":
		return StatusDuplicate, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// Rejected reports whether triage discarded the alert.
func (s AlertStatus) Rejected() bool {
	return s == StatusFake || s == StatusDuplicate
}

type Priority string

const (
	PriorityNone     Priority = "none"
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(s) {
	case "none":
		return PriorityNone, nil
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "critical":
		return PriorityCritical, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPriority, s)
	}
}

type Alert struct {
	ID          int         `json:"id"`
	Source      AlertSource `json:"source"`
	Text        string      `json:"text"`
	Timestamp   string      `json:"timestamp"` // display string, e.g. "10 mins ago"
	Status      AlertStatus `json:"status"`
	Confidence  int         `json:"confidence"`
	Priority    Priority    `json:"priority"`
	Location    string      `json:"location"`
	DuplicateOf int         `json:"duplicate_of,omitempty"`
	Reason      string      `json:"reason,omitempty"`
}

// Validate checks the enum fields and that fake alerts carry no priority.
func (a *Alert) Validate() error {
	if _, err := ParseAlertSource(string(a.Source)); err != nil {
		return err
	}
	if _, err := ParseAlertStatus(string(a.Status)); err != nil {
		return err
	}
	if _, err := ParsePriority(string(a.Priority)); err != nil {
		return err
	}
	if a.Confidence < 0 || a.Confidence > 100 {
		return fmt.Errorf("alert %d: confidence %d out of range", a.ID, a.Confidence)
	}
	if a.Status == StatusFake && a.Priority != PriorityNone {
		return fmt.Errorf("alert %d: fake alert must have priority none, got %s", a.ID, a.Priority)
	}
	return nil
}
