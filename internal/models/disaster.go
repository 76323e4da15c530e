package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownSeverity = errors.New("unknown severity")
	ErrInvalidSupplies = errors.New("supplies has no leading amount")
)

const SuppliesUnit = "tons"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSeverity, s)
	}
}

// Rank orders severities low..critical as 0..3.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

type DisasterRecord struct {
	ID                 int      `json:"id"`
	Name               string   `json:"name"`
	Location           string   `json:"location"`
	Type               string   `json:"type"`
	Severity           Severity `json:"severity"`
	Affected           int      `json:"affected"`
	Teams              int      `json:"teams"`
	Supplies           string   `json:"supplies"`            // display string, e.g. "120 tons"
	ResourceAllocation int      `json:"resource_allocation"` // percent
}

// SuppliesAmount returns the leading integer of Supplies, ignoring the unit
// text after it.
func (d *DisasterRecord) SuppliesAmount() (int, error) {
	return LeadingInt(d.Supplies)
}

func FormatSupplies(amount int) string {
	return fmt.Sprintf("%d %s", amount, SuppliesUnit)
}

// LeadingInt parses an optionally signed run of digits at the start of s,
// after leading whitespace.
func LeadingInt(s string) (int, error) {
	s = strings.TrimLeft(s, " \t\n")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSupplies, s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSupplies, err)
	}
	return n, nil
}

// Zone is a geo-located disaster area shown on the relief map.
type Zone struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Severity  Severity `json:"severity"`
	Affected  int      `json:"affected"`
}
